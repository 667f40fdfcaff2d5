package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhanaBhai/unposted/config"
	"github.com/dhanaBhai/unposted/logging"
	"github.com/dhanaBhai/unposted/valence"
)

var (
	configPath string
	detailed   bool
	verbose    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "valence [text...]",
		Short: "Score the emotional valence of text",
		Long: `valence normalizes text (lowercasing, filler removal), splits it into
sentences, scores each with a VADER sentiment model, and prints the
length-weighted aggregate as JSON. Text comes from the arguments or, when
none are given, from stdin.`,
		SilenceUsage: true,
		RunE:         run,
	}

	rootCmd.Flags().StringVar(&configPath, "config", "", "optional YAML config file")
	rootCmd.Flags().BoolVar(&detailed, "detailed", false, "include the per-sentence breakdown")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if verbose {
		logging.SetLevel(logging.DebugLevel)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	text := strings.Join(args, " ")
	if strings.TrimSpace(text) == "" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		text = string(data)
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("no text to score: pass arguments or pipe text on stdin")
	}

	analyzer := valence.NewAnalyzer(cfg.Text.FillerPhrases)

	var result any
	if detailed {
		result = analyzer.ScoreDetailed(text)
	} else {
		result = analyzer.Score(text)
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}
