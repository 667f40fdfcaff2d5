package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhanaBhai/unposted/config"
	"github.com/dhanaBhai/unposted/logging"
	"github.com/dhanaBhai/unposted/pipeline"
	"github.com/dhanaBhai/unposted/report"
)

const summaryRows = 10

var (
	audioPath      string
	transcriptPath string
	valencePath    string
	outputPath     string
	configPath     string
	plotFlag       bool
	verbose        bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "prosody",
		Short: "Sentence-level prosody analysis for spoken journal entries",
		Long: `prosody aligns a transcript against its audio recording, extracts
acoustic features for every sentence, joins them with per-sentence valence
scores, and writes a JSON report with a CSV mirror.`,
		SilenceUsage: true,
		RunE:         run,
	}

	rootCmd.Flags().StringVar(&audioPath, "audio", "", "audio file to analyze (required)")
	rootCmd.Flags().StringVar(&transcriptPath, "transcript", "", "transcript file, one sentence per line (required)")
	rootCmd.Flags().StringVar(&valencePath, "valence", "", "per-sentence valence file, JSON or CSV (required)")
	rootCmd.Flags().StringVar(&outputPath, "out", "prosody_report.json", "output report path")
	rootCmd.Flags().StringVar(&configPath, "config", "", "optional YAML config file")
	rootCmd.Flags().BoolVar(&plotFlag, "plot", false, "render a valence correlation scatter next to the report")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	for _, flag := range []string{"audio", "transcript", "valence"} {
		if err := rootCmd.MarkFlagRequired(flag); err != nil {
			panic(err)
		}
	}

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

	p, err := pipeline.New(cfg)
	if err != nil {
		return err
	}

	rep, err := p.Run(context.Background(), pipeline.Options{
		AudioPath:      audioPath,
		TranscriptPath: transcriptPath,
		ValencePath:    valencePath,
		OutputPath:     outputPath,
		Plot:           plotFlag,
	})
	if err != nil {
		return err
	}

	printSummary(cmd, rep)
	return nil
}

func printSummary(cmd *cobra.Command, rep *report.Report) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Analyzed %d sentences over %.1fs of audio\n", rep.Summary.SentenceCount, rep.Summary.TotalDuration)
	fmt.Fprintf(out, "Mean valence %.3f, mean F0 %.1f Hz\n\n", rep.Summary.MeanValence, rep.Summary.MeanF0)

	fmt.Fprintf(out, "%-5s %-8s %-8s %-8s %-9s %s\n", "#", "valence", "f0", "rms", "duration", "text")
	for i, rec := range rep.Sentences {
		if i >= summaryRows {
			fmt.Fprintf(out, "... and %d more sentences\n", len(rep.Sentences)-summaryRows)
			break
		}
		fmt.Fprintf(out, "%-5d %-8.3f %-8.1f %-8.4f %-9.2f %s\n",
			rec.Index, rec.Valence, rec.Features.MeanF0, rec.Features.MeanRMS,
			rec.Features.Duration, previewText(rec.Text))
	}

	fmt.Fprintf(out, "\nReport written to %s\n", outputPath)
}

// previewText truncates long sentences for the summary table. Truncation
// works on runes so multibyte text is never cut mid-character.
func previewText(text string) string {
	runes := []rune(text)
	if len(runes) > 30 {
		return string(runes[:27]) + "..."
	}
	return text
}
