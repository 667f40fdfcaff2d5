package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dhanaBhai/unposted/logging"
)

// csvHeader lists report columns in output order. The pitch contour stays out
// of the CSV: it is a variable-length series that only the JSON carries.
var csvHeader = []string{
	"index", "text", "valence", "start_time", "end_time",
	"pause_before", "pause_after",
	"duration", "mean_rms", "rms_std", "zcr_mean",
	"mean_f0", "median_f0", "f0_std",
	"tempo_estimate", "speaking_rate", "jitter", "shimmer",
}

// WriteJSON writes the report as indented JSON.
func WriteJSON(rep *Report, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(rep); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	logging.Info("Wrote report", logging.Fields{
		"path":      path,
		"sentences": len(rep.Sentences),
	})
	return nil
}

// WriteCSV writes the flat per-sentence table alongside the JSON report.
func WriteCSV(rep *Report, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, rec := range rep.Sentences {
		row := []string{
			strconv.Itoa(rec.Index),
			rec.Text,
			formatFloat(rec.Valence),
			formatFloat(rec.StartTime),
			formatFloat(rec.EndTime),
			formatFloat(rec.PauseBefore),
			formatFloat(rec.PauseAfter),
			formatFloat(rec.Features.Duration),
			formatFloat(rec.Features.MeanRMS),
			formatFloat(rec.Features.RMSStd),
			formatFloat(rec.Features.ZCRMean),
			formatFloat(rec.Features.MeanF0),
			formatFloat(rec.Features.MedianF0),
			formatFloat(rec.Features.F0Std),
			formatFloat(rec.Features.TempoEstimate),
			formatFloat(rec.Features.SpeakingRate),
			formatFloat(rec.Features.Jitter),
			formatFloat(rec.Features.Shimmer),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row %d: %w", rec.Index, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}

// CSVPath derives the CSV mirror path from the JSON report path.
func CSVPath(jsonPath string) string {
	return strings.TrimSuffix(jsonPath, filepath.Ext(jsonPath)) + ".csv"
}

// PlotPath derives the scatter plot path from the JSON report path.
func PlotPath(jsonPath string) string {
	return strings.TrimSuffix(jsonPath, filepath.Ext(jsonPath)) + "_plot.png"
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
