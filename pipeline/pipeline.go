package pipeline

import (
	"context"
	"fmt"

	"github.com/dhanaBhai/unposted/align"
	"github.com/dhanaBhai/unposted/config"
	"github.com/dhanaBhai/unposted/logging"
	"github.com/dhanaBhai/unposted/prosody"
	"github.com/dhanaBhai/unposted/report"
	"github.com/dhanaBhai/unposted/transcode"
)

// Options holds per-run inputs and outputs.
type Options struct {
	AudioPath      string
	TranscriptPath string
	ValencePath    string
	OutputPath     string
	Plot           bool
}

// Pipeline runs the full sentence analysis: transcript and valence loading,
// alignment, pause calculation, feature extraction, and report writing.
type Pipeline struct {
	cfg       *config.Config
	aligner   align.Engine
	extractor *prosody.Extractor

	// newSource opens the audio for span decoding; probe validates the file
	// up front so a broken input fails before any engine runs.
	newSource func(path string) prosody.SegmentSource
	probe     func(path string) error
}

// New builds a pipeline from configuration: an alignment chain with every
// enabled engine in priority order, an ffmpeg-backed segment source, and the
// default feature extractor.
func New(cfg *config.Config) (*Pipeline, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	aggregator := align.NewAggregator(cfg.Align.OverlapThreshold, cfg.Align.PlaceholderSeconds)

	var engines []align.Engine
	if cfg.Align.Whisper.Enabled {
		engines = append(engines, align.NewWhisperEngine(
			cfg.Align.Whisper.Binary, cfg.Align.Whisper.Args, cfg.Align.Whisper.Timeout, aggregator))
	}
	if cfg.Align.SyncMap.Enabled {
		engines = append(engines, align.NewSyncMapEngine(
			cfg.Align.SyncMap.Binary, cfg.Align.SyncMap.Args, cfg.Align.SyncMap.Timeout))
	}
	chain, err := align.NewChain(engines...)
	if err != nil {
		return nil, err
	}

	decoder := transcode.NewDecoder(&transcode.DecoderConfig{
		TargetSampleRate: cfg.Audio.SampleRate,
		FFmpegPath:       cfg.Audio.FFmpegPath,
		FFprobePath:      cfg.Audio.FFprobePath,
		Timeout:          cfg.Audio.Timeout,
	})

	return &Pipeline{
		cfg:       cfg,
		aligner:   chain,
		extractor: prosody.NewExtractor(nil),
		newSource: func(path string) prosody.SegmentSource {
			return transcode.NewFileSource(decoder, path)
		},
		probe: func(path string) error {
			_, err := decoder.Probe(path)
			return err
		},
	}, nil
}

// NewWithComponents builds a pipeline with injected parts. Used by tests and
// callers that bring their own alignment or audio source.
func NewWithComponents(cfg *config.Config, aligner align.Engine, extractor *prosody.Extractor, newSource func(path string) prosody.SegmentSource) *Pipeline {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if extractor == nil {
		extractor = prosody.NewExtractor(nil)
	}
	return &Pipeline{
		cfg:       cfg,
		aligner:   aligner,
		extractor: extractor,
		newSource: newSource,
	}
}

// Run executes the pipeline and writes the JSON report, its CSV mirror, and
// optionally the scatter plot. The assembled report is also returned.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*report.Report, error) {
	if p.probe != nil {
		if err := p.probe(opts.AudioPath); err != nil {
			return nil, fmt.Errorf("audio file rejected: %w", err)
		}
	}

	sents, err := LoadTranscript(opts.TranscriptPath)
	if err != nil {
		return nil, err
	}

	valences, err := report.LoadValenceTable(opts.ValencePath)
	if err != nil {
		return nil, err
	}
	if len(valences) != len(sents) {
		logging.Warn("Valence count differs from sentence count", logging.Fields{
			"valences":  len(valences),
			"sentences": len(sents),
		})
	}

	logging.Info("Aligning sentences", logging.Fields{
		"audio":     opts.AudioPath,
		"sentences": len(sents),
	})
	spans, err := p.aligner.Align(ctx, opts.AudioPath, sents)
	if err != nil {
		return nil, fmt.Errorf("alignment failed: %w", err)
	}
	if len(spans) != len(sents) {
		return nil, fmt.Errorf("aligner produced %d spans for %d sentences", len(spans), len(sents))
	}

	before, after := prosody.Pauses(spans)

	source := p.newSource(opts.AudioPath)
	results := make([]prosody.Result, len(spans))
	for i, span := range spans {
		results[i] = p.extractor.Extract(source, span.Start, span.End)
		if len(results[i].Failures) > 0 {
			logging.Warn("Feature extraction incomplete for sentence", logging.Fields{
				"sentence": span.Index,
				"failures": fmt.Sprintf("%v", results[i].Failures),
			})
		}
	}

	rep, err := report.Assemble(opts.AudioPath, spans, results, before, after, valences)
	if err != nil {
		return nil, err
	}

	if opts.OutputPath != "" {
		if err := report.WriteJSON(rep, opts.OutputPath); err != nil {
			return nil, err
		}
		if err := report.WriteCSV(rep, report.CSVPath(opts.OutputPath)); err != nil {
			return nil, err
		}
		if opts.Plot {
			if err := report.WritePlot(rep, report.PlotPath(opts.OutputPath)); err != nil {
				return nil, err
			}
		}
	}

	return rep, nil
}
