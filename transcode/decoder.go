package transcode

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"time"

	"github.com/dhanaBhai/unposted/logging"
)

// AudioData represents decoded audio data
type AudioData struct {
	PCM        []float64     `json:"-"` // Raw PCM data, mono
	SampleRate int           `json:"sample_rate"`
	Duration   time.Duration `json:"duration"`
}

// DecoderConfig holds decoder configuration
type DecoderConfig struct {
	TargetSampleRate int           `json:"target_sample_rate"`
	FFmpegPath       string        `json:"ffmpeg_path"`
	FFprobePath      string        `json:"ffprobe_path"`
	Timeout          time.Duration `json:"timeout"`
}

// DefaultDecoderConfig returns default decoder configuration
func DefaultDecoderConfig() *DecoderConfig {
	return &DecoderConfig{
		TargetSampleRate: 22050,
		FFmpegPath:       "ffmpeg",
		FFprobePath:      "ffprobe",
		Timeout:          120 * time.Second,
	}
}

// AudioMetadata holds detected audio properties from FFprobe
type AudioMetadata struct {
	SampleRate int     `json:"sample_rate"`
	Channels   int     `json:"channels"`
	Codec      string  `json:"codec"`
	Duration   float64 `json:"duration"`
}

// Decoder handles audio decoding using FFmpeg. Output is always mono float64
// PCM at the configured target sample rate.
type Decoder struct {
	config *DecoderConfig
}

// NewDecoder creates a new audio decoder
func NewDecoder(config *DecoderConfig) *Decoder {
	if config == nil {
		config = DefaultDecoderConfig()
	}
	return &Decoder{config: config}
}

// SampleRate returns the decoder's target sample rate
func (d *Decoder) SampleRate() int {
	return d.config.TargetSampleRate
}

// Probe returns stream metadata for an audio file without decoding it.
// Used to fail fast on unreadable inputs before the pipeline starts.
func (d *Decoder) Probe(filename string) (*AudioMetadata, error) {
	args := []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_streams",
		"-select_streams", "a:0",
		filename,
	}

	ctx, cancel := d.commandContext()
	defer cancel()

	output, err := exec.CommandContext(ctx, d.config.FFprobePath, args...).Output()
	if err != nil {
		if exitError, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("ffprobe failed for %s: %w, stderr: %s", filename, err, string(exitError.Stderr))
		}
		return nil, fmt.Errorf("ffprobe failed for %s: %w", filename, err)
	}

	return parseFFprobeOutput(output)
}

// DecodeFile decodes a whole audio file and returns PCM data
func (d *Decoder) DecodeFile(filename string) (*AudioData, error) {
	return d.decode(filename, 0, 0)
}

// DecodeSegment decodes the bounded slice [start, end) of an audio file, in
// seconds. An empty or inverted range returns zero samples without invoking
// ffmpeg; callers treat that as the extraction-failed sentinel.
func (d *Decoder) DecodeSegment(filename string, start, end float64) (*AudioData, error) {
	if end <= start {
		return &AudioData{PCM: nil, SampleRate: d.config.TargetSampleRate}, nil
	}
	return d.decode(filename, start, end-start)
}

func (d *Decoder) decode(filename string, offset, duration float64) (*AudioData, error) {
	logger := logging.WithFields(logging.Fields{
		"component": "audio_decoder",
		"filename":  filename,
		"offset":    offset,
		"duration":  duration,
	})

	args := []string{"-v", "error"}
	if offset > 0 {
		args = append(args, "-ss", fmt.Sprintf("%.3f", offset))
	}
	args = append(args, "-i", filename)
	if duration > 0 {
		args = append(args, "-t", fmt.Sprintf("%.3f", duration))
	}
	args = append(args,
		"-vn",
		"-f", "f64le",
		"-ac", "1",
		"-ar", strconv.Itoa(d.config.TargetSampleRate),
		"pipe:1",
	)

	ctx, cancel := d.commandContext()
	defer cancel()

	logger.Debug("Running ffmpeg decode")

	output, err := exec.CommandContext(ctx, d.config.FFmpegPath, args...).Output()
	if err != nil {
		if exitError, ok := err.(*exec.ExitError); ok {
			logger.Error(err, "Ffmpeg decode failed", logging.Fields{
				"stderr": string(exitError.Stderr),
			})
			return nil, fmt.Errorf("ffmpeg decode failed for %s: %w, stderr: %s", filename, err, string(exitError.Stderr))
		}
		return nil, fmt.Errorf("ffmpeg decode failed for %s: %w", filename, err)
	}

	samples := bytesToFloat64(output)
	actual := time.Duration(len(samples)) * time.Second / time.Duration(d.config.TargetSampleRate)

	logger.Debug("Decode completed", logging.Fields{
		"samples":         len(samples),
		"actual_duration": actual.Seconds(),
	})

	return &AudioData{
		PCM:        samples,
		SampleRate: d.config.TargetSampleRate,
		Duration:   actual,
	}, nil
}

func (d *Decoder) commandContext() (context.Context, context.CancelFunc) {
	if d.config.Timeout > 0 {
		return context.WithTimeout(context.Background(), d.config.Timeout)
	}
	return context.WithCancel(context.Background())
}

// parseFFprobeOutput parses ffprobe JSON to extract audio metadata
func parseFFprobeOutput(jsonData []byte) (*AudioMetadata, error) {
	var probe struct {
		Streams []struct {
			CodecType  string `json:"codec_type"`
			CodecName  string `json:"codec_name"`
			SampleRate string `json:"sample_rate"`
			Channels   int    `json:"channels"`
			Duration   string `json:"duration"`
		} `json:"streams"`
	}

	if err := json.Unmarshal(jsonData, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	if len(probe.Streams) == 0 {
		return nil, fmt.Errorf("no audio streams found")
	}

	stream := probe.Streams[0]
	if stream.CodecType != "audio" {
		return nil, fmt.Errorf("stream is not audio type: %s", stream.CodecType)
	}

	sampleRate, err := strconv.Atoi(stream.SampleRate)
	if err != nil {
		sampleRate = 44100
	}

	duration, err := strconv.ParseFloat(stream.Duration, 64)
	if err != nil {
		duration = 0
	}

	if stream.Channels <= 0 || stream.Channels > 8 {
		return nil, fmt.Errorf("invalid channel count: %d", stream.Channels)
	}

	return &AudioMetadata{
		SampleRate: sampleRate,
		Channels:   stream.Channels,
		Codec:      stream.CodecName,
		Duration:   duration,
	}, nil
}

// bytesToFloat64 converts raw f64le bytes from ffmpeg into samples
func bytesToFloat64(data []byte) []float64 {
	sampleCount := len(data) / 8
	samples := make([]float64, 0, sampleCount)

	for i := 0; i+8 <= len(data); i += 8 {
		bits := binary.LittleEndian.Uint64(data[i : i+8])
		sample := math.Float64frombits(bits)
		if math.IsNaN(sample) || math.IsInf(sample, 0) {
			sample = 0.0
		}
		samples = append(samples, sample)
	}

	return samples
}
