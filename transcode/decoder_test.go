package transcode

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestParseFFprobeOutput(t *testing.T) {
	data := []byte(`{
		"streams": [{
			"codec_type": "audio",
			"codec_name": "aac",
			"sample_rate": "44100",
			"channels": 1,
			"duration": "12.480000"
		}]
	}`)

	meta, err := parseFFprobeOutput(data)
	if err != nil {
		t.Fatalf("parseFFprobeOutput: %v", err)
	}
	if meta.SampleRate != 44100 || meta.Channels != 1 || meta.Codec != "aac" {
		t.Errorf("metadata = %+v", meta)
	}
	if math.Abs(meta.Duration-12.48) > 1e-9 {
		t.Errorf("Duration = %f, want 12.48", meta.Duration)
	}
}

func TestParseFFprobeOutputErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"malformed JSON", "not json"},
		{"no streams", `{"streams": []}`},
		{"video stream", `{"streams": [{"codec_type": "video", "channels": 1}]}`},
		{"zero channels", `{"streams": [{"codec_type": "audio", "sample_rate": "44100", "channels": 0}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseFFprobeOutput([]byte(tt.data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestBytesToFloat64(t *testing.T) {
	values := []float64{0.0, 0.5, -1.0, 0.25}
	data := make([]byte, 0, len(values)*8)
	for _, v := range values {
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		data = append(data, buf[:]...)
	}

	samples := bytesToFloat64(data)
	if len(samples) != len(values) {
		t.Fatalf("got %d samples, want %d", len(samples), len(values))
	}
	for i, v := range values {
		if samples[i] != v {
			t.Errorf("sample %d = %f, want %f", i, samples[i], v)
		}
	}
}

func TestBytesToFloat64SanitizesBadValues(t *testing.T) {
	bad := []float64{math.NaN(), math.Inf(1), math.Inf(-1)}
	data := make([]byte, 0, len(bad)*8)
	for _, v := range bad {
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		data = append(data, buf[:]...)
	}

	for i, s := range bytesToFloat64(data) {
		if s != 0.0 {
			t.Errorf("sample %d = %f, want 0 for non-finite input", i, s)
		}
	}
}

func TestBytesToFloat64TruncatedTail(t *testing.T) {
	// 11 bytes: one full sample plus a partial one that must be dropped.
	data := make([]byte, 11)
	if got := bytesToFloat64(data); len(got) != 1 {
		t.Errorf("got %d samples, want 1", len(got))
	}
}

func TestDecodeSegmentEmptyRange(t *testing.T) {
	d := NewDecoder(nil)

	for _, span := range [][2]float64{{5, 5}, {6, 4}} {
		audio, err := d.DecodeSegment("does-not-matter.m4a", span[0], span[1])
		if err != nil {
			t.Fatalf("DecodeSegment(%v): %v", span, err)
		}
		if len(audio.PCM) != 0 {
			t.Errorf("DecodeSegment(%v) returned %d samples, want 0", span, len(audio.PCM))
		}
		if audio.SampleRate != d.SampleRate() {
			t.Errorf("SampleRate = %d, want %d", audio.SampleRate, d.SampleRate())
		}
	}
}
