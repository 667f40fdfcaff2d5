package transcode

// FileSource binds a decoder to one audio file and hands out decoded slices.
// It satisfies the prosody extractor's segment-source contract.
type FileSource struct {
	decoder *Decoder
	path    string
}

// NewFileSource creates a segment source for one audio file
func NewFileSource(decoder *Decoder, path string) *FileSource {
	return &FileSource{decoder: decoder, path: path}
}

// Slice returns mono PCM for [start, end) seconds plus the sample rate it was
// decoded at. An empty range yields zero samples and no error.
func (s *FileSource) Slice(start, end float64) ([]float64, int, error) {
	data, err := s.decoder.DecodeSegment(s.path, start, end)
	if err != nil {
		return nil, s.decoder.SampleRate(), err
	}
	return data.PCM, data.SampleRate, nil
}
