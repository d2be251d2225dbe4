package transcode

import (
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	wavFormatPCM       = 1
	wavFormatIEEEFloat = 3
)

// decodeWAVFile reads a RIFF/WAVE file with go-audio and returns a mono,
// normalised Recording at the file's own sample rate
func decodeWAVFile(filename string) (*Recording, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("not a valid WAV file")
	}

	format := int(decoder.WavAudioFormat)
	if format != wavFormatPCM && format != wavFormatIEEEFloat {
		return nil, fmt.Errorf("unsupported WAV encoding %d", format)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to read PCM buffer: %w", err)
	}
	if buf == nil || buf.Format == nil {
		return nil, fmt.Errorf("WAV file has no format chunk")
	}
	if buf.Format.SampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate %d", buf.Format.SampleRate)
	}

	bitDepth := int(decoder.BitDepth)
	samples, err := mixToMono(buf, bitDepth, format == wavFormatIEEEFloat)
	if err != nil {
		return nil, err
	}

	return &Recording{
		ID:         recordingID(filename),
		Path:       filename,
		SampleRate: buf.Format.SampleRate,
		Channels:   buf.Format.NumChannels,
		BitDepth:   bitDepth,
		Samples:    samples,
	}, nil
}

// mixToMono converts interleaved integer PCM to float64 in [-1, 1] and
// averages the channels
func mixToMono(buf *audio.IntBuffer, bitDepth int, isFloat bool) ([]float64, error) {
	channels := buf.Format.NumChannels
	if channels <= 0 {
		return nil, fmt.Errorf("invalid channel count %d", channels)
	}

	convert, err := sampleConverter(bitDepth, isFloat)
	if err != nil {
		return nil, err
	}

	frames := len(buf.Data) / channels
	mono := make([]float64, frames)
	for i := 0; i < frames; i++ {
		sum := 0.0
		for c := 0; c < channels; c++ {
			sum += convert(buf.Data[i*channels+c])
		}
		mono[i] = sum / float64(channels)
	}
	return mono, nil
}

func sampleConverter(bitDepth int, isFloat bool) (func(int) float64, error) {
	if isFloat {
		if bitDepth != 32 {
			return nil, fmt.Errorf("unsupported float bit depth %d", bitDepth)
		}
		return func(v int) float64 {
			return float64(math.Float32frombits(uint32(int32(v))))
		}, nil
	}

	switch bitDepth {
	case 8:
		// 8-bit WAV is unsigned with a 128 midpoint
		return func(v int) float64 { return float64(v-128) / 128.0 }, nil
	case 16, 24, 32:
		scale := math.Ldexp(1, bitDepth-1)
		return func(v int) float64 { return float64(v) / scale }, nil
	default:
		return nil, fmt.Errorf("unsupported PCM bit depth %d", bitDepth)
	}
}
