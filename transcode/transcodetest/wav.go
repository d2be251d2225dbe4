// Package transcodetest writes synthetic WAV fixtures for tests.
package transcodetest

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WriteWAV writes mono 16-bit PCM samples (in [-1, 1]) to dir/name and
// returns the full path
func WriteWAV(t testing.TB, dir, name string, sampleRate int, samples []float64) string {
	t.Helper()
	return WriteWAVChannels(t, dir, name, sampleRate, 1, samples)
}

// WriteWAVChannels writes interleaved 16-bit PCM samples with the given
// channel count
func WriteWAVChannels(t testing.TB, dir, name string, sampleRate, channels int, samples []float64) string {
	t.Helper()

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create wav: %v", err)
	}
	defer f.Close()

	data := make([]int, len(samples))
	for i, s := range samples {
		s = math.Max(-1, math.Min(1, s))
		data[i] = int(math.Round(s * 32767))
	}

	enc := wav.NewEncoder(f, sampleRate, 16, channels, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("write wav: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close wav: %v", err)
	}
	return path
}

// Sine generates seconds of a sine tone at freq Hz
func Sine(freq, amplitude float64, sampleRate int, seconds float64) []float64 {
	n := int(seconds * float64(sampleRate))
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = amplitude * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
	}
	return out
}

// Vowel generates a harmonic-rich periodic tone at f0 Hz, closer to voiced
// speech than a pure sine
func Vowel(f0 float64, sampleRate int, seconds float64) []float64 {
	n := int(seconds * float64(sampleRate))
	out := make([]float64, n)
	amps := []float64{1.0, 0.6, 0.4, 0.25, 0.15}
	for i := 0; i < n; i++ {
		t := float64(i) / float64(sampleRate)
		v := 0.0
		for h, a := range amps {
			v += a * math.Sin(2*math.Pi*f0*float64(h+1)*t)
		}
		out[i] = 0.3 * v
	}
	return out
}

// WriteFile writes raw bytes, for corrupt-file fixtures
func WriteFile(t testing.TB, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return path
}
