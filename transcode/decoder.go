package transcode

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/RyanBlaney/sonido-speech/logging"
)

// ffmpegFormats are the container extensions the ffmpeg fallback accepts
var ffmpegFormats = []string{"wav", "flac", "mp3", "ogg", "opus", "m4a", "aac", "aiff", "webm"}

// DecoderConfig holds decoder configuration
type DecoderConfig struct {
	// FFmpegPath enables the ffmpeg fallback for files the native WAV
	// decoder rejects. Empty disables the fallback.
	FFmpegPath  string        `json:"ffmpeg_path" mapstructure:"ffmpeg_path"`
	FFprobePath string        `json:"ffprobe_path" mapstructure:"ffprobe_path"`
	Timeout     time.Duration `json:"timeout" mapstructure:"timeout"` // Timeout for ffmpeg operations
}

// DefaultDecoderConfig returns default decoder configuration (native WAV only)
func DefaultDecoderConfig() *DecoderConfig {
	return &DecoderConfig{
		FFmpegPath:  "",
		FFprobePath: "ffprobe",
		Timeout:     30 * time.Second,
	}
}

// Decoder loads recordings from disk at their native sample rate.
// WAV files are decoded in-process; anything else goes through ffmpeg
// when a binary is configured.
type Decoder struct {
	config *DecoderConfig
	logger logging.Logger
}

// NewDecoder creates a new audio decoder
func NewDecoder(config *DecoderConfig) *Decoder {
	if config == nil {
		config = DefaultDecoderConfig()
	}
	return &Decoder{
		config: config,
		logger: logging.WithFields(logging.Fields{
			"component": "audio_decoder",
		}),
	}
}

// DecodeFile decodes an audio file into a Recording. Every failure is
// wrapped with ErrUnreadableAudio so callers can skip the file with errors.Is.
func (d *Decoder) DecodeFile(ctx context.Context, filename string) (*Recording, error) {
	logger := d.logger.WithFields(logging.Fields{
		"function": "DecodeFile",
		"filename": filename,
	})

	info, err := os.Stat(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadableAudio, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrUnreadableAudio, filename)
	}
	if info.Size() == 0 {
		return nil, fmt.Errorf("%w: %s is zero-length", ErrUnreadableAudio, filename)
	}

	rec, wavErr := decodeWAVFile(filename)
	if wavErr == nil {
		logger.Debug("Decoded WAV file", logging.Fields{
			"sample_rate": rec.SampleRate,
			"channels":    rec.Channels,
			"samples":     len(rec.Samples),
			"duration":    rec.Duration(),
		})
		return rec, nil
	}

	if d.config.FFmpegPath == "" {
		return nil, fmt.Errorf("%w: %w", ErrUnreadableAudio, wavErr)
	}

	logger.Debug("Native WAV decode failed, falling back to ffmpeg", logging.Fields{
		"wav_error": wavErr.Error(),
	})

	rec, err = d.decodeFileWithFFmpeg(ctx, filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadableAudio, errors.Join(wavErr, err))
	}
	return rec, nil
}

// SupportedFormats returns the file extensions the decoder will attempt:
// WAV natively, plus the ffmpeg container list when the fallback is enabled
func (d *Decoder) SupportedFormats() []string {
	if d.config.FFmpegPath == "" {
		return []string{"wav", "wave"}
	}
	return append([]string{"wave"}, ffmpegFormats...)
}

func recordingID(filename string) string {
	return filepath.Base(filename)
}
