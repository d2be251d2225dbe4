package configs

import (
	"time"

	"github.com/spf13/viper"
)

// SetDefaults fills every unset key with its default value
func SetDefaults(v *viper.Viper) {
	if !v.IsSet("log_level") {
		v.Set("log_level", "info")
	}
	if !v.IsSet("workers") {
		v.Set("workers", 0)
	}

	// Audio defaults
	if !v.IsSet("audio.ffprobe_path") {
		v.Set("audio.ffprobe_path", "ffprobe")
	}
	if !v.IsSet("audio.timeout") {
		v.Set("audio.timeout", 30*time.Second)
	}

	// Prosody defaults
	if !v.IsSet("prosody.f0min") {
		v.Set("prosody.f0min", 75.0)
	}
	if !v.IsSet("prosody.f0max") {
		v.Set("prosody.f0max", 500.0)
	}
	if !v.IsSet("prosody.unit") {
		v.Set("prosody.unit", "Hertz")
	}

	// LPC defaults
	if !v.IsSet("lpc.order") {
		v.Set("lpc.order", 12)
	}
	if !v.IsSet("lpc.method") {
		v.Set("lpc.method", "burg")
	}

	// Formant defaults
	if !v.IsSet("formants.frame_duration") {
		v.Set("formants.frame_duration", 25*time.Millisecond)
	}
	if !v.IsSet("formants.hop_duration") {
		v.Set("formants.hop_duration", 10*time.Millisecond)
	}
	if !v.IsSet("formants.pre_emphasis") {
		v.Set("formants.pre_emphasis", 0.97)
	}
	if !v.IsSet("formants.window") {
		v.Set("formants.window", "hamming")
	}
	if !v.IsSet("formants.min_frequency") {
		v.Set("formants.min_frequency", 90.0)
	}
	if !v.IsSet("formants.max_bandwidth") {
		v.Set("formants.max_bandwidth", 400.0)
	}

	// Tables defaults
	if !v.IsSet("tables.purge_empty") {
		v.Set("tables.purge_empty", true)
	}
}
