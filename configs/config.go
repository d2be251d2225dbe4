package configs

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/RyanBlaney/sonido-speech/algorithms/speech"
	"github.com/RyanBlaney/sonido-speech/algorithms/tonal"
	"github.com/RyanBlaney/sonido-speech/algorithms/windowing"
)

// Config represents the application configuration
type Config struct {
	// Application settings
	LogLevel string `mapstructure:"log_level"`
	NoColor  bool   `mapstructure:"no_color"`
	Workers  int    `mapstructure:"workers"` // 0 selects GOMAXPROCS
	Report   string `mapstructure:"report"`  // Optional YAML run report path

	Audio   AudioConfig   `mapstructure:"audio"`
	Prosody ProsodyConfig `mapstructure:"prosody"`
	LPC     LPCConfig     `mapstructure:"lpc"`
	Formant FormantConfig `mapstructure:"formants"`
	Tables  TablesConfig  `mapstructure:"tables"`
}

// AudioConfig contains recording discovery and decoding settings
type AudioConfig struct {
	Extensions  []string      `mapstructure:"extensions"`
	FFmpegPath  string        `mapstructure:"ffmpeg_path"`
	FFprobePath string        `mapstructure:"ffprobe_path"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// ProsodyConfig contains pitch range settings
type ProsodyConfig struct {
	F0Min      float64 `mapstructure:"f0min"`
	F0Max      float64 `mapstructure:"f0max"`
	Unit       string  `mapstructure:"unit"`
	AllowNoPCA bool    `mapstructure:"allow_no_pca"`
}

// LPCConfig contains linear prediction settings
type LPCConfig struct {
	Order  int    `mapstructure:"order"`
	Method string `mapstructure:"method"`
}

// FormantConfig contains frame-level formant tracking settings
type FormantConfig struct {
	OutputDir     string        `mapstructure:"output_dir"` // Empty selects <folder>/Gemaps
	FrameDuration time.Duration `mapstructure:"frame_duration"`
	HopDuration   time.Duration `mapstructure:"hop_duration"`
	PreEmphasis   float64       `mapstructure:"pre_emphasis"`
	Window        string        `mapstructure:"window"`
	MinFrequency  float64       `mapstructure:"min_frequency"`
	MaxBandwidth  float64       `mapstructure:"max_bandwidth"`
}

// TablesConfig contains merge and reduce settings
type TablesConfig struct {
	PurgeEmpty bool `mapstructure:"purge_empty"`
}

// LoadConfig loads configuration from viper
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(viper.GetViper())
}

// LoadConfigFrom decodes configuration from v after filling defaults
func LoadConfigFrom(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode configuration: %w", err)
	}

	return config, nil
}

// ValidateConfig validates the configuration
func ValidateConfig(config *Config) error {
	if config.Workers < 0 {
		return fmt.Errorf("workers cannot be negative")
	}

	if config.Prosody.F0Min <= 0 {
		return fmt.Errorf("pitch floor must be positive")
	}

	if config.Prosody.F0Max <= config.Prosody.F0Min {
		return fmt.Errorf("pitch ceiling must be above the floor")
	}

	if _, err := tonal.ParsePitchUnit(config.Prosody.Unit); err != nil {
		return err
	}

	if config.LPC.Order <= 0 {
		return fmt.Errorf("LPC order must be positive")
	}

	if _, err := speech.ParseLPCMethod(config.LPC.Method); err != nil {
		return err
	}

	if config.Formant.FrameDuration <= 0 || config.Formant.HopDuration <= 0 {
		return fmt.Errorf("formant frame and hop durations must be positive")
	}

	if config.Formant.PreEmphasis < 0 || config.Formant.PreEmphasis >= 1 {
		return fmt.Errorf("pre-emphasis coefficient must be in [0, 1)")
	}

	if _, err := windowing.New(config.Formant.Window, 2, true); err != nil {
		return fmt.Errorf("formant window: %w", err)
	}

	return nil
}

// FormantParams converts the formant settings for the analyzer
func (c FormantConfig) FormantParams() speech.FormantParams {
	p := speech.DefaultFormantParams()
	p.FrameDuration = c.FrameDuration.Seconds()
	p.HopDuration = c.HopDuration.Seconds()
	p.PreEmphasis = c.PreEmphasis
	if c.Window != "" {
		p.Window = c.Window
	}
	if c.MinFrequency > 0 {
		p.MinFrequency = c.MinFrequency
	}
	if c.MaxBandwidth > 0 {
		p.MaxBandwidth = c.MaxBandwidth
	}
	return p
}
