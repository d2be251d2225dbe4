package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/RyanBlaney/sonido-speech/configs"
	"github.com/RyanBlaney/sonido-speech/logging"
)

const envPrefix = "SONIDO_SPEECH"

var (
	configFile string
	logLevel   string
	noColor    bool
	workers    int
	reportPath string
)

// flagKeys maps flag names onto nested config keys. Flags not listed bind
// to their own name with dashes replaced by underscores.
var flagKeys = map[string]string{
	"log-level":    "log_level",
	"no-color":     "no_color",
	"f0min":        "prosody.f0min",
	"f0max":        "prosody.f0max",
	"unit":         "prosody.unit",
	"allow-no-pca": "prosody.allow_no_pca",
	"order":        "lpc.order",
	"method":       "lpc.method",
	"output-dir":   "formants.output_dir",
	"window":       "formants.window",
	"purge-empty":  "tables.purge_empty",
	"ffmpeg":       "audio.ffmpeg_path",
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sonido-speech",
	Short: "Speech acoustic feature extraction and aggregation",
	Long: `Extract acoustic descriptors from folders of short speech recordings
and aggregate them into per-file and corpus-level feature tables.

Feature families:
- prosody: pitch statistics, HNR, jitter, shimmer and their 2-component PCA
- spectral: FFT frequency statistics, energy, RMSE and zero crossings
- lpc: linear prediction coefficients
- samplerate: native sample rate of each recording
- formants: frame-level F1-F3 tables, one per recording

Table utilities:
- reduce: collapse each frame-level table to its column means
- merge: concatenate every table in a folder into one corpus table`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := bindFlags(cmd, viper.GetViper()); err != nil {
			return err
		}
		return setupLogging()
	},
}

// Execute runs the root command with ctx, which main cancels on interrupt
func Execute(ctx context.Context) error {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return err
	}
	return nil
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file (default is $HOME/.config/sonido-speech/sonido-speech.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false,
		"disable colored log output")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 0,
		"recordings processed in parallel (0 = number of CPUs, 1 = sequential)")
	rootCmd.PersistentFlags().StringVar(&reportPath, "report", "",
		"write a YAML run report to this path")
	rootCmd.PersistentFlags().String("ffmpeg", "",
		"ffmpeg binary used for files the WAV decoder rejects (default disabled)")
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "sonido-speech"))
		}
		viper.AddConfigPath("./configs")
		viper.SetConfigName("sonido-speech")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	} else if configFile != "" {
		fmt.Fprintf(os.Stderr, "Error reading config file %s: %v\n", configFile, err)
		os.Exit(1)
	}
}

// configKey returns the viper key a flag is bound to
func configKey(flag string) string {
	if key, ok := flagKeys[flag]; ok {
		return key
	}
	return strings.ReplaceAll(flag, "-", "_")
}

// bindFlags binds each cobra flag to its associated viper configuration
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	var lastErr error

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		// Only settings flags go through viper
		if f.Name == "config" || f.Name == "folder" || f.Name == "output" || f.Name == "help" {
			return
		}
		key := configKey(f.Name)

		// Apply the config value to the flag when the flag is not set
		if !f.Changed && v.IsSet(key) {
			val := v.Get(key)
			if err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val)); err != nil {
				lastErr = err
			}
		}

		if err := v.BindPFlag(key, f); err != nil {
			lastErr = err
		}

		envVar := envPrefix + "_" + strings.ToUpper(strings.NewReplacer("-", "_", ".", "_").Replace(key))
		if err := v.BindEnv(key, envVar); err != nil {
			lastErr = err
		}
	})

	return lastErr
}

// loadConfig decodes and validates the merged flag, env and file settings
func loadConfig() (*configs.Config, error) {
	cfg, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := configs.ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setupLogging() error {
	level, err := logging.ParseLevel(viper.GetString("log_level"))
	if err != nil {
		return err
	}

	var logger *logging.DefaultLogger
	if viper.GetBool("no_color") {
		logger = logging.NewDefaultLoggerNoColor()
	} else {
		logger = logging.NewDefaultLogger()
	}
	logger.SetLevel(level)
	logging.SetGlobalLogger(logger)
	return nil
}
