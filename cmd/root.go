package cmd

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "hirecheck"
)

// Config is the application configuration, unmarshalled from the config file
// and flags via viper.
type Config struct {
	CV  string `mapstructure:"cv"`
	PF  string `mapstructure:"pf"`
	Out string `mapstructure:"out"`

	Matching *MatchingConfig `mapstructure:"matching"`
	Verdict  *VerdictConfig  `mapstructure:"verdict"`
	AI       *AIConfig       `mapstructure:"ai"`
}

// MatchingConfig tunes the pairing policy. Pointer fields distinguish an
// unset option from a legitimate zero value (tolerance-months: 0).
type MatchingConfig struct {
	NameThreshold   *int `mapstructure:"name-threshold"`
	ToleranceMonths *int `mapstructure:"tolerance-months"`
	OverlapBonus    *int `mapstructure:"overlap-bonus"`
}

// VerdictConfig tunes the status banding and discrepancy policy.
type VerdictConfig struct {
	VerifiedBand          *float64 `mapstructure:"verified-band"`
	MostlyVerifiedBand    *float64 `mapstructure:"mostly-verified-band"`
	PartiallyVerifiedBand *float64 `mapstructure:"partially-verified-band"`
	HighConfidence        *int     `mapstructure:"high-confidence"`
}

// AIConfig configures the optional narrative assessor.
type AIConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

// GeminiConfig configures the Gemini provider.
type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "hirecheck reconciles a candidate's CV employment history against an EPF contribution statement",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is hirecheck.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config is needed only for the run command; without it the defaults
	// apply and no file is required.
	if runCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is fine; a malformed one is not.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
