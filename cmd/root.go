package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/skillmatcher/internal/source"
	"github.com/spigell/skillmatcher/internal/taxonomy"
)

const (
	app = "skillmatcher"
)

type Config struct {
	Taxonomy string          `mapstructure:"taxonomy"`
	Data     *DataConfig     `mapstructure:"data"`
	Matching *MatchingConfig `mapstructure:"matching"`
	AI       *AIConfig       `mapstructure:"ai"`
	History  *HistoryConfig  `mapstructure:"history"`
}

type MatchingConfig struct {
	Workers  int     `mapstructure:"workers"`
	TopK     int     `mapstructure:"top-k"`
	MinScore float64 `mapstructure:"min-score"`
}

type DataConfig struct {
	Candidates string `mapstructure:"candidates"`
	Roles      string `mapstructure:"roles"`
}

type AIConfig struct {
	Gemini *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "skillmatcher matches candidate skill profiles against role requirements using a skills taxonomy",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("ai.gemini.api-key", "GEMINI_API_KEY"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is skillmatcher.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// The version command works without any configuration.
	if versionCmd.CalledAs() != "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// We can't proceed if the config file parsed with error.
	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
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

// loadSnapshot reads the taxonomy dataset and builds an immutable
// snapshot from it.
func loadSnapshot(config *Config) (*taxonomy.Snapshot, error) {
	if config == nil || config.Taxonomy == "" {
		return nil, fmt.Errorf("taxonomy file path is required under the 'taxonomy' key")
	}

	records, err := source.LoadTaxonomy(config.Taxonomy)
	if err != nil {
		return nil, err
	}

	snap, err := taxonomy.Build(records)
	if err != nil {
		return nil, fmt.Errorf("building taxonomy from %q: %w", config.Taxonomy, err)
	}
	return snap, nil
}

func dataPaths(config *Config) (candidates, roles string, err error) {
	if config == nil || config.Data == nil {
		return "", "", fmt.Errorf("candidate and role dataset paths are required under the 'data' key")
	}
	if config.Data.Candidates == "" || config.Data.Roles == "" {
		return "", "", fmt.Errorf("both data.candidates and data.roles must be set")
	}
	return config.Data.Candidates, config.Data.Roles, nil
}
