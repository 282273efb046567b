package main

import (
	"errors"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const app = "screener"

// Config is the optional screener.yaml. Thresholds left out keep their
// defaults.
type Config struct {
	Job         JobConfig    `mapstructure:"job"`
	Provider    string       `mapstructure:"provider"`
	Concurrency int          `mapstructure:"concurrency"`
	Gemini      GeminiConfig `mapstructure:"gemini"`
}

type JobConfig struct {
	Role                string   `mapstructure:"role"`
	Domain              string   `mapstructure:"domain"`
	Skills              string   `mapstructure:"skills"`
	ExperienceRange     string   `mapstructure:"experience-range"`
	JDThreshold         *float64 `mapstructure:"jd-threshold"`
	SkillsThreshold     *float64 `mapstructure:"skills-threshold"`
	DomainThreshold     *float64 `mapstructure:"domain-threshold"`
	ExperienceThreshold *float64 `mapstructure:"experience-threshold"`
	RejectThreshold     *float64 `mapstructure:"reject-threshold"`
	ShortlistThreshold  *float64 `mapstructure:"shortlist-threshold"`
	TopN                int      `mapstructure:"top-n"`
}

type GeminiConfig struct {
	APIKey         string `mapstructure:"api-key"`
	Model          string `mapstructure:"model"`
	EmbeddingModel string `mapstructure:"embedding-model"`
}

var (
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "screener ranks a folder of resumes against a job description",
	}
)

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is screener.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	viper.SetEnvPrefix("SCREENER")
	viper.AutomaticEnv()
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// the config file is optional unless named explicitly
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatalf("reading config: %v", err)
		}
	}
}

func getConfig() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	return &config, nil
}
