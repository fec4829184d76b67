package cmd

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/talentscout/internal/ai/provider"
	"github.com/spigell/talentscout/internal/session"
	"github.com/spigell/talentscout/internal/validator"
)

const (
	app       = "talentscout"
	envPrefix = "TALENTSCOUT"
)

type Config struct {
	Listen       string        `mapstructure:"listen"`
	EmailDomain  string        `mapstructure:"email-domain"`
	KeywordsFile string        `mapstructure:"keywords-file"`
	ContactDB    string        `mapstructure:"contact-db"`
	SessionTTL   time.Duration `mapstructure:"session-ttl"`
	AI           *AIConfig     `mapstructure:"ai"`
}

type AIConfig struct {
	provider.Config `mapstructure:",squash"`
	MaxLogLength    int `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "talentscout generates interview practice questions for a candidate's tech stack",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is talentscout.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("provider", "", "ai provider: groq, gemini or anthropic")
	rootCmd.PersistentFlags().String("model", "", "model name for the ai provider")
	rootCmd.PersistentFlags().String("contact-db", "", "sqlite file for contact inquiries. Default is unset.")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("ai.provider", rootCmd.PersistentFlags().Lookup("provider"))
	viper.BindPFlag("ai.model", rootCmd.PersistentFlags().Lookup("model"))
	viper.BindPFlag("contact-db", rootCmd.PersistentFlags().Lookup("contact-db"))

	setDefaults(viper.GetViper())
}

// setDefaults registers every key so env overrides reach Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("listen", ":8080")
	v.SetDefault("email-domain", validator.DefaultEmailDomain)
	v.SetDefault("keywords-file", "")
	v.SetDefault("contact-db", "")
	v.SetDefault("session-ttl", session.DefaultTTL)
	v.SetDefault("ai.provider", provider.Groq)
	v.SetDefault("ai.model", "")
	v.SetDefault("ai.base-url", "")
	v.SetDefault("ai.api-key", "")
	v.SetDefault("ai.api-key-file", "")
	v.SetDefault("ai.max-log-length", 200)
}

func initConfig() {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// An explicit config file must parse; the default one is optional.
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	return decodeConfig(viper.GetViper())
}

func decodeConfig(v *viper.Viper) (*Config, error) {
	var config *Config
	err := v.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config.AI == nil {
		config.AI = &AIConfig{}
	}

	return config, nil
}
