package cmd

import (
	"context"
	"log"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/spigell/talentscout/internal/logger"
	"github.com/spigell/talentscout/internal/store"
)

type contactEntry struct {
	Received string `yaml:"received"`
	Session  string `yaml:"session"`
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Message  string `yaml:"message"`
}

var contactsCmd = &cobra.Command{
	Use:   "contacts",
	Short: "Print the latest contact inquiries from the contact database",
	Run: func(cmd *cobra.Command, _ []string) {
		listContacts(cmd)
	},
}

func init() {
	rootCmd.AddCommand(contactsCmd)

	contactsCmd.Flags().IntP("limit", "n", 20, "how many inquiries to print")
}

func listContacts(cmd *cobra.Command) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}
	if config.ContactDB == "" {
		logger.Fatal("contact-db is not configured")
	}

	db, err := store.NewSQLiteStore(config.ContactDB)
	if err != nil {
		logger.Fatal("opening contact store", zap.Error(err))
	}
	defer db.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	messages, err := db.ListContacts(context.Background(), limit)
	if err != nil {
		logger.Fatal("listing contacts", zap.Error(err))
	}

	entries := make([]contactEntry, 0, len(messages))
	for _, m := range messages {
		entries = append(entries, contactEntry{
			Received: m.CreatedAt.Format(time.RFC3339),
			Session:  m.SessionID,
			Name:     m.Name,
			Email:    m.Email,
			Message:  m.Message,
		})
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	defer enc.Close()
	if err := enc.Encode(entries); err != nil {
		logger.Fatal("printing contacts", zap.Error(err))
	}

	logger.Debug("contacts printed", zap.Int("count", len(entries)))
}
