package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/talentscout/internal/logger"
	"github.com/spigell/talentscout/internal/session"
	"github.com/spigell/talentscout/internal/validator"
)

const (
	PromptStart   = "Start practice"
	PromptContact = "Contact us"
	PromptQuit    = "Quit"
)

var errQuit = errors.New("quit requested")

var practiceCmd = &cobra.Command{
	Use:   "practice",
	Short: "Run a practice session in the terminal",
	Run: func(cmd *cobra.Command, _ []string) {
		practice(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(practiceCmd)
}

func practice(out io.Writer) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	deps, err := buildComponents(ctx, config, logger)
	if err != nil {
		logger.Fatal("building components", zap.Error(err))
	}
	defer func() {
		if err := deps.Close(); err != nil {
			logger.Warn("closing contact store", zap.Error(err))
		}
	}()

	t := &terminal{out: out, machine: deps.machine, session: session.New(uuid.NewString())}
	if notice := deps.gateway.Notice(); notice != "" {
		fmt.Fprintf(out, "NOTE: %s\n\n", notice)
	}

	if err := t.run(ctx); err != nil && !errors.Is(err, errQuit) {
		logger.Fatal("practice session failed", zap.Error(err))
	}
}

// terminal drives one session with promptui in place of the web page.
type terminal struct {
	out     io.Writer
	machine *session.Machine
	session *session.Session
	printed int
}

func (t *terminal) run(ctx context.Context) error {
	menu := promptui.Select{
		Label: "TalentScout",
		Items: []string{PromptStart, PromptContact, PromptQuit},
	}

	for {
		_, action, err := menu.Run()
		if err != nil {
			return quitOn(err)
		}

		switch action {
		case PromptStart:
			return t.interview(ctx)
		case PromptContact:
			if err := t.contact(ctx); err != nil {
				return err
			}
		case PromptQuit:
			return errQuit
		default:
			return fmt.Errorf("invalid action: %s", action)
		}
	}
}

func (t *terminal) interview(ctx context.Context) error {
	if err := t.machine.Acknowledge(t.session); err != nil {
		return err
	}
	t.flushHistory()

	for t.session.Stage() == session.StageForm {
		profile, err := askProfile()
		if err != nil {
			return quitOn(err)
		}

		err = t.machine.SubmitProfile(ctx, t.session, profile)
		var verr *validator.ValidationError
		if errors.As(err, &verr) {
			fmt.Fprintf(t.out, "\n%s\n\n", verr.Message)
			continue
		}
		if err != nil {
			return err
		}
	}

	t.flushHistory()
	fmt.Fprintf(t.out, "\n%s\n\n", t.session.LatestQuestions())

	for t.session.Stage() != session.StageEnded {
		input, err := (&promptui.Prompt{Label: "You"}).Run()
		if err != nil {
			return quitOn(err)
		}

		reply, err := t.machine.Chat(ctx, t.session, input)
		if errors.Is(err, session.ErrEmptyMessage) {
			continue
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(t.out, "\n%s\n\n", reply.Content)
	}

	return nil
}

func (t *terminal) flushHistory() {
	history := t.machine.Snapshot(t.session).History
	for _, turn := range history[t.printed:] {
		fmt.Fprintf(t.out, "\n%s\n", turn.Content)
	}
	t.printed = len(history)
}

func (t *terminal) contact(ctx context.Context) error {
	t.machine.OpenContact(t.session)

	for t.session.ShowContact() {
		var input session.ContactInput
		var err error
		if input.Name, err = ask("Name", nil); err != nil {
			t.machine.CloseContact(t.session)
			return quitOn(err)
		}
		if input.Email, err = ask("Email", nil); err != nil {
			t.machine.CloseContact(t.session)
			return quitOn(err)
		}
		if input.Message, err = ask("Message", nil); err != nil {
			t.machine.CloseContact(t.session)
			return quitOn(err)
		}

		err = t.machine.SubmitContact(ctx, t.session, input)
		var verr *validator.ValidationError
		if errors.As(err, &verr) {
			fmt.Fprintf(t.out, "%s\n", verr.Message)
			continue
		}
		if err != nil {
			t.machine.CloseContact(t.session)
			return err
		}
	}

	fmt.Fprintln(t.out, "Thanks, we will get back to you soon.")
	return nil
}

func askProfile() (validator.Profile, error) {
	var (
		p   validator.Profile
		err error
	)

	fields := []struct {
		label string
		dst   *string
	}{
		{"Full name", &p.FullName},
		{"Email", &p.Email},
		{"Phone (optional)", &p.Phone},
		{"Desired position (optional)", &p.DesiredPosition},
		{"Location (optional)", &p.Location},
		{"Tech stack", &p.TechStack},
	}
	for _, f := range fields {
		if *f.dst, err = ask(f.label, nil); err != nil {
			return p, err
		}
	}

	years, err := ask("Years of experience", validateNumber)
	if err != nil {
		return p, err
	}
	p.YearsExperience, _ = strconv.ParseFloat(strings.TrimSpace(years), 64)

	return p, nil
}

func ask(label string, validate promptui.ValidateFunc) (string, error) {
	p := promptui.Prompt{Label: label, Validate: validate}
	return p.Run()
}

func validateNumber(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if _, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
		return errors.New("enter a number")
	}
	return nil
}

// quitOn maps Ctrl-C and Ctrl-D to a clean exit.
func quitOn(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) || errors.Is(err, promptui.ErrAbort) {
		return errQuit
	}
	return err
}
