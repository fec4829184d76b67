// Package prompt builds the system/user message pairs sent to the chat model.
package prompt

import (
	_ "embed"
	"strings"

	"github.com/spigell/talentscout/internal/utils"
)

const (
	// QuestionsTemperature keeps generated question sets close to the format contract.
	QuestionsTemperature = 0.3
	// FollowupTemperature leaves a little more room for conversational answers.
	FollowupTemperature = 0.4
)

var (
	//go:embed questions_system.md
	questionsSystem string

	//go:embed followup_system.md
	followupSystem string

	//go:embed followup_user.md
	followupUser string
)

// Pair is one chat-completion request: the system instructions, the user
// content and the sampling temperature.
type Pair struct {
	System      string
	User        string
	Temperature float64
}

// Questions builds the request that produces a markdown practice set. The tech
// stack is passed through verbatim.
func Questions(techStack string) Pair {
	return Pair{
		System:      strings.TrimSpace(questionsSystem),
		User:        "Candidate tech stack: " + techStack,
		Temperature: QuestionsTemperature,
	}
}

// Followup builds the request answering a candidate message about an already
// generated practice set.
func Followup(techStack, priorQuestions, message string) Pair {
	// A single pass keeps placeholders inside candidate text from being expanded.
	r := strings.NewReplacer(
		"{{TECH_STACK}}", utils.NonEmpty(techStack, "N/A"),
		"{{QUESTIONS}}", utils.NonEmpty(priorQuestions, "No questions."),
		"{{MESSAGE}}", message,
	)

	return Pair{
		System:      strings.TrimSpace(followupSystem),
		User:        r.Replace(followupUser),
		Temperature: FollowupTemperature,
	}
}
