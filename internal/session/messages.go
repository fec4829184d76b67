package session

import "fmt"

const (
	welcomeMessage = "Hey there! I'm your **TalentScout Hiring Assistant**.\n\n" +
		"Fill out your basic details below, and I'll generate **practice interview questions** " +
		"and **mini assignments** tailored to your tech stack."

	// GoodbyeMessage closes a session after an end intent.
	GoodbyeMessage = "You're welcome!\n\n" +
		"All the best for your interviews, you've got this.\n" +
		"Quick tips before you go:\n" +
		"- Practice answering out loud\n" +
		"- Time yourself for each question\n" +
		"- Note down gaps and revise those topics\n\n" +
		"See you soon, and good luck!"

	// WrappedUpMessage answers every message after the session ended.
	WrappedUpMessage = "This session is already wrapped up. " +
		"Refresh the page or reset the session if you'd like a fresh practice run."

	// FillFormMessage answers chat messages sent before the profile is accepted.
	FillFormMessage = "First, please fill out the form above so I can understand your profile. " +
		"Then I'll generate practice questions for you."

	// OutOfScopeMessage answers requests unrelated to interview preparation.
	OutOfScopeMessage = "I'm not trained for that yet.\n\n" +
		"Right now I only know how to help with **interview preparation**: " +
		"your tech stack, concepts, and how to answer questions.\n\n" +
		"If you need help, try asking things like:\n" +
		"- \"Can you explain question 2 in simple words?\"\n" +
		"- \"How should I structure an answer about OOP?\"\n" +
		"- \"What topics should I revise for this tech stack?\""
)

func acceptedMessage(p CandidateProfile) string {
	return fmt.Sprintf("Got it, **%s**! I'll generate a practice set based on your tech stack: `%s`.", p.FullName, p.TechStack)
}
