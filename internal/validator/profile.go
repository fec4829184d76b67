package validator

import (
	"fmt"
	"strings"
)

// DefaultEmailDomain is the only mailbox suffix accepted unless configured otherwise.
const DefaultEmailDomain = "@gmail.com"

// Profile is the raw candidate form as submitted by a renderer.
type Profile struct {
	FullName        string  `json:"full_name" mapstructure:"full_name" jsonschema:"required,description=Candidate full name"`
	Email           string  `json:"email" mapstructure:"email" jsonschema:"required,description=Contact email on the accepted mail domain"`
	Phone           string  `json:"phone,omitempty" mapstructure:"phone" jsonschema:"description=Optional phone number of exactly 10 digits"`
	YearsExperience float64 `json:"years_experience" mapstructure:"years_experience" jsonschema:"minimum=0,description=Years of professional experience"`
	DesiredPosition string  `json:"desired_position,omitempty" mapstructure:"desired_position" jsonschema:"description=Role the candidate is preparing for"`
	Location        string  `json:"location,omitempty" mapstructure:"location" jsonschema:"description=Current location"`
	TechStack       string  `json:"tech_stack" mapstructure:"tech_stack" jsonschema:"required,description=Comma separated technologies such as Python or React"`
}

// Normalize trims surrounding whitespace from every text field.
func (p Profile) Normalize() Profile {
	p.FullName = strings.TrimSpace(p.FullName)
	p.Email = strings.TrimSpace(p.Email)
	p.Phone = strings.TrimSpace(p.Phone)
	p.DesiredPosition = strings.TrimSpace(p.DesiredPosition)
	p.Location = strings.TrimSpace(p.Location)
	p.TechStack = strings.TrimSpace(p.TechStack)
	return p
}

// ValidationError identifies the form field that was rejected.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Rule is a single profile check. Rules run in order and the first failure wins.
type Rule interface {
	Field() string
	Check(p Profile) *ValidationError
}

// ProfileRules returns the standard checks in the order they are reported.
func ProfileRules(m *Matcher, emailDomain string) []Rule {
	if m == nil {
		m = Default()
	}

	return []Rule{
		required{field: "full_name", label: "your full name", value: func(p Profile) string { return p.FullName }},
		required{field: "email", label: "your email address", value: func(p Profile) string { return p.Email }},
		required{field: "tech_stack", label: "your tech stack", value: func(p Profile) string { return p.TechStack }},
		newEmailDomain(emailDomain),
		phoneDigits{},
		nonNegativeExperience{},
		techStack{matcher: m},
	}
}

// ValidateProfile normalizes p and runs rules against it.
func ValidateProfile(rules []Rule, p Profile) (Profile, error) {
	p = p.Normalize()
	for _, rule := range rules {
		if verr := rule.Check(p); verr != nil {
			return p, verr
		}
	}
	return p, nil
}

type required struct {
	field string
	label string
	value func(Profile) string
}

func (r required) Field() string { return r.field }

func (r required) Check(p Profile) *ValidationError {
	if r.value(p) != "" {
		return nil
	}
	return &ValidationError{
		Field:   r.field,
		Message: fmt.Sprintf("Please fill in %s. Name, email and tech stack are required.", r.label),
	}
}

type emailDomain struct {
	suffix string
}

func newEmailDomain(suffix string) emailDomain {
	suffix = strings.ToLower(strings.TrimSpace(suffix))
	if suffix == "" {
		suffix = DefaultEmailDomain
	}
	if !strings.HasPrefix(suffix, "@") {
		suffix = "@" + suffix
	}
	return emailDomain{suffix: suffix}
}

func (r emailDomain) Field() string { return "email" }

func (r emailDomain) Check(p Profile) *ValidationError {
	email := strings.ToLower(p.Email)
	if strings.HasSuffix(email, r.suffix) && len(email) > len(r.suffix) {
		return nil
	}
	return &ValidationError{
		Field:   r.Field(),
		Message: fmt.Sprintf("Please enter a valid email address (must end with %s).", r.suffix),
	}
}

type phoneDigits struct{}

const phoneLength = 10

func (phoneDigits) Field() string { return "phone" }

func (r phoneDigits) Check(p Profile) *ValidationError {
	if p.Phone == "" {
		return nil
	}
	valid := len(p.Phone) == phoneLength
	for _, c := range p.Phone {
		if c < '0' || c > '9' {
			valid = false
			break
		}
	}
	if valid {
		return nil
	}
	return &ValidationError{
		Field:   r.Field(),
		Message: "Please enter a valid 10-digit phone number (numbers only).",
	}
}

type nonNegativeExperience struct{}

func (nonNegativeExperience) Field() string { return "years_experience" }

func (r nonNegativeExperience) Check(p Profile) *ValidationError {
	// NaN fails both comparisons, so test for the accepted range.
	if p.YearsExperience >= 0 {
		return nil
	}
	return &ValidationError{Field: r.Field(), Message: "Years of experience cannot be negative."}
}

type techStack struct {
	matcher *Matcher
}

func (techStack) Field() string { return "tech_stack" }

func (r techStack) Check(p Profile) *ValidationError {
	if r.matcher.LooksLikeTechStack(p.TechStack) {
		return nil
	}

	msg := "I'm not sure that looks like a tech stack yet. " +
		"Please enter skills like `Python, React, Flutter, NLP, SQL` instead of a random sentence or request."
	if hints := r.matcher.Suggest(p.TechStack); len(hints) > 0 {
		msg += " Did you mean: " + strings.Join(hints, ", ") + "?"
	}

	return &ValidationError{Field: r.Field(), Message: msg}
}
