package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"

	nerrors "github.com/felixgeelhaar/newsdesk/internal/errors"
	"github.com/felixgeelhaar/newsdesk/internal/newsroom"
	"github.com/felixgeelhaar/newsdesk/internal/session"
	"github.com/felixgeelhaar/newsdesk/pkg/newsdesk/types"
)

// PromptForConfirmation displays a yes/no confirmation prompt
func PromptForConfirmation(message string, defaultValue bool) (bool, error) {
	confirmed := defaultValue

	confirm := huh.NewConfirm().
		Title(message).
		Value(&confirmed)

	if err := huh.NewForm(huh.NewGroup(confirm)).Run(); err != nil {
		return false, fmt.Errorf("prompt failed: %w", err)
	}

	return confirmed, nil
}

// PromptForArticle lets the user pick one article by headline and returns its id
func PromptForArticle(message string, articles []types.Article) (string, error) {
	if len(articles) == 0 {
		return "", fmt.Errorf("no articles to choose from")
	}

	options := make([]huh.Option[string], len(articles))
	for i, a := range articles {
		options[i] = huh.NewOption(fmt.Sprintf("%s  (%s)", a.Headline, a.ID), a.ID)
	}

	var selected string
	field := huh.NewSelect[string]().
		Title(message).
		Options(options...).
		Value(&selected)

	if err := huh.NewForm(huh.NewGroup(field)).Run(); err != nil {
		return "", fmt.Errorf("prompt failed: %w", err)
	}

	return selected, nil
}

// PromptForPhone asks for the phone number an OTP is sent to
func PromptForPhone() (string, error) {
	var phone string
	input := huh.NewInput().
		Title("Phone number").
		Placeholder("+15550100").
		Validate(ValidatePhone).
		Value(&phone)

	if err := huh.NewForm(huh.NewGroup(input)).Run(); err != nil {
		return "", fmt.Errorf("prompt failed: %w", err)
	}
	return strings.TrimSpace(phone), nil
}

// PromptForOTP asks for the six-digit code
func PromptForOTP(phone string) (string, error) {
	var otp string
	input := huh.NewInput().
		Title("One-time password").
		Description(fmt.Sprintf("Enter the code sent to %s", phone)).
		CharLimit(session.OTPLength).
		Validate(ValidateOTP).
		Value(&otp)

	if err := huh.NewForm(huh.NewGroup(input)).Run(); err != nil {
		return "", fmt.Errorf("prompt failed: %w", err)
	}
	return otp, nil
}

// PromptForRegistration fills the profile fields of req that are still empty
func PromptForRegistration(req *types.RegisterRequest) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("First name").Value(&req.FirstName),
			huh.NewInput().Title("Last name").Value(&req.LastName),
			huh.NewInput().Title("Username").Validate(required("username")).Value(&req.Username),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).
				Validate(required("password")).Value(&req.Password),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("prompt failed: %w", err)
	}
	return nil
}

// PromptForArticleForm edits f in place. Tags and sources are comma separated.
func PromptForArticleForm(f *newsroom.ArticleForm) error {
	tags := strings.Join(f.Tags, ", ")
	sources := strings.Join(f.Sources, ", ")

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Headline").Validate(required("headline")).Value(&f.Headline),
			huh.NewText().Title("Summary").Lines(3).Value(&f.Summary),
			huh.NewText().Title("Content").Lines(10).Value(&f.Content),
		),
		huh.NewGroup(
			huh.NewInput().Title("Tags").Description("comma separated").Value(&tags),
			huh.NewInput().Title("Sources").Description("comma separated").Value(&sources),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("prompt failed: %w", err)
	}

	ApplyLists(f, tags, sources)
	return nil
}

// PromptForRemark asks for an optional remark
func PromptForRemark(title string) (string, error) {
	var remark string
	text := huh.NewText().
		Title(title).
		Description("optional").
		Lines(3).
		Value(&remark)

	if err := huh.NewForm(huh.NewGroup(text)).Run(); err != nil {
		return "", fmt.Errorf("prompt failed: %w", err)
	}
	return strings.TrimSpace(remark), nil
}

// ApplyLists replaces the form's tags and sources with the comma separated values
func ApplyLists(f *newsroom.ArticleForm, tags, sources string) {
	f.Tags = nil
	for _, t := range strings.Split(tags, ",") {
		f.AddTag(t)
	}
	f.Sources = nil
	for _, s := range strings.Split(sources, ",") {
		f.AddSource(s)
	}
}

// ValidatePhone rejects an empty phone number
func ValidatePhone(s string) error {
	if strings.TrimSpace(s) == "" {
		return nerrors.NewPhoneRequiredError()
	}
	return nil
}

// ValidateOTP requires exactly six characters
func ValidateOTP(s string) error {
	if len(s) != session.OTPLength {
		return nerrors.NewOTPInvalidError()
	}
	return nil
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

// IsInteractive returns true if stdin is a terminal (not piped)
func IsInteractive() bool {
	fileInfo, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

// ShouldPrompt returns true if prompts should be shown based on environment
// Prompts are disabled in CI environments or when stdin is not a terminal
func ShouldPrompt() bool {
	ciEnvVars := []string{
		"CI",
		"GITHUB_ACTIONS",
		"GITLAB_CI",
		"JENKINS_URL",
		"TRAVIS",
		"CIRCLECI",
		"BUILDKITE",
	}

	for _, envVar := range ciEnvVars {
		if os.Getenv(envVar) != "" {
			return false
		}
	}

	return IsInteractive()
}
