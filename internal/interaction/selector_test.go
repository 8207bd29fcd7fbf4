package interaction

import (
	"errors"
	"os"
	"testing"

	"github.com/charmbracelet/huh"
)

func TestHuhPrompterInputUsesRunner(t *testing.T) {
	orig := runInputPrompt
	t.Cleanup(func() { runInputPrompt = orig })

	var gotTitle string
	var gotSuggestions []string
	runInputPrompt = func(title string, suggestions []string, input *string) error {
		gotTitle = title
		gotSuggestions = append([]string(nil), suggestions...)
		*input = "paste.example.com"
		return nil
	}

	got, err := (HuhPrompter{}).Input("Domain", []string{"paste.example.com"})
	if err != nil {
		t.Fatalf("Input() error = %v", err)
	}
	if got != "paste.example.com" {
		t.Fatalf("Input() = %q", got)
	}
	if gotTitle != "Domain" {
		t.Fatalf("title = %q", gotTitle)
	}
	if len(gotSuggestions) != 1 || gotSuggestions[0] != "paste.example.com" {
		t.Fatalf("suggestions = %#v", gotSuggestions)
	}
}

func TestHuhPrompterInputWrapsError(t *testing.T) {
	orig := runInputPrompt
	t.Cleanup(func() { runInputPrompt = orig })
	runInputPrompt = func(string, []string, *string) error {
		return errors.New("tty unavailable")
	}

	_, err := (HuhPrompter{}).Input("Domain", nil)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if err.Error() != "prompt input: tty unavailable" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestHuhPrompterSelectValueMapsOptions(t *testing.T) {
	orig := runSelectPrompt
	t.Cleanup(func() { runSelectPrompt = orig })

	var gotOptions []huh.Option[string]
	runSelectPrompt = func(title string, options []huh.Option[string], selected *string) error {
		gotOptions = options
		*selected = options[1].Value
		return nil
	}

	got, err := (HuhPrompter{}).SelectValue("Profile", []SelectOption{
		{Label: "Development", Value: "development"},
		{Label: "Production (TLS)", Value: "production-tls"},
	})
	if err != nil {
		t.Fatalf("SelectValue() error = %v", err)
	}
	if got != "production-tls" {
		t.Fatalf("SelectValue() = %q", got)
	}
	if len(gotOptions) != 2 {
		t.Fatalf("options = %d", len(gotOptions))
	}
}

func TestHuhPrompterSelectValueEmptyOptions(t *testing.T) {
	got, err := (HuhPrompter{}).SelectValue("Profile", nil)
	if err != nil || got != "" {
		t.Fatalf("SelectValue(nil) = %q, %v", got, err)
	}
}

func TestHuhPrompterConfirmUsesRunner(t *testing.T) {
	orig := runConfirmPrompt
	t.Cleanup(func() { runConfirmPrompt = orig })
	runConfirmPrompt = func(title string, confirmed *bool) error {
		*confirmed = true
		return nil
	}

	ok, err := (HuhPrompter{}).Confirm("Rotate the pepper?")
	if err != nil {
		t.Fatalf("Confirm() error = %v", err)
	}
	if !ok {
		t.Fatal("Confirm() = false, want true")
	}
}

func TestIsAbortRecognizesHuhCancel(t *testing.T) {
	if !IsAbort(huh.ErrUserAborted) {
		t.Fatal("huh.ErrUserAborted should count as abort")
	}
	if !IsAbort(ErrAborted) {
		t.Fatal("ErrAborted should count as abort")
	}
	if IsAbort(errors.New("boom")) {
		t.Fatal("generic error should not count as abort")
	}
}

func TestHeadlessEnvToggle(t *testing.T) {
	origTerm := IsTerminal
	t.Cleanup(func() { IsTerminal = origTerm })

	IsTerminal = func(*os.File) bool { return true }
	t.Setenv("DELIRIUM_HEADLESS", "1")
	if !Headless() {
		t.Fatal("DELIRIUM_HEADLESS=1 should force headless")
	}

	t.Setenv("DELIRIUM_HEADLESS", "")
	if Headless() {
		t.Fatal("terminal stdin without the toggle should be interactive")
	}

	IsTerminal = func(*os.File) bool { return false }
	if !Headless() {
		t.Fatal("non-terminal stdin should imply headless")
	}
}
