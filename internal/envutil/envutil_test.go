package envutil

import "testing"

func TestHostEnvKey(t *testing.T) {
	if got := HostEnvKey("HEADLESS"); got != "DELIRIUM_HEADLESS" {
		t.Fatalf("HostEnvKey = %q", got)
	}
}

func TestBoolFromEnv(t *testing.T) {
	cases := map[string]bool{
		"1":     true,
		"true":  true,
		"TRUE":  true,
		"yes":   true,
		"on":    true,
		"0":     false,
		"false": false,
		"no":    false,
		"":      false,
		"maybe": false,
	}
	for raw, want := range cases {
		t.Setenv("DELIRIUMCTL_TEST_BOOL", raw)
		if got := BoolFromEnv("DELIRIUMCTL_TEST_BOOL"); got != want {
			t.Errorf("BoolFromEnv(%q) = %v, want %v", raw, got, want)
		}
	}
}

func TestFirstNonEmpty(t *testing.T) {
	if got := FirstNonEmpty("", "  ", "a", "b"); got != "a" {
		t.Fatalf("FirstNonEmpty = %q", got)
	}
	if got := FirstNonEmpty("", "  "); got != "" {
		t.Fatalf("FirstNonEmpty blank = %q", got)
	}
}
