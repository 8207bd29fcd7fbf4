package workflows

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/delirium-paste/deliriumctl/internal/envfile"
	"github.com/delirium-paste/deliriumctl/internal/secret"
)

func loadRecord(t *testing.T, content string) *envfile.Record {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	record, err := envfile.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if content != "" {
		for _, line := range strings.Split(strings.TrimSpace(content), "\n") {
			parts := strings.SplitN(line, "=", 2)
			record.Set(parts[0], parts[1])
		}
		if err := record.Save(); err != nil {
			t.Fatal(err)
		}
	}
	return record
}

func TestShowMasksPepper(t *testing.T) {
	pepper := strings.Repeat("de", 32)
	record := loadRecord(t, "DELIRIUM_SECRET_PEPPER="+pepper+"\nDELIRIUM_WEB_PORT=8080")

	console, buf := testConsole()
	w := &EnvWorkflow{UI: console}
	w.Show(record)

	printed := buf.String()
	if strings.Contains(printed, pepper) {
		t.Fatalf("pepper leaked:\n%s", printed)
	}
	if !strings.Contains(printed, "dede…") {
		t.Fatalf("masked pepper missing:\n%s", printed)
	}
	if !strings.Contains(printed, "8080") {
		t.Fatalf("plain value missing:\n%s", printed)
	}
}

func TestSetValidatesKnownKeys(t *testing.T) {
	record := loadRecord(t, "")
	console, _ := testConsole()
	w := &EnvWorkflow{UI: console}

	if err := w.Set(record, "DELIRIUM_WEB_PORT", "nope"); err == nil {
		t.Fatal("Set accepted a non-numeric port")
	}
	if err := w.Set(record, "DELIRIUM_SECRET_PEPPER", "short"); err == nil {
		t.Fatal("Set accepted a malformed pepper")
	}
	if err := w.Set(record, "DELIRIUM_WEB_PORT", "9090"); err != nil {
		t.Fatalf("Set rejected a valid port: %v", err)
	}
	if err := w.Set(record, "CUSTOM_FLAG", "anything goes"); err != nil {
		t.Fatalf("Set rejected an unknown key: %v", err)
	}
	if record.Get("CUSTOM_FLAG") != "anything goes" {
		t.Fatalf("unknown key not stored")
	}
}

func TestRotatePepperNeedsConfirmation(t *testing.T) {
	record := loadRecord(t, "DELIRIUM_SECRET_PEPPER="+strings.Repeat("aa", 32))
	w := &EnvWorkflow{}

	if _, err := w.RotatePepper(record, false); err == nil {
		t.Fatal("RotatePepper ran without confirmation")
	}

	pepper, err := w.RotatePepper(record, true)
	if err != nil {
		t.Fatalf("RotatePepper: %v", err)
	}
	if !secret.Valid(pepper.Value) {
		t.Fatalf("rotated pepper %q invalid", pepper.Value)
	}
	if record.Get("DELIRIUM_SECRET_PEPPER") != pepper.Value {
		t.Fatal("record not updated with the new pepper")
	}
}
