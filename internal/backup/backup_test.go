package backup

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/delirium-paste/deliriumctl/internal/compose"
)

type fakeRunner struct {
	copyErr error
	calls   [][]string
}

func (f *fakeRunner) Run(_ context.Context, _, _ string, args ...string) error {
	f.calls = append(f.calls, args)
	return nil
}

func (f *fakeRunner) RunQuiet(_ context.Context, _, _ string, args ...string) error {
	f.calls = append(f.calls, args)
	if f.copyErr != nil {
		return f.copyErr
	}
	// compose cp stages the data dir; emulate by creating the destination.
	dst := args[len(args)-1]
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dst, "pastes.db"), []byte("data"), 0o644)
}

func (f *fakeRunner) RunOutput(_ context.Context, _, _ string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, args)
	return nil, nil
}

func fixedNow(t *testing.T) {
	t.Helper()
	orig := now
	t.Cleanup(func() { now = orig })
	now = func() time.Time { return time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC) }
}

func archiveEntries(t *testing.T, path string) []string {
	t.Helper()
	file, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()
	gz, err := gzip.NewReader(file)
	if err != nil {
		t.Fatal(err)
	}
	reader := tar.NewReader(gz)
	var names []string
	for {
		header, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		names = append(names, header.Name)
	}
	return names
}

func setupInstallDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("DELIRIUM_WEB_PORT=8080\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestCreatePacksEnvAndData(t *testing.T) {
	fixedNow(t)
	installDir := setupInstallDir(t)
	outDir := t.TempDir()

	runner := &fakeRunner{}
	stack := compose.Stack{RootDir: installDir, Project: "delirium"}
	archive, err := Create(context.Background(), runner, stack, Options{
		InstallDir: installDir,
		OutDir:     outDir,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !archive.DataIncluded {
		t.Fatal("DataIncluded = false with a working export")
	}
	if !strings.HasPrefix(filepath.Base(archive.Path), "delirium-backup-20260824-120000-") {
		t.Fatalf("archive name = %q", filepath.Base(archive.Path))
	}

	entries := archiveEntries(t, archive.Path)
	joined := strings.Join(entries, "\n")
	if !strings.Contains(joined, "delirium-backup/.env") {
		t.Fatalf("archive misses env record: %v", entries)
	}
	if !strings.Contains(joined, "delirium-backup/data/pastes.db") {
		t.Fatalf("archive misses data export: %v", entries)
	}
}

func TestCreateDegradesWithoutDataExport(t *testing.T) {
	fixedNow(t)
	installDir := setupInstallDir(t)

	runner := &fakeRunner{copyErr: errors.New("service not running")}
	stack := compose.Stack{RootDir: installDir, Project: "delirium"}
	archive, err := Create(context.Background(), runner, stack, Options{
		InstallDir: installDir,
		OutDir:     t.TempDir(),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if archive.DataIncluded {
		t.Fatal("DataIncluded = true despite export failure")
	}
	entries := strings.Join(archiveEntries(t, archive.Path), "\n")
	if !strings.Contains(entries, ".env") {
		t.Fatalf("env record missing from degraded archive: %v", entries)
	}
}

func TestCreateRequiresEnvRecord(t *testing.T) {
	runner := &fakeRunner{}
	_, err := Create(context.Background(), runner, compose.Stack{RootDir: "x"}, Options{
		InstallDir: t.TempDir(),
		OutDir:     t.TempDir(),
	})
	if err == nil {
		t.Fatal("Create accepted an install dir without an env record")
	}
}

func TestArchiveKey(t *testing.T) {
	archive := Archive{Path: "/backups/delirium-backup-x.tar.gz"}
	if got := archive.Key(""); got != "delirium-backup-x.tar.gz" {
		t.Fatalf("Key = %q", got)
	}
	if got := archive.Key("delirium"); got != "delirium/delirium-backup-x.tar.gz" {
		t.Fatalf("Key with prefix = %q", got)
	}
}
