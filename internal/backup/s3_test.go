package backup

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

type fakeS3 struct {
	buckets   []string
	listErr   error
	createErr error
	created   []string
	objects   map[string]string
}

func (f *fakeS3) ListBuckets(context.Context) ([]string, error) {
	return f.buckets, f.listErr
}

func (f *fakeS3) CreateBucket(_ context.Context, name string) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, name)
	return nil
}

func (f *fakeS3) PutObject(_ context.Context, bucket, key string, body io.Reader) error {
	payload, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	if f.objects == nil {
		f.objects = map[string]string{}
	}
	f.objects[bucket+"/"+key] = string(payload)
	return nil
}

func writeArchive(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "backup.tar.gz")
	if err := os.WriteFile(path, []byte("archive-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestUploadCreatesMissingBucket(t *testing.T) {
	api := &fakeS3{buckets: []string{"other"}}
	path := writeArchive(t)

	if err := Upload(context.Background(), api, "delirium-backups", "k/backup.tar.gz", path); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if len(api.created) != 1 || api.created[0] != "delirium-backups" {
		t.Fatalf("created = %v", api.created)
	}
	if api.objects["delirium-backups/k/backup.tar.gz"] != "archive-bytes" {
		t.Fatalf("objects = %v", api.objects)
	}
}

func TestUploadSkipsExistingBucket(t *testing.T) {
	api := &fakeS3{buckets: []string{"delirium-backups"}}
	if err := Upload(context.Background(), api, "delirium-backups", "backup.tar.gz", writeArchive(t)); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if len(api.created) != 0 {
		t.Fatalf("created an already-existing bucket: %v", api.created)
	}
}

func TestUploadFailsWhenBucketCannotBeEnsured(t *testing.T) {
	api := &fakeS3{listErr: errors.New("forbidden"), createErr: errors.New("forbidden")}
	if err := Upload(context.Background(), api, "b", "k", writeArchive(t)); err == nil {
		t.Fatal("Upload succeeded without a bucket")
	}
}

func TestUploadValidatesInputs(t *testing.T) {
	if err := Upload(context.Background(), nil, "b", "k", "p"); err == nil {
		t.Fatal("Upload accepted a nil client")
	}
	if err := Upload(context.Background(), &fakeS3{}, "", "k", "p"); err == nil {
		t.Fatal("Upload accepted an empty bucket")
	}
	if err := Upload(context.Background(), &fakeS3{}, "b", "k", filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("Upload accepted a missing archive")
	}
}
