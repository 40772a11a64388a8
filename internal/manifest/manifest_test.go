package manifest

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/JuneAsz/genfiles/internal/batch"
	"github.com/JuneAsz/genfiles/internal/errs"
)

func fixedClock(start time.Time) func() time.Time {
	t := start
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func TestManifest_RecordBatch(t *testing.T) {
	t.Parallel()

	m, err := Open(NewMemoryBackend())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer m.Close()

	b, err := m.Begin("/tmp/out", "dat", 3)
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if _, err := uuid.Parse(b.ID()); err != nil {
		t.Errorf("batch ID %q is not a UUID: %v", b.ID(), err)
	}

	files := []batch.GeneratedFile{
		{Name: "AbC123", Extension: "dat", Path: "/tmp/out/AbC123.dat", Size: 4096},
		{Name: "xyz789", Extension: "dat", Path: "/tmp/out/xyz789.dat", Size: 4096},
		{Name: "QQQ000", Extension: "dat", Path: "/tmp/out/QQQ000.dat", Size: 4096},
	}
	for _, f := range files {
		if err := b.Record(f); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}
	if err := b.Finish(batch.Result{Files: files, Bytes: 3 * 4096}, nil); err != nil {
		t.Fatalf("Finish failed: %v", err)
	}

	info, err := m.Batch(b.ID())
	if err != nil {
		t.Fatalf("Batch failed: %v", err)
	}
	if info.Status != StatusCompleted || info.Created != 3 || info.Requested != 3 {
		t.Errorf("unexpected batch info: %+v", info)
	}

	entries, err := m.Files(b.ID())
	if err != nil {
		t.Fatalf("Files failed: %v", err)
	}
	if len(entries) != len(files) {
		t.Fatalf("Files returned %d entries, want %d", len(entries), len(files))
	}
	for i, e := range entries {
		if e.Index != i || e.Path != files[i].Path || e.Size != 4096 {
			t.Errorf("entry %d = %+v, want path %s", i, e, files[i].Path)
		}
	}

	if err := b.Record(files[0]); !errors.Is(err, ErrBatchFinished) {
		t.Errorf("Record after Finish: got %v, want ErrBatchFinished", err)
	}
}

func TestManifest_FailedBatch(t *testing.T) {
	t.Parallel()

	m, err := Open(NewMemoryBackend())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	b, _ := m.Begin("/missing", "txt", 2)
	if err := b.Finish(batch.Result{}, errors.New("create /missing/a.txt: no such file or directory")); err != nil {
		t.Fatalf("Finish failed: %v", err)
	}

	info, _ := m.Batch(b.ID())
	if info.Status != StatusFailed {
		t.Errorf("Status = %s, want %s", info.Status, StatusFailed)
	}
	if info.Error == "" {
		t.Error("failed batch should keep its error message")
	}
}

func TestManifest_BatchesOrdered(t *testing.T) {
	t.Parallel()

	m, err := Open(NewMemoryBackend())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	m.now = fixedClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	var ids []string
	for range 4 {
		b, err := m.Begin(".", "log", 1)
		if err != nil {
			t.Fatalf("Begin failed: %v", err)
		}
		ids = append(ids, b.ID())
	}

	batches, err := m.Batches()
	if err != nil {
		t.Fatalf("Batches failed: %v", err)
	}
	if len(batches) != len(ids) {
		t.Fatalf("Batches returned %d, want %d", len(batches), len(ids))
	}
	for i, info := range batches {
		if info.ID != ids[i] {
			t.Errorf("batch %d = %s, want %s", i, info.ID, ids[i])
		}
	}
}

func TestManifest_UnknownBatch(t *testing.T) {
	t.Parallel()

	m, _ := Open(NewMemoryBackend())
	if _, err := m.Files("does-not-exist"); !errors.Is(err, ErrBatchNotFound) {
		t.Errorf("Files: got %v, want ErrBatchNotFound", err)
	}
}

func TestManifest_ReopenFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "manifest.db")

	m, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}
	b, _ := m.Begin(".", "bin", 1)
	b.Record(batch.GeneratedFile{Name: "a1B2c3", Extension: "bin", Path: "a1B2c3.bin", Size: 4096})
	b.Finish(batch.Result{Files: make([]batch.GeneratedFile, 1)}, nil)
	id := b.ID()
	if err := m.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	m, err = OpenFile(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer m.Close()

	entries, err := m.Files(id)
	if err != nil {
		t.Fatalf("Files failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "a1B2c3" {
		t.Errorf("unexpected entries after reopen: %+v", entries)
	}
}

func TestManifest_IncompatibleVersion(t *testing.T) {
	t.Parallel()

	backend := NewMemoryBackend()
	backend.CreateBucket(metaBucket)
	backend.Put(metaBucket, versionKey, []byte("v2.3.0"))

	if _, err := Open(backend); !errors.Is(err, ErrIncompatibleVersion) {
		t.Errorf("Open: got %v, want ErrIncompatibleVersion", err)
	}
}

func TestIsCompatibleVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		stored  string
		current string
		want    bool
		wantErr bool
	}{
		{"same version", "v1.0.0", "v1.0.0", true, false},
		{"minor differs", "v1.4.2", "v1.0.0", true, false},
		{"major differs", "v2.0.0", "v1.0.0", false, false},
		{"invalid stored", "1.0.0", "v1.0.0", false, true},
		{"invalid current", "v1.0.0", "latest", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := IsCompatibleVersion(tt.stored, tt.current)
			if (err != nil) != tt.wantErr {
				t.Fatalf("IsCompatibleVersion error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("IsCompatibleVersion(%q, %q) = %v, want %v", tt.stored, tt.current, got, tt.want)
			}
		})
	}
}

func TestManifest_ErrorKind(t *testing.T) {
	t.Parallel()

	backend := NewMemoryBackend()
	backend.CreateBucket(metaBucket)
	backend.Put(metaBucket, versionKey, []byte("v9.0.0"))

	_, openErr := Open(backend)
	_, fileErr := OpenFile(filepath.Join(t.TempDir(), "missing", "manifest.db"))

	m, _ := Open(NewMemoryBackend())
	b, _ := m.Begin(".", "dat", 1)
	b.Finish(batch.Result{}, nil)
	recordErr := b.Record(batch.GeneratedFile{Name: "a1B2c3"})
	finishErr := b.Finish(batch.Result{}, nil)
	_, readErr := m.Files("does-not-exist")

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"incompatible version", openErr, ErrIncompatibleVersion},
		{"bbolt open", fileErr, nil},
		{"record after finish", recordErr, ErrBatchFinished},
		{"finish twice", finishErr, ErrBatchFinished},
		{"unknown batch", readErr, ErrBatchNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err == nil {
				t.Fatal("expected an error")
			}
			kind, ok := errs.KindOf(tt.err)
			if !ok || kind != errs.KindManifest {
				t.Errorf("KindOf(%v) = %v, %v; want %v", tt.err, kind, ok, errs.KindManifest)
			}
			if tt.want != nil && !errors.Is(tt.err, tt.want) {
				t.Errorf("error %v should wrap %v", tt.err, tt.want)
			}
		})
	}
}

// Recorder failures surface through the batch with their manifest kind.
func TestManifest_RecordErrorThroughBatch(t *testing.T) {
	t.Parallel()

	m, _ := Open(NewMemoryBackend())
	b, _ := m.Begin(".", "dat", 1)
	b.Finish(batch.Result{}, nil)

	_, err := batch.CreateFiles(context.Background(), batch.Options{
		Amount:    1,
		Path:      t.TempDir(),
		Extension: "dat",
		Recorder:  b,
	})
	if kind, _ := errs.KindOf(err); kind != errs.KindManifest {
		t.Errorf("KindOf(%v) = %v, want %v", err, kind, errs.KindManifest)
	}
}
