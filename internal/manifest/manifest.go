// Package manifest records generated batches in a key-value store. It is only
// used when the command is asked for a manifest file.
package manifest

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/mod/semver"

	"github.com/JuneAsz/genfiles/internal/batch"
	"github.com/JuneAsz/genfiles/internal/errs"
)

var (
	metaBucket    = []byte("meta")
	batchesBucket = []byte("batches")
	filesBucket   = []byte("files")

	versionKey = []byte("schema_version")
)

// Batch status values.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// BatchInfo summarizes one invocation.
type BatchInfo struct {
	ID         string    `json:"id"`
	Dir        string    `json:"dir"`
	Extension  string    `json:"extension"`
	Requested  uint      `json:"requested"`
	Created    int       `json:"created"`
	Failed     int       `json:"failed"`
	Status     string    `json:"status"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitzero"`
}

// FileEntry is one generated file.
type FileEntry struct {
	BatchID   string    `json:"batch_id"`
	Index     int       `json:"index"`
	Name      string    `json:"name"`
	Extension string    `json:"extension"`
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// Manifest wraps a Backend with the batch/file schema.
type Manifest struct {
	backend Backend
	now     func() time.Time
}

// OpenFile opens a bbolt manifest at path, creating it if needed.
func OpenFile(path string) (*Manifest, error) {
	backend, err := NewBboltBackend(path)
	if err != nil {
		return nil, errs.Manifest("open manifest", err)
	}

	m, err := Open(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}
	return m, nil
}

// Open prepares backend for use and checks its schema version.
func Open(backend Backend) (*Manifest, error) {
	if err := prepare(backend); err != nil {
		return nil, errs.Manifest("open manifest", err)
	}
	return &Manifest{backend: backend, now: time.Now}, nil
}

func prepare(backend Backend) error {
	for _, name := range [][]byte{metaBucket, batchesBucket, filesBucket} {
		if err := backend.CreateBucket(name); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", name, err)
		}
	}

	stored, err := backend.Get(metaBucket, versionKey)
	if err != nil {
		return err
	}
	if stored == nil {
		if err := backend.Put(metaBucket, versionKey, []byte(SchemaVersion)); err != nil {
			return err
		}
	} else {
		ok, err := IsCompatibleVersion(string(stored), SchemaVersion)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: manifest has %s, need %s.x.x",
				ErrIncompatibleVersion, stored, semver.Major(SchemaVersion))
		}
	}

	return nil
}

// Close releases the underlying backend.
func (m *Manifest) Close() error {
	return m.backend.Close()
}

// Begin starts recording a new batch.
func (m *Manifest) Begin(dir, extension string, requested uint) (*Batch, error) {
	info := BatchInfo{
		ID:        uuid.NewString(),
		Dir:       dir,
		Extension: extension,
		Requested: requested,
		Status:    StatusRunning,
		StartedAt: m.now(),
	}
	if err := m.putBatch(info); err != nil {
		return nil, errs.Manifest("begin batch", err)
	}
	return &Batch{m: m, info: info}, nil
}

// Batches returns every recorded batch, oldest first.
func (m *Manifest) Batches() ([]BatchInfo, error) {
	var out []BatchInfo
	err := m.backend.ForEach(batchesBucket, func(_, v []byte) error {
		var info BatchInfo
		if err := json.Unmarshal(v, &info); err != nil {
			return err
		}
		out = append(out, info)
		return nil
	})
	if err != nil {
		return nil, errs.Manifest("read manifest", err)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.Before(out[j].StartedAt) })
	return out, nil
}

// Batch returns one batch by ID.
func (m *Manifest) Batch(id string) (BatchInfo, error) {
	info, err := m.batch(id)
	if err != nil {
		return BatchInfo{}, errs.Manifest("read manifest", err)
	}
	return info, nil
}

func (m *Manifest) batch(id string) (BatchInfo, error) {
	data, err := m.backend.Get(batchesBucket, []byte(id))
	if err != nil {
		return BatchInfo{}, err
	}
	if data == nil {
		return BatchInfo{}, fmt.Errorf("%w: %s", ErrBatchNotFound, id)
	}

	var info BatchInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return BatchInfo{}, err
	}
	return info, nil
}

// Files returns the files recorded for batch id in creation order.
func (m *Manifest) Files(id string) ([]FileEntry, error) {
	if _, err := m.batch(id); err != nil {
		return nil, errs.Manifest("read manifest", err)
	}

	var out []FileEntry
	err := m.backend.ForEach(filesBucket, func(_, v []byte) error {
		var entry FileEntry
		if err := json.Unmarshal(v, &entry); err != nil {
			return err
		}
		if entry.BatchID == id {
			out = append(out, entry)
		}
		return nil
	})
	if err != nil {
		return nil, errs.Manifest("read manifest", err)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out, nil
}

func (m *Manifest) putBatch(info BatchInfo) error {
	data, err := json.Marshal(info)
	if err != nil {
		return err
	}
	return m.backend.Put(batchesBucket, []byte(info.ID), data)
}

// Batch records the files of one running batch. It implements batch.Recorder.
type Batch struct {
	m     *Manifest
	info  BatchInfo
	count int
	done  bool
}

var _ batch.Recorder = (*Batch)(nil)

// ID returns the batch's UUID.
func (b *Batch) ID() string {
	return b.info.ID
}

// Record stores f under this batch.
func (b *Batch) Record(f batch.GeneratedFile) error {
	if err := b.record(f); err != nil {
		return errs.Manifest("record file", err)
	}
	return nil
}

func (b *Batch) record(f batch.GeneratedFile) error {
	if b.done {
		return ErrBatchFinished
	}

	entry := FileEntry{
		BatchID:   b.info.ID,
		Index:     b.count,
		Name:      f.Name,
		Extension: f.Extension,
		Path:      f.Path,
		Size:      f.Size,
		CreatedAt: b.m.now(),
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	key := fmt.Sprintf("%s/%010d", b.info.ID, entry.Index)
	if err := b.m.backend.Put(filesBucket, []byte(key), data); err != nil {
		return err
	}
	b.count++
	return nil
}

// Finish stores the outcome of the batch. runErr is the error CreateFiles
// returned, if any.
func (b *Batch) Finish(res batch.Result, runErr error) error {
	if err := b.finish(res, runErr); err != nil {
		return errs.Manifest("finish batch", err)
	}
	return nil
}

func (b *Batch) finish(res batch.Result, runErr error) error {
	if b.done {
		return ErrBatchFinished
	}

	b.info.Created = len(res.Files)
	b.info.Failed = res.Failed
	b.info.FinishedAt = b.m.now()
	b.info.Status = StatusCompleted
	if runErr != nil {
		b.info.Status = StatusFailed
		b.info.Error = runErr.Error()
	}

	if err := b.m.putBatch(b.info); err != nil {
		return err
	}
	b.done = true
	return nil
}
