package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Khaliq12345/news-archive-bot/internal/types"
)

// Status is the lifecycle state of a job entry.
type Status string

const (
	StatusRunning Status = "running"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Entry is one job's record in the progress file.
type Entry struct {
	Progress Status `json:"progress"`
	// PID is the cancellation handle of the running process; zero once
	// the job has finished.
	PID    int                  `json:"pid,omitempty"`
	Params *types.JobParameters `json:"params,omitempty"`
	// Updated is the wall-clock time of the last transition.
	Updated time.Time `json:"updated"`
}

// ProgressStore maps job keys to lifecycle entries in a single JSON file.
// Every mutation is a full read-modify-write performed under an exclusive
// scope: an in-process mutex plus an on-disk lock file, with the final
// write done atomically via temp-file rename.
type ProgressStore struct {
	mu   sync.Mutex
	path string
}

// NewProgressStore creates a store backed by the JSON file at path.
func NewProgressStore(path string) *ProgressStore {
	return &ProgressStore{path: path}
}

// Begin transitions jobKey to running, rejecting the start when an entry is
// already running for that key. On rejection nothing is mutated.
func (p *ProgressStore) Begin(jobKey string, params types.JobParameters, pid int) error {
	return p.update(func(entries map[string]Entry) error {
		if cur, ok := entries[jobKey]; ok && cur.Progress == StatusRunning {
			return types.ErrJobRunning
		}
		entries[jobKey] = Entry{
			Progress: StatusRunning,
			PID:      pid,
			Params:   &params,
			Updated:  time.Now(),
		}
		return nil
	})
}

// Finish records the terminal status of jobKey. The walked-past-window stop
// is a success; cancellation and faults are failures.
func (p *ProgressStore) Finish(jobKey string, status Status) error {
	return p.update(func(entries map[string]Entry) error {
		cur, ok := entries[jobKey]
		if !ok {
			return fmt.Errorf("%w: %s", types.ErrJobNotFound, jobKey)
		}
		cur.Progress = status
		cur.PID = 0
		cur.Updated = time.Now()
		entries[jobKey] = cur
		return nil
	})
}

// Cancel kills the running process best-effort and marks the entry failed.
// The store is updated by the canceller, not by the killed job, which may
// never get to run its own cleanup.
func (p *ProgressStore) Cancel(jobKey string) error {
	return p.update(func(entries map[string]Entry) error {
		cur, ok := entries[jobKey]
		if !ok {
			return fmt.Errorf("%w: %s", types.ErrJobNotFound, jobKey)
		}
		if cur.Progress != StatusRunning {
			return fmt.Errorf("%w: %s is %s", types.ErrJobNotRunning, jobKey, cur.Progress)
		}
		if cur.PID > 0 {
			if proc, err := os.FindProcess(cur.PID); err == nil {
				_ = proc.Kill()
			}
		}
		cur.Progress = StatusFailed
		cur.PID = 0
		cur.Updated = time.Now()
		entries[jobKey] = cur
		return nil
	})
}

// Get returns the entry for jobKey.
func (p *ProgressStore) Get(jobKey string) (Entry, error) {
	entries, err := p.All()
	if err != nil {
		return Entry{}, err
	}
	entry, ok := entries[jobKey]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", types.ErrJobNotFound, jobKey)
	}
	return entry, nil
}

// All returns a snapshot of every entry.
func (p *ProgressStore) All() (map[string]Entry, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.load()
}

// update runs fn over the decoded entries inside the exclusive scope and
// writes the result back atomically. An error from fn aborts the write.
func (p *ProgressStore) update(fn func(map[string]Entry) error) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	unlock, err := acquireFileLock(p.path + ".lock")
	if err != nil {
		return err
	}
	defer unlock()

	entries, err := p.load()
	if err != nil {
		return err
	}
	if err := fn(entries); err != nil {
		return err
	}
	return p.save(entries)
}

func (p *ProgressStore) load() (map[string]Entry, error) {
	entries := make(map[string]Entry)
	data, err := os.ReadFile(p.path)
	if err != nil {
		if os.IsNotExist(err) {
			return entries, nil
		}
		return nil, fmt.Errorf("read progress file: %w", err)
	}
	if len(data) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode progress file: %w", err)
	}
	return entries, nil
}

func (p *ProgressStore) save(entries map[string]Entry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode progress file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return fmt.Errorf("create progress dir: %w", err)
	}
	tmp := p.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write progress file: %w", err)
	}
	if err := os.Rename(tmp, p.path); err != nil {
		return fmt.Errorf("replace progress file: %w", err)
	}
	return nil
}

// acquireFileLock takes a cross-process lock via O_EXCL creation of a
// sidecar file, retrying briefly. Locks older than a minute are treated as
// stale leftovers from a killed process and broken.
func acquireFileLock(path string) (func(), error) {
	deadline := time.Now().Add(5 * time.Second)
	for {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			fmt.Fprintf(f, "%d\n", os.Getpid())
			f.Close()
			return func() { _ = os.Remove(path) }, nil
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("acquire progress lock: %w", err)
		}
		if info, serr := os.Stat(path); serr == nil && time.Since(info.ModTime()) > time.Minute {
			_ = os.Remove(path)
			continue
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("acquire progress lock: timed out waiting for %s", path)
		}
		time.Sleep(50 * time.Millisecond)
	}
}
