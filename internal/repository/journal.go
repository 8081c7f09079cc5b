package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/relcut/relcut/internal/domain"
	"github.com/spf13/afero"
)

const (
	// JournalFilePermissions defines the permissions for journal files
	JournalFilePermissions = 0600
	// JournalDirPermissions defines the permissions for the journal directory
	JournalDirPermissions = 0700
	// LockTimeout defines the maximum time to wait for a lock
	LockTimeout = 30 * time.Second
	// LockRetryInterval defines the interval between lock retry attempts
	LockRetryInterval = 100 * time.Millisecond
)

// JournalRepository persists run records so an interrupted or failed run
// leaves an inspectable trace. Records are write-mostly; the tool only reads
// them back for the operator, never to alter pipeline behavior.
type JournalRepository interface {
	Save(ctx context.Context, record *domain.RunRecord) error
	Load(ctx context.Context, sessionID string) (*domain.RunRecord, error)
	LoadLatest(ctx context.Context) (*domain.RunRecord, error)
}

// JSONJournalRepository implements JournalRepository using JSON file storage
// with advisory file locking.
type JSONJournalRepository struct {
	fs  afero.Fs
	dir string
	mu  sync.Mutex
}

// NewJSONJournalRepository creates a new JSON-based journal repository.
func NewJSONJournalRepository(fs afero.Fs, dir string) JournalRepository {
	if dir == "" {
		dir = ".relcut-journal"
	}
	return &JSONJournalRepository{fs: fs, dir: dir}
}

// Save writes the record atomically under an exclusive lock and updates the
// latest pointer.
func (r *JSONJournalRepository) Save(ctx context.Context, record *domain.RunRecord) error {
	if err := r.fs.MkdirAll(r.dir, JournalDirPermissions); err != nil {
		return fmt.Errorf("failed to ensure journal directory: %w", err)
	}
	filename := r.recordFilename(record.SessionID)
	lock := flock.New(r.lockFilename(record.SessionID))
	lockCtx, cancel := context.WithTimeout(ctx, LockTimeout)
	defer cancel()
	locked, err := r.acquireLock(lockCtx, lock)
	if err != nil {
		return fmt.Errorf("failed to acquire journal lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("could not acquire journal lock within timeout")
	}
	defer func() {
		if unlockErr := lock.Unlock(); unlockErr != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to unlock journal file: %v\n", unlockErr)
		}
	}()
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run record: %w", err)
	}
	tempFile := filename + ".tmp"
	if err := afero.WriteFile(r.fs, tempFile, data, JournalFilePermissions); err != nil {
		return fmt.Errorf("failed to write temp journal file: %w", err)
	}
	if err := r.fs.Rename(tempFile, filename); err != nil {
		if removeErr := r.fs.Remove(tempFile); removeErr != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to remove temp journal file: %v\n", removeErr)
		}
		return fmt.Errorf("failed to rename journal file: %w", err)
	}
	return r.updateLatestPointer(filename)
}

// Load retrieves a run record by session ID.
func (r *JSONJournalRepository) Load(ctx context.Context, sessionID string) (*domain.RunRecord, error) {
	if _, err := r.fs.Stat(r.recordFilename(sessionID)); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no journal entry for session %s", sessionID)
		}
		return nil, fmt.Errorf("failed to check journal file: %w", err)
	}
	lock := flock.New(r.lockFilename(sessionID))
	lockCtx, cancel := context.WithTimeout(ctx, LockTimeout)
	defer cancel()
	locked, err := r.acquireSharedLock(lockCtx, lock)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire shared journal lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("could not acquire shared journal lock within timeout")
	}
	defer func() {
		if unlockErr := lock.Unlock(); unlockErr != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to unlock journal file: %v\n", unlockErr)
		}
	}()
	data, err := afero.ReadFile(r.fs, r.recordFilename(sessionID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no journal entry for session %s", sessionID)
		}
		return nil, fmt.Errorf("failed to read journal file: %w", err)
	}
	var record domain.RunRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run record: %w", err)
	}
	return &record, nil
}

// LoadLatest retrieves the most recently saved run record.
func (r *JSONJournalRepository) LoadLatest(ctx context.Context) (*domain.RunRecord, error) {
	r.mu.Lock()
	data, err := afero.ReadFile(r.fs, r.latestPointer())
	r.mu.Unlock()
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no journal entries found")
		}
		return nil, fmt.Errorf("failed to read latest pointer: %w", err)
	}
	sessionID := r.extractSessionID(strings.TrimSpace(string(data)))
	if sessionID == "" {
		return nil, fmt.Errorf("invalid latest pointer target: %s", string(data))
	}
	return r.Load(ctx, sessionID)
}

// acquireLock attempts to acquire an exclusive lock with context support.
func (r *JSONJournalRepository) acquireLock(ctx context.Context, lock *flock.Flock) (bool, error) {
	ticker := time.NewTicker(LockRetryInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-ticker.C:
			locked, err := lock.TryLock()
			if err != nil {
				return false, err
			}
			if locked {
				return true, nil
			}
		}
	}
}

// acquireSharedLock attempts to acquire a shared lock with context support.
func (r *JSONJournalRepository) acquireSharedLock(ctx context.Context, lock *flock.Flock) (bool, error) {
	ticker := time.NewTicker(LockRetryInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-ticker.C:
			locked, err := lock.TryRLock()
			if err != nil {
				return false, err
			}
			if locked {
				return true, nil
			}
		}
	}
}

func (r *JSONJournalRepository) recordFilename(sessionID string) string {
	return filepath.Join(r.dir, fmt.Sprintf("run-%s.json", sessionID))
}

func (r *JSONJournalRepository) lockFilename(sessionID string) string {
	return filepath.Join(r.dir, fmt.Sprintf(".run-%s.lock", sessionID))
}

func (r *JSONJournalRepository) latestPointer() string {
	return filepath.Join(r.dir, "latest.txt")
}

func (r *JSONJournalRepository) updateLatestPointer(target string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	pointer := r.latestPointer()
	tempPointer := pointer + ".tmp"
	if err := afero.WriteFile(r.fs, tempPointer, []byte(target), JournalFilePermissions); err != nil {
		return fmt.Errorf("failed to write temp latest pointer: %w", err)
	}
	if err := r.fs.Rename(tempPointer, pointer); err != nil {
		if removeErr := r.fs.Remove(tempPointer); removeErr != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to remove temp pointer: %v\n", removeErr)
		}
		return fmt.Errorf("failed to update latest pointer: %w", err)
	}
	return nil
}

// extractSessionID extracts the session ID from a journal filename.
func (r *JSONJournalRepository) extractSessionID(filename string) string {
	base := filepath.Base(filename)
	if len(base) > 9 && strings.HasPrefix(base, "run-") && strings.HasSuffix(base, ".json") {
		return base[4 : len(base)-5]
	}
	return ""
}
