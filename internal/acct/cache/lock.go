package cache

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goodnatureofminers/acctmon/internal/clock"
	"github.com/shirou/gopsutil/v4/process"
)

// LockSuffix is appended to the cache path to form the lock file path.
const LockSuffix = ".lck"

// ErrLocked is returned when another process holds the cache lock.
var ErrLocked = errors.New("cache lock file is present")

// LockInfo describes the holder recorded in a lock file.
type LockInfo struct {
	PID   int32
	Host  string
	Since time.Time
}

// LockedError reports a present lock file. It matches ErrLocked.
type LockedError struct {
	Path string
	// Holder is nil when the lock file content is unreadable.
	Holder *LockInfo
	// Stale is set when the holder ran on this host and is no longer alive.
	Stale bool
}

func (e *LockedError) Error() string {
	msg := "cache lock file is present: " + e.Path
	if e.Holder != nil {
		msg += fmt.Sprintf(" (pid %d on %s since %s)", e.Holder.PID, e.Holder.Host, e.Holder.Since.Format(time.RFC3339))
	}
	if e.Stale {
		msg += " (holder is not running)"
	}
	return msg
}

func (e *LockedError) Is(target error) bool {
	return target == ErrLocked
}

// LockPath returns the lock file path of cachePath.
func LockPath(cachePath string) string {
	return cachePath + LockSuffix
}

// Lock is an exclusive lock on a cache file, held through a sibling .lck file.
// Stale lock files are reported, never removed.
type Lock struct {
	path      string
	poll      time.Duration
	pid       int32
	hostname  func() (string, error)
	pidExists func(ctx context.Context, pid int32) (bool, error)
	now       func() time.Time

	mu   sync.Mutex
	held bool
}

// NewLock returns the lock of cachePath; poll is the wait interval of Lock.
func NewLock(cachePath string, poll time.Duration) *Lock {
	if poll <= 0 {
		poll = time.Second
	}
	return &Lock{
		path:      LockPath(cachePath),
		poll:      poll,
		pid:       int32(os.Getpid()),
		hostname:  os.Hostname,
		pidExists: process.PidExistsWithContext,
		now:       time.Now,
	}
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	return l.path
}

// TryLock creates the lock file or returns a *LockedError.
func (l *Lock) TryLock(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.held {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			locked, inspectErr := l.Inspect(ctx)
			if inspectErr != nil {
				return inspectErr
			}
			if locked == nil {
				locked = &LockedError{Path: l.path}
			}
			return locked
		}
		return fmt.Errorf("create lock file %s: %w", l.path, err)
	}

	host, _ := l.hostname()
	_, writeErr := fmt.Fprintf(f, "pid %d\nhost %s\nsince %s\n", l.pid, host, l.now().UTC().Format(time.RFC3339))
	closeErr := f.Close()
	if err := errors.Join(writeErr, closeErr); err != nil {
		_ = os.Remove(l.path)
		return fmt.Errorf("write lock file %s: %w", l.path, err)
	}
	l.held = true
	return nil
}

// Lock waits until the lock is acquired or ctx is canceled.
func (l *Lock) Lock(ctx context.Context) error {
	return clock.PollWithContext(ctx, l.poll, func(ctx context.Context) (bool, error) {
		err := l.TryLock(ctx)
		if errors.Is(err, ErrLocked) {
			return false, nil
		}
		return err == nil, err
	})
}

// Unlock removes the lock file if this Lock holds it.
func (l *Lock) Unlock() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.held {
		return nil
	}
	if err := os.Remove(l.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove lock file %s: %w", l.path, err)
	}
	l.held = false
	return nil
}

// Held reports whether this Lock holds the lock file.
func (l *Lock) Held() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.held
}

// Inspect returns a *LockedError describing the lock file, or nil when absent.
func (l *Lock) Inspect(ctx context.Context) (*LockedError, error) {
	raw, err := os.ReadFile(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read lock file %s: %w", l.path, err)
	}

	locked := &LockedError{Path: l.path}
	info, ok := parseLockInfo(raw)
	if !ok {
		return locked, nil
	}
	locked.Holder = &info

	host, err := l.hostname()
	if err == nil && host == info.Host && info.PID > 0 {
		alive, err := l.pidExists(ctx, info.PID)
		if err == nil && !alive {
			locked.Stale = true
		}
	}
	return locked, nil
}

func parseLockInfo(raw []byte) (LockInfo, bool) {
	var info LockInfo
	var havePID bool
	scanner := bufio.NewScanner(bytes.NewReader(raw))
	for scanner.Scan() {
		key, value, ok := strings.Cut(strings.TrimSpace(scanner.Text()), " ")
		if !ok {
			continue
		}
		switch key {
		case "pid":
			pid, err := strconv.ParseInt(value, 10, 32)
			if err != nil {
				return LockInfo{}, false
			}
			info.PID = int32(pid)
			havePID = true
		case "host":
			info.Host = value
		case "since":
			if ts, err := time.Parse(time.RFC3339, value); err == nil {
				info.Since = ts
			}
		}
	}
	return info, havePID
}
