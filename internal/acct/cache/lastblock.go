package cache

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// LastBlockFile is the name of the last-visited-block marker inside the cache dir.
const LastBlockFile = "lastBlock.txt"

// ReadLastBlock returns the block stored in dir/lastBlock.txt. ok is false
// when the file is absent or empty.
func ReadLastBlock(dir string) (block uint64, ok bool, err error) {
	raw, err := os.ReadFile(filepath.Join(dir, LastBlockFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("read %s: %w", LastBlockFile, err)
	}
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return 0, false, nil
	}
	block, err = strconv.ParseUint(text, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("parse %s: %w", LastBlockFile, err)
	}
	return block, true, nil
}

// WriteLastBlock replaces dir/lastBlock.txt with block.
func WriteLastBlock(dir string, block uint64) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".lastBlock-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp %s: %w", LastBlockFile, err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()
	if _, err := tmp.WriteString(strconv.FormatUint(block, 10) + "\n"); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", LastBlockFile, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync %s: %w", LastBlockFile, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", LastBlockFile, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(dir, LastBlockFile)); err != nil {
		return fmt.Errorf("rename %s: %w", LastBlockFile, err)
	}
	return syncDir(dir)
}

// syncDir makes a rename inside dir durable.
func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return fmt.Errorf("open dir %s: %w", dir, err)
	}
	syncErr := d.Sync()
	closeErr := d.Close()
	if syncErr != nil {
		return fmt.Errorf("sync dir %s: %w", dir, syncErr)
	}
	return closeErr
}
