package bloom

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rlp"
)

const (
	fileExt     = ".bloom"
	fileVersion = 1
)

type (
	// VisitFunc receives a bloom file and the inclusive block range of it that was requested.
	VisitFunc func(ctx context.Context, f *File, from, to uint64) error

	// Cleanup registers release actions for temporary files.
	Cleanup interface {
		Add(name string, fn func() error) func() error
	}
)

type fileBody struct {
	Version uint
	First   uint64
	Blooms  []types.Bloom
}

// Ref names a bloom file on disk.
type Ref struct {
	First uint64
	Last  uint64
	Path  string
}

// Index is a directory of bloom files.
type Index struct {
	dir  string
	span uint64
}

// NewIndex returns an Index over dir; span <= 0 selects DefaultSpan.
func NewIndex(dir string, span uint64) *Index {
	if span == 0 {
		span = DefaultSpan
	}
	return &Index{dir: dir, span: span}
}

// Dir returns the index directory.
func (i *Index) Dir() string {
	return i.dir
}

// Span returns the number of blocks per file.
func (i *Index) Span() uint64 {
	return i.span
}

// FileName returns the name of the file covering [first, last].
func FileName(first, last uint64) string {
	return fmt.Sprintf("%09d-%09d%s", first, last, fileExt)
}

func parseFileName(name string) (uint64, uint64, bool) {
	base, ok := strings.CutSuffix(name, fileExt)
	if !ok {
		return 0, 0, false
	}
	lo, hi, ok := strings.Cut(base, "-")
	if !ok {
		return 0, 0, false
	}
	first, err := strconv.ParseUint(lo, 10, 64)
	if err != nil {
		return 0, 0, false
	}
	last, err := strconv.ParseUint(hi, 10, 64)
	if err != nil || last < first {
		return 0, 0, false
	}
	return first, last, true
}

// Files lists bloom files ordered by first block, longest range first on ties.
func (i *Index) Files() ([]Ref, error) {
	entries, err := os.ReadDir(i.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read bloom dir %s: %w", i.dir, err)
	}
	refs := make([]Ref, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		first, last, ok := parseFileName(e.Name())
		if !ok {
			continue
		}
		refs = append(refs, Ref{First: first, Last: last, Path: filepath.Join(i.dir, e.Name())})
	}
	sort.Slice(refs, func(a, b int) bool {
		if refs[a].First != refs[b].First {
			return refs[a].First < refs[b].First
		}
		return refs[a].Last > refs[b].Last
	})
	return refs, nil
}

// LatestBlock returns the highest block covered contiguously from the first file.
// ok is false when the directory holds no bloom files.
func (i *Index) LatestBlock() (uint64, bool, error) {
	refs, err := i.Files()
	if err != nil {
		return 0, false, err
	}
	if len(refs) == 0 {
		return 0, false, nil
	}
	latest := refs[0].Last
	for _, ref := range refs[1:] {
		if ref.First > latest+1 {
			break
		}
		if ref.Last > latest {
			latest = ref.Last
		}
	}
	return latest, true, nil
}

// ForEveryBloomFile visits, in ascending order, the files covering blocks
// [firstBlock, firstBlock+nBlocks). Files are opened one at a time.
func (i *Index) ForEveryBloomFile(ctx context.Context, firstBlock, nBlocks uint64, visit VisitFunc) error {
	if nBlocks == 0 {
		return nil
	}
	refs, err := i.Files()
	if err != nil {
		return err
	}
	end := firstBlock + nBlocks - 1
	next := firstBlock
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		ref, ok := covering(refs, next)
		if !ok {
			return fmt.Errorf("%w: block %d in %s", ErrMissingBloomFile, next, i.dir)
		}
		f, err := ReadFile(ref.Path)
		if err != nil {
			return err
		}
		if f.First != ref.First || f.Last != ref.Last {
			return fmt.Errorf("%w: %s holds blocks %d-%d", ErrInvalidFile, ref.Path, f.First, f.Last)
		}
		to := min(f.Last, end)
		if err := visit(ctx, f, next, to); err != nil {
			return err
		}
		if to == end {
			return nil
		}
		next = to + 1
	}
}

// Open reads the file covering block.
func (i *Index) Open(block uint64) (*File, error) {
	refs, err := i.Files()
	if err != nil {
		return nil, err
	}
	ref, ok := covering(refs, block)
	if !ok {
		return nil, fmt.Errorf("%w: block %d in %s", ErrMissingBloomFile, block, i.dir)
	}
	return ReadFile(ref.Path)
}

// Write stores f atomically and removes shorter files starting at the same block.
func (i *Index) Write(f *File, cleanup Cleanup) error {
	if err := os.MkdirAll(i.dir, 0o755); err != nil {
		return fmt.Errorf("create bloom dir: %w", err)
	}
	tmp, err := os.CreateTemp(i.dir, ".bloom-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp bloom file: %w", err)
	}
	tmpPath := tmp.Name()
	remove := func() error {
		if err := os.Remove(tmpPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return nil
	}
	release := remove
	if cleanup != nil {
		release = cleanup.Add("remove "+tmpPath, remove)
	}
	defer func() {
		_ = release()
	}()

	w := bufio.NewWriter(tmp)
	if err := rlp.Encode(w, fileBody{Version: fileVersion, First: f.First, Blooms: f.Blooms}); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("encode bloom file: %w", err)
	}
	if err := w.Flush(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write bloom file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync bloom file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close bloom file: %w", err)
	}

	target := filepath.Join(i.dir, FileName(f.First, f.Last))
	if err := os.Rename(tmpPath, target); err != nil {
		return fmt.Errorf("rename bloom file: %w", err)
	}
	if err := syncDir(i.dir); err != nil {
		return err
	}

	refs, err := i.Files()
	if err != nil {
		return err
	}
	for _, ref := range refs {
		if ref.First == f.First && ref.Last < f.Last {
			if err := os.Remove(ref.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("remove superseded bloom file: %w", err)
			}
		}
	}
	return nil
}

func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return fmt.Errorf("open bloom dir: %w", err)
	}
	syncErr := d.Sync()
	closeErr := d.Close()
	if syncErr != nil {
		return fmt.Errorf("sync bloom dir: %w", syncErr)
	}
	return closeErr
}

// ReadFile decodes the bloom file at path.
func ReadFile(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingBloomFile, path)
		}
		return nil, fmt.Errorf("open bloom file: %w", err)
	}
	defer fh.Close()

	info, err := fh.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat bloom file: %w", err)
	}
	var body fileBody
	s := rlp.NewStream(bufio.NewReader(fh), uint64(info.Size()))
	if err := s.Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrInvalidFile, path, err)
	}
	if body.Version != fileVersion {
		return nil, fmt.Errorf("%w: %s has version %d", ErrInvalidFile, path, body.Version)
	}
	f, err := NewFile(body.First, body.Blooms)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

func covering(refs []Ref, block uint64) (Ref, bool) {
	idx := sort.Search(len(refs), func(n int) bool { return refs[n].First > block })
	for n := idx - 1; n >= 0; n-- {
		if refs[n].Last >= block {
			return refs[n], true
		}
	}
	return Ref{}, false
}
