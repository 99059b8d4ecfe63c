package secrets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	kerrors "github.com/PolarWolf314/kringle/internal/errors"
)

// tempPrefix marks staged files that have not been committed.
const tempPrefix = ".tmp-"

// StagedRecord is a fully written temp file waiting to be renamed into place.
type StagedRecord struct {
	Path    string
	tmpName string
}

// StageRecord writes data to a synced temp file in the directory of path.
// Caller must Commit or Discard the result.
func StageRecord(path string, data []byte) (*StagedRecord, error) {
	return stage(path, data, 0600)
}

func stage(path string, data []byte, mode os.FileMode) (staged *StagedRecord, err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, tempPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("creating temporary file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()           //nolint:gosec // best-effort cleanup
			os.Remove(tmp.Name()) //nolint:gosec // best-effort cleanup
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return nil, fmt.Errorf("writing %s: %w", path, err)
	}
	if err = tmp.Chmod(mode); err != nil {
		return nil, fmt.Errorf("setting permissions on %s: %w", path, err)
	}
	if err = tmp.Sync(); err != nil {
		return nil, fmt.Errorf("syncing %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return nil, fmt.Errorf("closing %s: %w", path, err)
	}

	return &StagedRecord{Path: path, tmpName: tmp.Name()}, nil
}

// Commit atomically replaces the destination with the staged file.
func (s *StagedRecord) Commit() error {
	if err := os.Rename(s.tmpName, s.Path); err != nil {
		return fmt.Errorf("failed to move record into place at %s: %w", s.Path, err)
	}
	return nil
}

// Discard removes the staged file. It is safe to call after Commit.
func (s *StagedRecord) Discard() error {
	if err := os.Remove(s.tmpName); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove staged record %s: %w", s.tmpName, err)
	}
	return nil
}

// rename is replaced in tests to make a commit fail part way.
var rename = os.Rename

// CommitAll moves a set of staged records into place together. Every
// destination must be missing or a regular file. Existing records are set
// aside first. If any rename fails, the records already moved are rolled back
// and the previous ones restored. On failure every staged file is discarded.
func CommitAll(records []*StagedRecord) (err error) {
	defer func() {
		if err != nil {
			for _, r := range records {
				_ = r.Discard()
			}
		}
	}()

	for _, r := range records {
		if err := checkDestination(r.Path); err != nil {
			return err
		}
	}

	backups := make([]string, len(records))
	restore := func() {
		for i, backup := range backups {
			if backup != "" {
				_ = os.Rename(backup, records[i].Path)
			}
		}
	}

	for i, r := range records {
		if _, err := os.Lstat(r.Path); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		backup := filepath.Join(filepath.Dir(r.Path), tempPrefix+"bak-"+filepath.Base(r.Path))
		if err := rename(r.Path, backup); err != nil {
			restore()
			return fmt.Errorf("failed to set aside previous record %s: %w", r.Path, err)
		}
		backups[i] = backup
	}

	for i, r := range records {
		if err := rename(r.tmpName, r.Path); err != nil {
			for _, done := range records[:i] {
				_ = os.Remove(done.Path)
			}
			restore()
			return fmt.Errorf("failed to move record into place at %s: %w", r.Path, err)
		}
	}

	for _, backup := range backups {
		if backup != "" {
			_ = os.Remove(backup)
		}
	}
	return nil
}

func checkDestination(path string) error {
	info, err := os.Lstat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("cannot replace %s: it is not a regular file", path)
	}
	return nil
}

// writeFileAtomic stages and commits data in one step.
func writeFileAtomic(path string, data []byte, mode os.FileMode) error {
	staged, err := stage(path, data, mode)
	if err != nil {
		return err
	}
	if err := staged.Commit(); err != nil {
		_ = staged.Discard()
		return err
	}
	return nil
}

// ReadRecord reads a sealed assignment record.
func ReadRecord(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", kerrors.ErrAssignmentNotFound, path)
		}
		return nil, fmt.Errorf("failed to read assignment record %s: %w", path, err)
	}
	return data, nil
}

// FindRecordFiles returns every regular file below dir. A missing dir yields
// no files and no error.
func FindRecordFiles(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	matches, err := doublestar.Glob(os.DirFS(dir), "**", doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}

	files := make([]string, 0, len(matches))
	for _, m := range matches {
		files = append(files, filepath.Join(dir, filepath.FromSlash(m)))
	}
	return files, nil
}

// IsStagedTempFile reports whether path looks like an uncommitted staged record.
func IsStagedTempFile(path string) bool {
	matched, _ := doublestar.Match(tempPrefix+"*", filepath.Base(path))
	return matched
}
