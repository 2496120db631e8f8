package service

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	billy "github.com/go-git/go-billy/v5"

	"github.com/autoscope-io/autoscope/internal/hub/core/model"
)

// FileInfo is one row of a bulk-data listing.
type FileInfo struct {
	Name    string    `json:"name"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mtime"`
}

// BulkFile is an open bulk artifact ready for streaming. The caller owns the
// reader and must close it.
type BulkFile struct {
	Reader      io.ReadCloser
	Name        string
	Size        int64
	ModTime     time.Time
	ContentType string
}

// ListBulkCategories returns the entity's declared bulk-data categories.
// Load-time validation guarantees the declared set is a subset of what the
// architecture allows, so no re-intersection is needed here. Areas and
// functions declare no categories and yield an empty list.
func (s *Service) ListBulkCategories(collection model.Collection, id string) ([]string, error) {
	e, err := s.resolve(collection, id)
	if err != nil {
		return nil, err
	}
	out := append([]string(nil), e.BulkCategories...)
	if out == nil {
		out = []string{}
	}
	return out, nil
}

// ListBulkFiles enumerates the immediate entries of one category directory,
// sorted lexicographically by name. An empty or not-yet-created category
// directory is success with zero entries, not an error.
func (s *Service) ListBulkFiles(collection model.Collection, id, category string) ([]FileInfo, error) {
	e, err := s.resolve(collection, id)
	if err != nil {
		return nil, err
	}

	base, err := s.categoryDir(e, category)
	if err != nil {
		return nil, err
	}

	entries, err := s.fs.ReadDir(base)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []FileInfo{}, nil
		}
		return nil, fmt.Errorf("listing category %q of %q: %w", category, id, err)
	}

	out := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		out = append(out, FileInfo{
			Name:    entry.Name(),
			Size:    entry.Size(),
			ModTime: entry.ModTime(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// OpenBulkFile resolves a file inside a category and opens it for streaming.
// The requested path must stay lexically inside the category root; `..`
// traversal and absolute paths are rejected before the filesystem is
// touched, and symlinks that escape the chroot-bounded filesystem surface as
// the same denial. Bytes are served verbatim; the content type is inferred
// from the extension, with unknown extensions (including .bin) served as
// opaque octet streams.
func (s *Service) OpenBulkFile(collection model.Collection, id, category, filePath string) (*BulkFile, error) {
	e, err := s.resolve(collection, id)
	if err != nil {
		return nil, err
	}

	base, err := s.categoryDir(e, category)
	if err != nil {
		return nil, err
	}

	rel, err := containedPath(filePath)
	if err != nil {
		return nil, fmt.Errorf("entity %q category %q path %q: %w", id, category, filePath, err)
	}
	full := path.Join(base, rel)

	info, err := s.fs.Stat(full)
	if err != nil {
		return nil, mapFsError(err, full)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%q is a directory: %w", filePath, model.ErrFileNotFound)
	}

	f, err := s.fs.Open(full)
	if err != nil {
		return nil, mapFsError(err, full)
	}

	return &BulkFile{
		Reader:      f,
		Name:        info.Name(),
		Size:        info.Size(),
		ModTime:     info.ModTime(),
		ContentType: contentTypeFor(info.Name()),
	}, nil
}

// categoryDir validates the category against the entity's declared set and
// the architecture allow-list, then computes the backing directory
// <arch root>/<entity id>/<category>. The category is an access-control
// boundary: whatever extra directories exist on disk, only pre-approved
// categories are ever served.
func (s *Service) categoryDir(e entityView, category string) (string, error) {
	if e.Architecture == "" {
		// Areas and functions have no filesystem root.
		return "", fmt.Errorf("entity %q has no bulk-data category %q: %w", e.ID, category, model.ErrCategoryNotAllowed)
	}

	declared := false
	for _, c := range e.BulkCategories {
		if c == category {
			declared = true
			break
		}
	}
	if !declared {
		return "", fmt.Errorf("entity %q category %q: %w", e.ID, category, model.ErrCategoryNotAllowed)
	}

	allowed, err := s.arch.Allows(e.Architecture, category)
	if err != nil {
		// Unknown architecture past load-time validation is a configuration
		// regression, not a caller mistake.
		return "", err
	}
	if !allowed {
		return "", fmt.Errorf("entity %q category %q: %w", e.ID, category, model.ErrCategoryNotAllowed)
	}

	root, err := s.arch.ResolveRoot(e.Architecture)
	if err != nil {
		return "", err
	}
	return path.Join(root, e.ID, category), nil
}

// containedPath normalizes a caller-supplied file path and rejects anything
// that would resolve outside the category root.
func containedPath(p string) (string, error) {
	if p == "" || strings.ContainsRune(p, 0) {
		return "", model.ErrPathTraversalDenied
	}
	if path.IsAbs(p) || strings.HasPrefix(p, "\\") {
		return "", model.ErrPathTraversalDenied
	}

	clean := path.Clean(p)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", model.ErrPathTraversalDenied
	}
	return clean, nil
}

// mapFsError translates filesystem failures into the resolver taxonomy. The
// chroot-bounded filesystem reports symlink escapes as a crossed boundary.
func mapFsError(err error, p string) error {
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%q: %w", p, model.ErrFileNotFound)
	}
	if errors.Is(err, billy.ErrCrossedBoundary) {
		return fmt.Errorf("%q: %w", p, model.ErrPathTraversalDenied)
	}
	return err
}

func contentTypeFor(name string) string {
	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
