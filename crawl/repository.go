package crawl

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/harvest"
)

// DefaultMaxFileSize is the largest file a repository snapshot includes.
const DefaultMaxFileSize = 1 << 20

// DefaultIgnore lists directory names and file suffixes left out of
// repository snapshots.
func DefaultIgnore() []string {
	return []string{".git", ".toml", ".lock", ".png", "venv", "__pycache__", "node_modules"}
}

// languageExtensions maps file extensions to reported language names.
var languageExtensions = map[string]string{
	".py":   "py",
	".js":   "js",
	".java": "java",
	".cpp":  "cpp",
	".go":   "go",
	".rs":   "rs",
}

// Compile-time interface verification.
var _ harvest.Acquirer = (*RepositoryAcquirer)(nil)

// RepositoryAcquirer snapshots a code repository into a single record.
type RepositoryAcquirer struct {
	Contents harvest.ContentService
	Cloner   harvest.Cloner

	// Ignore overrides DefaultIgnore when non-nil.
	Ignore []string

	// MaxFileSize overrides DefaultMaxFileSize when positive.
	MaxFileSize int64

	// TempDir is the parent of per-call scratch directories. Empty means
	// the system default.
	TempDir string

	Logger *slog.Logger
}

// Platform returns harvest.PlatformRepository.
func (a *RepositoryAcquirer) Platform() harvest.Platform {
	return harvest.PlatformRepository
}

// Acquire clones the repository at link and stores its text files.
func (a *RepositoryAcquirer) Acquire(ctx context.Context, link string, user *harvest.User) error {
	logger := discardLogger(a.Logger)

	link, err := normalizeLink(link)
	if err != nil {
		return err
	}
	if exists(ctx, a.Contents, harvest.PlatformRepository, link) {
		logger.Info("repository already exists", "url", link)
		return nil
	}

	scratch, err := os.MkdirTemp(a.TempDir, "harvest-repo-*")
	if err != nil {
		return acquireError(link, err)
	}
	defer os.RemoveAll(scratch)

	dir, err := a.Cloner.Clone(ctx, link, scratch)
	if err != nil {
		return acquireError(link, err)
	}

	files, meta, err := a.snapshot(dir)
	if err != nil {
		return acquireError(link, err)
	}

	repo := &harvest.Repository{
		Envelope: harvest.NewEnvelope(harvest.PlatformRepository, user, map[string]any{
			"files":    files,
			"metadata": meta,
		}),
		Name: RepositoryName(link),
		Link: link,
	}
	if err := a.Contents.CreateContent(ctx, repo); err != nil {
		return acquireError(link, err)
	}

	logger.Info("repository saved", "url", link, "files", len(files))
	return nil
}

// RepositoryName returns the last path segment of link without a ".git"
// suffix.
func RepositoryName(link string) string {
	name := path.Base(strings.TrimRight(link, "/"))
	return strings.TrimSuffix(name, ".git")
}

func (a *RepositoryAcquirer) ignored(name string) bool {
	ignore := a.Ignore
	if ignore == nil {
		ignore = DefaultIgnore()
	}
	for _, pattern := range ignore {
		if name == pattern || strings.HasSuffix(name, pattern) {
			return true
		}
	}
	return false
}

// snapshot walks dir and returns the text of every included file keyed by
// slash-separated relative path, plus a summary of the included files.
func (a *RepositoryAcquirer) snapshot(dir string) (map[string]any, map[string]any, error) {
	maxSize := a.MaxFileSize
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}

	var (
		files      = make(map[string]any)
		languages  = make(map[string]bool)
		numFiles   int
		hasReadme  bool
		hasLicense bool
		hasTests   bool
		hashInput  strings.Builder
	)

	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == dir {
			return nil
		}
		if a.ignored(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.Size() > maxSize {
			return nil
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		if !utf8.Valid(data) {
			return nil
		}

		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		files[rel] = string(data)
		numFiles++

		lower := strings.ToLower(d.Name())
		switch {
		case strings.HasPrefix(lower, "readme"):
			hasReadme = true
		case strings.HasPrefix(lower, "license"):
			hasLicense = true
		case strings.Contains(lower, "test"):
			hasTests = true
		}
		if lang, ok := languageExtensions[strings.ToLower(filepath.Ext(lower))]; ok {
			languages[lang] = true
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		hashInput.WriteString(p)
		hashInput.WriteString(files[p].(string))
	}

	langs := make([]string, 0, len(languages))
	for l := range languages {
		langs = append(langs, l)
	}
	sort.Strings(langs)

	meta := map[string]any{
		"num_files":    numFiles,
		"languages":    langs,
		"has_readme":   hasReadme,
		"has_license":  hasLicense,
		"has_tests":    hasTests,
		"content_hash": ComputeHash(hashInput.String()),
	}
	return files, meta, nil
}
