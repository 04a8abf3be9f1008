// Package ignore implements the directory walker and its `.pii-ignore`
// gitignore-syntax matcher, honoring depth/symlink/size limits and a
// binary-content heuristic. Traversal order is deterministic (lexicographic
// within a directory) to keep scan output reproducible.
package ignore

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
)

const (
	// DefaultMaxFileSize is the default per-file size ceiling (100 MiB).
	DefaultMaxFileSize int64 = 100 * 1024 * 1024
	sniffSize                = 8 * 1024
)

// SkipReason explains why a would-be candidate was excluded from the walk.
type SkipReason string

const (
	SkipIgnored    SkipReason = "ignored"
	SkipTooLarge   SkipReason = "too_large"
	SkipBinary     SkipReason = "binary"
	SkipDepth      SkipReason = "max_depth"
	SkipUnreadable SkipReason = "unreadable"
)

// Options configures a Walker.
type Options struct {
	MaxDepth            int   // 0 = unlimited
	FollowSymlinks      bool  // default false
	MaxFileSize         int64 // default DefaultMaxFileSize
	ExtractDocuments    bool  // when true, binary heuristic is bypassed for known document extensions
	DocumentExtensions  map[string]struct{}
}

// Skip is recorded for a path the walker chose not to yield as a file.
type Skip struct {
	Path   string
	Reason SkipReason
}

// Walker enumerates regular files under a root, honoring `.pii-ignore`
// files (gitignore syntax, inherited down the tree) found along the way.
type Walker struct {
	opts Options
}

// NewWalker returns a Walker with defaults applied to any zero field.
func NewWalker(opts Options) *Walker {
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = DefaultMaxFileSize
	}
	return &Walker{opts: opts}
}

type layer struct {
	dir     string
	matcher *gitignore.GitIgnore
}

// Walk enumerates files under root in deterministic lexicographic order,
// calling yield for each file that survives ignore/depth/size/binary
// filtering, and recording everything it excludes into skipped. The
// .pii-ignore files themselves are recorded as ignored; symbolic links that
// are not followed are passed over without a record.
func (w *Walker) Walk(root string, yield func(path string) error) ([]Skip, error) {
	var skipped []Skip
	err := w.walkDir(root, root, nil, 0, yield, &skipped)
	return skipped, err
}

func (w *Walker) walkDir(root, dir string, layers []layer, depth int, yield func(string) error, skipped *[]Skip) error {
	if w.opts.MaxDepth > 0 && depth > w.opts.MaxDepth {
		return nil
	}

	if ignoreFile := filepath.Join(dir, ".pii-ignore"); fileExists(ignoreFile) {
		if m, err := gitignore.CompileIgnoreFile(ignoreFile); err == nil {
			layers = append(layers, layer{dir: dir, matcher: m})
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		*skipped = append(*skipped, Skip{Path: dir, Reason: SkipUnreadable})
		return nil
	}

	names := make([]string, 0, len(entries))
	byName := map[string]os.DirEntry{}
	for _, e := range entries {
		names = append(names, e.Name())
		byName[e.Name()] = e
	}
	sort.Strings(names)

	for _, name := range names {
		e := byName[name]
		full := filepath.Join(dir, name)

		if name == ".pii-ignore" || matchedIgnored(layers, root, full) {
			*skipped = append(*skipped, Skip{Path: full, Reason: SkipIgnored})
			continue
		}

		info, err := e.Info()
		if err != nil {
			*skipped = append(*skipped, Skip{Path: full, Reason: SkipUnreadable})
			continue
		}

		if info.Mode()&os.ModeSymlink != 0 {
			if !w.opts.FollowSymlinks {
				continue
			}
			resolved, err := filepath.EvalSymlinks(full)
			if err != nil {
				*skipped = append(*skipped, Skip{Path: full, Reason: SkipUnreadable})
				continue
			}
			info, err = os.Stat(resolved)
			if err != nil {
				*skipped = append(*skipped, Skip{Path: full, Reason: SkipUnreadable})
				continue
			}
		}

		if info.IsDir() {
			if w.opts.MaxDepth > 0 && depth+1 > w.opts.MaxDepth {
				*skipped = append(*skipped, Skip{Path: full, Reason: SkipDepth})
				continue
			}
			if err := w.walkDir(root, full, layers, depth+1, yield, skipped); err != nil {
				return err
			}
			continue
		}

		if info.Size() > w.opts.MaxFileSize {
			*skipped = append(*skipped, Skip{Path: full, Reason: SkipTooLarge})
			continue
		}

		if w.looksBinary(full) {
			*skipped = append(*skipped, Skip{Path: full, Reason: SkipBinary})
			continue
		}

		if err := yield(full); err != nil {
			return err
		}
	}
	return nil
}

func matchedIgnored(layers []layer, root, path string) bool {
	for _, l := range layers {
		rel, err := filepath.Rel(l.dir, path)
		if err != nil {
			continue
		}
		if l.matcher.MatchesPath(filepath.ToSlash(rel)) {
			return true
		}
	}
	return false
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// looksBinary applies the 8 KiB NUL-byte heuristic, bypassed for known
// document extensions when ExtractDocuments is set.
func (w *Walker) looksBinary(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if w.opts.ExtractDocuments {
		if _, ok := w.opts.DocumentExtensions[ext]; ok {
			return false
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return true
	}
	defer f.Close()

	buf := make([]byte, sniffSize)
	n, _ := f.Read(buf)
	return bytes.IndexByte(buf[:n], 0) != -1
}
