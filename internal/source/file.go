package source

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/hemlocksec/pii-radar/internal/engine"
	"github.com/hemlocksec/pii-radar/internal/extract"
	"github.com/hemlocksec/pii-radar/internal/ignore"
)

func readPlainText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FileAdapter walks a filesystem tree, honoring `.pii-ignore` and the size/
// depth/binary limits of the Ignore Filter & File Walker, and extracts
// document text through the Document Extractor Registry for any recognized
// format before handing the result to the engine as plain text.
type FileAdapter struct {
	Root       string
	Walker     *ignore.Walker
	Extractors *extract.Registry
}

// NewFileAdapter returns a FileAdapter rooted at root. extractors defaults
// to extract.Default() when nil.
func NewFileAdapter(root string, walkerOpts ignore.Options, extractors *extract.Registry) *FileAdapter {
	if extractors == nil {
		extractors = extract.Default()
	}
	return &FileAdapter{Root: root, Walker: ignore.NewWalker(walkerOpts), Extractors: extractors}
}

// Skips holds the paths excluded by an Items call; Items fills it in once
// its returned channel has been fully drained.
type Skips = []ignore.Skip

// Items walks the tree and streams one engine.Item per surviving file. The
// returned channel closes once the walk finishes or ctx is canceled; skipped
// is populated (via the pointer) only after the channel closes.
func (a *FileAdapter) Items(ctx context.Context, skipped *Skips) <-chan engine.Item {
	out := make(chan engine.Item)
	go func() {
		defer close(out)
		skips, _ := a.Walker.Walk(a.Root, func(path string) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			select {
			case out <- a.buildItem(path):
			case <-ctx.Done():
				return ctx.Err()
			}
			return nil
		})
		if skipped != nil {
			*skipped = skips
		}
	}()
	return out
}

func (a *FileAdapter) buildItem(path string) engine.Item {
	ext := strings.ToLower(filepath.Ext(path))
	var text string
	var err error
	extractionUsed := a.Extractors.Supports(ext)
	if extractionUsed {
		text, err = a.Extractors.Extract(ext, path)
	} else {
		text, err = readPlainText(path)
	}

	it := item{sourceID: path, text: text, err: err, extractionUsed: extractionUsed}
	if err == nil {
		lineFor, colFor := lineColumnFuncs(text)
		it.loc.SourceID = path
		it.loc.LineForOffset = lineFor
		it.loc.ColumnForOffset = colFor
	} else {
		it.loc.SourceID = path
	}
	return it
}
