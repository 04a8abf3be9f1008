package plugin

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/hemlocksec/pii-radar/internal/model"
)

// LoadDir reads every `*.detector.toml` file directly inside dir and
// compiles each into a Detector. A malformed file or a duplicate id across
// files fails the whole load: there is no partial plugin registry.
func LoadDir(dir string) ([]*Detector, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("plugin: reading plugin dir %q: %w", dir, err)
	}

	seen := map[string]struct{}{}
	var out []*Detector
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".detector.toml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		var desc model.PluginDescriptor
		if _, err := toml.DecodeFile(path, &desc); err != nil {
			return nil, fmt.Errorf("plugin: decoding %q: %w", path, err)
		}
		det, err := New(desc)
		if err != nil {
			return nil, fmt.Errorf("plugin: loading %q: %w", path, err)
		}
		if _, dup := seen[det.ID()]; dup {
			return nil, fmt.Errorf("plugin: duplicate detector id %q in %q", det.ID(), path)
		}
		seen[det.ID()] = struct{}{}
		out = append(out, det)
	}
	return out, nil
}
