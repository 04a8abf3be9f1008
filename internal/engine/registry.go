package engine

import (
	"fmt"

	"github.com/hemlocksec/pii-radar/internal/detect"
	"github.com/hemlocksec/pii-radar/internal/detect/builtin"
	"github.com/hemlocksec/pii-radar/internal/plugin"
)

// BuildRegistry assembles the detector registry used by a scan: every
// built-in detector, in builtin.All's stable order, followed by any
// .detector.toml plugins found under pluginDir. Composing builtin and
// plugin detectors lives here, outside both of those packages, since each
// already imports package detect and a detect-side composer would create
// an import cycle.
func BuildRegistry(pluginDir string) (*detect.Registry, error) {
	reg := detect.NewRegistry()

	for _, d := range builtin.All() {
		if err := reg.Register(d); err != nil {
			return nil, fmt.Errorf("engine: registering builtin detector: %w", err)
		}
	}

	plugins, err := plugin.LoadDir(pluginDir)
	if err != nil {
		return nil, fmt.Errorf("engine: loading plugin detectors: %w", err)
	}
	for _, p := range plugins {
		if err := reg.Register(p); err != nil {
			return nil, fmt.Errorf("engine: registering plugin detector: %w", err)
		}
	}

	return reg, nil
}
