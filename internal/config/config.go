// Package config loads PII-Radar's declarative key=value configuration
// file, layered under environment variables and CLI flags, godotenv-first
// with an env-var fallback for any key not set in the file, since CLI
// flags should override config file and environment values.
package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// EnvPrefix is prepended to config keys when consulting the environment,
// e.g. key "min-confidence" is read from PII_RADAR_MIN_CONFIDENCE.
const EnvPrefix = "PII_RADAR_"

// PluginDirEnvVar is the environment variable consulted for --plugin-dir
// when the flag is unset.
const PluginDirEnvVar = "PII_RADAR_PLUGIN_DIR"

// File is a parsed key=value configuration file. Precedence when reading a
// value is CLI flag (the caller's responsibility) > config file > PII_RADAR_*
// environment variable > default (also the caller's responsibility).
type File struct {
	values map[string]string
}

// Load reads .env-style files (if present) into the process environment,
// then parses the declarative config file at path (if non-empty) with
// `${VAR}` expansion against the now-updated environment.
func Load(path string) (*File, error) {
	for _, envPath := range []string{".env", "../.env", "/etc/pii-radar/.env"} {
		_ = godotenv.Load(envPath) // best effort; absence is not an error
	}

	f := &File{values: map[string]string{}}
	if path == "" {
		return f, nil
	}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return f, nil
		}
		return nil, fmt.Errorf("config: opening %q: %w", path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		idx := strings.Index(line, "=")
		if idx < 0 {
			return nil, fmt.Errorf("config: %s:%d: expected key=value, got %q", path, lineNo, line)
		}
		key := strings.TrimSpace(line[:idx])
		value := strings.TrimSpace(line[idx+1:])
		value = os.Expand(value, os.Getenv)
		f.values[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("config: reading %q: %w", path, err)
	}
	return f, nil
}

// String returns the value for key from the config file, else the
// PII_RADAR_<KEY> environment variable, else def.
func (f *File) String(key, def string) string {
	if v, ok := f.values[key]; ok {
		return v
	}
	envKey := EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	return def
}

// Int parses String(key, ...) as an integer, falling back to def on a
// parse failure.
func (f *File) Int(key string, def int) int {
	raw := f.String(key, "")
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

// Bool parses String(key, ...) as a boolean, falling back to def on a
// parse failure.
func (f *File) Bool(key string, def bool) bool {
	raw := f.String(key, "")
	if raw == "" {
		return def
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return b
}

// Int64 parses String(key, ...) as a 64-bit integer, falling back to def
// on a parse failure.
func (f *File) Int64(key string, def int64) int64 {
	raw := f.String(key, "")
	if raw == "" {
		return def
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return def
	}
	return n
}

// List splits String(key, ...) on commas, trimming whitespace and
// dropping empty elements.
func (f *File) List(key string) []string {
	raw := f.String(key, "")
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
