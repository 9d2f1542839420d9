package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/alfredjeanlab/eventlog/internal/model"
)

// configBase is the per-module path, relative to the module directory, of the
// event type definitions file. The first existing extension in configExts wins.
const configBase = "config/event_types"

var configExts = []string{".toml", ".yaml", ".yml", ".json"}

// Module is an installed module that may ship event type definitions.
type Module struct {
	Name string
	Dir  string
}

// File is the on-disk shape of an event types configuration file.
type File struct {
	EventTypes []model.EventType `json:"event_types" toml:"event_types" yaml:"event_types"`
}

// Load builds a registry from the modules in their declared load order,
// followed by the application override file at appConfig (may be empty).
// Later definitions of a slug replace earlier ones, so application files can
// redefine any module type. Missing files are skipped.
func Load(modules []Module, appConfig string, logger *slog.Logger) (*Registry, error) {
	if logger == nil {
		logger = slog.Default()
	}
	r := New()

	for _, m := range modules {
		path, ok := findModuleConfig(m.Dir)
		if !ok {
			continue
		}
		n, err := r.loadFile(path, logger)
		if err != nil {
			return nil, fmt.Errorf("module %s: %w", m.Name, err)
		}
		logger.Debug("registry: loaded module event types", "module", m.Name, "path", path, "count", n)
	}

	if appConfig != "" {
		n, err := r.loadFile(appConfig, logger)
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debug("registry: no application event types", "path", appConfig)
			return r, nil
		}
		if err != nil {
			return nil, fmt.Errorf("application: %w", err)
		}
		logger.Debug("registry: loaded application event types", "path", appConfig, "count", n)
	}

	return r, nil
}

// ModulesFromPaths turns a list of module directories into Modules named
// after their base directory.
func ModulesFromPaths(paths []string) []Module {
	out := make([]Module, 0, len(paths))
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, Module{Name: filepath.Base(p), Dir: p})
	}
	return out
}

func findModuleConfig(dir string) (string, bool) {
	for _, ext := range configExts {
		path := filepath.Join(dir, configBase+ext)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// loadFile registers every definition in the file in file order and returns
// how many were registered.
func (r *Registry) loadFile(path string, logger *slog.Logger) (int, error) {
	f, err := ReadFile(path)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, t := range f.EventTypes {
		if !r.Register(t) {
			logger.Warn("registry: skipping event type without slug", "path", path)
			continue
		}
		n++
	}
	return n, nil
}

// ReadFile decodes an event types file, choosing the format by extension.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var f File
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.Decode(string(data), &f); err != nil {
			return nil, fmt.Errorf("parse toml %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parse yaml %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parse json %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported event types file extension: %s", ext)
	}
	return &f, nil
}
