package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const manifestName = "scene.toml"

// sceneManifest is a scene.toml found next to (or above) the scenes.
type sceneManifest struct {
	Path   string
	Root   string
	Config manifestConfig
	meta   toml.MetaData
}

type manifestConfig struct {
	Diag  diagConfig  `toml:"diag"`
	Parse parseConfig `toml:"parse"`
	Paths pathsConfig `toml:"paths"`
}

type diagConfig struct {
	Strict bool   `toml:"strict"`
	Max    int    `toml:"max"`
	Format string `toml:"format"`
}

type parseConfig struct {
	Camel bool `toml:"camel"`
}

type pathsConfig struct {
	Include []string `toml:"include"`
}

func findManifest(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, manifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// loadManifest looks for scene.toml from startDir upwards. A missing
// manifest is not an error: it returns nil.
func loadManifest(startDir string) (*sceneManifest, error) {
	path, ok, err := findManifest(startDir)
	if err != nil || !ok {
		return nil, err
	}
	return readManifest(path)
}

func readManifest(path string) (*sceneManifest, error) {
	var cfg manifestConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: unknown key %s", path, undecoded[0])
	}
	if meta.IsDefined("diag", "format") {
		if _, err := readDiagFormat(cfg.Diag.Format); err != nil {
			return nil, fmt.Errorf("%s: [diag].format: %w", path, err)
		}
	}
	if meta.IsDefined("diag", "max") && cfg.Diag.Max < 0 {
		return nil, fmt.Errorf("%s: [diag].max must not be negative", path)
	}
	for _, inc := range cfg.Paths.Include {
		if strings.TrimSpace(inc) == "" {
			return nil, fmt.Errorf("%s: [paths].include has an empty entry", path)
		}
	}
	return &sceneManifest{
		Path:   path,
		Root:   filepath.Dir(path),
		Config: cfg,
		meta:   meta,
	}, nil
}

// defines reports whether the manifest sets the given key.
func (m *sceneManifest) defines(key ...string) bool {
	return m != nil && m.meta.IsDefined(key...)
}

// includePaths resolves [paths].include against the manifest directory.
func (m *sceneManifest) includePaths() []string {
	if m == nil {
		return nil
	}
	out := make([]string, 0, len(m.Config.Paths.Include))
	for _, inc := range m.Config.Paths.Include {
		p := filepath.FromSlash(strings.TrimSpace(inc))
		if !filepath.IsAbs(p) {
			p = filepath.Join(m.Root, p)
		}
		out = append(out, p)
	}
	return out
}
