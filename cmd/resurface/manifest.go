package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const noManifestMessage = "no resurface.toml found\nplease run inside a project or pass a directory, e.g.:\n  resurface apply path/to/project"

type projectManifest struct {
	Path   string
	Root   string
	Config projectConfig
}

type projectConfig struct {
	Input  inputConfig  `toml:"input"`
	Output outputConfig `toml:"output"`
	Apply  applyConfig  `toml:"apply"`
	Crash  crashConfig  `toml:"crash"`
}

// inputConfig names the analysis artifacts and the source files they refer
// to. Files are listed in the order the analysis assigned their IDs.
type inputConfig struct {
	Requests   string   `toml:"requests"`
	Unlowering string   `toml:"unlowering"`
	Files      []string `toml:"files"`
}

// outputConfig controls where rewritten files land. An empty dir means in
// place.
type outputConfig struct {
	Dir string `toml:"dir"`
}

type applyConfig struct {
	Jobs        int    `toml:"jobs"`
	PathDisplay string `toml:"path_display"`
}

type crashConfig struct {
	RelevantFrames []string `toml:"relevant_frames"`
}

func findResurfaceToml(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "resurface.toml")
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

func loadProjectManifest(startDir string) (*projectManifest, error) {
	manifestPath, ok, err := findResurfaceToml(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.New(noManifestMessage)
	}
	cfg, err := loadProjectConfig(manifestPath)
	if err != nil {
		return nil, err
	}
	return &projectManifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, nil
}

func loadProjectConfig(path string) (projectConfig, error) {
	var cfg projectConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return projectConfig{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("input") {
		return projectConfig{}, fmt.Errorf("%s: missing [input]", path)
	}
	if !meta.IsDefined("input", "requests") || strings.TrimSpace(cfg.Input.Requests) == "" {
		return projectConfig{}, fmt.Errorf("%s: missing [input].requests", path)
	}
	if !meta.IsDefined("input", "unlowering") || strings.TrimSpace(cfg.Input.Unlowering) == "" {
		return projectConfig{}, fmt.Errorf("%s: missing [input].unlowering", path)
	}
	if len(cfg.Input.Files) == 0 {
		return projectConfig{}, fmt.Errorf("%s: [input].files must list at least one source file", path)
	}
	switch cfg.Apply.PathDisplay {
	case "", "auto", "absolute", "relative", "basename":
	default:
		return projectConfig{}, fmt.Errorf("%s: [apply].path_display must be auto, absolute, relative or basename", path)
	}
	return cfg, nil
}

// resolve turns a manifest-relative path into an absolute one.
func (m *projectManifest) resolve(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(m.Root, filepath.FromSlash(rel))
}
