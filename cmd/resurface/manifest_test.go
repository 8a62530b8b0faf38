package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "resurface.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadProjectConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, `
[input]
requests = "out/edits.bin"
unlowering = "out/unlower.bin"
files = ["src/main.rs", "src/lib.rs"]

[apply]
jobs = 4
path_display = "relative"

[crash]
relevant_frames = ["myproject/internal/distribute."]
`)

	cfg, err := loadProjectConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Input.Requests != "out/edits.bin" || cfg.Input.Unlowering != "out/unlower.bin" {
		t.Errorf("input = %+v", cfg.Input)
	}
	if len(cfg.Input.Files) != 2 || cfg.Input.Files[0] != "src/main.rs" {
		t.Errorf("files = %v", cfg.Input.Files)
	}
	if cfg.Apply.Jobs != 4 || cfg.Apply.PathDisplay != "relative" {
		t.Errorf("apply = %+v", cfg.Apply)
	}
	if len(cfg.Crash.RelevantFrames) != 1 {
		t.Errorf("crash = %+v", cfg.Crash)
	}
}

func TestLoadProjectConfig_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "missing input",
			content: `[apply]` + "\n" + `jobs = 1`,
			wantErr: "missing [input]",
		},
		{
			name: "missing requests",
			content: `[input]
unlowering = "u.bin"
files = ["a.rs"]`,
			wantErr: "missing [input].requests",
		},
		{
			name: "empty files",
			content: `[input]
requests = "r.bin"
unlowering = "u.bin"`,
			wantErr: "[input].files",
		},
		{
			name: "bad path display",
			content: `[input]
requests = "r.bin"
unlowering = "u.bin"
files = ["a.rs"]

[apply]
path_display = "fancy"`,
			wantErr: "path_display",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeManifest(t, t.TempDir(), tt.content)
			_, err := loadProjectConfig(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestFindResurfaceToml_WalksUp(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[input]\nrequests = \"r\"\nunlowering = \"u\"\nfiles = [\"a\"]\n")
	nested := filepath.Join(root, "src", "deep")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	path, ok, err := findResurfaceToml(nested)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("manifest not found from nested directory")
	}
	if filepath.Dir(path) != root {
		t.Errorf("found %s, want manifest in %s", path, root)
	}
}
