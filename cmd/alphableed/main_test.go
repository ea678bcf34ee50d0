package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/ironsheep/alphableed/internal/batch"
	"github.com/ironsheep/alphableed/internal/bleed"
	"github.com/ironsheep/alphableed/internal/imaging"
)

func envOf(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		env       map[string]string
		wantCmd   command
		wantOpts  batch.Options
		wantPaths []string
		wantPause bool
		wantLevel slog.Level
	}{
		{
			name:      "defaults",
			args:      []string{"a.png", "sprites"},
			wantCmd:   cmdRepair,
			wantOpts:  batch.Options{Strategy: bleed.Nearest},
			wantPaths: []string{"a.png", "sprites"},
			wantLevel: slog.LevelWarn,
		},
		{
			name:      "short debug flag anywhere",
			args:      []string{"a.png", "-d", "b.png"},
			wantCmd:   cmdRepair,
			wantOpts:  batch.Options{Strategy: bleed.Nearest, Debug: true},
			wantPaths: []string{"a.png", "b.png"},
			wantLevel: slog.LevelWarn,
		},
		{
			name:      "value flags",
			args:      []string{"--strategy=flood", "--workers", "3", "--backup", "--dry-run", "--pause", "a.png"},
			wantCmd:   cmdRepair,
			wantOpts:  batch.Options{Strategy: bleed.Flood, Workers: 3, Backup: true, DryRun: true},
			wantPaths: []string{"a.png"},
			wantPause: true,
			wantLevel: slog.LevelWarn,
		},
		{
			name:      "environment defaults",
			args:      []string{"a.png"},
			env:       map[string]string{"ALPHABLEED_STRATEGY": "Flood", "ALPHABLEED_WORKERS": "8", "ALPHABLEED_LOG_LEVEL": "debug"},
			wantCmd:   cmdRepair,
			wantOpts:  batch.Options{Strategy: bleed.Flood, Workers: 8},
			wantPaths: []string{"a.png"},
			wantLevel: slog.LevelDebug,
		},
		{
			name:      "flags override environment",
			args:      []string{"--strategy", "nearest", "--workers=1", "a.png"},
			env:       map[string]string{"ALPHABLEED_STRATEGY": "flood", "ALPHABLEED_WORKERS": "8"},
			wantCmd:   cmdRepair,
			wantOpts:  batch.Options{Strategy: bleed.Nearest, Workers: 1},
			wantPaths: []string{"a.png"},
			wantLevel: slog.LevelWarn,
		},
		{
			name:      "double dash ends flags",
			args:      []string{"--", "-d", "--backup"},
			wantCmd:   cmdRepair,
			wantOpts:  batch.Options{Strategy: bleed.Nearest},
			wantPaths: []string{"-d", "--backup"},
			wantLevel: slog.LevelWarn,
		},
		{
			name:      "restore",
			args:      []string{"--restore", "a.png"},
			wantCmd:   cmdRestore,
			wantOpts:  batch.Options{Strategy: bleed.Nearest},
			wantPaths: []string{"a.png"},
			wantLevel: slog.LevelWarn,
		},
		{
			name:      "serve",
			args:      []string{"--serve", "--strategy=flood"},
			wantCmd:   cmdServe,
			wantOpts:  batch.Options{Strategy: bleed.Flood},
			wantLevel: slog.LevelWarn,
		},
		{
			name:      "version stops parsing",
			args:      []string{"-v", "--bogus"},
			wantCmd:   cmdVersion,
			wantOpts:  batch.Options{Strategy: bleed.Nearest},
			wantLevel: slog.LevelWarn,
		},
		{
			name:      "help",
			args:      []string{"--help"},
			wantCmd:   cmdHelp,
			wantOpts:  batch.Options{Strategy: bleed.Nearest},
			wantLevel: slog.LevelWarn,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := parseArgs(tt.args, envOf(tt.env))
			if err != nil {
				t.Fatalf("parseArgs failed: %v", err)
			}
			if cfg.command != tt.wantCmd {
				t.Errorf("command: got %v, want %v", cfg.command, tt.wantCmd)
			}
			if cfg.opts != tt.wantOpts {
				t.Errorf("opts: got %+v, want %+v", cfg.opts, tt.wantOpts)
			}
			if !reflect.DeepEqual(cfg.paths, tt.wantPaths) {
				t.Errorf("paths: got %v, want %v", cfg.paths, tt.wantPaths)
			}
			if cfg.pause != tt.wantPause {
				t.Errorf("pause: got %v, want %v", cfg.pause, tt.wantPause)
			}
			if cfg.logLevel != tt.wantLevel {
				t.Errorf("logLevel: got %v, want %v", cfg.logLevel, tt.wantLevel)
			}
		})
	}
}

func TestParseArgs_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		env  map[string]string
	}{
		{"unknown flag", []string{"--frobnicate"}, nil},
		{"unknown strategy", []string{"--strategy=delaunay"}, nil},
		{"missing value", []string{"--workers"}, nil},
		{"bad workers", []string{"--workers=many"}, nil},
		{"negative workers", []string{"--workers=-2"}, nil},
		{"restore without files", []string{"--restore"}, nil},
		{"bad env strategy", nil, map[string]string{"ALPHABLEED_STRATEGY": "blur"}},
		{"bad env workers", nil, map[string]string{"ALPHABLEED_WORKERS": "x"}},
		{"bad env log level", nil, map[string]string{"ALPHABLEED_LOG_LEVEL": "loud"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseArgs(tt.args, envOf(tt.env)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func writeSprite(t *testing.T, path string) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 3, 3))
	img.SetNRGBA(1, 1, color.NRGBA{B: 255, A: 255})

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("png.Encode failed: %v", err)
	}
}

func TestRun_RepairAndRestore(t *testing.T) {
	t.Cleanup(func() { batch.SetLogger(nil) })

	dir := t.TempDir()
	sprite := filepath.Join(dir, "sprite.png")
	writeSprite(t, sprite)
	original, _ := os.ReadFile(sprite)
	photo := filepath.Join(dir, "photo.jpg")
	if err := os.WriteFile(photo, []byte("jpeg"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	var stdout, stderr bytes.Buffer
	code := run([]string{"--backup", "--pause", dir}, strings.NewReader("\n"), &stdout, &stderr)
	if code != 1 {
		t.Errorf("exit code: got %d, want 1 (photo.jpg is skipped)", code)
	}

	out := stdout.String()
	for _, want := range []string{
		"Successfully fixed 1 images in",
		"Skipped 1 files that couldn't be fixed!",
		"photo.jpg",
		"Press enter to exit",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	r, _, err := imaging.Load(sprite)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := r.RGBAt(0); got != (imaging.RGB{B: 255}) {
		t.Errorf("corner pixel: got %v, want blue", got)
	}

	stdout.Reset()
	if code := run([]string{"--restore", dir}, strings.NewReader(""), &stdout, &stderr); code != 0 {
		t.Fatalf("restore exit code: got %d, want 0\n%s", code, stdout.String())
	}
	restored, _ := os.ReadFile(sprite)
	if !bytes.Equal(restored, original) {
		t.Error("restore did not bring back the original")
	}
}

func TestRun_NothingFixed(t *testing.T) {
	t.Cleanup(func() { batch.SetLogger(nil) })

	dir := t.TempDir()
	path := filepath.Join(dir, "opaque.png")
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("png.Encode failed: %v", err)
	}
	f.Close()

	var stdout, stderr bytes.Buffer
	if code := run([]string{path}, strings.NewReader(""), &stdout, &stderr); code != 1 {
		t.Errorf("exit code: got %d, want 1", code)
	}
	out := stdout.String()
	if !strings.Contains(out, "No files were able to be fixed!") {
		t.Errorf("output missing failure summary:\n%s", out)
	}
	if !strings.Contains(out, "no border pixels") {
		t.Errorf("output missing cause:\n%s", out)
	}
}

func TestRun_VersionAndHelp(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"--version"}, nil, &stdout, &stderr); code != 0 {
		t.Errorf("--version exit code: got %d", code)
	}
	if !strings.HasPrefix(stdout.String(), "alphableed "+Version) {
		t.Errorf("--version output: %q", stdout.String())
	}

	stdout.Reset()
	if code := run([]string{"-h"}, nil, &stdout, &stderr); code != 0 {
		t.Errorf("-h exit code: got %d", code)
	}
	if !strings.Contains(stdout.String(), "--strategy") {
		t.Errorf("help output missing options:\n%s", stdout.String())
	}

	stdout.Reset()
	if code := run([]string{"--nope"}, nil, &stdout, &stderr); code != 2 {
		t.Errorf("bad flag exit code: got %d, want 2", code)
	}
}
