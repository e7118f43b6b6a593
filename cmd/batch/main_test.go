package main

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	ziputil "studio/pkg/zip"
)

func writePNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 10, 8))
	for x := 0; x < 10; x++ {
		img.Set(x, 3, color.RGBA{R: 210, G: 160, B: 90, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestWriteResultNeverOverwrites(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "LaParis_Studio_cake.png")
	if err := os.WriteFile(existing, []byte("previous run"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}

	names := ziputil.NewNames()
	first, err := writeResult(dir, names, "LaParis_Studio_cake.png", []byte("one"))
	if err != nil {
		t.Fatalf("writeResult: %v", err)
	}
	second, err := writeResult(dir, names, "LaParis_Studio_cake.png", []byte("two"))
	if err != nil {
		t.Fatalf("writeResult: %v", err)
	}

	if filepath.Base(first) != "LaParis_Studio_cake (2).png" || filepath.Base(second) != "LaParis_Studio_cake (3).png" {
		t.Fatalf("paths = %q, %q", first, second)
	}
	for path, want := range map[string]string{existing: "previous run", first: "one", second: "two"} {
		got, err := os.ReadFile(path)
		if err != nil || string(got) != want {
			t.Fatalf("%s = %q, %v; want %q", path, got, err, want)
		}
	}
}

func TestBatchKeepsResultsWithSameDisplayName(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("DATABASE_URL", "")
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "renders")
	a := filepath.Join(in, "a", "cake.png")
	b := filepath.Join(in, "b", "cake.jpg.png")
	writePNG(t, a)
	writePNG(t, b)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs([]string{a, b, "--out", out})
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("execute: %v (stderr %s)", err, stderr.String())
	}

	entries, err := os.ReadDir(out)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	var got []string
	for _, e := range entries {
		got = append(got, e.Name())
	}
	sort.Strings(got)
	want := []string{"LaParis_Studio_cake (2).png", "LaParis_Studio_cake.png"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("outputs = %v, want %v", got, want)
	}
	if n := strings.Count(stdout.String(), "OK "); n != 2 {
		t.Fatalf("OK lines = %d: %s", n, stdout.String())
	}
}
