package main

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ImageGrouper/internal/cache"
)

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func isolateHome(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func ramp() image.Image {
	img := image.NewGray(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8(x * 4)})
		}
	}
	return img
}

func flat() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	return img
}

// fixtureDir holds two identical images, a different one, a text file and a
// corrupt png.
func fixtureDir(t *testing.T) (dir, a, b string) {
	t.Helper()
	dir = t.TempDir()
	a = filepath.Join(dir, "a.png")
	b = filepath.Join(dir, "b.png")
	writePNG(t, a, ramp())
	writePNG(t, b, ramp())
	writePNG(t, filepath.Join(dir, "c.png"), flat())
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not an image"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "broken.png"), []byte("\x89PNG\r\n\x1a\ntruncated"), 0o600); err != nil {
		t.Fatal(err)
	}
	return dir, a, b
}

func decodeGroups(t *testing.T, stdout string) map[string][]string {
	t.Helper()
	var groups map[string][]string
	if err := json.Unmarshal([]byte(stdout), &groups); err != nil {
		t.Fatalf("stdout is not a JSON object: %v\n%s", err, stdout)
	}
	return groups
}

func TestRootCommand_GroupsIdenticalImages(t *testing.T) {
	isolateHome(t)
	dir, a, b := fixtureDir(t)

	stdout, stderr, err := runCLI(t, dir)
	if err != nil {
		t.Fatalf("execute: %v\nstderr:\n%s", err, stderr)
	}

	groups := decodeGroups(t, stdout)
	if len(groups) != 1 {
		t.Fatalf("expected exactly one group, got %v", groups)
	}
	for digest, paths := range groups {
		if len(digest) != 16 {
			t.Fatalf("expected 16 hex chars, got %q", digest)
		}
		if strings.ToLower(digest) != digest {
			t.Fatalf("digest should be lowercase: %q", digest)
		}
		if len(paths) != 2 || paths[0] != a || paths[1] != b {
			t.Fatalf("group mismatch: got %v want [%s %s]", paths, a, b)
		}
	}

	if !strings.Contains(stdout, "\n  \"") {
		t.Fatalf("expected pretty-printed JSON, got %q", stdout)
	}
	if !strings.Contains(stderr, "hashing with 8x8 images (64-bit hash)") {
		t.Fatalf("missing config echo in stderr:\n%s", stderr)
	}
	if !strings.Contains(stderr, "scanning 5 files") {
		t.Fatalf("missing file count in stderr:\n%s", stderr)
	}
	if !strings.Contains(stderr, "hashed 3 images") {
		t.Fatalf("missing hashed count in stderr:\n%s", stderr)
	}
	if n := strings.Count(stderr, "error decoding image"); n != 1 {
		t.Fatalf("expected exactly one decode diagnostic, got %d:\n%s", n, stderr)
	}
	if !strings.Contains(stderr, "broken.png") {
		t.Fatalf("decode diagnostic should name the file:\n%s", stderr)
	}
	if strings.Contains(stderr, "notes.txt") {
		t.Fatalf("non-image file should not produce a diagnostic:\n%s", stderr)
	}
}

func TestRootCommand_AcceptsFileArguments(t *testing.T) {
	isolateHome(t)
	dir, a, b := fixtureDir(t)
	missing := filepath.Join(dir, "gone.png")

	stdout, stderr, err := runCLI(t, a, missing, b, filepath.Join(dir, "c.png"))
	if err != nil {
		t.Fatalf("execute: %v\nstderr:\n%s", err, stderr)
	}
	groups := decodeGroups(t, stdout)
	if len(groups) != 1 {
		t.Fatalf("expected exactly one group, got %v", groups)
	}
	for _, paths := range groups {
		if len(paths) != 2 || paths[0] != a || paths[1] != b {
			t.Fatalf("group mismatch: got %v want [%s %s]", paths, a, b)
		}
	}
	if !strings.Contains(stderr, "hashed 3 images") {
		t.Fatalf("missing hashed count in stderr:\n%s", stderr)
	}
}

func TestRootCommand_EmptyInput(t *testing.T) {
	isolateHome(t)

	stdout, stderr, err := runCLI(t)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if stdout != "{}\n" {
		t.Fatalf("expected {}, got %q", stdout)
	}
	if !strings.Contains(stderr, "hashed 0 images") {
		t.Fatalf("missing hashed count in stderr:\n%s", stderr)
	}
}

func TestRootCommand_SideFlag(t *testing.T) {
	isolateHome(t)
	dir, _, _ := fixtureDir(t)

	stdout, stderr, err := runCLI(t, "--side", "16", "--exclude", "*.txt", dir)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	for digest := range decodeGroups(t, stdout) {
		if len(digest) != 64 {
			t.Fatalf("expected 64 hex chars at side 16, got %q", digest)
		}
	}
	if !strings.Contains(stderr, "scanning 4 files") {
		t.Fatalf("exclude pattern not applied:\n%s", stderr)
	}
}

func TestRootCommand_RejectsInvalidSide(t *testing.T) {
	isolateHome(t)
	if _, _, err := runCLI(t, "--side", "0", t.TempDir()); err == nil {
		t.Fatalf("expected error for side 0")
	}
}

// statValue reads one row of the --stats table from stderr.
func statValue(t *testing.T, stderr, name string) string {
	t.Helper()
	for _, line := range strings.Split(stderr, "\n") {
		cells := strings.Split(line, "│")
		if len(cells) >= 3 && strings.TrimSpace(cells[1]) == name {
			return strings.TrimSpace(cells[2])
		}
	}
	t.Fatalf("stat %q not found in:\n%s", name, stderr)
	return ""
}

func cachedDigests(t *testing.T, dbPath string, key cache.Key) int {
	t.Helper()
	store, err := cache.Open(dbPath)
	if err != nil {
		t.Fatalf("open cache after run: %v", err)
	}
	defer store.Close()
	snap, err := store.Snapshot(context.Background(), key)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	return snap.Len()
}

func TestRootCommand_CachePopulatedAndReused(t *testing.T) {
	isolateHome(t)
	dir, _, _ := fixtureDir(t)
	dbPath := filepath.Join(t.TempDir(), "digests.db")

	first, _, err := runCLI(t, "--cache-path", dbPath, dir)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if n := cachedDigests(t, dbPath, cache.Key{Side: 8}); n != 3 {
		t.Fatalf("expected 3 cached digests, got %d", n)
	}

	second, stderr, err := runCLI(t, "--cache-path", dbPath, "--stats", dir)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if first != second {
		t.Fatalf("cached run changed the result:\nfirst:  %s\nsecond: %s", first, second)
	}
	if got := statValue(t, stderr, "cache_hits"); got != "3" {
		t.Fatalf("expected 3 cache hits, got %s", got)
	}
}

func TestRootCommand_CacheKeyedByAutoOrient(t *testing.T) {
	isolateHome(t)
	dir, _, _ := fixtureDir(t)
	dbPath := filepath.Join(t.TempDir(), "digests.db")

	if _, _, err := runCLI(t, "--cache-path", dbPath, dir); err != nil {
		t.Fatalf("first run: %v", err)
	}

	_, stderr, err := runCLI(t, "--cache-path", dbPath, "--auto-orient", "--stats", dir)
	if err != nil {
		t.Fatalf("auto-orient run: %v", err)
	}
	if got := statValue(t, stderr, "cache_hits"); got != "0" {
		t.Fatalf("toggling auto-orient must not reuse digests, got %s cache hits", got)
	}
	if got := statValue(t, stderr, "hashed"); got != "3" {
		t.Fatalf("expected 3 hashed images, got %s", got)
	}

	if n := cachedDigests(t, dbPath, cache.Key{Side: 8, AutoOrient: true}); n != 3 {
		t.Fatalf("expected 3 oriented digests, got %d", n)
	}
	if n := cachedDigests(t, dbPath, cache.Key{Side: 8}); n != 3 {
		t.Fatalf("plain digests should survive, got %d", n)
	}
}

func TestInspectCommand(t *testing.T) {
	isolateHome(t)
	_, a, b := fixtureDir(t)

	stdout, _, err := runCLI(t, "inspect", a, b)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if !strings.Contains(stdout, "all fingerprints are identical") {
		t.Fatalf("expected identical result, got:\n%s", stdout)
	}
	for _, want := range []string{"BITS SET", a, b, "Side:  8 (64-bit hash)"} {
		if !strings.Contains(stdout, want) {
			t.Fatalf("expected %q in inspect output:\n%s", want, stdout)
		}
	}

	stdout, _, err = runCLI(t, "inspect", "--json", "--side", "4", a)
	if err != nil {
		t.Fatalf("inspect --json: %v", err)
	}
	var got inspectJSON
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, stdout)
	}
	if got.Side != 4 || len(got.Digests) != 1 || got.Digests[0] != "eeee" || !got.Identical {
		t.Fatalf("unexpected inspect output: %+v", got)
	}
}

func TestConfigCommands(t *testing.T) {
	isolateHome(t)
	cfgPath := filepath.Join(t.TempDir(), "imagegrouper.toml")

	stdout, _, err := runCLI(t, "config", "init", "--config", cfgPath)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(stdout, cfgPath) {
		t.Fatalf("expected written path in output, got %q", stdout)
	}
	if _, _, err := runCLI(t, "config", "init", "--config", cfgPath); err == nil {
		t.Fatalf("expected error when config already exists")
	}
	if _, _, err := runCLI(t, "config", "init", "--force", "--config", cfgPath); err != nil {
		t.Fatalf("config init --force: %v", err)
	}

	stdout, _, err = runCLI(t, "config", "show", "--config", cfgPath, "--side", "12")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(stdout, "side = 12") {
		t.Fatalf("expected flag override in effective config, got:\n%s", stdout)
	}
}
