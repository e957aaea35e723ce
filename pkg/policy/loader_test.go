package policy

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

const samplePolicyRego = `# Blocks anything naming a well-known system binary directly.
# This is a hygiene policy, not the primary safety net.
package santa.policies.system_binaries

import rego.v1

deny contains violation if {
	input.packages[_] == "systemd"
	violation := {
		"message": "refusing to manage systemd directly",
		"severity": "warning",
	}
}
`

func writeSamplePolicy(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(samplePolicyRego), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadFromPathsSingleFile(t *testing.T) {
	dir := t.TempDir()
	path := writeSamplePolicy(t, dir, "system-binaries.rego")

	l := NewLoader(zerolog.Nop())
	policies, err := l.LoadFromPaths(context.Background(), []string{path})
	if err != nil {
		t.Fatalf("LoadFromPaths: %v", err)
	}
	if len(policies) != 1 {
		t.Fatalf("expected 1 policy, got %d", len(policies))
	}
	if policies[0].Name != "system-binaries" {
		t.Errorf("expected name derived from file stem, got %q", policies[0].Name)
	}
	if policies[0].Description == "" {
		t.Error("expected a description extracted from the leading comment block")
	}
}

func TestLoadFromPathsDirectory(t *testing.T) {
	dir := t.TempDir()
	writeSamplePolicy(t, dir, "one.rego")
	writeSamplePolicy(t, dir, "two.rego")
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	l := NewLoader(zerolog.Nop())
	policies, err := l.LoadFromPaths(context.Background(), []string{dir})
	if err != nil {
		t.Fatalf("LoadFromPaths: %v", err)
	}
	if len(policies) != 2 {
		t.Fatalf("expected 2 .rego policies, got %d", len(policies))
	}
}

func TestLoadFromFileRejectsNonRego(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.json")
	if err := os.WriteFile(path, []byte(`{}`), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	l := NewLoader(zerolog.Nop())
	if _, err := l.loadFromFile(path); err == nil {
		t.Fatal("expected an error loading a non-.rego file")
	}
}

func TestLoadFromFileCaches(t *testing.T) {
	dir := t.TempDir()
	path := writeSamplePolicy(t, dir, "cached.rego")

	l := NewLoader(zerolog.Nop())
	first, err := l.loadFromFile(path)
	if err != nil {
		t.Fatalf("loadFromFile: %v", err)
	}
	second, err := l.loadFromFile(path)
	if err != nil {
		t.Fatalf("loadFromFile: %v", err)
	}
	if first != second {
		t.Error("expected the cached *Policy pointer to be reused")
	}

	l.ClearCache()
	third, err := l.loadFromFile(path)
	if err != nil {
		t.Fatalf("loadFromFile after ClearCache: %v", err)
	}
	if third == first {
		t.Error("expected ClearCache to force a fresh read")
	}
}

func TestExtractDescriptionStopsAtCode(t *testing.T) {
	content := "# first line\n# second line\npackage x\n\ndeny contains v if { true }\n"
	got := extractDescription(content)
	want := "first line second line"
	if got != want {
		t.Errorf("extractDescription() = %q, want %q", got, want)
	}
}

func TestEngineLoadPoliciesMergesWithBuiltins(t *testing.T) {
	dir := t.TempDir()
	writeSamplePolicy(t, dir, "system-binaries.rego")

	eng := newTestEngine(t)
	if err := eng.LoadPolicies(context.Background(), []string{dir}); err != nil {
		t.Fatalf("LoadPolicies: %v", err)
	}

	names := map[string]bool{}
	for _, p := range eng.ListPolicies() {
		names[p.Name] = true
	}
	if !names["system-binaries"] {
		t.Error("expected loaded policy to be present alongside built-ins")
	}
	if !names["destructive-packages"] {
		t.Error("expected built-in policies to still be present after LoadPolicies")
	}
}
