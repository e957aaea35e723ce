package santa

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func testPlanner() *Planner {
	cache := NewCache(time.Minute, 10, nil, zerolog.Nop())
	driver := NewProcessDriver(zerolog.Nop())
	return NewPlanner(cache, driver, zerolog.Nop())
}

func TestStatusComputesMissingAndExtra(t *testing.T) {
	p := testPlanner()
	src := Source{Name: "brew", CheckCommand: "printf 'bat\\nripgrep\\n'"}
	sources := map[string]Source{"brew": src}
	desired := map[string][]string{"brew": {"ripgrep", "fzf"}}

	plan := p.Status(context.Background(), sources, desired)
	sp, ok := plan.Sources["brew"]
	if !ok {
		t.Fatal("expected a plan entry for brew")
	}
	if len(sp.Missing) != 1 || sp.Missing[0] != "fzf" {
		t.Errorf("Missing = %v, want [fzf]", sp.Missing)
	}
	if len(sp.Extra) != 1 || sp.Extra[0] != "bat" {
		t.Errorf("Extra = %v, want [bat]", sp.Extra)
	}
}

func TestStatusUsesCacheOnSecondCall(t *testing.T) {
	p := testPlanner()
	// a check_command that would fail if actually invoked twice in a
	// conflicting way is not needed here; instead we pre-seed the cache
	// and verify Status never needs to shell out for a fresh entry.
	p.cache.Put("brew", []string{"ripgrep"})

	src := Source{Name: "brew", CheckCommand: "exit 1"}
	sources := map[string]Source{"brew": src}
	desired := map[string][]string{"brew": {"ripgrep"}}

	plan := p.Status(context.Background(), sources, desired)
	sp := plan.Sources["brew"]
	if sp.Warning != "" {
		t.Errorf("expected no warning when using a fresh cache entry, got %q", sp.Warning)
	}
	if len(sp.Missing) != 0 {
		t.Errorf("Missing = %v, want none", sp.Missing)
	}
}

func TestStatusRecordsEmptySetWithWarningOnNonZeroExit(t *testing.T) {
	cache := NewCache(time.Minute, 10, nil, zerolog.Nop())
	driver := NewProcessDriver(zerolog.Nop())
	p := NewPlanner(cache, driver, zerolog.Nop())

	// check_command deliberately sleeps past the 30s check timeout would
	// take too long in a test; exercise resolveInstalled's timeout branch
	// directly isn't possible without overriding the constant, so instead
	// we assert the non-zero-exit path records an empty set with a warning.
	src := Source{Name: "brew", CheckCommand: "exit 7"}
	sources := map[string]Source{"brew": src}

	plan := p.Status(context.Background(), sources, map[string][]string{"brew": {"ripgrep"}})
	sp := plan.Sources["brew"]
	if sp.Warning == "" {
		t.Error("expected a warning when check_command exits non-zero")
	}
	if len(sp.Installed) != 0 {
		t.Errorf("Installed = %v, want empty", sp.Installed)
	}
}

func TestStatusRunsSourcesInParallel(t *testing.T) {
	p := testPlanner()
	sources := map[string]Source{
		"brew": {Name: "brew", CheckCommand: "sleep 0.05 && echo ripgrep"},
		"apt":  {Name: "apt", CheckCommand: "sleep 0.05 && echo curl"},
	}
	desired := map[string][]string{"brew": {"ripgrep"}, "apt": {"curl"}}

	start := time.Now()
	plan := p.Status(context.Background(), sources, desired)
	elapsed := time.Since(start)

	if elapsed > 150*time.Millisecond {
		t.Errorf("expected sources to run in parallel, took %v", elapsed)
	}
	if len(plan.Sources) != 2 {
		t.Fatalf("expected 2 plan entries, got %d", len(plan.Sources))
	}
}

func TestInstallSafeModeGeneratesScriptWithoutExecuting(t *testing.T) {
	p := testPlanner()
	sources := map[string]Source{
		"brew": {Name: "brew", ShellCommand: "brew", InstallCommand: "brew install {package}", CheckCommand: "true"},
	}
	plan := &Plan{Sources: map[string]*SourcePlan{
		"brew": {Source: "brew", Missing: []string{"ripgrep"}},
	}}

	outcomes := p.Install(context.Background(), plan, sources, map[string]Package{}, false, FormatPosixSh)
	if len(outcomes) != 1 {
		t.Fatalf("expected 1 outcome, got %d", len(outcomes))
	}
	if outcomes[0].Err != nil {
		t.Fatalf("unexpected error: %v", outcomes[0].Err)
	}
	if outcomes[0].Script == "" {
		t.Error("expected a non-empty generated script in safe mode")
	}
	if outcomes[0].Result != nil {
		t.Error("expected no process result in safe mode")
	}
}

func TestInstallSkipsSourcesWithNothingMissing(t *testing.T) {
	p := testPlanner()
	sources := map[string]Source{"brew": {Name: "brew", InstallCommand: "brew install {package}"}}
	plan := &Plan{Sources: map[string]*SourcePlan{
		"brew": {Source: "brew", Missing: nil},
	}}

	outcomes := p.Install(context.Background(), plan, sources, map[string]Package{}, false, FormatPosixSh)
	if len(outcomes) != 0 {
		t.Errorf("expected no outcomes when nothing is missing, got %d", len(outcomes))
	}
}
