package policy

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	eng, err := NewEngine(zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return eng
}

func TestEvaluateAllowsOrdinaryInstall(t *testing.T) {
	eng := newTestEngine(t)
	result, err := eng.Evaluate(context.Background(), &CommandProposal{
		Source:    "brew",
		Operation: "install",
		Packages:  []string{"ripgrep", "bat"},
	})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !result.Allowed {
		t.Fatalf("expected allowed, got violations: %+v", result.Violations)
	}
}

func TestEvaluateBlocksShellLikePackageName(t *testing.T) {
	eng := newTestEngine(t)
	result, err := eng.Evaluate(context.Background(), &CommandProposal{
		Source:    "brew",
		Operation: "install",
		Packages:  []string{"ripgrep; rm -rf /tmp"},
	})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if result.Allowed {
		t.Fatal("expected the destructive-packages policy to block this proposal")
	}
}

func TestEvaluateWarnsOnUnknownSource(t *testing.T) {
	eng := newTestEngine(t)
	result, err := eng.Evaluate(context.Background(), &CommandProposal{
		Source:    "some-future-manager",
		Operation: "install",
		Packages:  []string{"widget"},
	})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !result.Allowed {
		t.Fatalf("unknown source alone should only warn, not block: %+v", result.Violations)
	}
	if len(result.Warnings) == 0 {
		t.Fatal("expected a warning for the unrecognized source")
	}
}

func TestEvaluateBlocksUninstallOnUnknownSource(t *testing.T) {
	eng := newTestEngine(t)
	result, err := eng.Evaluate(context.Background(), &CommandProposal{
		Source:    "some-future-manager",
		Operation: "uninstall",
		Packages:  []string{"widget"},
	})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if result.Allowed {
		t.Fatal("expected uninstall-known-sources-only to block")
	}
}

func TestEvaluateBlocksOversizedPackageList(t *testing.T) {
	eng := newTestEngine(t)
	pkgs := make([]string, 201)
	for i := range pkgs {
		pkgs[i] = "pkg"
	}
	result, err := eng.Evaluate(context.Background(), &CommandProposal{
		Source:    "brew",
		Operation: "install",
		Packages:  pkgs,
	})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if result.Allowed {
		t.Fatal("expected package-count-cap to block")
	}
}

func TestListPoliciesIncludesBuiltins(t *testing.T) {
	eng := newTestEngine(t)
	names := map[string]bool{}
	for _, p := range eng.ListPolicies() {
		names[p.Name] = true
	}
	for _, want := range []string{"destructive-packages", "source-allowlist", "package-count-cap", "uninstall-known-sources-only"} {
		if !names[want] {
			t.Errorf("missing built-in policy %q", want)
		}
	}
}

func TestSetEnabledDisablesAPolicy(t *testing.T) {
	eng := newTestEngine(t)
	if err := eng.SetEnabled("source-allowlist", false); err != nil {
		t.Fatalf("SetEnabled: %v", err)
	}
	result, err := eng.Evaluate(context.Background(), &CommandProposal{
		Source:    "some-future-manager",
		Operation: "install",
		Packages:  []string{"widget"},
	})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(result.Warnings) != 0 {
		t.Fatalf("expected no warnings with source-allowlist disabled, got %+v", result.Warnings)
	}
}
