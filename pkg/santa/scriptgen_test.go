package santa

import (
	"strings"
	"testing"
	"time"
)

func testSource() Source {
	return Source{
		Name:           "brew",
		ShellCommand:   "brew",
		InstallCommand: "brew install {package}",
		CheckCommand:   "brew list",
	}
}

func TestGenerateScriptPosixShContainsSafetyHeader(t *testing.T) {
	script, err := GenerateScript(FormatPosixSh, OpInstall, testSource(), []Package{{Name: "ripgrep"}})
	if err != nil {
		t.Fatalf("GenerateScript: %v", err)
	}
	if !strings.Contains(script, "set -euo pipefail") {
		t.Error("expected posix-sh script to set -euo pipefail")
	}
	if !strings.Contains(script, "brew install") {
		t.Error("expected the composed install command to appear in the script")
	}
	if !strings.Contains(script, "ripgrep") {
		t.Error("expected the package name to appear in the script")
	}
}

func TestGenerateScriptEscapesPackageOnce(t *testing.T) {
	script, err := GenerateScript(FormatPosixSh, OpInstall, testSource(), []Package{{Name: "pkg's-name"}})
	if err != nil {
		t.Fatalf("GenerateScript: %v", err)
	}
	// escaped exactly once means a single surrounding-quote transform, not
	// a doubled one
	if strings.Contains(script, `''\'''\'''`) {
		t.Error("package name appears to have been escaped more than once")
	}
}

func TestGenerateScriptPowerShell(t *testing.T) {
	script, err := GenerateScript(FormatPowerShell, OpInstall, testSource(), []Package{{Name: "ripgrep"}})
	if err != nil {
		t.Fatalf("GenerateScript: %v", err)
	}
	if !strings.Contains(script, "Get-Command") {
		t.Error("expected a PowerShell availability check")
	}
}

func TestGenerateScriptRejectsUnsafePackageName(t *testing.T) {
	_, err := GenerateScript(FormatPosixSh, OpInstall, testSource(), []Package{{Name: "pkg; rm -rf /"}})
	if err == nil {
		t.Fatal("expected the composer's sanitizer to reject this package name")
	}
	if Category(err) != KindSecurity {
		t.Errorf("Category(err) = %v, want %v", Category(err), KindSecurity)
	}
}

func TestScriptGeneratorDeterministicWithFrozenClock(t *testing.T) {
	frozen := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	gen := &ScriptGenerator{Clock: func() time.Time { return frozen }}

	first, err := gen.Generate(FormatPosixSh, OpInstall, testSource(), []Package{{Name: "ripgrep"}})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	second, err := gen.Generate(FormatPosixSh, OpInstall, testSource(), []Package{{Name: "ripgrep"}})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if first != second {
		t.Fatalf("expected identical output for identical inputs and a frozen clock")
	}
	if !strings.Contains(first, "2024-03-01T12:00:00Z") {
		t.Errorf("expected the frozen timestamp in the script header, got: %s", first)
	}
}

func TestGenerateScriptUnknownFormat(t *testing.T) {
	_, err := GenerateScript(ScriptFormat(99), OpInstall, testSource(), []Package{{Name: "ripgrep"}})
	if err == nil {
		t.Fatal("expected an error for an unrecognized format")
	}
}
