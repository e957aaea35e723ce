package santa

import "testing"

func TestSanitizePackageNameStripsZeroWidthAndControls(t *testing.T) {
	got, err := SanitizePackageName("ripgrep​")
	if err != nil {
		t.Fatalf("SanitizePackageName: %v", err)
	}
	if got != "ripgrep" {
		t.Errorf("got %q, want %q", got, "ripgrep")
	}
}

func TestSanitizePackageNameRejectsLeadingDash(t *testing.T) {
	if _, err := SanitizePackageName("-rf"); err == nil || Category(err) != KindSecurity {
		t.Fatalf("expected a KindSecurity error, got %v", err)
	}
}

func TestSanitizePackageNameRejectsPathTraversal(t *testing.T) {
	if _, err := SanitizePackageName("../../etc/passwd"); err == nil || Category(err) != KindSecurity {
		t.Fatalf("expected a KindSecurity error, got %v", err)
	}
}

func TestSanitizePackageNameRejectsShellMetacharacters(t *testing.T) {
	for _, name := range []string{"foo;rm -rf /", "foo|cat", "foo&bar", "foo`id`"} {
		if _, err := SanitizePackageName(name); err == nil || Category(err) != KindSecurity {
			t.Errorf("SanitizePackageName(%q): expected a KindSecurity error, got %v", name, err)
		}
	}
}

func TestSanitizePackageNameRejectsSubstitution(t *testing.T) {
	for _, name := range []string{"foo$(whoami)", "foo${PATH}"} {
		if _, err := SanitizePackageName(name); err == nil || Category(err) != KindSecurity {
			t.Errorf("SanitizePackageName(%q): expected a KindSecurity error, got %v", name, err)
		}
	}
}

func TestSanitizePackageNameRejectsEmptyAfterStripping(t *testing.T) {
	if _, err := SanitizePackageName("​‌"); err == nil || Category(err) != KindSecurity {
		t.Fatalf("expected a KindSecurity error, got %v", err)
	}
}

func TestEscapeForShellQuotesPerFormat(t *testing.T) {
	cases := []struct {
		format ScriptFormat
		in     string
		want   string
	}{
		{FormatPosixSh, "it's", `'it'\''s'`},
		{FormatPowerShell, "it's", `'it''s'`},
		{FormatBatch, `say "hi"`, `"say ""hi"""`},
	}
	for _, c := range cases {
		if got := EscapeForShell(c.in, c.format); got != c.want {
			t.Errorf("EscapeForShell(%q, %v) = %q, want %q", c.in, c.format, got, c.want)
		}
	}
}

func TestComposeSubstitutesPlaceholder(t *testing.T) {
	src := Source{Name: "brew", InstallCommand: "brew install {package}"}
	pkgs := []Package{{Name: "ripgrep"}, {Name: "fd"}}
	composed, err := Compose(src, pkgs, OpInstall, FormatPosixSh)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	want := "brew install 'ripgrep' 'fd'"
	if composed.Command != want {
		t.Errorf("Command = %q, want %q", composed.Command, want)
	}
}

func TestComposeAppendsWhenNoPlaceholder(t *testing.T) {
	src := Source{Name: "apt", InstallCommand: "apt-get install -y"}
	pkgs := []Package{{Name: "curl"}}
	composed, err := Compose(src, pkgs, OpInstall, FormatPosixSh)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if composed.Command != "apt-get install -y 'curl'" {
		t.Errorf("Command = %q", composed.Command)
	}
}

func TestComposeAppliesPrependAndAltNameAndSuffix(t *testing.T) {
	src := Source{Name: "nix", InstallCommand: "nix-env -iA {package}", PrependToPackageName: "nixpkgs."}
	pkg := Package{
		Name:      "ripgrep",
		Overrides: map[string]PackageOverride{"nix": {AltName: "rg", InstallSuffix: "@1.2"}},
	}
	composed, err := Compose(src, []Package{pkg}, OpInstall, FormatPosixSh)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	want := "nix-env -iA 'nixpkgs.rg@1.2'"
	if composed.Command != want {
		t.Errorf("Command = %q, want %q", composed.Command, want)
	}
}

func TestComposeCarriesPreHook(t *testing.T) {
	src := Source{Name: "brew", InstallCommand: "brew install {package}", Pre: "brew update"}
	composed, err := Compose(src, []Package{{Name: "wget"}}, OpInstall, FormatPosixSh)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if composed.Pre != "brew update" {
		t.Errorf("Pre = %q", composed.Pre)
	}
}

func TestComposeRejectsMissingCommand(t *testing.T) {
	src := Source{Name: "brew", InstallCommand: "brew install {package}"}
	if _, err := Compose(src, []Package{{Name: "x"}}, OpUninstall, FormatPosixSh); err == nil {
		t.Fatal("expected an error for a source with no uninstall_command")
	} else if Category(err) != KindPackageSource {
		t.Errorf("Category = %v, want package_source", Category(err))
	}
}

func TestComposeFailsOnUnsanitizablePackageName(t *testing.T) {
	src := Source{Name: "brew", InstallCommand: "brew install {package}"}
	if _, err := Compose(src, []Package{{Name: "foo;rm -rf /"}}, OpInstall, FormatPosixSh); err == nil {
		t.Fatal("expected Compose to fail on an unsanitizable package name")
	}
}
