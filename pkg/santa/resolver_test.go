package santa

import "testing"

func TestResolveMergesLayersByPrecedence(t *testing.T) {
	bundled := RawLayer{
		Layer:   LayerBundled,
		Sources: []string{"brew"},
		SourceOverrides: map[string]SourceOverride{
			"brew": {ShellCommand: "brew", InstallCommand: "brew install {package}", CheckCommand: "brew list"},
		},
	}
	project := RawLayer{
		Layer:   LayerProject,
		Sources: []string{"brew"},
		SourceOverrides: map[string]SourceOverride{
			"brew": {InstallCommand: "brew install --cask {package}"},
		},
		Packages: map[string]Package{"ripgrep": {Name: "ripgrep"}},
	}

	cfg, err := Resolve(bundled, project)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	brew := cfg.Sources["brew"]
	if brew.InstallCommand != "brew install --cask {package}" {
		t.Errorf("InstallCommand = %q, want the project-layer override", brew.InstallCommand)
	}
	if brew.CheckCommand != "brew list" {
		t.Errorf("CheckCommand = %q, want the bundled-layer value to survive untouched", brew.CheckCommand)
	}
	if _, ok := cfg.Packages["ripgrep"]; !ok {
		t.Error("expected ripgrep to be carried from the project layer")
	}
}

func TestResolveWarnsOnUnrecognizedSourceButDoesNotFail(t *testing.T) {
	layer := RawLayer{
		Layer:           LayerBundled,
		Sources:         []string{"definitely-not-a-known-source"},
		SourceOverrides: map[string]SourceOverride{"definitely-not-a-known-source": {InstallCommand: "x {package}"}},
	}
	cfg, err := Resolve(layer)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(cfg.Warnings) == 0 {
		t.Error("expected a warning for an unrecognized source")
	}
	if _, ok := cfg.Sources["definitely-not-a-known-source"]; !ok {
		t.Error("unrecognized sources must still be carried through")
	}
}

func TestResolveRejectsEmptySourceSet(t *testing.T) {
	if _, err := Resolve(); err == nil {
		t.Fatal("expected an error resolving zero layers")
	}
}

func TestResolvePreservesSourceOrderAcrossLayers(t *testing.T) {
	bundled := RawLayer{Layer: LayerBundled, Sources: []string{"brew", "apt"}, SourceOverrides: map[string]SourceOverride{
		"brew": {InstallCommand: "brew install {package}"},
		"apt":  {InstallCommand: "apt-get install -y {package}"},
	}}
	project := RawLayer{Layer: LayerProject, Sources: []string{"apt", "nix"}, SourceOverrides: map[string]SourceOverride{
		"nix": {InstallCommand: "nix-env -iA {package}"},
	}}
	cfg, err := Resolve(bundled, project)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := []string{"brew", "apt", "nix"}
	if len(cfg.SourceOrder) != len(want) {
		t.Fatalf("SourceOrder = %v, want %v", cfg.SourceOrder, want)
	}
	for i, name := range want {
		if cfg.SourceOrder[i] != name {
			t.Errorf("SourceOrder[%d] = %q, want %q", i, cfg.SourceOrder[i], name)
		}
	}
}
