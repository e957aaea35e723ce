package santa

import "testing"

func TestValidateRejectsNoSources(t *testing.T) {
	cfg := &ResolvedConfig{Sources: map[string]Source{}, Packages: map[string]Package{}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation to fail with no sources")
	} else if Category(err) != KindValidation {
		t.Errorf("Category = %v, want validation", Category(err))
	}
}

func TestValidateWarnsOnPackageReferencingUnknownSource(t *testing.T) {
	cfg := &ResolvedConfig{
		SourceOrder: []string{"brew"},
		Sources:     map[string]Source{"brew": {Name: "brew"}},
		Packages:    map[string]Package{"ripgrep": {Name: "ripgrep", Sources: []string{"brew", "not-a-source"}}},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(cfg.Warnings) != 1 {
		t.Fatalf("Warnings = %v, want exactly one", cfg.Warnings)
	}
}

func TestValidatePassesWithConsistentConfig(t *testing.T) {
	cfg := &ResolvedConfig{
		SourceOrder: []string{"brew"},
		Sources:     map[string]Source{"brew": {Name: "brew"}},
		Packages:    map[string]Package{"ripgrep": {Name: "ripgrep", Sources: []string{"brew"}}},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(cfg.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none", cfg.Warnings)
	}
}
