package santa

// Source is a package-manager backend: brew, apt, pacman, aur, cargo, npm,
// nix, scoop, flathub, or any other symbolic name. Unknown names are never
// rejected at load time; they are carried through as opaque symbols, and
// Resolve records a warning for each layer that lists a name outside
// KnownSources.
type Source struct {
	// Name is the source's symbolic identifier (e.g. "brew", "apt"), taken
	// from the key the source is declared under. No case folding is applied.
	Name string `ccl:"name,omitempty"`

	// Emoji is a short decorative label used by script headers and CLI
	// output. Purely cosmetic.
	Emoji string `ccl:"emoji,omitempty"`

	// ShellCommand is the binary probed on PATH to decide whether this
	// source is available on the current machine.
	ShellCommand string `ccl:"shell_command"`

	// InstallCommand is a template string with a "{package}" placeholder,
	// or a bare command to which package arguments are appended if no
	// placeholder is present.
	InstallCommand string `ccl:"install_command"`

	// UninstallCommand is optional; sources that do not support
	// uninstall leave it empty.
	UninstallCommand string `ccl:"uninstall_command,omitempty"`

	// CheckCommand lists currently installed packages, one per line, on
	// stdout.
	CheckCommand string `ccl:"check_command"`

	// PrependToPackageName is applied to every package argument before
	// substitution (e.g. "nixpkgs." for nix).
	PrependToPackageName string `ccl:"prepend_to_package_name,omitempty"`

	// Pre is an optional statement emitted before the main command (e.g.
	// "brew tap ...").
	Pre string `ccl:"pre,omitempty"`

	// Overrides are platform-specific partial overrides, tried in order;
	// the first whose Match is satisfied wins.
	Overrides []SourceOverride `ccl:"-"`
}

// SourceOverride is a platform-scoped partial override of a Source's
// fields. Fields left at their zero value do not override the base
// Source's value.
type SourceOverride struct {
	Match PlatformMatch

	ShellCommand         string
	InstallCommand       string
	UninstallCommand     string
	CheckCommand         string
	PrependToPackageName string
	Pre                  string
}

// PlatformMatch selects a SourceOverride. Empty fields are wildcards.
type PlatformMatch struct {
	OS     string
	Arch   string
	Distro string
}

// Matches reports whether m applies to the given platform facts. Empty
// fields in m always match.
func (m PlatformMatch) Matches(p Platform) bool {
	if m.OS != "" && m.OS != p.OS {
		return false
	}
	if m.Arch != "" && m.Arch != p.Arch {
		return false
	}
	if m.Distro != "" && m.Distro != p.Distro {
		return false
	}
	return true
}

// Resolve applies the first matching override in s.Overrides on top of s's
// base fields, returning a new Source. If no override matches, a copy of s
// is returned unchanged.
func (s Source) Resolve(p Platform) Source {
	out := s
	for _, ov := range s.Overrides {
		if !ov.Match.Matches(p) {
			continue
		}
		if ov.ShellCommand != "" {
			out.ShellCommand = ov.ShellCommand
		}
		if ov.InstallCommand != "" {
			out.InstallCommand = ov.InstallCommand
		}
		if ov.UninstallCommand != "" {
			out.UninstallCommand = ov.UninstallCommand
		}
		if ov.CheckCommand != "" {
			out.CheckCommand = ov.CheckCommand
		}
		if ov.PrependToPackageName != "" {
			out.PrependToPackageName = ov.PrependToPackageName
		}
		if ov.Pre != "" {
			out.Pre = ov.Pre
		}
		break
	}
	return out
}

// PackageOverride is a per-source customization of how one package is
// installed from that source.
type PackageOverride struct {
	// AltName replaces the package's own name as the argument substituted
	// into the source's install command (e.g. "git-delta" -> "delta"
	// under scoop).
	AltName string

	// Pre is carried with the override, but Compose does not read it: a
	// composed command's Pre is always the source's own Pre.
	Pre string

	// InstallSuffix is appended verbatim after the substituted package
	// name (e.g. a version pin expression the source's syntax supports).
	InstallSuffix string

	// URL is an alternative package location some sources accept in
	// place of a registry name.
	URL string
}

// Package is a single desired package: a name plus the sources it can come
// from and any per-source overrides.
type Package struct {
	// Name is the package's canonical/display name.
	Name string

	// Sources lists the source names this package may be installed
	// from, in preference order. Empty means "any enabled source may
	// attempt it under its own name."
	Sources []string

	// Overrides maps a source name to a PackageOverride for that source.
	Overrides map[string]PackageOverride
}

// NameFor returns the package argument to substitute for source sourceName,
// applying that source's overrides if present, else the package's own
// Name.
func (pkg Package) NameFor(sourceName string) string {
	if ov, ok := pkg.Overrides[sourceName]; ok && ov.AltName != "" {
		return ov.AltName
	}
	return pkg.Name
}

// Platform is the runtime host description used to select SourceOverride
// entries.
type Platform struct {
	OS     string
	Arch   string
	Distro string
}

// KnownSources lists source names recognized for platform-default
// resolution. A name outside this set is not rejected; it is treated as
// opaque and carried through unchanged.
var KnownSources = map[string]bool{
	"apt": true, "aur": true, "brew": true, "cargo": true, "npm": true,
	"pacman": true, "scoop": true, "nix": true, "flathub": true,
}
