package policy

import "time"

// GetBuiltinPolicies returns the default command-safety rule set.
func GetBuiltinPolicies() []Policy {
	return []Policy{
		destructivePackagesPolicy(),
		sourceAllowlistPolicy(),
		packageCountCapPolicy(),
		uninstallOnKnownSourcesOnlyPolicy(),
	}
}

// destructivePackagesPolicy flags a small set of package names that have
// historically been used as injection decoys in incident reports — never
// a substitute for the composer's own sanitizer, just an extra signal.
func destructivePackagesPolicy() Policy {
	return Policy{
		Name:        "destructive-packages",
		Description: "Flags package names matching known injection decoys",
		Severity:    SeverityError,
		Enabled:     true,
		Tags:        []string{"security"},
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
		Rego: `package santa.policies.destructive

import rego.v1

deny contains violation if {
	some pkg in input.packages
	contains(pkg, "rm -rf")
	violation := {
		"message": sprintf("package name %q resembles a shell command, not a package", [pkg]),
		"severity": "error",
	}
}

deny contains violation if {
	some pkg in input.packages
	startswith(pkg, "/")
	violation := {
		"message": sprintf("package name %q is an absolute path, not a package", [pkg]),
		"severity": "error",
	}
}
`,
	}
}

// sourceAllowlistPolicy reports a warning when the source is not one of the
// recognized symbolic names; it never blocks a command.
func sourceAllowlistPolicy() Policy {
	return Policy{
		Name:        "source-allowlist",
		Description: "Warns when a command targets an unrecognized source",
		Severity:    SeverityWarning,
		Enabled:     true,
		Tags:        []string{"hygiene"},
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
		Rego: `package santa.policies.source_allowlist

import rego.v1

known := {"apt", "aur", "brew", "cargo", "npm", "pacman", "scoop", "nix", "flathub"}

deny contains violation if {
	not known[input.source]
	violation := {
		"message": sprintf("source %q is not in the known-source allowlist", [input.source]),
		"severity": "warning",
	}
}
`,
	}
}

// packageCountCapPolicy rejects proposals with an implausibly large
// package list, a defense against a caller accidentally passing an
// unbounded or malformed list through to the composer.
func packageCountCapPolicy() Policy {
	return Policy{
		Name:        "package-count-cap",
		Description: "Rejects a single command proposing more than 200 packages",
		Severity:    SeverityError,
		Enabled:     true,
		Tags:        []string{"safety"},
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
		Rego: `package santa.policies.package_count_cap

import rego.v1

deny contains violation if {
	count(input.packages) > 200
	violation := {
		"message": sprintf("command proposes %d packages, exceeding the 200-package cap", [count(input.packages)]),
		"severity": "error",
	}
}
`,
	}
}

// uninstallOnKnownSourcesOnlyPolicy blocks uninstall operations against
// unrecognized sources, since an uninstall mistake is harder to reverse
// than an install mistake.
func uninstallOnKnownSourcesOnlyPolicy() Policy {
	return Policy{
		Name:        "uninstall-known-sources-only",
		Description: "Blocks uninstall operations targeting an unrecognized source",
		Severity:    SeverityError,
		Enabled:     true,
		Tags:        []string{"security", "uninstall"},
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
		Rego: `package santa.policies.uninstall_guard

import rego.v1

known := {"apt", "aur", "brew", "cargo", "npm", "pacman", "scoop", "nix", "flathub"}

deny contains violation if {
	input.operation == "uninstall"
	not known[input.source]
	violation := {
		"message": sprintf("uninstall against unrecognized source %q is blocked", [input.source]),
		"severity": "error",
	}
}
`,
	}
}
