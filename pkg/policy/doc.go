// Package policy provides Open Policy Agent (OPA) integration for santa's
// command-safety checks.
//
// This package is a second, data-driven line of defense layered in front
// of santa's hard-coded package-name sanitizer
// (pkg/santa.SanitizePackageName): when santa install runs in execute
// mode, each source's proposed install is evaluated against a bundle of
// Rego rules — a handful of built-ins plus anything found under
// SANTA_POLICY_DIR — before any command runs. Safe-mode script generation
// is not evaluated. The engine never replaces the sanitizer; it exists so
// operators can add rules (block a specific source, cap argument count,
// forbid a name pattern) without a code change.
//
// # Architecture
//
//  1. Engine - compiles and evaluates Rego policies against a CommandProposal
//  2. Loader - loads additional policies from files/directories
//  3. Types - CommandProposal, Violation, Result
//  4. Built-in policies - the default command-safety rule set
//
// # Usage
//
//	eng, err := policy.NewEngine(logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := eng.Evaluate(ctx, &policy.CommandProposal{
//	    Source:    "brew",
//	    Operation: "install",
//	    Packages:  []string{"ripgrep"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Allowed {
//	    for _, v := range result.Violations {
//	        fmt.Printf("policy %s: %s\n", v.Policy, v.Message)
//	    }
//	}
//
// # Custom policies
//
// Additional .rego files under SANTA_POLICY_DIR are loaded on top of the
// built-in bundle:
//
//	package santa.policies.custom
//
//	import rego.v1
//
//	deny contains violation if {
//	    input.source == "aur"
//	    violation := {
//	        "message": "aur installs require manual review",
//	        "severity": "warning",
//	    }
//	}
//
// # Severity levels
//
//   - info: informational
//   - warning: reviewed but does not block
//   - error / critical: blocks the operation (result.Allowed == false)
package policy
