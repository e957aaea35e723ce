package policy

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/open-policy-agent/opa/ast"
	"github.com/open-policy-agent/opa/rego"
	"github.com/open-policy-agent/opa/storage"
	"github.com/open-policy-agent/opa/storage/inmem"
	"github.com/rs/zerolog"
)

// Engine compiles and evaluates command-safety policies.
type Engine struct {
	mu              sync.RWMutex
	policies        map[string]*compiledPolicy
	store           storage.Store
	logger          zerolog.Logger
	builtinPolicies []Policy
}

// compiledPolicy is a parsed, ready-to-query Rego module.
type compiledPolicy struct {
	policy   *Policy
	module   *ast.Module
	compiled time.Time
}

// NewEngine constructs an Engine with the built-in command-safety bundle
// loaded and compiled.
func NewEngine(logger zerolog.Logger) (*Engine, error) {
	e := &Engine{
		policies:        make(map[string]*compiledPolicy),
		store:           inmem.New(),
		logger:          logger.With().Str("component", "policy-engine").Logger(),
		builtinPolicies: GetBuiltinPolicies(),
	}
	if err := e.loadBuiltinPolicies(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to load built-in policies: %w", err)
	}
	return e, nil
}

// Evaluate runs every enabled policy against proposal and aggregates the
// violations. Allowed is false if any violation carries SeverityError or
// SeverityCritical.
func (e *Engine) Evaluate(ctx context.Context, proposal *CommandProposal) (*Result, error) {
	start := time.Now()
	e.mu.RLock()
	defer e.mu.RUnlock()

	if proposal.Timestamp.IsZero() {
		proposal.Timestamp = start
	}

	var violations, warnings []Violation
	evaluated := make([]string, 0, len(e.policies))

	for _, cp := range e.policies {
		if !cp.policy.Enabled {
			continue
		}
		evaluated = append(evaluated, cp.policy.Name)

		found, err := e.evaluatePolicy(ctx, cp, proposal)
		if err != nil {
			e.logger.Warn().Err(err).Str("policy", cp.policy.Name).Msg("policy evaluation failed")
			warnings = append(warnings, Violation{
				Policy:   cp.policy.Name,
				Message:  fmt.Sprintf("evaluation failed: %v", err),
				Severity: SeverityWarning,
			})
			continue
		}
		for _, v := range found {
			if v.Severity == SeverityWarning || v.Severity == SeverityInfo {
				warnings = append(warnings, v)
			} else {
				violations = append(violations, v)
			}
		}
	}

	allowed := true
	for _, v := range violations {
		if v.Severity == SeverityError || v.Severity == SeverityCritical {
			allowed = false
			break
		}
	}

	return &Result{
		EvaluationID:      uuid.NewString(),
		Allowed:           allowed,
		Violations:        violations,
		Warnings:          warnings,
		EvaluatedPolicies: evaluated,
		EvaluatedAt:       start,
		Duration:          time.Since(start),
	}, nil
}

// LoadPolicies loads additional policy files/directories on top of the
// built-in bundle.
func (e *Engine) LoadPolicies(ctx context.Context, paths []string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	loader := NewLoader(e.logger)
	policies, err := loader.LoadFromPaths(ctx, paths)
	if err != nil {
		return fmt.Errorf("failed to load policies: %w", err)
	}
	for i := range policies {
		if err := e.compileAndStorePolicy(&policies[i]); err != nil {
			return fmt.Errorf("failed to compile policy %s: %w", policies[i].Name, err)
		}
	}
	e.logger.Info().Int("count", len(policies)).Msg("policies loaded")
	return nil
}

func (e *Engine) evaluatePolicy(ctx context.Context, cp *compiledPolicy, proposal *CommandProposal) ([]Violation, error) {
	packageName := extractPackageName(cp.policy.Rego)
	query := fmt.Sprintf("data.%s.deny", packageName)

	r := rego.New(
		rego.Module(cp.policy.Name, cp.policy.Rego),
		rego.Query(query),
		rego.Input(proposal),
	)

	results, err := r.Eval(ctx)
	if err != nil {
		return nil, fmt.Errorf("policy evaluation error: %w", err)
	}

	var violations []Violation
	for _, result := range results {
		if len(result.Expressions) == 0 {
			continue
		}
		denySet, ok := result.Expressions[0].Value.([]interface{})
		if !ok {
			continue
		}
		for _, d := range denySet {
			violations = append(violations, toViolation(cp.policy, d))
		}
	}
	return violations, nil
}

func extractPackageName(regoSrc string) string {
	for _, line := range strings.Split(regoSrc, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "package ") {
			parts := strings.Fields(trimmed)
			if len(parts) >= 2 {
				return parts[1]
			}
		}
	}
	return "santa.policies"
}

func toViolation(policy *Policy, result interface{}) Violation {
	v := Violation{Policy: policy.Name, Severity: policy.Severity}
	switch r := result.(type) {
	case string:
		v.Message = r
	case map[string]interface{}:
		if msg, ok := r["message"].(string); ok {
			v.Message = msg
		}
		if sev, ok := r["severity"].(string); ok {
			v.Severity = Severity(sev)
		}
	default:
		v.Message = fmt.Sprintf("%v", result)
	}
	return v
}

func (e *Engine) compileAndStorePolicy(policy *Policy) error {
	module, err := ast.ParseModule(policy.Name, policy.Rego)
	if err != nil {
		return fmt.Errorf("failed to parse policy: %w", err)
	}
	e.policies[policy.Name] = &compiledPolicy{policy: policy, module: module, compiled: time.Now()}
	e.logger.Debug().Str("policy", policy.Name).Msg("policy compiled")
	return nil
}

func (e *Engine) loadBuiltinPolicies(_ context.Context) error {
	for i := range e.builtinPolicies {
		if err := e.compileAndStorePolicy(&e.builtinPolicies[i]); err != nil {
			return fmt.Errorf("failed to compile built-in policy %s: %w", e.builtinPolicies[i].Name, err)
		}
	}
	e.logger.Info().Int("count", len(e.builtinPolicies)).Msg("built-in policies loaded")
	return nil
}

// ListPolicies returns every compiled policy, built-in and loaded.
func (e *Engine) ListPolicies() []Policy {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]Policy, 0, len(e.policies))
	for _, cp := range e.policies {
		out = append(out, *cp.policy)
	}
	return out
}

// SetEnabled toggles a policy by name.
func (e *Engine) SetEnabled(name string, enabled bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	cp, ok := e.policies[name]
	if !ok {
		return fmt.Errorf("policy not found: %s", name)
	}
	cp.policy.Enabled = enabled
	return nil
}
