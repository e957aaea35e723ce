package santa

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	checkTimeout   = 30 * time.Second
	installTimeout = 5 * time.Minute
)

// SourcePlan is the status-check outcome for a single source: what is
// desired, what is actually installed, and the missing/extra sets derived
// from comparing them.
type SourcePlan struct {
	Source      string
	Desired     []string
	Installed   []string
	Missing     []string
	Extra       []string
	Unavailable bool
	Warning     string
}

// Plan is the aggregate outcome of a status run across every enabled
// source.
type Plan struct {
	Sources   map[string]*SourcePlan
	Cancelled bool
}

// InstallOutcome is the per-source result of driving an install plan,
// either in safe mode (a generated script) or execute mode (a subprocess
// run).
type InstallOutcome struct {
	Source  string
	Script  string
	Result  *ProcessResult
	Err     error
}

// Planner coordinates status checks and installs across every enabled
// source in parallel, narrowed to "one task per source, no dependency
// edges" since cross-package dependency resolution is out of scope.
type Planner struct {
	cache   *Cache
	driver  *ProcessDriver
	logger  zerolog.Logger

	mu       sync.Mutex
	inFlight map[string]*inFlightCheck
}

// inFlightCheck coalesces concurrent status requests for the same source
// (fingerprinted by source name) so that at most one check_command
// invocation is outstanding per source at a time; suspended callers all
// read the same result once it lands.
type inFlightCheck struct {
	done   chan struct{}
	result *SourcePlan
}

// NewPlanner constructs a Planner backed by cache for installed-set
// freshness and driver for subprocess execution.
func NewPlanner(cache *Cache, driver *ProcessDriver, logger zerolog.Logger) *Planner {
	return &Planner{
		cache:    cache,
		driver:   driver,
		logger:   logger.With().Str("component", "planner").Logger(),
		inFlight: make(map[string]*inFlightCheck),
	}
}

// Status computes a SourcePlan for every source in sources, each against
// its desired package list in desired, running all sources in parallel.
// Cancelling ctx cancels outstanding subprocesses; the returned Plan is
// marked Cancelled and holds whatever partial results had already landed.
func (p *Planner) Status(ctx context.Context, sources map[string]Source, desired map[string][]string) *Plan {
	plan := &Plan{Sources: make(map[string]*SourcePlan, len(sources))}
	var mu sync.Mutex
	var wg sync.WaitGroup

	for name, src := range sources {
		name, src := name, src
		wg.Add(1)
		go func() {
			defer wg.Done()
			sp := p.statusOne(ctx, src, desired[name])
			mu.Lock()
			plan.Sources[name] = sp
			mu.Unlock()
		}()
	}
	wg.Wait()

	if ctx.Err() == context.Canceled {
		plan.Cancelled = true
	}
	return plan
}

// statusOne checks (or coalesces a check for) a single source.
func (p *Planner) statusOne(ctx context.Context, src Source, desired []string) *SourcePlan {
	p.mu.Lock()
	if existing, ok := p.inFlight[src.Name]; ok {
		p.mu.Unlock()
		select {
		case <-existing.done:
			return deriveDiff(existing.result, desired)
		case <-ctx.Done():
			return &SourcePlan{Source: src.Name, Desired: desired, Warning: "cancelled while waiting on in-flight check"}
		}
	}
	fc := &inFlightCheck{done: make(chan struct{})}
	p.inFlight[src.Name] = fc
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		delete(p.inFlight, src.Name)
		p.mu.Unlock()
		close(fc.done)
	}()

	fc.result = p.resolveInstalled(ctx, src)
	return deriveDiff(fc.result, desired)
}

// resolveInstalled returns the cached installed set if fresh, otherwise
// invokes the source's check_command and refreshes the cache.
func (p *Planner) resolveInstalled(ctx context.Context, src Source) *SourcePlan {
	if cached, ok := p.cache.Get(src.Name); ok {
		return &SourcePlan{Source: src.Name, Installed: cached}
	}

	result, err := p.driver.Run(ctx, checkTimeout, "sh", "-c", src.CheckCommand)
	if err != nil {
		if Category(err) == KindTimeout {
			p.logger.Warn().Str("source", src.Name).Msg("check_command timed out; marking source unavailable")
			return &SourcePlan{Source: src.Name, Unavailable: true, Warning: "check_command timed out"}
		}
		p.logger.Warn().Err(err).Str("source", src.Name).Msg("check_command failed; recording empty installed set")
		return &SourcePlan{Source: src.Name, Installed: []string{}, Warning: "check_command failed: " + err.Error()}
	}

	installed := splitNonEmptyLines(result.Stdout)
	p.cache.Put(src.Name, installed)
	return &SourcePlan{Source: src.Name, Installed: installed}
}

// deriveDiff computes missing/extra from base's Installed set against
// desired, preserving desired's order for Missing and lexical order for
// Extra.
func deriveDiff(base *SourcePlan, desired []string) *SourcePlan {
	sp := &SourcePlan{
		Source:      base.Source,
		Installed:   base.Installed,
		Unavailable: base.Unavailable,
		Warning:     base.Warning,
		Desired:     desired,
	}
	if sp.Unavailable {
		return sp
	}

	installedSet := make(map[string]bool, len(base.Installed))
	for _, pkg := range base.Installed {
		installedSet[pkg] = true
	}
	desiredSet := make(map[string]bool, len(desired))
	for _, pkg := range desired {
		desiredSet[pkg] = true
	}

	for _, pkg := range desired {
		if !installedSet[pkg] {
			sp.Missing = append(sp.Missing, pkg)
		}
	}
	var extra []string
	for _, pkg := range base.Installed {
		if !desiredSet[pkg] {
			extra = append(extra, pkg)
		}
	}
	sort.Strings(extra)
	sp.Extra = extra
	return sp
}

func splitNonEmptyLines(s string) []string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Install drives an install plan across every source with a non-empty
// Missing list. In safe mode it generates a script per source via the
// script generator without executing it; in execute mode it
// runs the composed command directly via the process driver with a
// 5-minute per-source timeout.
func (p *Planner) Install(ctx context.Context, plan *Plan, sources map[string]Source, packages map[string]Package, execute bool, format ScriptFormat) []InstallOutcome {
	var outcomes []InstallOutcome
	var mu sync.Mutex
	var wg sync.WaitGroup

	for name, sp := range plan.Sources {
		if len(sp.Missing) == 0 || sp.Unavailable {
			continue
		}
		src, ok := sources[name]
		if !ok {
			continue
		}
		pkgs := make([]Package, 0, len(sp.Missing))
		for _, pkgName := range sp.Missing {
			if pkg, ok := packages[pkgName]; ok {
				pkgs = append(pkgs, pkg)
			} else {
				pkgs = append(pkgs, Package{Name: pkgName})
			}
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			outcome := p.installOne(ctx, src, pkgs, execute, format)
			mu.Lock()
			outcomes = append(outcomes, outcome)
			mu.Unlock()
		}()
	}
	wg.Wait()
	return outcomes
}

func (p *Planner) installOne(ctx context.Context, src Source, pkgs []Package, execute bool, format ScriptFormat) InstallOutcome {
	composed, err := Compose(src, pkgs, OpInstall, format)
	if err != nil {
		return InstallOutcome{Source: src.Name, Err: err}
	}

	if !execute {
		script, err := GenerateScript(format, OpInstall, src, pkgs)
		return InstallOutcome{Source: src.Name, Script: script, Err: err}
	}

	runCtx, cancel := context.WithTimeout(ctx, installTimeout)
	defer cancel()

	command := composed.Command
	if composed.Pre != "" {
		command = composed.Pre + " && " + composed.Command
	}
	result, err := p.driver.Run(runCtx, installTimeout, "sh", "-c", command)
	p.cache.Invalidate(src.Name)
	return InstallOutcome{Source: src.Name, Result: result, Err: err}
}
