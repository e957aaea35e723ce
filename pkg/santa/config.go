package santa

import (
	"github.com/go-playground/validator/v10"
)

// Layer identifies where a resolved field ultimately came from, lowest to
// highest precedence.
type Layer string

const (
	LayerBundled    Layer = "bundled"
	LayerDownloaded Layer = "downloaded"
	LayerUser       Layer = "user"
	LayerProject    Layer = "project"
)

// RawLayer is one unresolved configuration layer, as loaded from a single
// CCL document.
type RawLayer struct {
	Layer    Layer
	Sources  []string
	Packages map[string]Package
	// SourceOverrides holds per-source field overrides declared at this
	// layer (e.g. a project-local install_command tweak), deep-merged
	// into the source table during resolution.
	SourceOverrides map[string]SourceOverride
}

// FieldProvenance records which layer a resolved field's value ultimately
// came from, for diagnostics.
type FieldProvenance struct {
	Sources  Layer
	Packages map[string]Layer
}

// ResolvedConfig is the single merged view the planner and composer consume.
// It is produced by Resolve and is immutable after construction; a reload
// produces a new instance that readers swap to atomically (see Watcher).
type ResolvedConfig struct {
	// SourceOrder lists every source known after layering, in priority
	// order; Sources holds each one's resolved record, keyed by name.
	SourceOrder []string                `validate:"required,min=1,dive,required"`
	Sources     map[string]Source       `validate:"required,min=1"`
	Packages    map[string]Package      `validate:"required"`
	Provenance  FieldProvenance         `validate:"-"`
	Warnings    []string                `validate:"-"`
}

// Validator is a package-level validator instance, grounded on the
// teacher's use of a single shared validator.v10 instance rather than
// constructing one per call.
var Validator = validator.New()

// Validate enforces ResolvedConfig's struct tags and the
// spec's "empty sources is invalid" invariant, which the struct tags alone
// cannot express precisely enough (min=1 on the slice already covers it,
// but this also checks every package's source references resolve).
func (c *ResolvedConfig) Validate() error {
	if err := Validator.Struct(c); err != nil {
		return NewValidationError("resolved config failed validation", err)
	}
	for name, pkg := range c.Packages {
		for _, src := range pkg.Sources {
			if _, ok := c.Sources[src]; !ok {
				c.Warnings = append(c.Warnings, "package "+name+" references unknown source "+src)
			}
		}
	}
	return nil
}
