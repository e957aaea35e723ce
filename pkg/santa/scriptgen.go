package santa

import (
	"embed"
	"strings"
	"text/template"
	"time"
)

//go:embed templates/*.tmpl
var scriptTemplates embed.FS

// Version is the santa release stamped into generated script headers.
// Overridden at build time via -ldflags.
var Version = "dev"

var templateNames = map[ScriptFormat]string{
	FormatPosixSh:    "templates/install.sh.tmpl",
	FormatPowerShell: "templates/install.ps1.tmpl",
	FormatBatch:      "templates/install.bat.tmpl",
}

type scriptContext struct {
	Version      string
	Timestamp    string
	SourceName   string
	ShellCommand string
	Pre          string
	Command      string
}

// ScriptGenerator renders install scripts with an injectable clock, so the
// header timestamp can be pinned in tests instead of varying with every
// run (see GenerateScript for the package-level zero-configuration form).
type ScriptGenerator struct {
	// Clock returns the time stamped into a generated script's header.
	// Nil defaults to time.Now.
	Clock func() time.Time
}

// DefaultGenerator is the ScriptGenerator GenerateScript delegates to.
var DefaultGenerator = &ScriptGenerator{}

func (g *ScriptGenerator) now() time.Time {
	if g.Clock != nil {
		return g.Clock()
	}
	return time.Now()
}

// GenerateScript renders a re-runnable install script for src and pkgs in
// the given format, via DefaultGenerator.
func GenerateScript(format ScriptFormat, op Operation, src Source, pkgs []Package) (string, error) {
	return DefaultGenerator.Generate(format, op, src, pkgs)
}

// Generate renders a re-runnable install script for src and pkgs in the
// given format. Each package argument is composed via Compose exactly
// once, so escaping never happens twice.
func (g *ScriptGenerator) Generate(format ScriptFormat, op Operation, src Source, pkgs []Package) (string, error) {
	composed, err := Compose(src, pkgs, op, format)
	if err != nil {
		return "", err
	}

	name, ok := templateNames[format]
	if !ok {
		return "", NewPackageSourceError("no script template for the requested format", nil)
	}

	tmpl, err := template.ParseFS(scriptTemplates, name)
	if err != nil {
		return "", NewParseError("failed to parse script template", err)
	}

	ctx := scriptContext{
		Version:      Version,
		Timestamp:    g.now().UTC().Format(time.RFC3339),
		SourceName:   src.Name,
		ShellCommand: src.ShellCommand,
		Pre:          composed.Pre,
		Command:      composed.Command,
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, ctx); err != nil {
		return "", NewParseError("failed to render script template", err)
	}
	return b.String(), nil
}
