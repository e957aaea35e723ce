package santa

import (
	"strings"
	"unicode"
)

// Operation is the kind of command the composer assembles.
type Operation string

const (
	OpInstall   Operation = "install"
	OpUninstall Operation = "uninstall"
	OpCheck     Operation = "check"
)

// ScriptFormat selects the shell dialect the composer escapes for.
type ScriptFormat int

const (
	FormatPosixSh ScriptFormat = iota
	FormatPowerShell
	FormatBatch
)

// zeroWidthAndBidi are the Unicode code points stripped before any other
// check runs: zero-width space, byte-order-mark, and right-to-left
// override characters that have historically been used to disguise
// malicious package names.
var zeroWidthAndBidi = map[rune]bool{
	'​': true, // zero width space
	'‌': true, // zero width non-joiner
	'‍': true, // zero width joiner
	'\uFEFF': true, // byte order mark
	'‪': true, // left-to-right embedding
	'‫': true, // right-to-left embedding
	'‬': true, // pop directional formatting
	'‭': true, // left-to-right override
	'‮': true, // right-to-left override
}

// shellMetacharacters are rejected outright anywhere in a package name.
const shellMetacharacters = ";|&`"

// SanitizePackageName strips zero-width/bidi Unicode and C0 controls (tab
// excepted), then rejects outright any name that still contains a
// path-traversal sequence, a leading '-', or a shell metacharacter (";",
// "|", "&", backtick, "$(", "${"). This fails closed: any rejection is a
// KindSecurity error, never a silently-escaped best effort.
func SanitizePackageName(name string) (string, error) {
	var b strings.Builder
	for _, r := range name {
		if r == 0 {
			continue
		}
		if zeroWidthAndBidi[r] {
			continue
		}
		if r != '\t' && unicode.IsControl(r) {
			continue
		}
		b.WriteRune(r)
	}
	cleaned := b.String()

	if cleaned == "" {
		return "", NewSecurityError("package name is empty after stripping control characters", nil)
	}
	if strings.HasPrefix(cleaned, "-") {
		return "", NewSecurityError("package name begins with '-': "+name, nil)
	}
	if strings.Contains(cleaned, "../") || strings.Contains(cleaned, "..\\") {
		return "", NewSecurityError("package name contains a path-traversal sequence: "+name, nil)
	}
	if strings.ContainsAny(cleaned, shellMetacharacters) {
		return "", NewSecurityError("package name contains a shell metacharacter: "+name, nil)
	}
	if strings.Contains(cleaned, "$(") || strings.Contains(cleaned, "${") {
		return "", NewSecurityError("package name contains a command/variable substitution sequence: "+name, nil)
	}
	return cleaned, nil
}

// EscapeForShell quote-escapes s for inclusion as a single argument in the
// given ScriptFormat's command line, after sanitization has already run.
func EscapeForShell(s string, format ScriptFormat) string {
	switch format {
	case FormatPowerShell:
		return "'" + strings.ReplaceAll(s, "'", "''") + "'"
	case FormatBatch:
		return "\"" + strings.ReplaceAll(s, "\"", "\"\"") + "\""
	default:
		return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
	}
}

// ComposedCommand is the composer's output: an optional pre-hook statement
// and the main command line.
type ComposedCommand struct {
	Pre     string
	Command string
}

// Compose assembles a fully-escaped command for the given source, package
// names, and operation. For each package, the per-source AltName (if any)
// replaces the package name and the result is sanitized; the source's
// PrependToPackageName is then put in front of it and the package's
// per-source InstallSuffix appended, and the argument is escaped and
// substituted into the source's template.
func Compose(src Source, packages []Package, op Operation, format ScriptFormat) (*ComposedCommand, error) {
	template, ok := templateFor(src, op)
	if !ok {
		return nil, NewPackageSourceError("source "+src.Name+" has no "+string(op)+" command", nil)
	}

	args := make([]string, 0, len(packages))
	for _, pkg := range packages {
		raw := pkg.NameFor(src.Name)
		sanitized, err := SanitizePackageName(raw)
		if err != nil {
			return nil, err
		}

		prefixed := src.PrependToPackageName + sanitized
		if ov, ok := pkg.Overrides[src.Name]; ok {
			prefixed += ov.InstallSuffix
		}
		args = append(args, EscapeForShell(prefixed, format))
	}

	joined := strings.Join(args, " ")
	var command string
	if strings.Contains(template, "{package}") {
		command = strings.ReplaceAll(template, "{package}", joined)
	} else {
		command = strings.TrimRight(template, " ") + " " + joined
	}

	return &ComposedCommand{Pre: src.Pre, Command: command}, nil
}

func templateFor(src Source, op Operation) (string, bool) {
	switch op {
	case OpInstall:
		return src.InstallCommand, src.InstallCommand != ""
	case OpUninstall:
		return src.UninstallCommand, src.UninstallCommand != ""
	case OpCheck:
		return src.CheckCommand, src.CheckCommand != ""
	default:
		return "", false
	}
}
