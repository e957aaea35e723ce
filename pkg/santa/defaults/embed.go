// Package defaults embeds the bundled, lowest-precedence configuration
// layer: a built-in catalogue of package-manager sources. It ships no
// packages — only the project or user layers name packages to install.
package defaults

import _ "embed"

//go:embed sources.ccl
var SourcesDocument string
