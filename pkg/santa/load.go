package santa

import "github.com/santa-org/santa/pkg/ccl"

// LoadLayer parses text as a CCL document and builds a
// RawLayer for the given Layer, reading two top-level keys: "sources" (a
// map of source name to Source fields) and "packages" (a map of package
// name to Package fields). Either key may be absent; an absent "sources"
// or "packages" section simply yields no entries for that part of the
// layer, it is not an error — a layer is free to contribute only one of
// the two.
func LoadLayer(text string, layer Layer, opts ccl.Options) (RawLayer, error) {
	entries, err := ccl.Parse(text, opts)
	if err != nil {
		return RawLayer{}, NewParseError("failed to lex CCL document", err)
	}
	root, err := ccl.Build(entries, opts)
	if err != nil {
		return RawLayer{}, NewParseError("failed to build CCL hierarchy", err)
	}

	out := RawLayer{
		Layer:           layer,
		Packages:        make(map[string]Package),
		SourceOverrides: make(map[string]SourceOverride),
	}

	if sourcesNode, err := root.Get("sources"); err == nil {
		names, overrides, err := loadSources(sourcesNode, opts)
		if err != nil {
			return RawLayer{}, err
		}
		out.Sources = names
		out.SourceOverrides = overrides
	}

	if packagesNode, err := root.Get("packages"); err == nil {
		packages, err := loadPackages(packagesNode, opts)
		if err != nil {
			return RawLayer{}, err
		}
		out.Packages = packages
	}

	return out, nil
}

// loadSources reads this layer's "sources" node into an ordered name list
// plus a SourceOverride per name. A SourceOverride, not a Source, is the
// unit Resolve merges field-wise across layers, so even a bundled-layer
// source definition is carried this way.
//
// "sources" takes two shapes. The canonical bare list just names sources
// this layer wants enabled, in order, with no field overrides:
//
//	sources =
//	  = brew
//	  = cargo
//
// A full-record map instead gives each name its own command fields:
//
//	sources =
//	  brew =
//	    shell_command = brew
//	    ...
//
// AsList recognizes the first shape and fails on the second (a map keyed
// by real names is never list-shaped), so trying it first is enough to
// tell the two apart without a dedicated "is this a bare list" probe.
func loadSources(node *ccl.Model, opts ccl.Options) ([]string, map[string]SourceOverride, error) {
	overrides := make(map[string]SourceOverride)

	if names, err := node.AsList(opts); err == nil {
		for _, name := range names {
			if _, ok := overrides[name]; !ok {
				overrides[name] = SourceOverride{}
			}
		}
		return names, overrides, nil
	}

	var names []string
	for _, p := range node.Pairs() {
		var src Source
		if err := ccl.Unmarshal(p.Value, &src, opts); err != nil {
			return nil, nil, NewConfigError("failed to bind source "+p.Key, err)
		}
		overrides[p.Key] = SourceOverride{
			ShellCommand:         src.ShellCommand,
			InstallCommand:       src.InstallCommand,
			UninstallCommand:     src.UninstallCommand,
			CheckCommand:         src.CheckCommand,
			PrependToPackageName: src.PrependToPackageName,
			Pre:                  src.Pre,
		}
		names = append(names, p.Key)
	}
	return names, overrides, nil
}

// loadPackages reads this layer's "packages" node, which takes the same
// two shapes as "sources": a bare list naming packages with no per-package
// detail, or a full-record map giving each package its own "sources" list
// and per-source alternative names ("scoop = delta"). Any other key whose
// value is a scalar is read as such an alternative name; record-shaped
// overrides (pre, install_suffix, url) are not read.
func loadPackages(node *ccl.Model, opts ccl.Options) (map[string]Package, error) {
	packages := make(map[string]Package)

	if names, err := node.AsList(opts); err == nil {
		for _, name := range names {
			packages[name] = Package{Name: name, Overrides: make(map[string]PackageOverride)}
		}
		return packages, nil
	}

	for _, p := range node.Pairs() {
		pkg := Package{Name: p.Key, Overrides: make(map[string]PackageOverride)}

		if sourcesField, err := p.Value.Get("sources"); err == nil {
			list, err := sourcesField.AsList(opts)
			if err != nil {
				return nil, NewConfigError("failed to read sources list for package "+p.Key, err)
			}
			pkg.Sources = list
		}

		for _, f := range p.Value.Pairs() {
			if f.Key == "sources" {
				continue
			}
			if alt, err := f.Value.AsStr(); err == nil {
				pkg.Overrides[f.Key] = PackageOverride{AltName: alt}
			}
		}

		packages[p.Key] = pkg
	}
	return packages, nil
}
