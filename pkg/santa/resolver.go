package santa

// Resolve merges layers, lowest to highest precedence, into a single
// ResolvedConfig. layers must be given in ascending precedence order
// (bundled, [downloaded], user, project); a layer may be omitted entirely
// (for example "downloaded" when no remote mirror is configured).
//
// Field-wise merge rules, per spec:
//   - sources: names keep the order in which they are first seen; a later
//     layer cannot move a name an earlier layer listed, and a name it adds
//     is appended. A name outside KnownSources is carried through (unknown
//     sources are never fatal) and recorded as a warning.
//   - packages: later layers add new keys or override existing ones
//     wholesale.
//   - per-source overrides: later layers deep-merge field by field.
func Resolve(layers ...RawLayer) (*ResolvedConfig, error) {
	out := &ResolvedConfig{
		Sources:  map[string]Source{},
		Packages: map[string]Package{},
		Provenance: FieldProvenance{
			Packages: map[string]Layer{},
		},
	}

	var sourceOrder []string
	seen := map[string]bool{}
	sourceOverrides := map[string]map[string]SourceOverride{}

	for _, layer := range layers {
		for _, name := range layer.Sources {
			if !seen[name] {
				seen[name] = true
				sourceOrder = append(sourceOrder, name)
			}
			if !KnownSources[name] {
				out.Warnings = append(out.Warnings, "layer "+string(layer.Layer)+" references unrecognized source "+name)
			}
		}
		if len(layer.Sources) > 0 {
			out.Provenance.Sources = layer.Layer
		}

		for name, pkg := range layer.Packages {
			out.Packages[name] = pkg
			out.Provenance.Packages[name] = layer.Layer
		}

		for name, ov := range layer.SourceOverrides {
			if sourceOverrides[name] == nil {
				sourceOverrides[name] = map[string]SourceOverride{}
			}
			sourceOverrides[name][string(layer.Layer)] = ov
		}
	}

	if len(sourceOrder) == 0 {
		return nil, NewConfigError("resolved configuration has no sources", nil)
	}
	out.SourceOrder = sourceOrder

	for _, name := range sourceOrder {
		src := out.Sources[name]
		if src.Name == "" {
			src = Source{Name: name}
		}
		for _, layer := range []Layer{LayerBundled, LayerDownloaded, LayerUser, LayerProject} {
			ov, ok := sourceOverrides[name][string(layer)]
			if !ok {
				continue
			}
			src = deepMergeSourceOverride(src, ov)
		}
		out.Sources[name] = src
	}

	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

// deepMergeSourceOverride applies ov's non-empty fields on top of base's
// fields, field by field, used to layer a later config layer's source
// customization over an earlier one.
func deepMergeSourceOverride(base Source, ov SourceOverride) Source {
	if ov.ShellCommand != "" {
		base.ShellCommand = ov.ShellCommand
	}
	if ov.InstallCommand != "" {
		base.InstallCommand = ov.InstallCommand
	}
	if ov.UninstallCommand != "" {
		base.UninstallCommand = ov.UninstallCommand
	}
	if ov.CheckCommand != "" {
		base.CheckCommand = ov.CheckCommand
	}
	if ov.PrependToPackageName != "" {
		base.PrependToPackageName = ov.PrependToPackageName
	}
	if ov.Pre != "" {
		base.Pre = ov.Pre
	}
	return base
}

// MergeSourceTable returns base with newDefs laid over it per source name:
// an entry in newDefs replaces base's entry of the same name whole.
func MergeSourceTable(base, newDefs map[string]Source) map[string]Source {
	out := make(map[string]Source, len(base)+len(newDefs))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range newDefs {
		out[k] = v
	}
	return out
}
