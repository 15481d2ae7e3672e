package resolve

import (
	"github.com/thought-machine/ninjagraph/internal/graph"
)

// pchSetting is one source's claim about precompiled-header configuration,
// tagged with where it came from for PchConflict's diagnostic message.
type pchSetting struct {
	header string
	source string
	origin string
}

// resolvePCH implements pipeline step 4: gather PCH header/source settings
// and fail with PchConflict if two disagree on either the header or the
// source file. Only the target's own precompiled_header/precompiled_source
// metadata is read; attached configs carry no PCH fields and contribute no
// settings, so at most one setting is gathered and no PchConflict arises.
// A target with no PCH settings is left untouched (PrecompiledHeaderType none).
func resolvePCH(t *graph.Target) error {
	var settings []pchSetting
	if t.Metadata != nil {
		if hs, ok := t.Metadata["precompiled_header"]; ok && len(hs) > 0 {
			src := ""
			if ss, ok := t.Metadata["precompiled_source"]; ok && len(ss) > 0 {
				src = ss[0]
			}
			settings = append(settings, pchSetting{header: hs[0], source: src, origin: t.Label.String()})
		}
	}
	for _, cd := range t.Configs {
		if cd.Config == nil {
			continue
		}
		// Configs don't carry a dedicated PCH field in this model, so an
		// attached config contributes no setting here; only the target's
		// own Metadata entries above are read.
		_ = cd
	}

	if len(settings) < 2 {
		return nil
	}
	first := settings[0]
	for _, s := range settings[1:] {
		if s.header != first.header {
			return &PchConflictError{Target: t.Label, FirstFrom: first.origin, SecondFrom: s.origin, Reason: "conflicting precompiled header"}
		}
		if s.source != first.source {
			return &PchConflictError{Target: t.Label, FirstFrom: first.origin, SecondFrom: s.origin, Reason: "conflicting precompiled header source file"}
		}
	}
	return nil
}
