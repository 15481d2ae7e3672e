package resolve

import (
	"github.com/thought-machine/ninjagraph/internal/graph"
)

// Resolve runs the full nine-step finalisation pipeline on t, per spec.md
// §4.5. It assumes the Builder has already bound every dep/config/toolchain
// reference on t to a concrete pointer; Resolve does no label lookups of
// its own. Resolution is single-threaded per target - once started it runs
// to completion without yielding, matching the ordering guarantee in
// spec.md §5.
func Resolve(t *graph.Target, ctx *Context) error {
	// Step 1: configs merge in.
	mergeConfigs(t)

	// Step 2: config visibility.
	if err := checkConfigVisibility(t); err != nil {
		return err
	}
	if err := resolveConfigValues(t); err != nil {
		return err
	}

	// Step 3: bundle-data propagation.
	propagateBundleData(t)

	// Step 4: precompiled headers resolution.
	if err := resolvePCH(t); err != nil {
		return err
	}

	// Step 5: output file computation.
	if err := computeOutputs(t); err != nil {
		return err
	}

	// Step 6: Swift lowering.
	lowerSwift(t)

	// Step 7: validators, in sequence.
	if err := runValidators(t, ctx); err != nil {
		return err
	}

	// Step 8: write-runtime-deps side-channel.
	if t.WriteRuntimeDeps != "" && ctx.Sink != nil {
		ctx.Sink.RegisterWriteRuntimeDeps(t.Label.String(), t.WriteRuntimeDeps)
	}

	// Register every computed output so later targets' check_sources_generated
	// and DuplicateOutput detection can see this target's outputs. This
	// subsumes step 9 (GENERATED_FILE registration is just the case where
	// OutputType == GeneratedFile and ComputedOutputs has exactly one entry).
	for _, o := range t.ComputedOutputs {
		if err := ctx.Outputs.Register(o.String(), t.Label); err != nil {
			return err
		}
	}

	t.MarkResolved()
	return nil
}
