package ninjawriter

import "github.com/thought-machine/ninjagraph/internal/subst"

// allTags lists every tag the subst package recognises. It's used to build
// the rule-emission expansion context, which must treat every one of them
// as pass-through: a rule block is written once per tool and shared by every
// build statement that uses it, so no tag can be resolved to a concrete
// value at this point - each becomes a literal Ninja "${tag}" reference for
// the per-target build statement to bind.
var allTags = []subst.Tag{
	subst.TagLabel, subst.TagLabelName, subst.TagOutput, subst.TagTargetOutDir,
	subst.TagTargetOutputName, subst.TagOutputExtension, subst.TagOutputDir,
	subst.TagSource, subst.TagSourceOutDir, subst.TagSourceNamePart,
	subst.TagSourceFilePart, subst.TagDefines, subst.TagIncludeDirs,
	subst.TagCflags, subst.TagCflagsC, subst.TagCflagsCC, subst.TagCflagsObjC,
	subst.TagCflagsObjCC, subst.TagModuleDeps, subst.TagPCHObjectFile,
	subst.TagArflags, subst.TagInputs, subst.TagLibs, subst.TagLdflags,
	subst.TagSolibs, subst.TagRlibs, subst.TagFrameworks, subst.TagFrameworkDirs,
	subst.TagSwiftModules, subst.TagCrateName, subst.TagCrateType,
	subst.TagExterns, subst.TagRustDeps, subst.TagRustEnv, subst.TagRustFlags,
	subst.TagModuleName, subst.TagModuleDirs, subst.TagSwiftFlags,
	subst.TagBundlePartialInfoPlist, subst.TagBundleProductType,
	subst.TagXCAssetCompilerFlags,
}

// ruleLevelContext builds the third of the three subst.Context kinds
// described for the expansion model: every tag marked pass-through, so
// Pattern.Expand emits literal "${tag_name}" text rather than resolving a
// value, ready to drop straight into a Ninja `rule` block.
func ruleLevelContext() *subst.Context {
	ctx := subst.NewContext()
	for _, t := range allTags {
		ctx.MarkPassThrough(t)
	}
	return ctx
}
