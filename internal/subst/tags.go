// Package subst implements the {{placeholder}} substitution engine used by
// tool commands and output patterns: a closed vocabulary of tags grouped
// into domains, patterns parsed once into literal/tag segments, and three
// expansion contexts (per-source compile, per-target link, Ninja rule
// emission).
package subst

import "fmt"

// Tag identifies one substitution placeholder.
type Tag int

// Domain is a bitmask of which tool kinds may use a given Tag.
type Domain uint16

const (
	DomainAlways Domain = 1 << iota
	DomainCompile
	DomainLink
	DomainRust
	DomainSwift
	DomainCopy
	DomainXCAssets
)

const (
	TagUnknown Tag = iota

	// Always valid.
	TagLabel
	TagLabelName
	TagOutput
	TagTargetOutDir
	TagTargetOutputName
	TagOutputExtension
	TagOutputDir

	// Compile-only.
	TagSource
	TagSourceOutDir
	TagSourceNamePart
	TagSourceFilePart
	TagDefines
	TagIncludeDirs
	TagCflags
	TagCflagsC
	TagCflagsCC
	TagCflagsObjC
	TagCflagsObjCC
	TagModuleDeps
	TagPCHObjectFile
	TagArflags

	// Link-only.
	TagInputs
	TagLibs
	TagLdflags
	TagSolibs
	TagRlibs
	TagFrameworks
	TagFrameworkDirs
	TagSwiftModules

	// Rust-only.
	TagCrateName
	TagCrateType
	TagExterns
	TagRustDeps
	TagRustEnv
	TagRustFlags

	// Swift-only.
	TagModuleName
	TagModuleDirs
	TagSwiftFlags
	TagBundlePartialInfoPlist

	// XCAssets-only.
	TagBundleProductType
	TagXCAssetCompilerFlags
)

// tagInfo records a tag's textual name and which domains may use it.
type tagInfo struct {
	name   string
	domain Domain
}

var tagTable = map[string]tagInfo{
	"label":             {"label", DomainAlways},
	"label_name":        {"label_name", DomainAlways},
	"output":            {"output", DomainAlways},
	"target_out_dir":    {"target_out_dir", DomainAlways},
	"target_output_name": {"target_output_name", DomainAlways},
	"output_extension":  {"output_extension", DomainAlways},
	"output_dir":        {"output_dir", DomainAlways},

	"source":          {"source", DomainCompile | DomainCopy},
	"source_out_dir":  {"source_out_dir", DomainCompile},
	"source_name_part": {"source_name_part", DomainCompile},
	"source_file_part": {"source_file_part", DomainCompile},
	"defines":          {"defines", DomainCompile},
	"include_dirs":     {"include_dirs", DomainCompile},
	"cflags":           {"cflags", DomainCompile},
	"cflags_c":         {"cflags_c", DomainCompile},
	"cflags_cc":        {"cflags_cc", DomainCompile},
	"cflags_objc":      {"cflags_objc", DomainCompile},
	"cflags_objcc":     {"cflags_objcc", DomainCompile},
	"module_deps":      {"module_deps", DomainCompile},
	"pch_object_file":  {"pch_object_file", DomainCompile},
	"arflags":          {"arflags", DomainCompile},

	"inputs":            {"inputs", DomainLink | DomainXCAssets},
	"libs":              {"libs", DomainLink},
	"ldflags":           {"ldflags", DomainLink},
	"solibs":            {"solibs", DomainLink},
	"rlibs":             {"rlibs", DomainLink},
	"frameworks":        {"frameworks", DomainLink},
	"framework_dirs":    {"framework_dirs", DomainLink},
	"swiftmodules":      {"swiftmodules", DomainLink},

	"crate_name": {"crate_name", DomainRust},
	"crate_type": {"crate_type", DomainRust},
	"externs":    {"externs", DomainRust},
	"rustdeps":   {"rustdeps", DomainRust},
	"rustenv":    {"rustenv", DomainRust},
	"rustflags":  {"rustflags", DomainRust},

	"module_name":               {"module_name", DomainSwift},
	"module_dirs":               {"module_dirs", DomainSwift},
	"swiftflags":                {"swiftflags", DomainSwift},
	"bundle_partial_info_plist": {"bundle_partial_info_plist", DomainSwift | DomainXCAssets},

	"bundle_product_type":    {"bundle_product_type", DomainXCAssets},
	"xcasset_compiler_flags": {"xcasset_compiler_flags", DomainXCAssets},
}

var nameToTag = buildNameToTag()
var tagToName = buildTagToName()

func buildTagToName() map[Tag]string {
	m := make(map[Tag]string, len(nameToTag))
	for name, tag := range nameToTag {
		m[tag] = name
	}
	return m
}

func buildNameToTag() map[string]Tag {
	order := []Tag{
		TagLabel, TagLabelName, TagOutput, TagTargetOutDir, TagTargetOutputName,
		TagOutputExtension, TagOutputDir, TagSource, TagSourceOutDir,
		TagSourceNamePart, TagSourceFilePart, TagDefines, TagIncludeDirs,
		TagCflags, TagCflagsC, TagCflagsCC, TagCflagsObjC, TagCflagsObjCC,
		TagModuleDeps, TagPCHObjectFile, TagArflags, TagInputs, TagLibs,
		TagLdflags, TagSolibs, TagRlibs, TagFrameworks, TagFrameworkDirs,
		TagSwiftModules, TagCrateName, TagCrateType, TagExterns, TagRustDeps,
		TagRustEnv, TagRustFlags, TagModuleName, TagModuleDirs, TagSwiftFlags,
		TagBundlePartialInfoPlist, TagBundleProductType, TagXCAssetCompilerFlags,
	}
	names := []string{
		"label", "label_name", "output", "target_out_dir", "target_output_name",
		"output_extension", "output_dir", "source", "source_out_dir",
		"source_name_part", "source_file_part", "defines", "include_dirs",
		"cflags", "cflags_c", "cflags_cc", "cflags_objc", "cflags_objcc",
		"module_deps", "pch_object_file", "arflags", "inputs", "libs",
		"ldflags", "solibs", "rlibs", "frameworks", "framework_dirs",
		"swiftmodules", "crate_name", "crate_type", "externs", "rustdeps",
		"rustenv", "rustflags", "module_name", "module_dirs", "swiftflags",
		"bundle_partial_info_plist", "bundle_product_type", "xcasset_compiler_flags",
	}
	m := make(map[string]Tag, len(order))
	for i, t := range order {
		m[names[i]] = t
	}
	return m
}

// LookupTag resolves a placeholder name (without the surrounding braces) to
// its Tag. The second return value is false for unrecognised names.
func LookupTag(name string) (Tag, bool) {
	t, ok := nameToTag[name]
	return t, ok
}

// Name returns the placeholder text for a tag (without braces).
func (t Tag) Name() string {
	if name, ok := tagToName[t]; ok {
		return name
	}
	return fmt.Sprintf("tag(%d)", int(t))
}

// domainOf returns the Domain bitmask in which tag is valid.
func domainOf(t Tag) Domain {
	name, ok := tagToName[t]
	if !ok {
		return 0
	}
	info, ok := tagTable[name]
	if !ok {
		return 0
	}
	return info.domain
}

// ValidIn reports whether tag may be used within the given domain mask.
func (t Tag) ValidIn(allowed Domain) bool {
	return domainOf(t)&allowed != 0
}
