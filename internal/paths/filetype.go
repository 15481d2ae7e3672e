package paths

import "strings"

// FileType is the classification of a SourceFile derived from its extension.
type FileType int

// Recognised file types. Comparisons are case-sensitive and only the
// trailing-dot extension is consulted; there is no content inspection.
const (
	Unknown FileType = iota
	C
	CPP
	H
	M
	MM
	O
	S
	RC
	RS
	GO
	Swift
	SwiftModule
	ModuleMap
	Def
)

var extensionTable = map[string]FileType{
	".c":           C,
	".cc":          CPP,
	".cpp":         CPP,
	".cxx":         CPP,
	".h":           H,
	".hh":          H,
	".hpp":         H,
	".hxx":         H,
	".inc":         H,
	".m":           M,
	".mm":          MM,
	".o":           O,
	".obj":         O,
	".s":           S,
	".asm":         S,
	".rc":          RC,
	".rs":          RS,
	".go":          GO,
	".swift":       Swift,
	".swiftmodule": SwiftModule,
	".modulemap":   ModuleMap,
	".def":         Def,
}

// ClassifyExtension returns the FileType for a file name, determined purely
// by its trailing extension (the final "."-delimited suffix). Unrecognised
// or missing extensions classify as Unknown.
func ClassifyExtension(name string) FileType {
	idx := strings.LastIndexByte(name, '.')
	if idx < 0 || idx == len(name)-1 {
		return Unknown
	}
	ext := name[idx:]
	if t, ok := extensionTable[ext]; ok {
		return t
	}
	return Unknown
}

// Type classifies this file's extension.
func (f SourceFile) Type() FileType {
	return ClassifyExtension(f.String())
}

// String renders a human-readable name for the type, used in error messages.
func (t FileType) String() string {
	switch t {
	case C:
		return "C"
	case CPP:
		return "CPP"
	case H:
		return "H"
	case M:
		return "M"
	case MM:
		return "MM"
	case O:
		return "O"
	case S:
		return "S"
	case RC:
		return "RC"
	case RS:
		return "RS"
	case GO:
		return "GO"
	case Swift:
		return "SWIFT"
	case SwiftModule:
		return "SWIFTMODULE"
	case ModuleMap:
		return "MODULEMAP"
	case Def:
		return "DEF"
	default:
		return "UNKNOWN"
	}
}
