package frontend

import "fmt"

// Dotfile is the typed projection of the `.gn`-equivalent dotfile's
// recognised top-level keys, per spec.md §6.
type Dotfile struct {
	BuildConfig           string
	Root                  string
	RootPatterns          []string
	CheckTargets          []string
	NoCheckTargets        []string
	CheckSystemIncludes   bool
	ExecScriptWhitelist   []string
	ExportCompileCommands []string
	SecondarySource       string
	DefaultArgs           map[string]Value
	BuildFileExtension    string
	NinjaRequiredVersion  string
	ScriptExecutable      string
	ArgFileTemplate       string
	NoStampFiles          bool
}

// ParseDotfile evaluates src and projects its assignments onto Dotfile,
// rejecting check_targets/no_check_targets set together (spec.md §6:
// "mutually exclusive") and any key typed as something other than its
// documented shape.
func ParseDotfile(src string) (*Dotfile, error) {
	scope, err := ParseScope(src)
	if err != nil {
		return nil, err
	}

	d := &Dotfile{}
	for _, key := range scope.Keys() {
		v, _ := scope.Get(key)
		switch key {
		case "buildconfig":
			d.BuildConfig, err = stringOf(key, v)
		case "root":
			d.Root, err = stringOf(key, v)
		case "root_patterns":
			d.RootPatterns, err = stringListOf(key, v)
		case "check_targets":
			d.CheckTargets, err = stringListOf(key, v)
		case "no_check_targets":
			d.NoCheckTargets, err = stringListOf(key, v)
		case "check_system_includes":
			d.CheckSystemIncludes, err = boolOf(key, v)
		case "exec_script_whitelist":
			d.ExecScriptWhitelist, err = stringListOf(key, v)
		case "export_compile_commands":
			d.ExportCompileCommands, err = stringListOf(key, v)
		case "secondary_source":
			d.SecondarySource, err = stringOf(key, v)
		case "default_args":
			if v.Kind != KindScope {
				err = fmt.Errorf("%s must be a scope", key)
			} else {
				d.DefaultArgs = v.Scope
			}
		case "build_file_extension":
			d.BuildFileExtension, err = stringOf(key, v)
		case "ninja_required_version":
			d.NinjaRequiredVersion, err = stringOf(key, v)
		case "script_executable":
			d.ScriptExecutable, err = stringOf(key, v)
		case "arg_file_template":
			d.ArgFileTemplate, err = stringOf(key, v)
		case "no_stamp_files":
			d.NoStampFiles, err = boolOf(key, v)
		default:
			err = fmt.Errorf("unrecognised dotfile key %q", key)
		}
		if err != nil {
			return nil, err
		}
	}

	if d.BuildConfig == "" {
		return nil, fmt.Errorf("dotfile missing required key \"buildconfig\"")
	}
	if len(d.CheckTargets) > 0 && len(d.NoCheckTargets) > 0 {
		return nil, fmt.Errorf("check_targets and no_check_targets are mutually exclusive")
	}
	return d, nil
}

func stringOf(key string, v Value) (string, error) {
	if v.Kind != KindString {
		return "", fmt.Errorf("%s must be a string", key)
	}
	return v.Str, nil
}

func boolOf(key string, v Value) (bool, error) {
	if v.Kind != KindBool {
		return false, fmt.Errorf("%s must be a bool", key)
	}
	return v.Bool, nil
}

func stringListOf(key string, v Value) ([]string, error) {
	if v.Kind != KindList {
		return nil, fmt.Errorf("%s must be a list of strings", key)
	}
	out := make([]string, len(v.List))
	for i, item := range v.List {
		if item.Kind != KindString {
			return nil, fmt.Errorf("%s[%d] must be a string", key, i)
		}
		out[i] = item.Str
	}
	return out, nil
}
