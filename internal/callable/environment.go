package callable

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mitchellh/copystructure"

	"github.com/bmcmcm/fanout/internal/util"
)

// Environment is the immutable template for a worker's initial state:
// the module files sourced before every script or inline invocation,
// plus the named arguments applied uniformly to every target. It is
// built once, before the pool is constructed, and cloned into each
// execution context.
type Environment struct {
	// ModulePath is the directory scanned for *.sh module files
	ModulePath string

	// Modules are explicitly listed module files
	Modules []string

	// Sources is the resolved, ordered list of module files
	Sources []string

	// Args is the extra named arguments map
	Args map[string]string
}

// NewEnvironment resolves the module directory and explicit module
// list into a source list, verifying that everything exists up front.
// A missing directory or file is a configuration error reported before
// any task is submitted.
func NewEnvironment(modulePath string, modules []string, args map[string]string) (*Environment, error) {
	env := &Environment{
		ModulePath: modulePath,
		Modules:    modules,
		Args:       args,
	}

	if modulePath != "" {
		info, err := os.Stat(modulePath)
		if err != nil || !info.IsDir() {
			return nil, fmt.Errorf("%w: module path %q is not a readable directory", util.ErrModuleNotFound, modulePath)
		}

		found, err := filepath.Glob(filepath.Join(modulePath, "*.sh"))
		if err != nil {
			return nil, fmt.Errorf("failed to scan module path %q: %w", modulePath, err)
		}
		sort.Strings(found)
		env.Sources = append(env.Sources, found...)
	}

	for _, m := range modules {
		info, err := os.Stat(m)
		if err != nil || info.IsDir() {
			return nil, fmt.Errorf("%w: module file %q is not readable", util.ErrModuleNotFound, m)
		}
		env.Sources = append(env.Sources, m)
	}

	return env, nil
}

// Clone produces an independent copy of the template for one execution
// context.
func (e *Environment) Clone() (*Environment, error) {
	if e == nil {
		return nil, nil
	}

	copied, err := copystructure.Copy(e)
	if err != nil {
		return nil, fmt.Errorf("failed to clone environment: %w", err)
	}

	return copied.(*Environment), nil
}

// Preamble returns the shell fragment that sources every module file,
// prepended to script and inline invocations.
func (e *Environment) Preamble() string {
	if e == nil || len(e.Sources) == 0 {
		return ""
	}

	lines := make([]string, 0, len(e.Sources))
	for _, src := range e.Sources {
		lines = append(lines, ". "+shellQuote(src))
	}
	return strings.Join(lines, "\n") + "\n"
}

// ArgPairs returns the extra arguments as sorted key=value strings,
// appended to the invocation's argument list after the target.
func (e *Environment) ArgPairs() []string {
	if e == nil || len(e.Args) == 0 {
		return nil
	}

	keys := make([]string, 0, len(e.Args))
	for k := range e.Args {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+e.Args[k])
	}
	return pairs
}

// ArgEnv returns the extra arguments as FANOUT_ARG_* environment
// variables, sorted for deterministic invocations.
func (e *Environment) ArgEnv() []string {
	if e == nil || len(e.Args) == 0 {
		return nil
	}

	vars := make([]string, 0, len(e.Args))
	for k, v := range e.Args {
		vars = append(vars, "FANOUT_ARG_"+envKey(k)+"="+v)
	}
	sort.Strings(vars)
	return vars
}

// ModuleEnv exposes the resolved module list to invocations that
// cannot source shell files themselves (the named command variant).
func (e *Environment) ModuleEnv() []string {
	if e == nil || len(e.Sources) == 0 {
		return nil
	}
	return []string{"FANOUT_MODULES=" + strings.Join(e.Sources, ":")}
}

// envKey converts an argument name to an environment variable suffix.
func envKey(name string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, name)
	return strings.ToUpper(mapped)
}

// shellQuote wraps s in single quotes, escaping embedded quotes so the
// result is safe to splice into a shell program.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
