package callable

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/bmcmcm/fanout/internal/config"
	"github.com/bmcmcm/fanout/internal/util"
)

// Spec selects what to run against every target. Exactly one field
// must be set: a script file, an inline shell block, or the name of a
// command from the registry.
type Spec struct {
	// Script is the path to an executable script file
	Script string

	// Inline is a shell block executed verbatim (target is $1)
	Inline string

	// Command names a registry entry
	Command string
}

// Validate checks the mutual-exclusion rule.
func (s Spec) Validate() error {
	set := 0
	if s.Script != "" {
		set++
	}
	if s.Inline != "" {
		set++
	}
	if s.Command != "" {
		set++
	}

	switch set {
	case 0:
		return fmt.Errorf("%w: one of script, inline or command is required", util.ErrInvalidConfig)
	case 1:
		return nil
	default:
		return fmt.Errorf("%w: script, inline and command are mutually exclusive", util.ErrInvalidConfig)
	}
}

// Resolve turns the spec into an executable Callable. Resolution
// happens exactly once, before any task is created: unreadable script
// sources and unknown command names abort the whole invocation here.
func Resolve(s Spec, registry map[string]config.CommandSpec) (Callable, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	switch {
	case s.Script != "":
		info, err := os.Stat(s.Script)
		if err != nil || info.IsDir() {
			return nil, fmt.Errorf("%w: %q", util.ErrScriptNotFound, s.Script)
		}
		return &scriptCallable{path: s.Script}, nil

	case s.Inline != "":
		return &inlineCallable{block: s.Inline}, nil

	default:
		entry, ok := registry[s.Command]
		if !ok {
			return nil, fmt.Errorf("%w: %q is not in the registry", util.ErrCommandNotFound, s.Command)
		}

		path := entry.Path
		if path == "" {
			resolved, err := exec.LookPath(s.Command)
			if err != nil {
				return nil, fmt.Errorf("%w: %q has no path and is not on PATH", util.ErrCommandNotFound, s.Command)
			}
			path = resolved
		}

		return &commandCallable{
			name: s.Command,
			path: path,
			args: entry.Args,
			env:  entry.Env,
		}, nil
	}
}
