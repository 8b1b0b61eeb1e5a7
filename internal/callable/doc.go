// Package callable selects and prepares the unit of work dispatched
// against every target: a script file, an inline shell block, or a
// named command from the config registry. The three variants are
// mutually exclusive and resolved exactly once, before any task is
// submitted; the dispatch engine only ever sees the resulting task
// function.
//
// Module files and extra named arguments form an Environment template
// that is cloned into each execution context at pool construction
// time. Script and inline invocations source the modules as a shell
// preamble; the command variant receives them via FANOUT_MODULES. In
// all variants the target is the first argument and the extra
// arguments follow as key=value pairs, mirrored as FANOUT_ARG_*
// environment variables.
package callable
