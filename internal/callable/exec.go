package callable

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Callable is one resolved invocation strategy, applied to every
// target. Implementations must be safe to call concurrently: each call
// spawns its own process and shares no mutable state.
type Callable interface {
	// Kind identifies the variant (script, inline, command)
	Kind() string

	// Name is the human-readable identity used in logs and errors
	Name() string

	// Invoke runs the callable against one target, returning trimmed
	// stdout. The context is cancelled on eviction, which kills the
	// process.
	Invoke(ctx context.Context, env *Environment, target string) (string, error)
}

type scriptCallable struct {
	path string
}

func (c *scriptCallable) Kind() string { return "script" }
func (c *scriptCallable) Name() string { return c.path }

func (c *scriptCallable) Invoke(ctx context.Context, env *Environment, target string) (string, error) {
	// Modules are sourced into the invoking shell; variables they
	// export reach the script, shell functions do not (the script runs
	// as a child process).
	program := env.Preamble() + shellQuote(c.path) + ` "$@"`
	return runShell(ctx, env, program, target)
}

type inlineCallable struct {
	block string
}

func (c *inlineCallable) Kind() string { return "inline" }
func (c *inlineCallable) Name() string { return "inline block" }

func (c *inlineCallable) Invoke(ctx context.Context, env *Environment, target string) (string, error) {
	// The block runs in the same shell as the module preamble, so
	// functions defined by modules are callable from it.
	program := env.Preamble() + c.block
	return runShell(ctx, env, program, target)
}

type commandCallable struct {
	name string
	path string
	args []string
	env  map[string]string
}

func (c *commandCallable) Kind() string { return "command" }
func (c *commandCallable) Name() string { return c.name }

func (c *commandCallable) Invoke(ctx context.Context, env *Environment, target string) (string, error) {
	args := make([]string, 0, len(c.args)+1+len(env.ArgPairs()))
	args = append(args, c.args...)
	args = append(args, target)
	args = append(args, env.ArgPairs()...)

	cmd := exec.CommandContext(ctx, c.path, args...)
	cmd.Env = invocationEnv(env)
	for k, v := range c.env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}

	return capture(cmd)
}

// runShell executes a shell program with the target as $1 and the
// extra argument pairs following it.
func runShell(ctx context.Context, env *Environment, program string, target string) (string, error) {
	argv := append([]string{"fanout", target}, env.ArgPairs()...)

	cmd := exec.CommandContext(ctx, "sh", append([]string{"-c", program}, argv...)...)
	cmd.Env = invocationEnv(env)

	return capture(cmd)
}

// invocationEnv builds the process environment: the parent's, plus the
// FANOUT_ARG_* variables and the module list.
func invocationEnv(env *Environment) []string {
	out := os.Environ()
	out = append(out, env.ArgEnv()...)
	out = append(out, env.ModuleEnv()...)
	return out
}

// capture runs cmd and returns trimmed stdout. On failure the error
// carries trimmed stderr, which is usually the interesting part.
func capture(cmd *exec.Cmd) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("%w: %s", err, msg)
		}
		return "", err
	}

	return strings.TrimSpace(stdout.String()), nil
}
