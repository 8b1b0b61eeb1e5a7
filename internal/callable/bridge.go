package callable

import (
	"context"
	"fmt"

	"github.com/bmcmcm/fanout/internal/executor"
)

// Task adapts a resolved Callable to the engine's task function. The
// execution context's state is the cloned Environment produced by
// Init; targets must be strings.
func Task(c Callable) executor.TaskFunc {
	return func(ctx context.Context, ec *executor.Context, target interface{}) (interface{}, error) {
		name, ok := target.(string)
		if !ok {
			return nil, fmt.Errorf("target %v is not a string", target)
		}

		env, _ := ec.State.(*Environment)
		return c.Invoke(ctx, env, name)
	}
}

// Init produces the pool initializer that clones the environment
// template into each execution context.
func Init(env *Environment) executor.InitFunc {
	return func() (interface{}, error) {
		return env.Clone()
	}
}
