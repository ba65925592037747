package health

import (
	"context"
	"fmt"
	"os"

	"github.com/MrWong99/familytools/internal/resilience"
)

// FileReadable passes when path can be opened for reading.
func FileReadable(name, path string) Checker {
	return Checker{
		Name: name,
		Check: func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			return f.Close()
		},
	}
}

// AnyBreakerClosed fails only when every breaker reported by states is open.
// No breakers at all counts as healthy.
func AnyBreakerClosed(name string, states func() map[string]resilience.State) Checker {
	return Checker{
		Name: name,
		Check: func(context.Context) error {
			s := states()
			if len(s) == 0 {
				return nil
			}
			for _, st := range s {
				if st != resilience.StateOpen {
					return nil
				}
			}
			return fmt.Errorf("%w: all %d breakers", resilience.ErrCircuitOpen, len(s))
		},
	}
}
