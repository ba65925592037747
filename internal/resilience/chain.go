package resilience

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ErrAllFailed is returned when every provider in a [Chain] failed or was
// skipped because its breaker is open.
var ErrAllFailed = errors.New("resilience: all providers failed")

// permanentError marks a failure that should end the chain immediately
// without counting against the provider's breaker.
type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent wraps err so that [Chain] stops at the current provider and
// returns err unchanged. Use it for failures caused by the request rather
// than the provider, such as a cancelled context.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err, or any error it wraps, was marked with
// [Permanent].
func IsPermanent(err error) bool {
	var pe *permanentError
	return errors.As(err, &pe)
}

func unwrapPermanent(err error) error {
	var pe *permanentError
	if errors.As(err, &pe) {
		return pe.err
	}
	return err
}

type link[T any] struct {
	name    string
	value   T
	breaker *CircuitBreaker
}

// Chain holds an ordered list of interchangeable providers, each guarded by
// its own [CircuitBreaker]. Providers are tried in the order they were added.
//
// Add all providers before the first call to [Try]; Chain does not guard its list
// against concurrent mutation.
type Chain[T any] struct {
	cfg   BreakerConfig
	links []link[T]
}

// NewChain returns an empty chain. Every provider added later receives a
// breaker built from cfg with Name set to the provider's name.
func NewChain[T any](cfg BreakerConfig) *Chain[T] {
	return &Chain[T]{cfg: cfg}
}

// Add appends a provider to the end of the chain.
func (c *Chain[T]) Add(name string, value T) {
	bc := c.cfg
	bc.Name = name
	c.links = append(c.links, link[T]{
		name:    name,
		value:   value,
		breaker: NewCircuitBreaker(bc),
	})
}

// Len returns the number of providers in the chain.
func (c *Chain[T]) Len() int { return len(c.links) }

// States returns each provider's breaker state keyed by provider name.
func (c *Chain[T]) States() map[string]State {
	out := make(map[string]State, len(c.links))
	for _, l := range c.links {
		out[l.name] = l.breaker.State()
	}
	return out
}

// Try calls fn against each provider in order and returns the first
// successful result together with the provider name.
//
// A provider whose breaker is open is skipped. A [Permanent] error, or a done
// ctx, ends the walk and is returned as is. Otherwise, when nothing succeeds
// the result wraps [ErrAllFailed] and every provider error.
func Try[T, R any](ctx context.Context, c *Chain[T], fn func(context.Context, T) (R, error)) (R, string, error) {
	var (
		zero R
		errs []error
	)
	for i := range c.links {
		l := &c.links[i]
		if err := ctx.Err(); err != nil {
			return zero, "", err
		}

		var result R
		err := l.breaker.Execute(func() error {
			var callErr error
			result, callErr = fn(ctx, l.value)
			if callErr != nil && ctx.Err() != nil {
				return Permanent(callErr)
			}
			return callErr
		})
		switch {
		case err == nil:
			return result, l.name, nil
		case IsPermanent(err):
			return zero, l.name, unwrapPermanent(err)
		case errors.Is(err, ErrCircuitOpen):
			slog.Debug("skipping provider, circuit open", "provider", l.name)
		default:
			slog.Warn("provider failed, trying next", "provider", l.name, "err", err)
		}
		errs = append(errs, fmt.Errorf("%s: %w", l.name, err))
	}
	if len(errs) == 0 {
		return zero, "", fmt.Errorf("%w: no providers configured", ErrAllFailed)
	}
	return zero, "", fmt.Errorf("%w: %w", ErrAllFailed, errors.Join(errs...))
}
