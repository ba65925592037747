package geocode

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/MrWong99/familytools/internal/observe"
	"github.com/MrWong99/familytools/internal/resilience"
	"github.com/MrWong99/familytools/internal/throttle"
	"github.com/MrWong99/familytools/pkg/geo"
)

// ErrNoProviders is returned by [NewLookup] when no provider is given.
var ErrNoProviders = errors.New("geocode: at least one provider is required")

// pinnedProvider labels lookups answered by the pinned gazetteer in metrics.
const pinnedProvider = "pinned"

// errNotFound carries a "no such place" answer through the provider chain
// without tripping breakers or falling through to the next provider.
var errNotFound = errors.New("geocode: not found")

// Lookup is the resolver used by tools.
//
// Pinned places are answered locally. Every other address is tried against
// each provider in order until one answers. Each attempt on a remote provider
// first waits on the gate, so failover stays within the same pacing; [Static]
// providers skip it. A provider that answers "not found" ends the walk; only
// errors fall through.
type Lookup struct {
	chain   *resilience.Chain[Geocoder]
	gate    throttle.Gate
	pinned  *Static
	metrics *observe.Metrics
	breaker resilience.BreakerConfig
}

// LookupOption configures a [Lookup].
type LookupOption func(*Lookup)

// WithGate paces remote lookups. The default is [throttle.Unlimited].
func WithGate(g throttle.Gate) LookupOption {
	return func(l *Lookup) { l.gate = g }
}

// WithPinned answers the given places without touching the gate or the
// providers.
func WithPinned(s *Static) LookupOption {
	return func(l *Lookup) { l.pinned = s }
}

// WithMetrics records every lookup and breaker transition on m.
func WithMetrics(m *observe.Metrics) LookupOption {
	return func(l *Lookup) { l.metrics = m }
}

// WithBreaker sets the circuit breaker applied to each provider.
func WithBreaker(cfg resilience.BreakerConfig) LookupOption {
	return func(l *Lookup) { l.breaker = cfg }
}

// NewLookup builds a resolver over providers, tried in the given order.
func NewLookup(providers []Provider, opts ...LookupOption) (*Lookup, error) {
	if len(providers) == 0 {
		return nil, ErrNoProviders
	}
	l := &Lookup{gate: throttle.Unlimited()}
	for _, o := range opts {
		o(l)
	}

	bc := l.breaker
	if l.metrics != nil {
		m := l.metrics
		prev := bc.OnStateChange
		bc.OnStateChange = func(name string, from, to resilience.State) {
			m.RecordBreakerTransition(context.Background(), name, to.String())
			if prev != nil {
				prev(name, from, to)
			}
		}
	}

	l.chain = resilience.NewChain[Geocoder](bc)
	for _, p := range providers {
		l.chain.Add(p.Name, p.Geocoder)
	}
	return l, nil
}

// Resolve returns the coordinates for address. found is false when the
// address is empty, unknown to every provider, or could not be looked up;
// failures are logged and never returned.
func (l *Lookup) Resolve(ctx context.Context, address string) (geo.Coordinates, bool) {
	if strings.TrimSpace(address) == "" {
		return geo.Coordinates{}, false
	}
	start := time.Now()
	log := observe.Logger(ctx)

	if l.pinned != nil {
		if c, ok, _ := l.pinned.Geocode(ctx, address); ok {
			l.record(ctx, pinnedProvider, observe.StatusOK, start)
			return c, true
		}
	}

	c, provider, err := resilience.Try(ctx, l.chain,
		func(ctx context.Context, g Geocoder) (geo.Coordinates, error) {
			if _, local := g.(*Static); !local {
				if err := l.gate.Wait(ctx); err != nil {
					return geo.Coordinates{}, resilience.Permanent(err)
				}
			}
			c, found, err := g.Geocode(ctx, address)
			switch {
			case err != nil:
				return geo.Coordinates{}, err
			case !found:
				return geo.Coordinates{}, resilience.Permanent(errNotFound)
			}
			return c, nil
		})
	switch {
	case errors.Is(err, errNotFound):
		log.Debug("geocode: address not found", "address", address, "provider", provider)
		l.record(ctx, provider, observe.StatusNotFound, start)
		return geo.Coordinates{}, false
	case err != nil:
		log.Warn("geocode: lookup failed", "address", address, "err", err)
		l.record(ctx, provider, observe.StatusError, start)
		return geo.Coordinates{}, false
	}
	l.record(ctx, provider, observe.StatusOK, start)
	return c, true
}

// BreakerStates reports each provider's circuit breaker state.
func (l *Lookup) BreakerStates() map[string]resilience.State {
	return l.chain.States()
}

func (l *Lookup) record(ctx context.Context, provider, status string, start time.Time) {
	if l.metrics == nil {
		return
	}
	l.metrics.RecordGeocode(ctx, provider, status, time.Since(start).Seconds())
}
