package routing

import (
	"strings"
	"sync/atomic"
	"time"

	"github.com/routeforge/routeforge/internal/observability"
	"github.com/routeforge/routeforge/internal/util"
)

// Resolver resolves (method, path) requests against a published route
// index. The index is read-heavy, write-rarely state: Load builds a fresh
// index off to the side and swaps it in atomically, so resolutions never
// lock and never observe a half-built index.
type Resolver struct {
	index              atomic.Pointer[RouteIndex]
	matchTrailingSlash bool
	logger             observability.Logger
}

// ResolverOption is a functional option for configuring the resolver.
type ResolverOption func(*Resolver)

// WithLogger sets the logger used for compile diagnostics and reloads.
func WithLogger(logger observability.Logger) ResolverOption {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// WithTrailingSlashMatching requires a request's trailing slash presence to
// equal the route pattern's. Off by default: /a and /a/ match identically.
func WithTrailingSlashMatching(enabled bool) ResolverOption {
	return func(r *Resolver) {
		r.matchTrailingSlash = enabled
	}
}

// NewResolver creates a resolver with an empty route index.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{
		logger: observability.NopLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.index.Store(BuildIndex(nil))
	return r
}

// Load compiles a route table and publishes a fresh index built from it.
// Malformed definitions are skipped with a diagnostic; the remaining routes
// load normally. Returns the number of routes published. In-flight
// resolutions keep reading the previous index until the swap.
func (r *Resolver) Load(defs []Definition) int {
	routes := CompileRoutes(defs, r.logger)
	idx := BuildIndex(routes)
	r.index.Store(idx)

	resolverMetrics().routesLoaded.Set(float64(len(routes)))
	r.logger.Info("route table published",
		observability.Int("defined", len(defs)),
		observability.Int("loaded", len(routes)),
		observability.Int("skipped", len(defs)-len(routes)),
	)

	return len(routes)
}

// Routes returns the currently published routes in discovery order.
func (r *Resolver) Routes() []*CompiledRoute {
	return r.index.Load().Routes()
}

// Resolve finds the highest-priority route matching the request. Candidates
// arrive from the index already priority-sorted, so the first confirmed
// match wins. When nothing matches, the returned error satisfies
// errors.Is(err, util.ErrNotFound).
func (r *Resolver) Resolve(method, path string) (*Match, error) {
	start := time.Now()
	m := resolverMetrics()

	idx := r.index.Load()
	parts := splitPath(path)
	pathTrailing := len(path) > 1 && strings.HasSuffix(path, "/")

	candidates := idx.Candidates(method, parts)
	m.candidateCount.Observe(float64(len(candidates)))

	for _, route := range candidates {
		if r.matchTrailingSlash && route.trailingSlash != pathTrailing {
			continue
		}
		if vars, ok := MatchRoute(route, parts, method); ok {
			m.resolutions.WithLabelValues(outcomeMatch).Inc()
			m.resolveDuration.Observe(time.Since(start).Seconds())
			return &Match{Route: route, Variables: vars}, nil
		}
	}

	m.resolutions.WithLabelValues(outcomeNotFound).Inc()
	m.resolveDuration.Observe(time.Since(start).Seconds())
	return nil, util.NewRouteNotFoundError(method, path)
}
