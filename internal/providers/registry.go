package providers

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/mugiwarahub/mugiwara/pkg/types"
)

// DefaultOrder is used when the config names no order.
var DefaultOrder = []string{types.ProviderPahe, types.ProviderZoro}

const healthCheckTimeout = 10 * time.Second

// Registry holds the episode providers, the order episode lookups try them
// in and the last health check of each one.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
	order     []string
	statuses  map[string]ProviderStatus
}

var defaultRegistry = NewRegistry()

// Default is the process-wide registry.
func Default() *Registry { return defaultRegistry }

func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]Provider),
		order:     slices.Clone(DefaultOrder),
		statuses:  make(map[string]ProviderStatus),
	}
}

func (r *Registry) Register(p Provider) error {
	if p == nil {
		return errors.New("cannot register nil provider")
	}
	name := p.Name()
	if name == "" {
		return errors.New("provider must have a name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.providers[name]; dup {
		return fmt.Errorf("provider %s is already registered", name)
	}
	r.providers[name] = p
	r.statuses[name] = ProviderStatus{ProviderName: name, Status: "Pending"}
	return nil
}

func (r *Registry) Get(name string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if p, ok := r.providers[name]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("provider %s not found", name)
}

// SetOrder replaces the fallback order. Names without a provider are kept so
// one registered later still lands in its slot.
func (r *Registry) SetOrder(order []string) {
	if len(order) == 0 {
		order = DefaultOrder
	}
	r.mu.Lock()
	r.order = slices.Clone(order)
	r.mu.Unlock()
}

// Ordered returns providers in fallback order, then any the order does not
// name, sorted by name.
func (r *Registry) Ordered() []Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for _, name := range r.order {
		if _, ok := r.providers[name]; ok && !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	var rest []string
	for name := range r.providers {
		if !slices.Contains(names, name) {
			rest = append(rest, name)
		}
	}
	slices.Sort(rest)

	out := make([]Provider, 0, len(r.providers))
	for _, name := range append(names, rest...) {
		out = append(out, r.providers[name])
	}
	return out
}

// List is Ordered by name.
func (r *Registry) List() []string {
	var names []string
	for _, p := range r.Ordered() {
		names = append(names, p.Name())
	}
	return names
}

// Replace swaps in ps and order under one lock, so readers see either the old
// set or the new one. Invalid or duplicate providers are skipped and reported.
func (r *Registry) Replace(order []string, ps []Provider) []error {
	next := make(map[string]Provider, len(ps))
	statuses := make(map[string]ProviderStatus, len(ps))
	var errs []error
	for _, p := range ps {
		switch {
		case p == nil:
			errs = append(errs, errors.New("cannot register nil provider"))
		case p.Name() == "":
			errs = append(errs, errors.New("provider must have a name"))
		case next[p.Name()] != nil:
			errs = append(errs, fmt.Errorf("provider %s is already registered", p.Name()))
		default:
			next[p.Name()] = p
			statuses[p.Name()] = ProviderStatus{ProviderName: p.Name(), Status: "Pending"}
		}
	}
	if len(order) == 0 {
		order = DefaultOrder
	}

	r.mu.Lock()
	r.providers = next
	r.statuses = statuses
	r.order = slices.Clone(order)
	r.mu.Unlock()
	return errs
}

// CheckAllProviders health checks every provider in parallel and records
// the outcome.
func (r *Registry) CheckAllProviders(ctx context.Context) {
	var wg sync.WaitGroup
	for _, p := range r.Ordered() {
		wg.Go(func() { r.check(ctx, p) })
	}
	wg.Wait()
}

func (r *Registry) check(ctx context.Context, p Provider) {
	name := p.Name()
	r.updateStatus(name, func(s *ProviderStatus) {
		s.Status = "Checking..."
		s.LastCheck = time.Now()
	})

	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	start := time.Now()
	err := p.HealthCheck(ctx)
	result := &HealthCheckResult{Duration: time.Since(start), CheckedAt: time.Now()}

	r.updateStatus(name, func(s *ProviderStatus) {
		s.Healthy = err == nil
		s.Status = "Online"
		if err != nil {
			s.Status = "Offline: " + err.Error()
			result.Error = err.Error()
		}
		s.LastCheck = result.CheckedAt
		s.LastResult = result
	})
}

// updateStatus is a no-op for providers dropped by a config reload mid-check.
func (r *Registry) updateStatus(name string, fn func(*ProviderStatus)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.statuses[name]
	if !ok {
		return
	}
	fn(&s)
	r.statuses[name] = s
}

// GetProviderStatuses returns copies of every status sorted by provider name.
func (r *Registry) GetProviderStatuses() []*ProviderStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*ProviderStatus, 0, len(r.statuses))
	for _, s := range r.statuses {
		out = append(out, &s)
	}
	slices.SortFunc(out, func(a, b *ProviderStatus) int {
		return cmp.Compare(a.ProviderName, b.ProviderName)
	})
	return out
}
