package registry

import (
	"fmt"

	"github.com/mugiwarahub/mugiwara/internal/config"
	"github.com/mugiwarahub/mugiwara/internal/providers"
	"github.com/mugiwarahub/mugiwara/internal/providers/anime/pahe"
	"github.com/mugiwarahub/mugiwara/internal/providers/anime/zoro"
	"github.com/mugiwarahub/mugiwara/pkg/types"
)

// Proxy is the proxy client shared by every provider
type Proxy interface {
	pahe.Proxy
	zoro.Proxy
}

// Registry builds the enabled providers from configuration
type Registry struct {
	providers map[string]providers.Provider
	order     []string
}

func New() *Registry {
	return &Registry{
		providers: make(map[string]providers.Provider),
	}
}

// Load (re)creates the providers enabled in cfg
func (r *Registry) Load(cfg *config.Config, proxy Proxy) {
	r.providers = make(map[string]providers.Provider)
	r.order = cfg.Providers.Order

	register := func(name string, settings config.ProviderSettings, factory func() providers.Provider) {
		if !settings.Enabled {
			return
		}
		r.providers[name] = factory()
	}

	register(types.ProviderPahe, cfg.Providers.Pahe, func() providers.Provider { return pahe.New(proxy) })
	register(types.ProviderZoro, cfg.Providers.Zoro, func() providers.Provider { return zoro.New(proxy) })
}

// Apply swaps the loaded providers and order into target in one step, so
// lookups running during a reload never see an empty registry.
func (r *Registry) Apply(target *providers.Registry) []error {
	loaded := make([]providers.Provider, 0, len(r.providers))
	for _, name := range r.List() {
		loaded = append(loaded, r.providers[name])
	}
	return target.Replace(r.order, loaded)
}

func (r *Registry) Get(name string) (providers.Provider, error) {
	if p, ok := r.providers[name]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("provider not found: %s", name)
}

// List returns the loaded provider names in configured order
func (r *Registry) List() []string {
	keys := make([]string, 0, len(r.providers))
	seen := make(map[string]bool)
	for _, name := range append(append([]string(nil), r.order...), providers.DefaultOrder...) {
		if _, ok := r.providers[name]; ok && !seen[name] {
			keys = append(keys, name)
			seen[name] = true
		}
	}
	return keys
}
