package app

import (
	"sync"

	"github.com/shuldan/chassis/pkg/contracts"
	"github.com/shuldan/chassis/pkg/errors"
)

type registry struct {
	modules []contracts.AppModule
	mu      sync.RWMutex
}

func (r *registry) Register(module contracts.AppModule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modules = append(r.modules, module)
	return nil
}

func (r *registry) All() []contracts.AppModule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]contracts.AppModule, len(r.modules))
	copy(result, r.modules)
	return result
}

// Shutdown stops modules in reverse registration order, collecting every
// failure instead of aborting on the first.
func (r *registry) Shutdown(ctx contracts.AppContext) error {
	var errs []error
	modules := r.All()
	for i := len(modules) - 1; i >= 0; i-- {
		if err := modules[i].Stop(ctx); err != nil {
			errs = append(errs, ErrModuleStop.
				WithDetail("module", modules[i].Name()).
				WithCause(err))
		}
	}
	return errors.Join(errs...)
}
