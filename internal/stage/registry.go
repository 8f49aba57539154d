package stage

import (
	"fmt"
	"sort"
	"sync"

	"github.com/lucasvautier/planrun/internal/config"
	"github.com/lucasvautier/planrun/internal/planning"
	planrunerrors "github.com/lucasvautier/planrun/pkg/errors"
)

// CreateFunc constructs a concrete stage from its configuration block and
// the shared dependency injector.
type CreateFunc func(cfg *config.StageConfig, injector *planning.Injector) (Stage, error)

// Registry is the stage factory: it maps stage types to their creators and
// constructs stages on demand. Registration happens at startup; Create is
// called from the planning cycle, hence the read lock.
type Registry struct {
	mu       sync.RWMutex
	creators map[Type]CreateFunc
}

// NewRegistry returns an empty stage registry.
func NewRegistry() *Registry {
	return &Registry{creators: make(map[Type]CreateFunc)}
}

// Register adds a creator for the provided stage type.
func (r *Registry) Register(t Type, create CreateFunc) error {
	if create == nil {
		return planrunerrors.NewStageError(string(t), fmt.Errorf("create func is nil"))
	}
	if t == TypeNone || t == "" {
		return planrunerrors.NewStageError(string(t), fmt.Errorf("stage type is reserved"))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.creators[t]; exists {
		return planrunerrors.NewStageError(string(t), fmt.Errorf("stage already registered"))
	}

	r.creators[t] = create
	return nil
}

// Create constructs the stage for the configuration's stage type. Absence of
// a creator is an explicit error; stages are never default-constructed.
func (r *Registry) Create(cfg *config.StageConfig, injector *planning.Injector) (Stage, error) {
	if cfg == nil {
		return nil, planrunerrors.NewStageError("", fmt.Errorf("stage config is nil"))
	}

	r.mu.RLock()
	create, ok := r.creators[Type(cfg.StageType)]
	r.mu.RUnlock()

	if !ok {
		return nil, planrunerrors.NewStageError(cfg.StageType, fmt.Errorf("no stage registered"))
	}

	st, err := create(cfg, injector)
	if err != nil {
		return nil, planrunerrors.NewStageError(cfg.StageType, err)
	}
	if st == nil {
		return nil, planrunerrors.NewStageError(cfg.StageType, fmt.Errorf("creator returned no stage"))
	}

	return st, nil
}

// Types returns the registered stage types in sorted order.
func (r *Registry) Types() []Type {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Type, 0, len(r.creators))
	for t := range r.creators {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
