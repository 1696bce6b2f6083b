package registry

import "github.com/Jjjmaes/AIT-sub004/internal/ports"

type Registry struct {
	byFormat map[string]ports.Extractor
}

func New() *Registry { return &Registry{byFormat: map[string]ports.Extractor{}} }

func (r *Registry) Register(e ports.Extractor) { r.byFormat[e.Format()] = e }

func (r *Registry) Get(format string) (ports.Extractor, bool) {
	e, ok := r.byFormat[format]
	return e, ok
}
