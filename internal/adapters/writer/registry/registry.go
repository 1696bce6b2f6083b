package registry

import "github.com/Jjjmaes/AIT-sub004/internal/ports"

type Registry struct {
	byFormat map[string]ports.Writer
}

func New() *Registry { return &Registry{byFormat: map[string]ports.Writer{}} }

func (r *Registry) Register(w ports.Writer) { r.byFormat[w.Format()] = w }

func (r *Registry) Get(format string) (ports.Writer, bool) {
	w, ok := r.byFormat[format]
	return w, ok
}
