package appstate

import (
	"fmt"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
)

// Path is a read-only projection addressed by a key-path expression such as
// "Profile.Theme" or "Limits.Max * 2", evaluated against the parent's whole
// value with expr-lang. The expression is compiled and type-checked once.
type Path[P, V any] struct {
	parent  Getter[P]
	path    string
	program *exprvm.Program
}

// NewPath compiles path against P. P must be a struct or a map with string
// keys.
func NewPath[P, V any](parent Getter[P], path string) (*Path[P, V], error) {
	if path == "" {
		return nil, fmt.Errorf("appstate: path must not be empty")
	}
	var env P
	program, err := exprlang.Compile(path, exprlang.Env(env))
	if err != nil {
		return nil, fmt.Errorf("appstate: compile path %q: %w", path, err)
	}
	return &Path[P, V]{parent: parent, path: path, program: program}, nil
}

func (p *Path[P, V]) String() string { return p.path }

// Get evaluates the path. Evaluation errors (nil pointers, missing map keys)
// and results that are not a V are reported as None.
func (p *Path[P, V]) Get() Optional[V] {
	out, err := exprlang.Run(p.program, p.parent.Get())
	if err != nil {
		return None[V]()
	}
	v, ok := out.(V)
	if !ok {
		return None[V]()
	}
	return Some(v)
}
