package appstate

// Slice is a read-write view of one field of a parent value. Every Get reads
// the whole parent; every Set reads the parent, mutates the copy and writes the
// whole parent back through its normal setter.
type Slice[P, V any] struct {
	parent Accessor[P]
	get    func(P) V
	set    func(*P, V)
}

var _ Accessor[int] = (*Slice[struct{}, int])(nil)

func NewSlice[P, V any](parent Accessor[P], get func(P) V, set func(*P, V)) *Slice[P, V] {
	return &Slice[P, V]{parent: parent, get: get, set: set}
}

func (s *Slice[P, V]) Get() V { return s.get(s.parent.Get()) }

func (s *Slice[P, V]) Set(v V) {
	p := s.parent.Get()
	s.set(&p, v)
	s.parent.Set(p)
}

// Constant is a read-only view of one field of a parent value. It accepts any
// Getter, so it also projects dependencies.
type Constant[P, V any] struct {
	parent Getter[P]
	get    func(P) V
}

var _ Getter[int] = (*Constant[struct{}, int])(nil)

func NewConstant[P, V any](parent Getter[P], get func(P) V) *Constant[P, V] {
	return &Constant[P, V]{parent: parent, get: get}
}

func (c *Constant[P, V]) Get() V { return c.get(c.parent.Get()) }

// OptionalSlice views a field of a parent that may be absent. With an absent
// parent Get returns None and Set is dropped; no parent is materialized.
type OptionalSlice[P, V any] struct {
	parent Accessor[Optional[P]]
	get    func(P) V
	set    func(*P, V)
}

func NewOptionalSlice[P, V any](parent Accessor[Optional[P]], get func(P) V, set func(*P, V)) *OptionalSlice[P, V] {
	return &OptionalSlice[P, V]{parent: parent, get: get, set: set}
}

func (s *OptionalSlice[P, V]) Get() Optional[V] {
	p := s.parent.Get()
	if !p.Valid {
		return None[V]()
	}
	return Some(s.get(p.Value))
}

func (s *OptionalSlice[P, V]) Set(v V) {
	p := s.parent.Get()
	if !p.Valid {
		return
	}
	s.set(&p.Value, v)
	s.parent.Set(p)
}

// OptionalFieldSlice views an optional field of a present parent.
type OptionalFieldSlice[P, V any] struct {
	parent Accessor[P]
	get    func(P) Optional[V]
	set    func(*P, Optional[V])
}

var _ Accessor[Optional[int]] = (*OptionalFieldSlice[struct{}, int])(nil)

func NewOptionalFieldSlice[P, V any](parent Accessor[P], get func(P) Optional[V], set func(*P, Optional[V])) *OptionalFieldSlice[P, V] {
	return &OptionalFieldSlice[P, V]{parent: parent, get: get, set: set}
}

func (s *OptionalFieldSlice[P, V]) Get() Optional[V] { return s.get(s.parent.Get()) }

func (s *OptionalFieldSlice[P, V]) Set(v Optional[V]) {
	p := s.parent.Get()
	s.set(&p, v)
	s.parent.Set(p)
}
