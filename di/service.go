package di

// Service is one constructed instance of a wired unit.
//
// Val is the value built by the unit's initializer.
// Deps holds the dependency objects constructed for this instance, keyed by name: the
// instance's dependency attributes. Every Service gets its own freshly built set.
//
// The bag is intentionally loose (map[DependencyKey]any) so factories can return any type.
// Typed retrieval is available via GetAs / TryGetAs / MustGetAs.
type Service[T any] struct {
	Val  *T
	Deps map[DependencyKey]any
}

// Value returns the constructed value pointer.
func (s *Service[T]) Value() *T { return s.Val }

// Has reports whether a dependency exists for the key (regardless of type).
func (s *Service[T]) Has(key DependencyKey) bool {
	if s == nil || s.Deps == nil {
		return false
	}
	_, ok := s.Deps[normalize(key)]
	return ok
}

// GetAny returns the raw stored dependency value without type assertions.
func (s *Service[T]) GetAny(key DependencyKey) (any, bool) {
	if s == nil || s.Deps == nil {
		return nil, false
	}
	v, ok := s.Deps[normalize(key)]
	return v, ok
}

// GetAs returns the dependency typed as D.
//
// ok is false if the key is missing or the stored value is not a D.
//
//	cyl, ok := di.GetAs[Cylinder](engine, "cylinder")
func GetAs[D any, T any](s *Service[T], key DependencyKey) (D, bool) {
	d, err := TryGetAs[D](s, key)
	return d, err == nil
}

// TryGetAs returns the dependency typed as D.
//
// It returns:
//   - MissingDependencyError if the key is not present
//   - WrongTypeDependencyError if the key exists but is not a D
func TryGetAs[D any, T any](s *Service[T], key DependencyKey) (D, error) {
	if s == nil || s.Deps == nil {
		var zero D
		return zero, MissingDependencyError{Key: normalize(key)}
	}
	return assertDep[D](s.Deps, normalize(key))
}

// MustGetAs returns the dependency typed as D or panics with the TryGetAs error.
func MustGetAs[D any, T any](s *Service[T], key DependencyKey) D {
	d, err := TryGetAs[D](s, key)
	if err != nil {
		panic(err)
	}
	return d
}

// Clone returns a shallow copy of the Service.
//
// The constructed value pointer (Val) is shared.
// The dependency bag (Deps) is copied into a new map so changes to the copy do not
// affect the original Service's Deps.
func (s *Service[T]) Clone() *Service[T] {
	if s == nil {
		return nil
	}
	cp := &Service[T]{Val: s.Val}
	if len(s.Deps) > 0 {
		cp.Deps = make(map[DependencyKey]any, len(s.Deps))
		for k, v := range s.Deps {
			cp.Deps[k] = v
		}
	} else {
		cp.Deps = make(map[DependencyKey]any)
	}
	return cp
}
