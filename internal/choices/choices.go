// Package choices implements closed sets of short codes with display labels.
package choices

// Option is one code/label pair as exposed to the admin UI.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Choice pairs a typed code with its label.
type Choice[T ~string] struct {
	Value T
	Label string
}

func Of[T ~string](value T, label string) Choice[T] {
	return Choice[T]{Value: value, Label: label}
}

// Set is an ordered, immutable set of choices.
type Set[T ~string] struct {
	options []Option
	labels  map[T]string
}

func New[T ~string](items ...Choice[T]) Set[T] {
	s := Set[T]{
		options: make([]Option, 0, len(items)),
		labels:  make(map[T]string, len(items)),
	}
	for _, it := range items {
		s.options = append(s.options, Option{Value: string(it.Value), Label: it.Label})
		s.labels[it.Value] = it.Label
	}
	return s
}

func (s Set[T]) Valid(v T) bool {
	_, ok := s.labels[v]
	return ok
}

// Label returns the display label for v, or v itself when it is not in the set.
func (s Set[T]) Label(v T) string {
	if l, ok := s.labels[v]; ok {
		return l
	}
	return string(v)
}

func (s Set[T]) Options() []Option {
	out := make([]Option, len(s.options))
	copy(out, s.options)
	return out
}

// Enum is implemented by every closed code type so validators can check membership.
type Enum interface {
	Valid() bool
	Label() string
}
