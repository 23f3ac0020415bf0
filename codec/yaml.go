package codec

import "github.com/goccy/go-yaml"

// YAML serializes values with goccy/go-yaml. Handy for file-backed state that
// people edit by hand. The zero value is ready to use.
type YAML[V any] struct{}

var _ Codec[struct{}] = YAML[struct{}]{}

func (YAML[V]) Encode(v V) ([]byte, error) { return yaml.Marshal(v) }
func (YAML[V]) Decode(b []byte) (V, error) {
	var v V
	err := yaml.Unmarshal(b, &v)
	return v, err
}
