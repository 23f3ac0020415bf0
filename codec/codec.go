// Package codec provides the encode/decode pairs used by persisted state.
// A Codec turns a value into the bytes handed to a provider and back.
package codec

// Codec encodes/decodes values V to []byte for storage.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}
