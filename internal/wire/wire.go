// Package wire frames durable payloads on disk and in export bundles.
package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"sync"

	"github.com/klauspost/compress/zstd"
)

const (
	version    byte = 1
	kindRecord byte = 1
	kindBundle byte = 2

	flagZstd byte = 1 << 0

	// CompressThreshold is the payload size from which records are compressed.
	CompressThreshold = 512
)

var (
	ErrCorrupt = errors.New("appstate: corrupt record")
	magic4     = [...]byte{'A', 'P', 'S', 'T'}
)

var (
	encOnce sync.Once
	enc     *zstd.Encoder
	dec     *zstd.Decoder
)

func codecs() (*zstd.Encoder, *zstd.Decoder) {
	encOnce.Do(func() {
		enc, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		dec, _ = zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
	})
	return enc, dec
}

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

func pack(payload []byte) (byte, []byte) {
	if len(payload) < CompressThreshold {
		return 0, payload
	}
	e, _ := codecs()
	z := e.EncodeAll(payload, make([]byte, 0, len(payload)/2))
	if len(z) >= len(payload) {
		return 0, payload
	}
	return flagZstd, z
}

func unpack(flags byte, body []byte) ([]byte, error) {
	switch flags {
	case 0:
		return append([]byte(nil), body...), nil
	case flagZstd:
		_, d := codecs()
		out, err := d.DecodeAll(body, nil)
		if err != nil {
			return nil, ErrCorrupt
		}
		return out, nil
	default:
		return nil, ErrCorrupt
	}
}

// Record: magic(4) | ver(1) | kind(1=record) | flags(1) | vlen(u32 be) | body(vlen)
//
// Payloads of CompressThreshold bytes or more are zstd-compressed when that
// makes them smaller.
func EncodeRecord(payload []byte) []byte {
	flags, body := pack(payload)

	var buf bytes.Buffer
	buf.Grow(4 + 1 + 1 + 1 + 4 + len(body))

	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(kindRecord)
	buf.WriteByte(flags)

	var u4 [4]byte
	binary.BigEndian.PutUint32(u4[:], uint32(len(body)))
	buf.Write(u4[:])

	buf.Write(body)
	return buf.Bytes()
}

// DecodeRecord returns the original payload. The result never aliases b.
func DecodeRecord(b []byte) ([]byte, error) {
	const hdr = 4 + 1 + 1 + 1 + 4
	if len(b) < hdr || !hasMagic(b) || b[4] != version || b[5] != kindRecord {
		return nil, ErrCorrupt
	}
	flags := b[6]
	off := 7

	vlen := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	if vlen < 0 || vlen != len(b)-off { // exact: no trailing bytes
		return nil, ErrCorrupt
	}
	return unpack(flags, b[off:off+vlen])
}

// Bundle:
//
//	magic(4) | ver(1) | kind(2=bundle) | n(u32 be)
//	keyLen(u16 be) | key(keyLen) | flags(1) | vlen(u32 be) | body(vlen) * n
type BundleItem struct {
	Key     string
	Payload []byte
}

// EncodeBundle packs items for export. Keys must be 1..65535 bytes long.
func EncodeBundle(items []BundleItem) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(kindBundle)

	var u4 [4]byte
	var u2 [2]byte

	binary.BigEndian.PutUint32(u4[:], uint32(len(items)))
	buf.Write(u4[:])

	for _, it := range items {
		if l := len(it.Key); l == 0 || l > 0xFFFF {
			return nil, errors.New("appstate: invalid key length in bundle")
		}
		binary.BigEndian.PutUint16(u2[:], uint16(len(it.Key)))
		buf.Write(u2[:])
		buf.WriteString(it.Key)

		flags, body := pack(it.Payload)
		buf.WriteByte(flags)
		binary.BigEndian.PutUint32(u4[:], uint32(len(body)))
		buf.Write(u4[:])
		buf.Write(body)
	}
	return buf.Bytes(), nil
}

func DecodeBundle(b []byte) ([]BundleItem, error) {
	const hdr = 4 + 1 + 1 + 4
	if len(b) < hdr || !hasMagic(b) || b[4] != version || b[5] != kindBundle {
		return nil, ErrCorrupt
	}

	off := 6

	// n
	n := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	if n < 0 || n > len(b)-off { // every item takes at least one byte
		return nil, ErrCorrupt
	}

	items := make([]BundleItem, 0, n)
	for i := 0; i < n; i++ {
		// keyLen
		if off+2 > len(b) {
			return nil, ErrCorrupt
		}
		klen := int(binary.BigEndian.Uint16(b[off : off+2]))
		off += 2
		if klen <= 0 || klen > len(b)-off {
			return nil, ErrCorrupt
		}
		key := string(b[off : off+klen])
		off += klen

		// flags + vlen
		if off+5 > len(b) {
			return nil, ErrCorrupt
		}
		flags := b[off]
		off++
		vlen := int(binary.BigEndian.Uint32(b[off : off+4]))
		off += 4
		if vlen < 0 || vlen > len(b)-off {
			return nil, ErrCorrupt
		}

		payload, err := unpack(flags, b[off:off+vlen])
		if err != nil {
			return nil, err
		}
		off += vlen

		items = append(items, BundleItem{Key: key, Payload: payload})
	}
	if off != len(b) {
		return nil, ErrCorrupt
	}
	return items, nil
}
