package wire

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"
)

func mustDecodeRecord(t *testing.T, b []byte) []byte {
	t.Helper()
	p, err := DecodeRecord(b)
	if err != nil {
		t.Fatalf("DecodeRecord error: %v", err)
	}
	return p
}

func mustDecodeBundle(t *testing.T, b []byte) []BundleItem {
	t.Helper()
	it, err := DecodeBundle(b)
	if err != nil {
		t.Fatalf("DecodeBundle error: %v", err)
	}
	return it
}

func TestRecordRoundTrip(t *testing.T) {
	cases := [][]byte{
		nil,
		[]byte(`"dark"`),
		{0, 1, 2, 3, 4},
		[]byte(strings.Repeat("compressible ", 200)),
	}
	for _, payload := range cases {
		enc := EncodeRecord(payload)
		if got := mustDecodeRecord(t, enc); !bytes.Equal(got, payload) {
			t.Fatalf("payload mismatch: got %q want %q", got, payload)
		}
	}
}

func TestRecordCompressesLargePayloads(t *testing.T) {
	payload := []byte(strings.Repeat("a", 4*CompressThreshold))
	enc := EncodeRecord(payload)
	if enc[6]&flagZstd == 0 {
		t.Fatalf("expected zstd flag")
	}
	if len(enc) >= len(payload) {
		t.Fatalf("record not smaller: %d >= %d", len(enc), len(payload))
	}

	small := EncodeRecord([]byte("tiny"))
	if small[6] != 0 {
		t.Fatalf("small payloads stay uncompressed")
	}
}

func TestRecordDoesNotAlias(t *testing.T) {
	enc := EncodeRecord([]byte("Z"))
	p := mustDecodeRecord(t, enc)
	p[0] = 'Q'
	if p2 := mustDecodeRecord(t, enc); p2[0] != 'Z' {
		t.Fatalf("decoded payload aliases the record")
	}
}

func TestRecordRejectsTrailingBytes(t *testing.T) {
	enc := EncodeRecord([]byte("x"))
	enc = append(enc, 0xDE, 0xAD) // add junk
	if _, err := DecodeRecord(enc); err == nil {
		t.Fatalf("expected error on trailing bytes")
	}
}

func TestRecordCorruptHeadersAndLengths(t *testing.T) {
	enc := EncodeRecord([]byte("abc"))

	// bad magic
	badMagic := append([]byte(nil), enc...)
	badMagic[0] = 'X'
	if _, err := DecodeRecord(badMagic); err == nil {
		t.Fatalf("expected error on bad magic")
	}

	// wrong version
	badVer := append([]byte(nil), enc...)
	badVer[4] = version + 1
	if _, err := DecodeRecord(badVer); err == nil {
		t.Fatalf("expected error on bad version")
	}

	// wrong kind
	badKind := append([]byte(nil), enc...)
	badKind[5] = kindBundle
	if _, err := DecodeRecord(badKind); err == nil {
		t.Fatalf("expected error on bad kind")
	}

	// unknown flags
	badFlags := append([]byte(nil), enc...)
	badFlags[6] = 0x80
	if _, err := DecodeRecord(badFlags); err == nil {
		t.Fatalf("expected error on unknown flags")
	}

	// zstd flag on a plain body
	fakeZstd := append([]byte(nil), enc...)
	fakeZstd[6] = flagZstd
	if _, err := DecodeRecord(fakeZstd); err == nil {
		t.Fatalf("expected error on undecodable zstd body")
	}

	// vlen too large (announce more than available)
	tooLong := append([]byte(nil), enc...)
	// vlen is at offset 7..10 (4 magic +1 ver +1 kind +1 flags)
	binary.BigEndian.PutUint32(tooLong[7:11], uint32(len("abc")+1))
	if _, err := DecodeRecord(tooLong); err == nil {
		t.Fatalf("expected error on vlen beyond buffer")
	}

	// truncated buffer
	if _, err := DecodeRecord(enc[:len(enc)-1]); err == nil {
		t.Fatalf("expected error on truncated buffer")
	}
}

func TestBundleRoundTrip(t *testing.T) {
	cases := [][]BundleItem{
		nil, // n=0
		{{Key: "Settings/a", Payload: []byte("x")}},
		{
			{Key: "a/1", Payload: []byte("x")},
			{Key: "b/2", Payload: nil}, // empty payload
			{Key: "c/3", Payload: []byte(strings.Repeat("z", 2*CompressThreshold))},
		},
		// duplicates allowed. decoder preserves both
		{
			{Key: "dup", Payload: []byte("old")},
			{Key: "dup", Payload: []byte("new")},
		},
	}
	for _, items := range cases {
		enc, err := EncodeBundle(items)
		if err != nil {
			t.Fatalf("EncodeBundle error: %v", err)
		}
		got := mustDecodeBundle(t, enc)
		if len(got) != len(items) {
			t.Fatalf("len mismatch: got %d want %d", len(got), len(items))
		}
		for i := range items {
			if got[i].Key != items[i].Key || !bytes.Equal(got[i].Payload, items[i].Payload) {
				t.Fatalf("item %d mismatch: got=%+v want=%+v", i, got[i], items[i])
			}
		}
	}
}

func TestBundleRejectsTrailingBytes(t *testing.T) {
	enc, err := EncodeBundle([]BundleItem{{Key: "k", Payload: []byte("v")}})
	if err != nil {
		t.Fatalf("EncodeBundle: %v", err)
	}
	enc = append(enc, 0xBE, 0xEF)
	if _, err := DecodeBundle(enc); err == nil {
		t.Fatalf("expected error on trailing bytes")
	}
}

func TestBundleWrongCountAndTruncation(t *testing.T) {
	// Wrong n (very large) with no items -> must error, not panic.
	var buf bytes.Buffer
	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(kindBundle)
	var u4 [4]byte
	binary.BigEndian.PutUint32(u4[:], ^uint32(0)) // n = 0xFFFFFFFF
	buf.Write(u4[:])
	if _, err := DecodeBundle(buf.Bytes()); err == nil {
		t.Fatalf("expected error on bogus n with insufficient bytes")
	}

	// Declare n=1 but provide no item body -> error
	buf.Reset()
	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(kindBundle)
	binary.BigEndian.PutUint32(u4[:], 1)
	buf.Write(u4[:])
	if _, err := DecodeBundle(buf.Bytes()); err == nil {
		t.Fatalf("expected error on truncated item list")
	}
}

func TestBundleKeyLengthValidation(t *testing.T) {
	// empty key -> error
	if _, err := EncodeBundle([]BundleItem{{Key: "", Payload: []byte("x")}}); err == nil {
		t.Fatalf("expected error on empty key")
	}
	// too long key (65536) -> error
	if _, err := EncodeBundle([]BundleItem{{Key: strings.Repeat("a", 0x10000)}}); err == nil {
		t.Fatalf("expected error on key length > 0xFFFF")
	}
	// boundary (65535) -> ok
	if _, err := EncodeBundle([]BundleItem{{Key: strings.Repeat("b", 0xFFFF)}}); err != nil {
		t.Fatalf("boundary key length should succeed: %v", err)
	}
}

func TestBundleCorruptHeadersAndLengths(t *testing.T) {
	enc, err := EncodeBundle([]BundleItem{{Key: "k", Payload: []byte("xyz")}})
	if err != nil {
		t.Fatalf("EncodeBundle: %v", err)
	}

	badMagic := append([]byte(nil), enc...)
	badMagic[0] = 'X'
	if _, err := DecodeBundle(badMagic); err == nil {
		t.Fatalf("expected error on bad magic")
	}

	badKind := append([]byte(nil), enc...)
	badKind[5] = kindRecord
	if _, err := DecodeBundle(badKind); err == nil {
		t.Fatalf("expected error on bad kind")
	}

	// header: 4 magic +1 ver +1 kind +4 n = 10 bytes
	// item: 2 klen + klen + 1 flags + 4 vlen + payload
	klen := 1
	offset := 10 + 2 + klen + 1 // start of vlen
	badVlen := append([]byte(nil), enc...)
	binary.BigEndian.PutUint32(badVlen[offset:offset+4], uint32(len("xyz")+1))
	if _, err := DecodeBundle(badVlen); err == nil {
		t.Fatalf("expected error on vlen beyond buffer")
	}

	badKlen := append([]byte(nil), enc...)
	binary.BigEndian.PutUint16(badKlen[10:12], uint16(5))
	if _, err := DecodeBundle(badKlen); err == nil {
		t.Fatalf("expected error on klen beyond buffer")
	}
}
