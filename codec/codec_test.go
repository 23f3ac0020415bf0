package codec

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"google.golang.org/protobuf/types/known/wrapperspb"
)

type profile struct {
	Name  string            `json:"name" yaml:"name" msgpack:"name" cbor:"name"`
	Tags  map[string]string `json:"tags" yaml:"tags" msgpack:"tags" cbor:"tags"`
	Score int               `json:"score" yaml:"score" msgpack:"score" cbor:"score"`
}

func TestCBORDeterministicIsByteStable(t *testing.T) {
	c := MustCBOR[profile](true)
	p := profile{Name: "ada", Tags: map[string]string{"z": "1", "a": "2", "m": "3"}, Score: 7}

	first, err := c.Encode(p)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 20; i++ {
		again, err := c.Encode(p)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(first, again) {
			t.Fatalf("deterministic encoding differs on run %d", i)
		}
	}
	got, err := c.Decode(first)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "ada" || got.Tags["m"] != "3" || got.Score != 7 {
		t.Fatalf("decoded %+v", got)
	}
}

func TestMsgpackUsesFieldTags(t *testing.T) {
	b, err := Msgpack[profile]{}.Encode(profile{Name: "grace"})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(b, []byte("name")) {
		t.Fatalf("expected msgpack payload to carry the tagged field name")
	}
	got, err := Msgpack[profile]{}.Decode(b)
	if err != nil || got.Name != "grace" {
		t.Fatalf("got=%+v err=%v", got, err)
	}
}

func TestYAMLIsHumanReadable(t *testing.T) {
	b, err := YAML[profile]{}.Encode(profile{Name: "linus", Score: 3})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "name: linus") {
		t.Fatalf("unexpected yaml:\n%s", b)
	}
	got, err := YAML[profile]{}.Decode([]byte("name: ken\nscore: 9\n"))
	if err != nil || got.Name != "ken" || got.Score != 9 {
		t.Fatalf("got=%+v err=%v", got, err)
	}
}

func TestProtobufRoundTripsWellKnownType(t *testing.T) {
	c := NewProtobuf(func() *wrapperspb.StringValue { return &wrapperspb.StringValue{} })
	b, err := c.Encode(wrapperspb.String("token-123"))
	if err != nil {
		t.Fatal(err)
	}
	got, err := c.Decode(b)
	if err != nil || got.GetValue() != "token-123" {
		t.Fatalf("got=%v err=%v", got, err)
	}
}

func TestLimitCodecBoundsBothDirections(t *testing.T) {
	c := LimitCodec[string]{Inner: String{}, MaxEncode: 4, MaxDecode: 2}

	if _, err := c.Encode("12345"); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge on encode, got %v", err)
	}
	if b, err := c.Encode("1234"); err != nil || string(b) != "1234" {
		t.Fatalf("encode within bound: %q %v", b, err)
	}
	if _, err := c.Decode([]byte("123")); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge on decode, got %v", err)
	}
	unbounded := LimitCodec[string]{Inner: String{}}
	if _, err := unbounded.Decode(bytes.Repeat([]byte("x"), 1<<16)); err != nil {
		t.Fatalf("zero limit should disable bounds: %v", err)
	}
}

func TestJSONRejectsWrongShape(t *testing.T) {
	if _, err := (JSON[int]{}).Decode([]byte(`"not a number"`)); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestMsgpackJSONTags(t *testing.T) {
	type jsonOnly struct {
		DisplayName string `json:"display_name"`
	}
	c := Msgpack[jsonOnly]{JSONTags: true}
	b, err := c.Encode(jsonOnly{DisplayName: "hopper"})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(b, []byte("display_name")) {
		t.Fatalf("json tag not used: %q", b)
	}
	got, err := c.Decode(b)
	if err != nil || got.DisplayName != "hopper" {
		t.Fatalf("got=%+v err=%v", got, err)
	}
}

func TestCBORRejectsDuplicateKeys(t *testing.T) {
	c := MustCBOR[map[string]int](false)
	// {"a": 1, "a": 2}
	dup := []byte{0xa2, 0x61, 'a', 0x01, 0x61, 'a', 0x02}
	if _, err := c.Decode(dup); err == nil {
		t.Fatalf("expected duplicate key error")
	}
}
