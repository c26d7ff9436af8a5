package form

import (
	"errors"
	"testing"

	"github.com/fxamacker/cbor/v2"
)

func TestDecodeJSON(t *testing.T) {
	for _, ct := range []string{"", "application/json", "application/json; charset=utf-8", "text/plain"} {
		raw, err := Decode(ct, []byte(`{"name":"Jane","age":3}`))
		if err != nil {
			t.Fatalf("%q: unexpected error %v", ct, err)
		}
		if raw["name"] != "Jane" || raw["age"] != 3.0 {
			t.Fatalf("%q: unexpected map %v", ct, raw)
		}
	}
}

func TestDecodeCBOR(t *testing.T) {
	body, err := cbor.Marshal(map[string]any{"name": "Jane", "nested": map[string]any{"a": "b"}})
	if err != nil {
		t.Fatalf("cbor marshal: %v", err)
	}
	raw, err := Decode("application/cbor", body)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if raw["name"] != "Jane" {
		t.Fatalf("unexpected map %v", raw)
	}
	if _, ok := raw["nested"].(map[string]any); !ok {
		t.Fatalf("nested maps should decode with string keys, got %T", raw["nested"])
	}
}

func TestDecodeMalformed(t *testing.T) {
	cases := map[string]string{
		"empty":     "",
		"truncated": `{"name":`,
		"null":      `null`,
		"array":     `[{"name":"Jane"}]`,
		"string":    `"Jane"`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode("application/json", []byte(body))
			if !errors.Is(err, ErrMalformed) {
				t.Fatalf("expected ErrMalformed, got %v", err)
			}
		})
	}

	if _, err := Decode("application/cbor", []byte{0xff}); !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed for bad CBOR, got %v", err)
	}
}
