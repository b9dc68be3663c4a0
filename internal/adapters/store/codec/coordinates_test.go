package codec

import (
	"math"
	"testing"
)

func TestCoordinates_RoundTrip(t *testing.T) {
	in := []float64{39.90923, 116.397428, -33.8688, 151.2093, 0, 1e-9, math.MaxFloat64, 0.1 + 0.2}

	blob, err := EncodeCoordinates(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := DecodeCoordinates(blob)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("expected %d values, got %d", len(in), len(out))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("value %d: expected %v, got %v", i, in[i], out[i])
		}
	}
}

func TestEncodeCoordinates_NilIsEmptyArray(t *testing.T) {
	blob, err := EncodeCoordinates(nil)
	if err != nil {
		t.Fatal(err)
	}
	if blob != "[]" {
		t.Errorf("expected [], got %s", blob)
	}
}

func TestDecodeCoordinates_Invalid(t *testing.T) {
	if _, err := DecodeCoordinates(`{"a":1}`); err == nil {
		t.Error("expected error for non-array blob")
	}
}
