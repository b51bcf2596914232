package codec_test

import (
	"math"
	"testing"

	"github.com/padlokk/ignition/internal/codec"
)

func TestCanonicalize_SortsKeysAtEveryDepth(t *testing.T) {
	in := map[string]any{
		"b": 1,
		"a": map[string]any{"z": 1, "y": 2},
	}
	out, err := codec.Canonicalize(in)
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}
	want := `{"a":{"y":2,"z":1},"b":1}` + "\n"
	if string(out) != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestCanonicalize_Deterministic(t *testing.T) {
	type doc struct {
		A int    `json:"a"`
		B string `json:"b"`
	}
	a, err := codec.Canonicalize(doc{A: 1, B: "x"})
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}
	b, err := codec.Canonicalize(doc{A: 1, B: "x"})
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}
	if string(a) != string(b) {
		t.Fatalf("non-deterministic output: %q vs %q", a, b)
	}
}

func TestCanonicalize_RoundTrip(t *testing.T) {
	in := map[string]any{"x": []any{1, 2, 3}, "y": "hello"}
	b, err := codec.Canonicalize(in)
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}
	if !codec.VerifyCanonical(b) {
		t.Fatal("VerifyCanonical rejected its own canonical output")
	}

	b2, err := codec.Canonicalize(in)
	if err != nil {
		t.Fatalf("Canonicalize (2nd pass): %v", err)
	}
	if string(b) != string(b2) {
		t.Fatal("re-canonicalizing produced different bytes")
	}
}

func TestVerifyCanonical_RejectsNonCanonicalInput(t *testing.T) {
	cases := []string{
		`{"b":1,"a":2}` + "\n", // unsorted keys
		`{"a":1}`,              // missing trailing newline
		`{"a": 1}` + "\n",      // insignificant whitespace
	}
	for _, c := range cases {
		if codec.VerifyCanonical([]byte(c)) {
			t.Errorf("VerifyCanonical accepted non-canonical input %q", c)
		}
	}
}

func TestDigest_InvariantUnderSourceKeyOrder(t *testing.T) {
	a := map[string]any{"one": 1, "two": 2}
	b := map[string]any{"two": 2, "one": 1}

	da, err := codec.Digest(a)
	if err != nil {
		t.Fatalf("Digest(a): %v", err)
	}
	db, err := codec.Digest(b)
	if err != nil {
		t.Fatalf("Digest(b): %v", err)
	}
	if da != db {
		t.Fatal("digest differs under source key reordering")
	}
}

func TestCanonicalize_RejectsNaNAndInf(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if _, err := codec.Canonicalize(map[string]any{"v": v}); err == nil {
			t.Errorf("expected error canonicalizing %v", v)
		}
	}
}

func TestCanonicalize_NumbersNotScientificNotation(t *testing.T) {
	out, err := codec.Canonicalize(map[string]any{"n": 1000000})
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}
	want := `{"n":1000000}` + "\n"
	if string(out) != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}
