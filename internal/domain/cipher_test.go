package domain

import (
	"errors"
	"math/big"
	"testing"
)

func TestEncodeChar_DemoKeyPair(t *testing.T) {
	pair := DemoKeyPair()

	encoded := EncodeChar('A', pair.Public)
	decoded, err := DecodeChar(encoded, pair.Private)
	if err != nil {
		t.Fatalf("DecodeChar failed: %v", err)
	}
	if decoded != 'A' {
		t.Errorf("want %q (65), got %q (%d)", 'A', decoded, decoded)
	}
}

func TestEncodeChar_DemoKeyPair_Symmetric(t *testing.T) {
	pair := DemoKeyPair()

	for _, r := range []rune{'A', 'z', 'é', 'ア', '😄', '💩'} {
		encoded := EncodeChar(r, pair.Private)
		decoded, err := DecodeChar(encoded, pair.Public)
		if err != nil {
			t.Fatalf("DecodeChar(%q) failed: %v", r, err)
		}
		if decoded != r {
			t.Errorf("want %q, got %q", r, decoded)
		}
	}
}

func TestEncodeString_RoundTrip(t *testing.T) {
	pair := DemoKeyPair()
	text := "💩 poop cat 😹"

	encoded := EncodeString(text, pair.Private)
	if len(encoded) != len([]rune(text)) {
		t.Fatalf("want %d elements, got %d", len([]rune(text)), len(encoded))
	}

	decoded, err := DecodeString(encoded, pair.Public)
	if err != nil {
		t.Fatalf("DecodeString failed: %v", err)
	}
	if decoded != text {
		t.Errorf("want %q, got %q", text, decoded)
	}
}

func TestEncodeString_NoPositionalChaining(t *testing.T) {
	pair := DemoKeyPair()

	// "abca" の 0 番目と 3 番目は同じ暗号文になる
	encoded := EncodeString("abca", pair.Public)
	if encoded[0].Cmp(encoded[3]) != 0 {
		t.Errorf("want equal ciphertext for equal characters, got %s and %s", encoded[0], encoded[3])
	}
	if encoded[0].Cmp(encoded[1]) == 0 {
		t.Errorf("want different ciphertext for 'a' and 'b', got %s for both", encoded[0])
	}
	if encoded[0].Cmp(EncodeChar('a', pair.Public)) != 0 {
		t.Error("want string encoding to match per-character encoding")
	}
}

func TestEncodeString_Empty(t *testing.T) {
	pair := DemoKeyPair()

	encoded := EncodeString("", pair.Public)
	if len(encoded) != 0 {
		t.Errorf("want no elements, got %d", len(encoded))
	}
	decoded, err := DecodeString(encoded, pair.Private)
	if err != nil {
		t.Fatalf("DecodeString failed: %v", err)
	}
	if decoded != "" {
		t.Errorf("want empty string, got %q", decoded)
	}
}

func TestDecodeChar_Overflow(t *testing.T) {
	// 指数1なら復号結果は c mod n そのもの
	key := Key{Exponent: 1, Modulus: 1 << 40}

	_, err := DecodeChar(big.NewInt(1<<33), key)
	if !errors.Is(err, ErrDecodeOverflow) {
		t.Errorf("want ErrDecodeOverflow, got %v", err)
	}
}

func TestDecodeChar_InvalidCodePoint(t *testing.T) {
	key := Key{Exponent: 1, Modulus: 1 << 40}

	cases := []int64{0xD800, 0xDFFF, 0x110000}
	for _, c := range cases {
		_, err := DecodeChar(big.NewInt(c), key)
		if !errors.Is(err, ErrInvalidCodePoint) {
			t.Errorf("%#x: want ErrInvalidCodePoint, got %v", c, err)
		}
	}
}

func TestDecodeString_ReportsPosition(t *testing.T) {
	key := Key{Exponent: 1, Modulus: 1 << 40}

	_, err := DecodeString([]*big.Int{big.NewInt('o'), big.NewInt('k'), big.NewInt(0xD800)}, key)
	if !errors.Is(err, ErrInvalidCodePoint) {
		t.Errorf("want ErrInvalidCodePoint, got %v", err)
	}
}
