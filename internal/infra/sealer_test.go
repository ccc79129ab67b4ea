package infra

import (
	"bytes"
	"context"
	"testing"

	"prime-cipher/config"
)

func TestNewSealer_WithoutKeyName(t *testing.T) {
	sealer, err := NewSealer(context.Background(), &config.Config{})
	if err != nil {
		t.Fatalf("NewSealer failed: %v", err)
	}
	defer sealer.Close()

	if _, ok := sealer.(PlaintextSealer); !ok {
		t.Errorf("expected PlaintextSealer, got %T", sealer)
	}
}

func TestPlaintextSealer_RoundTrip(t *testing.T) {
	ctx := context.Background()
	plain := []byte{0, 0, 0, 0, 0, 0x46, 0xe1, 0x91}
	aad := []byte("modulus")

	sealed, err := PlaintextSealer{}.Seal(ctx, plain, aad)
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}
	// 入力と別の領域を返す
	sealed[0] = 0xff
	if plain[0] != 0 {
		t.Error("expected Seal to copy its input")
	}
	sealed[0] = 0

	opened, err := PlaintextSealer{}.Unseal(ctx, sealed, aad)
	if err != nil {
		t.Fatalf("Unseal failed: %v", err)
	}
	if !bytes.Equal(opened, plain) {
		t.Errorf("expected %x, got %x", plain, opened)
	}
}
