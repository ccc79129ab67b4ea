package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"strings"

	"prime-cipher/internal/domain"
)

const (
	outputText = "text"
	outputJSON = "json"
)

const (
	demoChar   = '😄'
	demoString = "💩 poop cat 😹"
)

type keyView struct {
	Exponent uint64 `json:"exponent"`
	Modulus  uint64 `json:"modulus"`
}

type demoReport struct {
	Public     keyView    `json:"public"`
	Private    keyView    `json:"private"`
	Encoded    *big.Int   `json:"encoded"`
	Decoded    string     `json:"decoded"`
	EncodedBig []*big.Int `json:"encoded_big"`
	DecodedBig string     `json:"decoded_big"`
}

// buildDemo は1文字を公開鍵で、文字列を秘密鍵で暗号化し、それぞれ対になる鍵で復号する。
func buildDemo(pair domain.KeyPair) (*demoReport, error) {
	encoded := domain.EncodeChar(demoChar, pair.Public)
	decoded, err := domain.DecodeChar(encoded, pair.Private)
	if err != nil {
		return nil, fmt.Errorf("decoding demo character: %w", err)
	}

	encodedBig := domain.EncodeString(demoString, pair.Private)
	decodedBig, err := domain.DecodeString(encodedBig, pair.Public)
	if err != nil {
		return nil, fmt.Errorf("decoding demo string: %w", err)
	}

	return &demoReport{
		Public:     toKeyView(pair.Public),
		Private:    toKeyView(pair.Private),
		Encoded:    encoded,
		Decoded:    string(decoded),
		EncodedBig: encodedBig,
		DecodedBig: decodedBig,
	}, nil
}

// printDemo はデモの結果を format で w に書き出す。
func printDemo(w io.Writer, pair domain.KeyPair, format string) error {
	report, err := buildDemo(pair)
	if err != nil {
		return err
	}

	if format == outputJSON {
		return writeJSON(w, report)
	}

	fmt.Fprintln(w, formatKeyPair(pair))
	fmt.Fprintf(w, "Encoded: %x\n", report.Encoded)
	fmt.Fprintf(w, "Decoded: %s\n", report.Decoded)
	fmt.Fprintf(w, "Encoded big: %s\n", formatCiphertext(report.EncodedBig))
	fmt.Fprintf(w, "Decoded big: %s\n", report.DecodedBig)
	return nil
}

func formatKeyPair(pair domain.KeyPair) string {
	return fmt.Sprintf("keys = {'public': (%d,%d), 'private': (%d,%d)}",
		pair.Public.Exponent, pair.Public.Modulus,
		pair.Private.Exponent, pair.Private.Modulus)
}

func formatCiphertext(values []*big.Int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = v.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func toKeyView(k domain.Key) keyView {
	return keyView{Exponent: k.Exponent, Modulus: k.Modulus}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	return nil
}
