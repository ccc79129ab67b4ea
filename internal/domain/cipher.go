package domain

import (
	"fmt"
	"math"
	"math/big"
	"strings"
	"unicode/utf8"
)

// EncodeChar はコードポイントを key で暗号化する（r^e mod n）。
func EncodeChar(r rune, key Key) *big.Int {
	code := new(big.Int).SetUint64(uint64(uint32(r)))
	return code.Exp(code, exponentOf(key), modulusOf(key))
}

// DecodeChar は暗号文を key で復号してコードポイントに戻す。
func DecodeChar(c *big.Int, key Key) (rune, error) {
	decoded := new(big.Int).Exp(c, exponentOf(key), modulusOf(key))
	if !decoded.IsUint64() || decoded.Uint64() > math.MaxUint32 {
		return 0, fmt.Errorf("%w: %s", ErrDecodeOverflow, decoded)
	}
	r := rune(decoded.Uint64())
	if !utf8.ValidRune(r) {
		return 0, fmt.Errorf("%w: %#x", ErrInvalidCodePoint, decoded.Uint64())
	}
	return r, nil
}

// EncodeString は文字列をコードポイントごとに独立して暗号化する。
// 同じ文字は位置によらず同じ暗号文になる。
func EncodeString(text string, key Key) []*big.Int {
	out := make([]*big.Int, 0, utf8.RuneCountInString(text))
	for _, r := range text {
		out = append(out, EncodeChar(r, key))
	}
	return out
}

// DecodeString は暗号文の列を順に復号して文字列を組み立てる。
func DecodeString(cipher []*big.Int, key Key) (string, error) {
	var sb strings.Builder
	for i, c := range cipher {
		r, err := DecodeChar(c, key)
		if err != nil {
			return "", fmt.Errorf("decoding position %d: %w", i, err)
		}
		sb.WriteRune(r)
	}
	return sb.String(), nil
}

func exponentOf(key Key) *big.Int {
	return new(big.Int).SetUint64(key.Exponent)
}

func modulusOf(key Key) *big.Int {
	return new(big.Int).SetUint64(key.Modulus)
}
