package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"math/bits"
	"math/rand/v2"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"prime-cipher/internal/domain"
)

var tracer = otel.Tracer("prime-cipher/internal/usecase")

// Random は鍵生成で使う乱数源。暗号学的な安全性は持たない。
type Random interface {
	IntN(n int) int
	Uint64N(n uint64) uint64
}

type globalRandom struct{}

func (globalRandom) IntN(n int) int          { return rand.IntN(n) }
func (globalRandom) Uint64N(n uint64) uint64 { return rand.Uint64N(n) }

// GlobalRandom はプロセス共有の math/rand/v2 乱数源を返す。
func GlobalRandom() Random {
	return globalRandom{}
}

// KeyGenerator は素数列から鍵ペアを生成する。
type KeyGenerator struct {
	primes *domain.PrimeList
	rng    Random
}

// NewKeyGenerator は新しいKeyGeneratorを生成する。primes は生成中に拡張される。
func NewKeyGenerator(primes *domain.PrimeList, rng Random) *KeyGenerator {
	return &KeyGenerator{
		primes: primes,
		rng:    rng,
	}
}

// PickTwoPrimes は値が [min, max) に含まれる素数から異なる位置の2つを一様に選ぶ。
func (g *KeyGenerator) PickTwoPrimes(min, max uint64) (uint64, uint64, error) {
	if min >= max {
		return 0, 0, fmt.Errorf("%w: minimum %d is not below maximum %d", domain.ErrInvalidPrimeRange, min, max)
	}
	if err := g.primes.Extend(max); err != nil {
		return 0, 0, fmt.Errorf("extending primes: %w", err)
	}

	lo, hi := g.primes.IndexRange(min, max)
	if hi-lo < 2 {
		return 0, 0, fmt.Errorf("%w: fewer than 2 primes in [%d, %d)", domain.ErrInvalidPrimeRange, min, max)
	}

	a := lo + g.rng.IntN(hi-lo)
	b := lo + g.rng.IntN(hi-lo)
	for a == b {
		b = lo + g.rng.IntN(hi-lo)
	}
	return g.primes.At(a), g.primes.At(b), nil
}

// SamplePublicExponent は [2, n) から既知の素数で n と互いに素と判定される値を選ぶ。
func (g *KeyGenerator) SamplePublicExponent(n uint64) uint64 {
	for {
		candidate := 2 + g.rng.Uint64N(n-2)
		if domain.AreCoprime(candidate, n, g.primes) {
			return candidate
		}
	}
}

// GenerateKeys は [primeMin, primeMax) の素数から鍵ペアを生成する。
//
// 法 n = p*q は uint64 に収まる必要がある（primeMax の選択は呼び出し側の責任）。
// 公開指数の選び直しに回数上限はなく、最悪の場合に終了する保証はない。
// ctx はトレース用であり、キャンセルは参照しない。
func (g *KeyGenerator) GenerateKeys(ctx context.Context, primeMin, primeMax uint64) (*domain.KeyPair, error) {
	ctx, span := tracer.Start(ctx, "KeyGenerator.GenerateKeys")
	defer span.End()

	p, q, err := g.PickTwoPrimes(primeMin, primeMax)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	hi, n := bits.Mul64(p, q)
	if hi != 0 {
		err := fmt.Errorf("%w: modulus %d * %d overflows 64 bits", domain.ErrInvalidPrimeRange, p, q)
		span.RecordError(err)
		return nil, err
	}
	totient := (p - 1) * (q - 1)

	attempts := 0
	var public, private uint64
	for {
		attempts++
		public = g.SamplePublicExponent(n)
		var ok bool
		if private, ok = invertExponent(public, totient); ok {
			break
		}
	}

	span.SetAttributes(
		attribute.Int64("key.modulus", int64(n)),
		attribute.Int("key.attempts", attempts),
	)
	slog.DebugContext(ctx, "generated key pair",
		"operation", "generate_keys",
		"modulus", n,
		"attempts", attempts,
	)

	return &domain.KeyPair{
		Public:  domain.Key{Exponent: public, Modulus: n},
		Private: domain.Key{Exponent: private, Modulus: n},
	}, nil
}

// invertExponent は (totient*x + 1) が public で割り切れ、商が public と異なる最小の x ∈ [2, totient) に対する商を返す。
//
// 解 x は法 public で一意に定まるため、拡張ユークリッド法で最小解を求めてから public 刻みで進める。
func invertExponent(public, totient uint64) (uint64, bool) {
	if totient < 3 || public < 2 {
		return 0, false
	}
	e := new(big.Int).SetUint64(public)
	phi := new(big.Int).SetUint64(totient)

	d := new(big.Int).ModInverse(e, phi)
	if d == nil {
		return 0, false
	}

	// e*d = phi*x + 1
	x := new(big.Int).Mul(e, d)
	x.Sub(x, big.NewInt(1))
	x.Quo(x, phi)

	two := big.NewInt(2)
	if x.Cmp(two) < 0 {
		// x を e の倍数だけ進めて 2 以上にする
		steps := new(big.Int).Sub(two, x)
		steps.Add(steps, e)
		steps.Sub(steps, big.NewInt(1))
		steps.Quo(steps, e)
		x.Add(x, steps.Mul(steps, e))
	}

	quotient := new(big.Int)
	for x.Cmp(phi) < 0 {
		quotient.Mul(phi, x)
		quotient.Add(quotient, big.NewInt(1))
		quotient.Quo(quotient, e)
		if quotient.Cmp(e) != 0 {
			if !quotient.IsUint64() {
				return 0, false
			}
			return quotient.Uint64(), true
		}
		x.Add(x, e)
	}
	return 0, false
}
