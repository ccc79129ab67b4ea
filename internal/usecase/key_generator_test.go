package usecase

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"

	"prime-cipher/internal/domain"
)

func newTestGenerator(t *testing.T, seed uint64) (*KeyGenerator, *domain.PrimeList) {
	t.Helper()
	primes, err := domain.NewPrimeList(nil)
	if err != nil {
		t.Fatalf("NewPrimeList failed: %v", err)
	}
	return NewKeyGenerator(primes, rand.New(rand.NewPCG(seed, seed+1))), primes
}

// bruteForceInverse は x を 2 から順に試す素朴な探索（比較用）。
func bruteForceInverse(public, totient uint64) (uint64, bool) {
	for x := uint64(2); x < totient; x++ {
		v := totient*x + 1
		if v%public == 0 && v/public != public {
			return v / public, true
		}
	}
	return 0, false
}

func TestKeyGenerator_PickTwoPrimes_Range(t *testing.T) {
	g, primes := newTestGenerator(t, 1)

	for i := 0; i < 200; i++ {
		p, q, err := g.PickTwoPrimes(10, 1000)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p == q {
			t.Fatalf("want distinct primes, got %d twice", p)
		}
		for _, v := range []uint64{p, q} {
			if v < 10 || v >= 1009 {
				t.Errorf("want prime in [10, 1009), got %d", v)
			}
		}
	}
	if primes.Last() < 1000 {
		t.Errorf("want primes extended to 1000, got last %d", primes.Last())
	}
}

func TestKeyGenerator_PickTwoPrimes_MinNotBelowMax(t *testing.T) {
	g, _ := newTestGenerator(t, 1)

	_, _, err := g.PickTwoPrimes(100, 100)
	if !errors.Is(err, domain.ErrInvalidPrimeRange) {
		t.Errorf("want ErrInvalidPrimeRange, got %v", err)
	}
}

func TestKeyGenerator_PickTwoPrimes_TooNarrow(t *testing.T) {
	g, _ := newTestGenerator(t, 1)

	// [14, 17) に素数はない
	_, _, err := g.PickTwoPrimes(14, 17)
	if !errors.Is(err, domain.ErrInvalidPrimeRange) {
		t.Errorf("want ErrInvalidPrimeRange, got %v", err)
	}

	// [13, 17) には 13 しかない
	_, _, err = g.PickTwoPrimes(13, 17)
	if !errors.Is(err, domain.ErrInvalidPrimeRange) {
		t.Errorf("want ErrInvalidPrimeRange, got %v", err)
	}
}

func TestKeyGenerator_SamplePublicExponent(t *testing.T) {
	g, primes := newTestGenerator(t, 7)
	if err := primes.Extend(200); err != nil {
		t.Fatalf("Extend failed: %v", err)
	}
	const n = 101 * 103

	for i := 0; i < 500; i++ {
		e := g.SamplePublicExponent(n)
		if e < 2 || e >= n {
			t.Fatalf("want exponent in [2, %d), got %d", n, e)
		}
		if e%101 == 0 || e%103 == 0 {
			t.Fatalf("want exponent coprime with %d, got %d", n, e)
		}
	}
}

func TestInvertExponent_MatchesBruteForce(t *testing.T) {
	totients := []uint64{24, 40, 60, 96, 120, 280, 1008}
	for _, totient := range totients {
		for public := uint64(2); public < totient+20; public++ {
			want, wantOK := bruteForceInverse(public, totient)
			got, gotOK := invertExponent(public, totient)
			if got != want || gotOK != wantOK {
				t.Errorf("invertExponent(%d, %d): want (%d, %v), got (%d, %v)", public, totient, want, wantOK, got, gotOK)
			}
		}
	}
}

func TestInvertExponent_SkipsSelfInverse(t *testing.T) {
	// 5*5 = 25 = 24 + 1 なので 5 は自己逆元。次の解 29 を返す
	got, ok := invertExponent(5, 24)
	if !ok {
		t.Fatal("want inverse, got not found")
	}
	if got != 29 {
		t.Errorf("want 29, got %d", got)
	}
}

func TestInvertExponent_NotFound(t *testing.T) {
	if _, ok := invertExponent(6, 40); ok {
		t.Error("want not found for exponent sharing a factor with the totient")
	}
}

func TestKeyGenerator_GenerateKeys_Invariants(t *testing.T) {
	g, primes := newTestGenerator(t, 42)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		pair, err := g.GenerateKeys(ctx, 1000, 2000)
		if err != nil {
			t.Fatalf("GenerateKeys failed: %v", err)
		}
		if pair.Public.Modulus != pair.Private.Modulus {
			t.Fatalf("want shared modulus, got %d and %d", pair.Public.Modulus, pair.Private.Modulus)
		}

		n := pair.Public.Modulus
		var p, q uint64
		for _, v := range primes.Values() {
			if n%v == 0 {
				p, q = v, n/v
				break
			}
		}
		if p < 1000 || p >= 2000 || q < 1000 || q >= 2000 || p == q {
			t.Fatalf("want two distinct primes in [1000, 2000), got %d and %d", p, q)
		}

		totient := (p - 1) * (q - 1)
		if (pair.Public.Exponent*pair.Private.Exponent)%totient != 1 {
			t.Errorf("want (e*d) mod totient == 1, got e=%d d=%d totient=%d", pair.Public.Exponent, pair.Private.Exponent, totient)
		}

		for _, r := range []rune{'A', 'é', 'ア', '😄'} {
			decoded, err := domain.DecodeChar(domain.EncodeChar(r, pair.Public), pair.Private)
			if err != nil || decoded != r {
				t.Errorf("public->private: want %q, got %q (err %v)", r, decoded, err)
			}
			decoded, err = domain.DecodeChar(domain.EncodeChar(r, pair.Private), pair.Public)
			if err != nil || decoded != r {
				t.Errorf("private->public: want %q, got %q (err %v)", r, decoded, err)
			}
		}
	}
}

func TestKeyGenerator_GenerateKeys_InvalidRange(t *testing.T) {
	g, _ := newTestGenerator(t, 1)

	_, err := g.GenerateKeys(context.Background(), 20000, 10000)
	if !errors.Is(err, domain.ErrInvalidPrimeRange) {
		t.Errorf("want ErrInvalidPrimeRange, got %v", err)
	}
}
