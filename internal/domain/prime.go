package domain

import (
	"fmt"
	"math"
	"sort"
)

// maxSearchK は 6k+1 が符号付き64ビット整数に収まる最大の k。
const maxSearchK = (math.MaxInt64 - 1) / 6

// PrimeList は昇順・重複なしの素数列。末尾への追加のみで成長する。
// 生成手順は上限までのすべての素数を列挙するが、キャッシュから読み込んだ列には欠けがあってもよい。
type PrimeList struct {
	values []uint64
}

// NewPrimeList は既存の値から素数列を生成する。0、昇順でない値、重複はエラーとする。
func NewPrimeList(values []uint64) (*PrimeList, error) {
	for i, v := range values {
		if v == 0 {
			return nil, fmt.Errorf("element %d is zero", i)
		}
		if i > 0 && v <= values[i-1] {
			return nil, fmt.Errorf("element %d (%d) is not greater than %d", i, v, values[i-1])
		}
	}
	copied := make([]uint64, len(values))
	copy(copied, values)
	return &PrimeList{values: copied}, nil
}

// Values は素数列のコピーを返す。
func (l *PrimeList) Values() []uint64 {
	out := make([]uint64, len(l.values))
	copy(out, l.values)
	return out
}

// Len は素数列の長さを返す。
func (l *PrimeList) Len() int {
	return len(l.values)
}

// At は i 番目の素数を返す。
func (l *PrimeList) At(i int) uint64 {
	return l.values[i]
}

// Last は最大の素数を返す。空の場合は0。
func (l *PrimeList) Last() uint64 {
	if len(l.values) == 0 {
		return 0
	}
	return l.values[len(l.values)-1]
}

// Next は現在の最大値の次の素数を計算する（列は変更しない）。
//
// 3より大きい素数はすべて 6k-1 か 6k+1 の形をしている。最後の素数に対応する k から走査し、
// 各 k について 6k-1, 6k+1 の順に、既知のすべての素数で割り切れない最初の候補を返す。
func (l *PrimeList) Next() (uint64, error) {
	switch len(l.values) {
	case 0:
		return 2, nil
	case 1:
		return 3, nil
	case 2:
		return 5, nil
	}

	last := l.Last()
	var k uint64
	if (last-1)%6 == 0 {
		k = (last - 1) / 6
	} else {
		k = (last + 1) / 6
	}
	if k == 0 {
		k = 1
	}

	for ; k <= maxSearchK; k++ {
		a := 6*k + 1
		b := 6*k - 1
		aAlive, bAlive := true, true
		for _, p := range l.values {
			if aAlive && a%p == 0 {
				aAlive = false
			}
			if bAlive && b%p == 0 {
				bAlive = false
			}
			if !aAlive && !bAlive {
				break
			}
		}
		if bAlive {
			return b, nil
		}
		if aAlive {
			return a, nil
		}
	}
	return 0, fmt.Errorf("%w: no prime after %d", ErrPrimeSearchExhausted, last)
}

// Extend は最大の素数が max 以上になるまで素数を追加する。
// 要素が3個未満の場合は [2, 3, 5] に初期化してから拡張する。
func (l *PrimeList) Extend(max uint64) error {
	if len(l.values) < 3 {
		l.values = append(l.values[:0], 2, 3, 5)
	}
	for l.Last() < max {
		next, err := l.Next()
		if err != nil {
			return err
		}
		l.values = append(l.values, next)
	}
	return nil
}

// IndexRange は値が [min, max) に含まれる素数の添字範囲 [lo, hi) を返す。
func (l *PrimeList) IndexRange(min, max uint64) (lo, hi int) {
	lo = sort.Search(len(l.values), func(i int) bool { return l.values[i] >= min })
	hi = sort.Search(len(l.values), func(i int) bool { return l.values[i] >= max })
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

// AreCoprime は a と b が既知の素数を共通因数に持たないかを判定する。
//
// 近似判定であり、primes に含まれない共通因数は検出できない。素数が a と b の両方を
// 超えた時点で互いに素とみなす。
func AreCoprime(a, b uint64, primes *PrimeList) bool {
	for _, p := range primes.values {
		if a%p == 0 && b%p == 0 {
			return false
		}
		if p > a && p > b {
			break
		}
	}
	return true
}
