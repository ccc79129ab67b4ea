package domain

import "errors"

var (
	// ErrMalformedPrimeCache は素数キャッシュの内容が解釈できない場合のエラー。
	ErrMalformedPrimeCache = errors.New("malformed prime cache")

	// ErrInvalidPrimeRange は素数の探索範囲が不正、または候補が2個未満の場合のエラー。
	ErrInvalidPrimeRange = errors.New("invalid prime range")

	// ErrDecodeOverflow は復号結果が32ビットに収まらない場合のエラー。
	ErrDecodeOverflow = errors.New("decoded value does not fit in 32 bits")

	// ErrInvalidCodePoint は復号結果が Unicode スカラー値でない場合のエラー。
	ErrInvalidCodePoint = errors.New("decoded value is not a valid unicode code point")

	// ErrPrimeSearchExhausted は 6k±1 探索が上限に達しても次の素数が見つからない場合のエラー。
	ErrPrimeSearchExhausted = errors.New("prime search exhausted")

	// ErrKeyNotFound は指定されたIDの鍵ペアが存在しない場合のエラー。
	ErrKeyNotFound = errors.New("key pair not found")

	// ErrInvalidKeyID は鍵ペアIDの形式が不正な場合のエラー。
	ErrInvalidKeyID = errors.New("invalid key pair ID")
)
