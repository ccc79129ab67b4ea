// Package domain はドメインモデルとビジネスルールを定義する。
package domain

import "time"

// Key は公開鍵・秘密鍵の共通の形。指数と法からなる。
type Key struct {
	Exponent uint64
	Modulus  uint64
}

// KeyPair は同じ法を共有する公開鍵と秘密鍵の組。
type KeyPair struct {
	Public  Key
	Private Key
}

// DemoKeyPair は固定のデモ用鍵ペアを返す。
func DemoKeyPair() KeyPair {
	return KeyPair{
		Public:  Key{Exponent: 653585, Modulus: 8737109},
		Private: Key{Exponent: 4645265, Modulus: 8737109},
	}
}

// StoredKeyPair は永続化された鍵ペアを表す（秘密指数は封印済み）。
type StoredKeyPair struct {
	ID                    string
	Public                Key
	SealedPrivateExponent []byte
	PrimeMin              uint64
	PrimeMax              uint64
	CreatedAt             time.Time
}

// KeyMetadata は鍵ペアのメタデータを表す（秘密指数を含まない）。
type KeyMetadata struct {
	ID        string
	Public    Key
	PrimeMin  uint64
	PrimeMax  uint64
	CreatedAt time.Time
}
