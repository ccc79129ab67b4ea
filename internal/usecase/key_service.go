// Package usecase はアプリケーションのユースケースを実装する。
package usecase

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"

	"prime-cipher/internal/domain"
)

const sealedExponentSize = 8 // uint64 のビッグエンディアン表現

// KeyRepository は鍵ペアのデータアクセスのインターフェース。
type KeyRepository interface {
	Create(ctx context.Context, key *domain.StoredKeyPair) error
	FindByID(ctx context.Context, id string) (*domain.StoredKeyPair, error)
	FindAll(ctx context.Context) ([]*domain.StoredKeyPair, error)
}

// Sealer は秘密指数の封印/開封のインターフェース。
type Sealer interface {
	Seal(ctx context.Context, plaintext, aad []byte) ([]byte, error)
	Unseal(ctx context.Context, ciphertext, aad []byte) ([]byte, error)
}

// KeyService は生成済み鍵ペアの保存と取得を提供する。
type KeyService struct {
	repo   KeyRepository
	sealer Sealer
}

// NewKeyService は新しいKeyServiceを生成する。
func NewKeyService(repo KeyRepository, sealer Sealer) *KeyService {
	return &KeyService{
		repo:   repo,
		sealer: sealer,
	}
}

// SaveKeyPair は秘密指数を封印して鍵ペアを保存する。
func (s *KeyService) SaveKeyPair(ctx context.Context, pair *domain.KeyPair, primeMin, primeMax uint64) (*domain.KeyMetadata, error) {
	ctx, span := tracer.Start(ctx, "KeyService.SaveKeyPair")
	defer span.End()

	plain := make([]byte, sealedExponentSize)
	binary.BigEndian.PutUint64(plain, pair.Private.Exponent)

	sealed, err := s.sealer.Seal(ctx, plain, modulusAAD(pair.Public.Modulus))
	if err != nil {
		return nil, fmt.Errorf("sealing private exponent: %w", err)
	}

	key := &domain.StoredKeyPair{
		Public:                pair.Public,
		SealedPrivateExponent: sealed,
		PrimeMin:              primeMin,
		PrimeMax:              primeMax,
	}
	if err := s.repo.Create(ctx, key); err != nil {
		return nil, fmt.Errorf("creating key pair: %w", err)
	}

	return toMetadata(key), nil
}

// GetKeyPair は指定されたIDの鍵ペアを取得し、秘密指数を開封する。
func (s *KeyService) GetKeyPair(ctx context.Context, id string) (*domain.KeyPair, error) {
	ctx, span := tracer.Start(ctx, "KeyService.GetKeyPair")
	defer span.End()

	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidKeyID, id)
	}

	key, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("finding key pair: %w", err)
	}
	if key == nil {
		return nil, domain.ErrKeyNotFound
	}

	plain, err := s.sealer.Unseal(ctx, key.SealedPrivateExponent, modulusAAD(key.Public.Modulus))
	if err != nil {
		return nil, fmt.Errorf("unsealing private exponent: %w", err)
	}
	if len(plain) != sealedExponentSize {
		return nil, fmt.Errorf("unsealed private exponent has %d bytes, want %d", len(plain), sealedExponentSize)
	}

	return &domain.KeyPair{
		Public: key.Public,
		Private: domain.Key{
			Exponent: binary.BigEndian.Uint64(plain),
			Modulus:  key.Public.Modulus,
		},
	}, nil
}

// ListKeys は保存済みの全鍵ペアのメタデータを取得する。
func (s *KeyService) ListKeys(ctx context.Context) ([]*domain.KeyMetadata, error) {
	keys, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("finding key pairs: %w", err)
	}

	metadata := make([]*domain.KeyMetadata, len(keys))
	for i, k := range keys {
		metadata[i] = toMetadata(k)
	}
	return metadata, nil
}

// modulusAAD は封印を法に結び付ける付加データ。
func modulusAAD(modulus uint64) []byte {
	return binary.BigEndian.AppendUint64([]byte("modulus:"), modulus)
}

func toMetadata(k *domain.StoredKeyPair) *domain.KeyMetadata {
	return &domain.KeyMetadata{
		ID:        k.ID,
		Public:    k.Public,
		PrimeMin:  k.PrimeMin,
		PrimeMax:  k.PrimeMax,
		CreatedAt: k.CreatedAt,
	}
}
