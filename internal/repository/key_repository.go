// Package repository はデータアクセス層の実装を提供する。
package repository

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"prime-cipher/internal/domain"
)

// KeyPairModel はgorm用のモデル定義。
type KeyPairModel struct {
	ID                    string    `gorm:"type:char(36);primaryKey"`
	PublicExponent        uint64    `gorm:"not null"`
	Modulus               uint64    `gorm:"not null;index:idx_modulus"`
	SealedPrivateExponent []byte    `gorm:"type:blob;not null"`
	PrimeMin              uint64    `gorm:"not null"`
	PrimeMax              uint64    `gorm:"not null"`
	CreatedAt             time.Time `gorm:"not null;autoCreateTime"`
}

// TableName はテーブル名を返す。
func (KeyPairModel) TableName() string {
	return "key_pairs"
}

// BeforeCreate はレコード作成前にUUIDを生成する。
func (m *KeyPairModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

// toDomain はモデルをドメインエンティティに変換する。
func (m *KeyPairModel) toDomain() *domain.StoredKeyPair {
	return &domain.StoredKeyPair{
		ID:                    m.ID,
		Public:                domain.Key{Exponent: m.PublicExponent, Modulus: m.Modulus},
		SealedPrivateExponent: m.SealedPrivateExponent,
		PrimeMin:              m.PrimeMin,
		PrimeMax:              m.PrimeMax,
		CreatedAt:             m.CreatedAt,
	}
}

// KeyRepository は鍵ペアのデータアクセスを提供する。
type KeyRepository struct {
	db *gorm.DB
}

// NewKeyRepository は新しいKeyRepositoryを生成する。
func NewKeyRepository(db *gorm.DB) *KeyRepository {
	return &KeyRepository{db: db}
}

// Create は新しい鍵ペアを保存する。
func (r *KeyRepository) Create(ctx context.Context, key *domain.StoredKeyPair) error {
	model := &KeyPairModel{
		ID:                    key.ID,
		PublicExponent:        key.Public.Exponent,
		Modulus:               key.Public.Modulus,
		SealedPrivateExponent: key.SealedPrivateExponent,
		PrimeMin:              key.PrimeMin,
		PrimeMax:              key.PrimeMax,
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		slog.ErrorContext(ctx, "failed to create key pair",
			"operation", "create",
			"modulus", key.Public.Modulus,
			"error", err,
		)
		return err
	}
	// gormで設定された値をドメインエンティティに反映
	key.ID = model.ID
	key.CreatedAt = model.CreatedAt
	return nil
}

// FindByID は指定されたIDの鍵ペアを取得する。存在しない場合は nil を返す。
func (r *KeyRepository) FindByID(ctx context.Context, id string) (*domain.StoredKeyPair, error) {
	var model KeyPairModel
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		slog.ErrorContext(ctx, "failed to find key pair",
			"operation", "find_by_id",
			"id", id,
			"error", err,
		)
		return nil, err
	}
	return model.toDomain(), nil
}

// FindAll は全鍵ペアを作成順に取得する。
func (r *KeyRepository) FindAll(ctx context.Context) ([]*domain.StoredKeyPair, error) {
	var models []KeyPairModel
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Order("id ASC").
		Find(&models).Error
	if err != nil {
		slog.ErrorContext(ctx, "failed to find all key pairs",
			"operation", "find_all",
			"error", err,
		)
		return nil, err
	}

	keys := make([]*domain.StoredKeyPair, len(models))
	for i, m := range models {
		keys[i] = m.toDomain()
	}
	return keys, nil
}
