package infra

import (
	"context"
	"fmt"

	kms "cloud.google.com/go/kms/apiv1"
	kmspb "cloud.google.com/go/kms/apiv1/kmspb"

	"prime-cipher/config"
)

// Sealer は秘密指数を保存前に封印する。aad は封印と開封で一致しなければならない付加データ。
type Sealer interface {
	Seal(ctx context.Context, plaintext, aad []byte) ([]byte, error)
	Unseal(ctx context.Context, ciphertext, aad []byte) ([]byte, error)
	Close() error
}

// NewSealer は設定に応じた Sealer を返す。KMS_KEY_NAME が未設定なら封印しない。
func NewSealer(ctx context.Context, cfg *config.Config) (Sealer, error) {
	if cfg.KMSKeyName == "" {
		return PlaintextSealer{}, nil
	}
	return NewKMSSealer(ctx, cfg.KMSKeyName)
}

// KMSSealer はCloud KMSの対称鍵で封印する。
type KMSSealer struct {
	client  *kms.KeyManagementClient
	keyName string
}

// NewKMSSealer は指定されたキー名でKMSSealerを生成する。
func NewKMSSealer(ctx context.Context, keyName string) (*KMSSealer, error) {
	client, err := kms.NewKeyManagementClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating KMS client: %w", err)
	}
	return &KMSSealer{
		client:  client,
		keyName: keyName,
	}, nil
}

// Seal は平文をCloud KMSで暗号化する。
func (s *KMSSealer) Seal(ctx context.Context, plaintext, aad []byte) ([]byte, error) {
	resp, err := s.client.Encrypt(ctx, &kmspb.EncryptRequest{
		Name:                        s.keyName,
		Plaintext:                   plaintext,
		AdditionalAuthenticatedData: aad,
	})
	if err != nil {
		return nil, fmt.Errorf("sealing with %s: %w", s.keyName, err)
	}
	return resp.Ciphertext, nil
}

// Unseal は暗号文をCloud KMSで復号する。
func (s *KMSSealer) Unseal(ctx context.Context, ciphertext, aad []byte) ([]byte, error) {
	resp, err := s.client.Decrypt(ctx, &kmspb.DecryptRequest{
		Name:                        s.keyName,
		Ciphertext:                  ciphertext,
		AdditionalAuthenticatedData: aad,
	})
	if err != nil {
		return nil, fmt.Errorf("unsealing with %s: %w", s.keyName, err)
	}
	return resp.Plaintext, nil
}

// Close はKMSクライアントを閉じる。
func (s *KMSSealer) Close() error {
	return s.client.Close()
}

// PlaintextSealer は封印を行わない実装。入力のコピーをそのまま返す。
type PlaintextSealer struct{}

func (PlaintextSealer) Seal(ctx context.Context, plaintext, aad []byte) ([]byte, error) {
	return append([]byte(nil), plaintext...), nil
}

func (PlaintextSealer) Unseal(ctx context.Context, ciphertext, aad []byte) ([]byte, error) {
	return append([]byte(nil), ciphertext...), nil
}

func (PlaintextSealer) Close() error { return nil }
