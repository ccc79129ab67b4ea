package repository

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"prime-cipher/internal/domain"
)

const primeSeparator = ", "

// PrimeFileRepository は素数キャッシュをテキストファイルに保存する。
// 形式は ", " 区切りの10進数を1行に並べたもの。
type PrimeFileRepository struct {
	path string
}

// NewPrimeFileRepository は新しいPrimeFileRepositoryを生成する。
func NewPrimeFileRepository(path string) *PrimeFileRepository {
	return &PrimeFileRepository{path: path}
}

// Load は素数キャッシュを読み込む。ファイルが存在しない場合は空ファイルを作成し、空の列を返す。
func (r *PrimeFileRepository) Load(ctx context.Context) (*domain.PrimeList, error) {
	f, err := os.OpenFile(r.path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		slog.ErrorContext(ctx, "failed to open prime cache",
			"operation", "load_primes",
			"path", r.path,
			"error", err,
		)
		return nil, fmt.Errorf("opening prime cache: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("closing prime cache: %w", err)
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("reading prime cache: %w", err)
	}

	values, err := parsePrimes(string(data))
	if err != nil {
		slog.ErrorContext(ctx, "failed to parse prime cache",
			"operation", "load_primes",
			"path", r.path,
			"error", err,
		)
		return nil, err
	}

	list, err := domain.NewPrimeList(values)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedPrimeCache, err)
	}
	return list, nil
}

// Save は素数列でキャッシュファイルを上書きする。
func (r *PrimeFileRepository) Save(ctx context.Context, primes *domain.PrimeList) error {
	if err := os.WriteFile(r.path, []byte(formatPrimes(primes.Values())), 0644); err != nil {
		slog.ErrorContext(ctx, "failed to write prime cache",
			"operation", "save_primes",
			"path", r.path,
			"count", primes.Len(),
			"error", err,
		)
		return fmt.Errorf("writing prime cache: %w", err)
	}
	return nil
}

// parsePrimes はキャッシュの内容を解釈する。1つでも不正なトークンがあればエラー。
func parsePrimes(content string) ([]uint64, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, nil
	}

	tokens := strings.Split(content, primeSeparator)
	values := make([]uint64, len(tokens))
	for i, token := range tokens {
		v, err := strconv.ParseUint(token, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: token %d (%q) is not an integer", domain.ErrMalformedPrimeCache, i, token)
		}
		values[i] = v
	}
	return values, nil
}

func formatPrimes(values []uint64) string {
	tokens := make([]string, len(values))
	for i, v := range values {
		tokens[i] = strconv.FormatUint(v, 10)
	}
	return strings.Join(tokens, primeSeparator)
}
