package repository

import (
	"context"
	"log/slog"

	"gorm.io/gorm"
)

// AutoMigrate は鍵ペア保存用のスキーマを作成・更新する。
func AutoMigrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(&KeyPairModel{}); err != nil {
		slog.ErrorContext(ctx, "failed to migrate schema",
			"operation", "auto_migrate",
			"table", KeyPairModel{}.TableName(),
			"error", err,
		)
		return err
	}
	return nil
}
