package infra

import (
	"context"
	"log/slog"
	"time"
)

// 監査ログの結果値。
const (
	AuditSuccess = "success"
	AuditFailure = "failure"
)

// WriteAuditLog は鍵操作の監査ログを出力する。
func WriteAuditLog(ctx context.Context, operation, keyID, result string) {
	slog.InfoContext(ctx, "key operation completed",
		"operation", operation,
		"key_id", keyID,
		"result", result,
		"timestamp", time.Now().UTC().Format(time.RFC3339),
	)
}
