package db

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Backup writes a consistent snapshot of the database at src to dst using VACUUM INTO,
// so it is safe while other handles have the file open. dst must not exist yet.
func Backup(ctx context.Context, src, dst string, logger *zap.SugaredLogger) error {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	conn, err := OpenExistingSQLite(src, logger)
	if err != nil {
		return fmt.Errorf("backup %s: %w", src, err)
	}
	defer closeDB(conn, logger)

	if err := conn.WithContext(ctx).Exec("VACUUM INTO ?", dst).Error; err != nil {
		return fmt.Errorf("backup %s to %s: %w", src, dst, err)
	}
	logger.Debugw("database snapshot written", "src", src, "dst", dst)
	return nil
}
