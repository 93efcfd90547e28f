package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"productiondb/db"

	"go.uber.org/zap"
)

// backupName returns the snapshot path for dbPath taken at t. The timestamp sorts
// lexically in age order.
func backupName(dbPath string, t time.Time) string {
	return fmt.Sprintf("%s.%s%s", dbPath, t.Format("20060102-150405"), backupFileExt)
}

// backupExisting snapshots dbPath if it exists and keeps the newest max snapshots.
// It returns the snapshot path, or "" when there was nothing to back up.
func backupExisting(ctx context.Context, dbPath string, max int, now time.Time, logger *zap.SugaredLogger) (string, error) {
	info, err := os.Stat(dbPath)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	logger.Infof("existing database file size: %d bytes", info.Size())

	dst := backupName(dbPath, now)
	if err := db.Backup(ctx, dbPath, dst, logger); err != nil {
		return "", err
	}
	logger.Infof("existing database backed up to %s", dst)
	pruneBackups(dbPath, max, logger)
	return dst, nil
}

func pruneBackups(dbPath string, max int, logger *zap.SugaredLogger) {
	backups, err := filepath.Glob(dbPath + ".*" + backupFileExt)
	if err != nil || len(backups) <= max {
		return
	}
	sort.Strings(backups)
	for _, old := range backups[:len(backups)-max] {
		if err := os.Remove(old); err != nil {
			logger.Warnf("failed to remove old backup %s: %v", old, err)
			continue
		}
		logger.Infof("removed old backup: %s", old)
	}
}
