package fsutil

import (
	"context"
	"fmt"
)

// BackupSuffix is appended to a file name to form its backup path.
const BackupSuffix = ".bak"

// BackupPath returns the sidecar backup path for path.
func BackupPath(path string) string {
	return path + BackupSuffix
}

// Backup copies path to its sidecar backup, replacing an older backup.
// It returns the backup path, or "" when path does not exist.
func Backup(ctx context.Context, path string) (string, error) {
	content, snap, err := ReadFile(ctx, path)
	if err != nil {
		if IsNotFound(err) {
			return "", nil
		}
		return "", fmt.Errorf("read original for backup: %w", err)
	}

	backupPath := BackupPath(path)
	if err := WriteAtomic(ctx, backupPath, content, snap.Mode.Perm()); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}
	return backupPath, nil
}
