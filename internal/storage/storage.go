package storage

import (
	"context"
	"time"
)

// SnapshotInfo describes one stored backup object.
type SnapshotInfo struct {
	Key          string
	Size         int64
	LastModified *time.Time
}

// Service stores and lists JSON backup snapshots in remote object storage.
type Service interface {
	PutSnapshot(ctx context.Context, bucket, key string, data []byte) (string, error)
	ListSnapshots(ctx context.Context, bucket, prefix string) ([]SnapshotInfo, error)
	DeletePrefix(ctx context.Context, bucket, prefix string) error
}
