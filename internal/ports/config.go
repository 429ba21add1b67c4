package ports

import (
	"context"
	"neosmart-shades/internal/domain/model"
)

// Storage is the string-keyed settings store of a single device.
type Storage interface {
	GetItem(key string) (string, bool)
	SetItem(ctx context.Context, key, value string) error
}

// DeviceStore is the host's persisted view of every device it knows.
type DeviceStore interface {
	NativeIDs(ctx context.Context) ([]string, error)
	Storage(nativeID string) Storage
	Manifest(nativeID string) (model.DeviceManifest, bool)
	SaveManifest(ctx context.Context, manifest model.DeviceManifest) error
}
