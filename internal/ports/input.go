package ports

import (
	"context"
	"neosmart-shades/internal/domain/model"
)

// Shade is the host-facing view of one blind.
type Shade interface {
	NativeID() string
	Name() string
	Settings() []model.Setting
	PutSetting(ctx context.Context, key string, value any) error
	OpenEntry(ctx context.Context)
	CloseEntry(ctx context.Context)
	EntryOpen() bool
}

// ProviderPort is what the host dispatches device requests to.
type ProviderPort interface {
	GetDevice(nativeID string) Shade
	Lookup(nativeID string) (Shade, bool)
	Devices() []Shade
	CreateDeviceSettings() []model.Setting
	CreateDevice(ctx context.Context, settings map[string]any) (string, error)
	ReleaseDevice(ctx context.Context, nativeID string) error
}
