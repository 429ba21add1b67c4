package ports

import (
	"context"
	"neosmart-shades/internal/domain/model"
)

// Announcer delivers discovery notifications to the host.
type Announcer interface {
	OnDeviceDiscovered(ctx context.Context, manifest model.DeviceManifest) error
}

// StatePublisher reports entry sensor changes to the host.
type StatePublisher interface {
	PublishEntryState(ctx context.Context, nativeID string, open bool) error
}

type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// NoopLogger discards everything.
type NoopLogger struct{}

func (NoopLogger) Debug(string, ...any) {}
func (NoopLogger) Info(string, ...any)  {}
func (NoopLogger) Warn(string, ...any)  {}
func (NoopLogger) Error(string, ...any) {}
