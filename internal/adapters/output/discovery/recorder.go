package discovery

import (
	"context"
	"neosmart-shades/internal/domain/model"
	"neosmart-shades/internal/ports"
	"sync"
)

// Recorder is the announcer used when no broker is configured. It keeps
// the latest manifest and entry state per device and logs each change.
type Recorder struct {
	logger ports.Logger

	mu        sync.RWMutex
	manifests map[string]model.DeviceManifest
	states    map[string]bool
}

func NewRecorder(logger ports.Logger) *Recorder {
	if logger == nil {
		logger = ports.NoopLogger{}
	}
	return &Recorder{
		logger:    logger,
		manifests: make(map[string]model.DeviceManifest),
		states:    make(map[string]bool),
	}
}

func (r *Recorder) OnDeviceDiscovered(ctx context.Context, manifest model.DeviceManifest) error {
	r.mu.Lock()
	r.manifests[manifest.NativeID] = manifest
	r.mu.Unlock()

	r.logger.Info("device discovered",
		"native_id", manifest.NativeID,
		"name", manifest.Name,
		"interfaces", manifest.Interfaces,
	)
	return nil
}

func (r *Recorder) PublishEntryState(ctx context.Context, nativeID string, open bool) error {
	r.mu.Lock()
	r.states[nativeID] = open
	r.mu.Unlock()

	r.logger.Debug("entry state", "native_id", nativeID, "open", open)
	return nil
}

func (r *Recorder) Manifest(nativeID string) (model.DeviceManifest, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.manifests[nativeID]
	return m, ok
}

func (r *Recorder) EntryState(nativeID string) (open bool, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	open, ok = r.states[nativeID]
	return open, ok
}
