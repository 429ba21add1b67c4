package shade

import (
	"context"
	"fmt"
	"neosmart-shades/internal/domain/model"
	"neosmart-shades/internal/ports"
	"sync"
	"time"
)

// Options carries the collaborators a Device needs from its provider.
type Options struct {
	Name      string
	Storage   ports.Storage
	Publisher ports.StatePublisher
	Scheduler ports.Scheduler
	Logger    ports.Logger

	// Debounce is how long settings must stay untouched before
	// OnSettingsApplied fires.
	Debounce          time.Duration
	OnSettingsApplied func(nativeID string)
}

// Device is one simulated blind. The open flag is never sent to hardware.
type Device struct {
	nativeID  string
	name      string
	storage   ports.Storage
	publisher ports.StatePublisher
	scheduler ports.Scheduler
	logger    ports.Logger
	debounce  time.Duration
	onApplied func(string)

	mu        sync.Mutex
	entryOpen bool
	timeout   ports.Task
}

func New(nativeID string, opts Options) *Device {
	logger := opts.Logger
	if logger == nil {
		logger = ports.NoopLogger{}
	}
	return &Device{
		nativeID:  nativeID,
		name:      opts.Name,
		storage:   opts.Storage,
		publisher: opts.Publisher,
		scheduler: opts.Scheduler,
		logger:    logger,
		debounce:  opts.Debounce,
		onApplied: opts.OnSettingsApplied,
	}
}

func (d *Device) NativeID() string { return d.nativeID }

// Name is the provided name, falling back to the shade name setting and
// finally the native id.
func (d *Device) Name() string {
	if d.name != "" {
		return d.name
	}
	if v, ok := d.storage.GetItem(KeyShadeName); ok && v != "" {
		return v
	}
	return d.nativeID
}

func (d *Device) Settings() []model.Setting {
	settings := Fields()
	for i := range settings {
		if v, ok := d.storage.GetItem(settings[i].Key); ok {
			value := v
			settings[i].Value = &value
		}
	}
	return settings
}

// PutSetting stores FormatValue(value) under key. Any pending debounce is
// replaced.
func (d *Device) PutSetting(ctx context.Context, key string, value any) error {
	if err := d.storage.SetItem(ctx, key, FormatValue(value)); err != nil {
		return fmt.Errorf("storing setting %s: %w", key, err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timeout != nil {
		d.timeout.Stop()
		d.timeout = nil
	}
	if d.scheduler != nil && d.onApplied != nil {
		d.timeout = d.scheduler.AfterFunc(d.debounce, func() {
			d.onApplied(d.nativeID)
		})
	}
	return nil
}

func (d *Device) OpenEntry(ctx context.Context) {
	d.logger.Info("open was called", "native_id", d.nativeID)
	d.setEntryOpen(ctx, true)
}

func (d *Device) CloseEntry(ctx context.Context) {
	d.logger.Info("close was called", "native_id", d.nativeID)
	d.setEntryOpen(ctx, false)
}

func (d *Device) EntryOpen() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.entryOpen
}

func (d *Device) setEntryOpen(ctx context.Context, open bool) {
	d.mu.Lock()
	d.entryOpen = open
	d.mu.Unlock()

	if d.publisher == nil {
		return
	}
	if err := d.publisher.PublishEntryState(ctx, d.nativeID, open); err != nil {
		d.logger.Warn("publishing entry state failed", "native_id", d.nativeID, "error", err)
	}
}
