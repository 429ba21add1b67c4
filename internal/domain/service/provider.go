package service

import (
	"context"
	"errors"
	"fmt"
	"neosmart-shades/internal/domain/model"
	"neosmart-shades/internal/domain/shade"
	"neosmart-shades/internal/ports"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// NativeIDPrefix marks shades created by this plugin, as opposed to ids
// handed over by the host.
const NativeIDPrefix = "shell:"

// ErrIncompleteSettings is returned by CreateDevice when a required setting
// is absent or empty. Nothing is registered or announced in that case.
var ErrIncompleteSettings = errors.New("shade: incomplete settings")

const (
	defaultDebounce        = 500 * time.Millisecond
	defaultReannounceDelay = 2 * time.Second
)

type Options struct {
	Store     ports.DeviceStore
	Announcer ports.Announcer
	Publisher ports.StatePublisher
	Scheduler ports.Scheduler
	Logger    ports.Logger
	Metrics   *Metrics

	Debounce        time.Duration
	ReannounceDelay time.Duration

	// NewID generates the random part of a native id. Defaults to a UUID.
	NewID func() string
}

// Provider owns every shade instance and creates new ones from user settings.
type Provider struct {
	store           ports.DeviceStore
	announcer       ports.Announcer
	publisher       ports.StatePublisher
	scheduler       ports.Scheduler
	logger          ports.Logger
	metrics         *Metrics
	debounce        time.Duration
	reannounceDelay time.Duration
	newID           func() string

	devices map[string]*shade.Device
	mu      sync.RWMutex

	tasks   []ports.Task
	tasksMu sync.Mutex
}

func NewProvider(opts Options) *Provider {
	p := &Provider{
		store:           opts.Store,
		announcer:       opts.Announcer,
		scheduler:       opts.Scheduler,
		logger:          opts.Logger,
		metrics:         opts.Metrics,
		debounce:        opts.Debounce,
		reannounceDelay: opts.ReannounceDelay,
		newID:           opts.NewID,
		devices:         make(map[string]*shade.Device),
	}
	if p.logger == nil {
		p.logger = ports.NoopLogger{}
	}
	if p.metrics == nil {
		p.metrics = NewMetrics()
	}
	if p.debounce <= 0 {
		p.debounce = defaultDebounce
	}
	if p.reannounceDelay <= 0 {
		p.reannounceDelay = defaultReannounceDelay
	}
	if p.newID == nil {
		p.newID = uuid.NewString
	}
	p.publisher = observedPublisher{next: opts.Publisher, metrics: p.metrics}
	return p
}

// Initialize rehydrates every native id the host remembers.
func (p *Provider) Initialize(ctx context.Context) error {
	ids, err := p.store.NativeIDs(ctx)
	if err != nil {
		return fmt.Errorf("loading native ids: %w", err)
	}
	p.InitializeIDs(ids)
	return nil
}

// InitializeIDs creates a device for each non-empty id.
func (p *Provider) InitializeIDs(ids []string) {
	for _, id := range ids {
		if id == "" {
			continue
		}
		p.getOrCreate(id)
	}
	p.logger.Info("provider initialized", "devices", p.count())
}

// GetDevice returns the shade for nativeID, creating it on first access.
func (p *Provider) GetDevice(nativeID string) ports.Shade {
	return p.getOrCreate(nativeID)
}

// Lookup returns the shade for nativeID without creating it.
func (p *Provider) Lookup(nativeID string) (ports.Shade, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	d, ok := p.devices[nativeID]
	if !ok {
		return nil, false
	}
	return d, true
}

// Devices returns all shades ordered by native id.
func (p *Provider) Devices() []ports.Shade {
	p.mu.RLock()
	ids := make([]string, 0, len(p.devices))
	for id := range p.devices {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]ports.Shade, 0, len(ids))
	for _, id := range ids {
		out = append(out, p.devices[id])
	}
	p.mu.RUnlock()
	return out
}

func (p *Provider) CreateDeviceSettings() []model.Setting {
	return shade.Fields()
}

// CreateDevice validates settings, announces a new shade and seeds its
// settings store. It returns the new native id. When seeding fails after the
// announcement, the id is returned together with the error.
func (p *Provider) CreateDevice(ctx context.Context, settings map[string]any) (string, error) {
	values := make(map[string]string, len(shade.RequiredKeys))
	var missing []string
	for _, key := range shade.RequiredKeys {
		v := shade.FormatValue(settings[key])
		if v == "" {
			missing = append(missing, key)
			continue
		}
		values[key] = v
	}
	if len(missing) > 0 {
		p.metrics.creationsFailed.Inc()
		return "", fmt.Errorf("%w: missing %s", ErrIncompleteSettings, strings.Join(missing, ", "))
	}

	nativeID := NativeIDPrefix + p.newID()
	name := shade.FormatValue(settings["name"])

	if err := p.announce(ctx, nativeID, name); err != nil {
		return "", fmt.Errorf("announcing %s: %w", nativeID, err)
	}

	// The host already knows nativeID, so a failed write still reports it.
	device := p.getOrCreate(nativeID)
	for _, key := range shade.RequiredKeys {
		if err := device.PutSetting(ctx, key, values[key]); err != nil {
			return nativeID, fmt.Errorf("seeding settings of %s: %w", nativeID, err)
		}
	}

	p.logger.Info("shade created", "native_id", nativeID, "name", name)
	return nativeID, nil
}

// ReleaseDevice keeps the shade; there is no hardware to tear down.
func (p *Provider) ReleaseDevice(ctx context.Context, nativeID string) error {
	p.logger.Debug("release requested", "native_id", nativeID)
	return nil
}

// Close cancels re-announcements that have not fired yet.
func (p *Provider) Close() {
	p.tasksMu.Lock()
	defer p.tasksMu.Unlock()
	for _, t := range p.tasks {
		t.Stop()
	}
	p.tasks = nil
}

// Interfaces is the fixed capability set announced for every shade.
func Interfaces() []model.Interface {
	return []model.Interface{
		model.InterfaceSettings,
		model.InterfaceEntry,
		model.InterfaceEntrySensor,
	}
}

func (p *Provider) getOrCreate(nativeID string) *shade.Device {
	p.mu.RLock()
	d, ok := p.devices[nativeID]
	p.mu.RUnlock()
	if ok {
		return d
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if d, ok := p.devices[nativeID]; ok {
		return d
	}

	manifest, known := p.store.Manifest(nativeID)
	d = shade.New(nativeID, shade.Options{
		Name:              manifest.Name,
		Storage:           p.store.Storage(nativeID),
		Publisher:         p.publisher,
		Scheduler:         p.scheduler,
		Logger:            p.logger,
		Debounce:          p.debounce,
		OnSettingsApplied: p.settingsApplied,
	})

	if known && manifest.Implements(model.InterfaceScriptable) {
		p.scheduleReannounce(nativeID, manifest.Name)
	}

	p.devices[nativeID] = d
	p.metrics.devices.Set(float64(len(p.devices)))
	return d
}

// scheduleReannounce replaces a legacy manifest once the host has settled.
func (p *Provider) scheduleReannounce(nativeID, name string) {
	if p.scheduler == nil {
		return
	}
	task := p.scheduler.AfterFunc(p.reannounceDelay, func() {
		if err := p.announce(context.Background(), nativeID, name); err != nil {
			p.logger.Warn("legacy re-announcement failed", "native_id", nativeID, "error", err)
		}
	})

	p.tasksMu.Lock()
	p.tasks = append(p.tasks, task)
	p.tasksMu.Unlock()
}

func (p *Provider) announce(ctx context.Context, nativeID, name string) error {
	manifest := model.DeviceManifest{
		NativeID:   nativeID,
		Name:       name,
		Interfaces: Interfaces(),
		Type:       model.DeviceTypeEntry,
	}
	if err := p.announcer.OnDeviceDiscovered(ctx, manifest); err != nil {
		p.metrics.announcements.WithLabelValues("error").Inc()
		return err
	}
	p.metrics.announcements.WithLabelValues("ok").Inc()

	if err := p.store.SaveManifest(ctx, manifest); err != nil {
		return fmt.Errorf("recording manifest: %w", err)
	}
	return nil
}

func (p *Provider) settingsApplied(nativeID string) {
	p.metrics.settingsApplied.Inc()
	p.logger.Info("settings applied", "native_id", nativeID)
}

func (p *Provider) count() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.devices)
}

type observedPublisher struct {
	next    ports.StatePublisher
	metrics *Metrics
}

func (o observedPublisher) PublishEntryState(ctx context.Context, nativeID string, open bool) error {
	command := "close"
	if open {
		command = "open"
	}
	o.metrics.commands.WithLabelValues(command).Inc()
	o.metrics.entryState(nativeID, open)
	if o.next == nil {
		return nil
	}
	return o.next.PublishEntryState(ctx, nativeID, open)
}
