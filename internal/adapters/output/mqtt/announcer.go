package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"neosmart-shades/internal/domain/model"
	"time"
)

// Publisher is the subset of Client used by Announcer.
type Publisher interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// Announcer forwards device manifests and entry state to the broker as
// retained messages, so a host subscribing later still sees every shade.
type Announcer struct {
	pub    Publisher
	topics Topics
	qos    byte
	now    func() time.Time
}

func NewAnnouncer(pub Publisher, prefix string, qos int) *Announcer {
	return &Announcer{
		pub:    pub,
		topics: Topics{Prefix: prefix},
		qos:    byte(qos),
		now:    time.Now,
	}
}

type statePayload struct {
	Open      bool   `json:"open"`
	Timestamp string `json:"timestamp"`
}

func (a *Announcer) OnDeviceDiscovered(ctx context.Context, manifest model.DeviceManifest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(manifest)
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	return a.pub.Publish(a.topics.DeviceConfig(manifest.NativeID), payload, a.qos, true)
}

func (a *Announcer) PublishEntryState(ctx context.Context, nativeID string, open bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(statePayload{
		Open:      open,
		Timestamp: a.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}
	return a.pub.Publish(a.topics.DeviceState(nativeID), payload, a.qos, true)
}
