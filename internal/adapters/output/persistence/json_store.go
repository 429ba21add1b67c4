package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"neosmart-shades/internal/domain/model"
	"neosmart-shades/internal/ports"
	"os"
	"sort"
	"sync"
)

// JSONDeviceStore keeps every known device, its last manifest and its
// settings in a single JSON file. The file holds passwords and is written
// with owner-only permissions.
type JSONDeviceStore struct {
	filepath string
	mu       sync.RWMutex
	devices  map[string]*model.DeviceRecord
}

type storeFile struct {
	Devices map[string]*model.DeviceRecord `json:"devices"`
}

// legacyInterfaces is what plugin versions with the flat file format
// announced.
var legacyInterfaces = []model.Interface{
	model.InterfaceScriptable,
	model.InterfaceSettings,
	model.InterfaceEntry,
	model.InterfaceEntrySensor,
}

func NewJSONDeviceStore(filepath string) *JSONDeviceStore {
	return &JSONDeviceStore{
		filepath: filepath,
		devices:  make(map[string]*model.DeviceRecord),
	}
}

// Load reads the file into memory. A missing file is an empty store.
func (r *JSONDeviceStore) Load(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			r.devices = make(map[string]*model.DeviceRecord)
			return nil
		}
		return fmt.Errorf("reading device store: %w", err)
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return fmt.Errorf("parsing device store: %w", err)
	}

	if _, ok := top["devices"]; !ok {
		devices, err := migrate(top)
		if err != nil {
			return err
		}
		r.devices = devices
		return nil
	}

	var f storeFile
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parsing device store: %w", err)
	}
	r.devices = make(map[string]*model.DeviceRecord, len(f.Devices))
	for id, rec := range f.Devices {
		if rec == nil {
			rec = &model.DeviceRecord{}
		}
		r.devices[id] = rec
	}
	return nil
}

// migrate converts the flat {nativeId: {key: value}} layout.
func migrate(top map[string]json.RawMessage) (map[string]*model.DeviceRecord, error) {
	devices := make(map[string]*model.DeviceRecord, len(top))
	for id, raw := range top {
		var settings map[string]string
		if err := json.Unmarshal(raw, &settings); err != nil {
			return nil, fmt.Errorf("migrating legacy device %s: %w", id, err)
		}
		devices[id] = &model.DeviceRecord{
			Name:       settings["shadeName"],
			Interfaces: legacyInterfaces,
			Type:       model.DeviceTypeEntry,
			Settings:   settings,
		}
	}
	return devices, nil
}

func (r *JSONDeviceStore) NativeIDs(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.devices))
	for id := range r.devices {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *JSONDeviceStore) Storage(nativeID string) ports.Storage {
	return &deviceStorage{store: r, nativeID: nativeID}
}

func (r *JSONDeviceStore) Manifest(nativeID string) (model.DeviceManifest, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.devices[nativeID]
	if !ok || len(rec.Interfaces) == 0 {
		return model.DeviceManifest{}, false
	}
	return rec.Manifest(nativeID), true
}

func (r *JSONDeviceStore) SaveManifest(ctx context.Context, manifest model.DeviceManifest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec := r.record(manifest.NativeID)
	rec.Name = manifest.Name
	rec.Interfaces = append([]model.Interface(nil), manifest.Interfaces...)
	rec.Type = manifest.Type
	return r.save()
}

// record returns the record for nativeID, creating it. Caller holds mu.
func (r *JSONDeviceStore) record(nativeID string) *model.DeviceRecord {
	rec, ok := r.devices[nativeID]
	if !ok {
		rec = &model.DeviceRecord{}
		r.devices[nativeID] = rec
	}
	return rec
}

// save writes the whole store. Caller holds mu.
func (r *JSONDeviceStore) save() error {
	data, err := json.MarshalIndent(storeFile{Devices: r.devices}, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(r.filepath, data, 0600); err != nil {
		return fmt.Errorf("writing device store: %w", err)
	}
	return nil
}

type deviceStorage struct {
	store    *JSONDeviceStore
	nativeID string
}

func (s *deviceStorage) GetItem(key string) (string, bool) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	rec, ok := s.store.devices[s.nativeID]
	if !ok {
		return "", false
	}
	v, ok := rec.Settings[key]
	return v, ok
}

func (s *deviceStorage) SetItem(ctx context.Context, key, value string) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	rec := s.store.record(s.nativeID)
	if rec.Settings == nil {
		rec.Settings = make(map[string]string)
	}
	rec.Settings[key] = value
	return s.store.save()
}
