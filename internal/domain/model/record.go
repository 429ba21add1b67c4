package model

// DeviceRecord is the host-side state kept for one native id across restarts.
type DeviceRecord struct {
	Name       string            `json:"name,omitempty"`
	Interfaces []Interface       `json:"interfaces,omitempty"`
	Type       DeviceType        `json:"type,omitempty"`
	Settings   map[string]string `json:"settings,omitempty"`
}

// Manifest rebuilds the last announced manifest for nativeID.
func (r *DeviceRecord) Manifest(nativeID string) DeviceManifest {
	return DeviceManifest{
		NativeID:   nativeID,
		Name:       r.Name,
		Interfaces: r.Interfaces,
		Type:       r.Type,
	}
}
