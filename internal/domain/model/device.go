package model

// Interface names a capability a device exposes to the host.
type Interface string

const (
	InterfaceSettings    Interface = "Settings"
	InterfaceEntry       Interface = "Entry"
	InterfaceEntrySensor Interface = "EntrySensor"

	// InterfaceScriptable was announced by early plugin versions and is no
	// longer provided. Devices still carrying it are re-announced.
	InterfaceScriptable Interface = "Scriptable"
)

type DeviceType string

const (
	DeviceTypeEntry DeviceType = "Entry"
)

// DeviceManifest is what the host is told when a device is discovered.
type DeviceManifest struct {
	NativeID   string      `json:"nativeId"`
	Name       string      `json:"name,omitempty"`
	Interfaces []Interface `json:"interfaces"`
	Type       DeviceType  `json:"type"`
}

// Implements reports whether the manifest lists iface.
func (m DeviceManifest) Implements(iface Interface) bool {
	for _, i := range m.Interfaces {
		if i == iface {
			return true
		}
	}
	return false
}
