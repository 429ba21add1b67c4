package mqtt

import "strings"

// Topics builds topic names under a configurable prefix.
type Topics struct {
	Prefix string
}

func (t Topics) prefix() string {
	p := strings.TrimSuffix(t.Prefix, "/")
	if p == "" {
		return "shades"
	}
	return p
}

// Status carries the retained online/offline marker and the LWT.
func (t Topics) Status() string {
	return t.prefix() + "/status"
}

// DeviceConfig carries the retained device manifest.
func (t Topics) DeviceConfig(nativeID string) string {
	return t.prefix() + "/device/" + escape(nativeID) + "/config"
}

// DeviceState carries the retained entry state.
func (t Topics) DeviceState(nativeID string) string {
	return t.prefix() + "/device/" + escape(nativeID) + "/state"
}

// escape keeps native ids from introducing topic levels or wildcards.
func escape(id string) string {
	return strings.NewReplacer("/", "_", "+", "_", "#", "_").Replace(id)
}
