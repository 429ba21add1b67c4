package model

type SettingType string

const (
	SettingTypeText     SettingType = ""
	SettingTypePassword SettingType = "password"
	SettingTypeNumber   SettingType = "number"
)

// Setting describes one entry of a settings form. Value is nil when the
// setting was never stored.
type Setting struct {
	Key         string      `json:"key"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Placeholder string      `json:"placeholder,omitempty"`
	Type        SettingType `json:"type,omitempty"`
	Value       *string     `json:"value,omitempty"`
}
