package shade

import "neosmart-shades/internal/domain/model"

// Setting keys understood by a shade.
const (
	KeyShadeName   = "shadeName"
	KeyPassword    = "password"
	KeyIP          = "ip"
	KeyPort        = "port"
	KeyBlindCode   = "blindCode"
	KeyMotorCode   = "motorCode"
	KeyParentGroup = "parentGroup"
)

// RequiredKeys lists every setting a new shade must be created with, in
// form order.
var RequiredKeys = []string{
	KeyShadeName,
	KeyPassword,
	KeyIP,
	KeyPort,
	KeyBlindCode,
	KeyMotorCode,
	KeyParentGroup,
}

// Fields returns a fresh copy of the shade settings form without values.
func Fields() []model.Setting {
	return []model.Setting{
		{Key: KeyShadeName, Title: "Shade name"},
		{Key: KeyPassword, Title: "Password", Type: model.SettingTypePassword},
		{Key: KeyIP, Title: "Host IP Address", Placeholder: "192.168.2.222"},
		{
			Key:         KeyPort,
			Title:       "Host port",
			Description: "The port number (usually 8838)",
			Placeholder: "8838",
			Type:        model.SettingTypeNumber,
		},
		{Key: KeyBlindCode, Title: "Blind Code"},
		{Key: KeyMotorCode, Title: "Motor Code"},
		{Key: KeyParentGroup, Title: "Parent Group"},
	}
}
