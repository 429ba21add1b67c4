package translator

import (
	"neosmart-shades/internal/domain/model"
)

type Factory struct {
	strategies map[model.DeviceType]Translator
}

// NewFactory builds the strategies. openWhen is an optional expression
// over "on" and "bri" deciding whether a Hue update opens the entry.
func NewFactory(openWhen string) (*Factory, error) {
	entry, err := NewEntryStrategy(openWhen)
	if err != nil {
		return nil, err
	}
	return &Factory{
		strategies: map[model.DeviceType]Translator{
			model.DeviceTypeEntry: entry,
		},
	}, nil
}

func (f *Factory) GetTranslator(deviceType model.DeviceType) Translator {
	if t, ok := f.strategies[deviceType]; ok {
		return t
	}
	return f.strategies[model.DeviceTypeEntry]
}
