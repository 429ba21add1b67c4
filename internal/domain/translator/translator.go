package translator

import (
	"github.com/amimof/huego"
)

// HueMetadata is how a device presents itself to Hue clients.
type HueMetadata struct {
	Type             string
	ModelID          string
	ManufacturerName string
}

// Translator maps device state to and from the Hue light model.
type Translator interface {
	ToHue(open bool) *huego.State
	// ToEntry interprets a Hue state update. ok is false when the update
	// carries nothing that moves the entry.
	ToEntry(update map[string]interface{}, current bool) (open bool, ok bool, err error)
	GetMetadata() HueMetadata
}
