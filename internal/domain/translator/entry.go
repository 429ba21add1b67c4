package translator

import (
	"fmt"

	"github.com/Knetic/govaluate"
	"github.com/amimof/huego"
)

const hueMaxBri = 254

// EntryStrategy presents a shade as a dimmable light: on means open.
type EntryStrategy struct {
	openWhen *govaluate.EvaluableExpression
}

func NewEntryStrategy(openWhen string) (*EntryStrategy, error) {
	s := &EntryStrategy{}
	if openWhen == "" {
		return s, nil
	}
	expr, err := govaluate.NewEvaluableExpression(openWhen)
	if err != nil {
		return nil, fmt.Errorf("parsing open expression %q: %w", openWhen, err)
	}
	s.openWhen = expr
	return s, nil
}

func (s *EntryStrategy) ToHue(open bool) *huego.State {
	state := &huego.State{On: open, Reachable: true}
	if open {
		state.Bri = hueMaxBri
	}
	return state
}

func (s *EntryStrategy) ToEntry(update map[string]interface{}, current bool) (bool, bool, error) {
	on, hasOn := update["on"].(bool)
	bri, hasBri := update["bri"].(float64)
	if !hasOn && !hasBri {
		return current, false, nil
	}

	if s.openWhen == nil {
		if hasOn {
			return on, true, nil
		}
		return bri > 0, true, nil
	}

	if !hasOn {
		on = current
	}
	if !hasBri {
		bri = 0
		if on {
			bri = hueMaxBri
		}
	}
	result, err := s.openWhen.Evaluate(map[string]interface{}{"on": on, "bri": bri})
	if err != nil {
		return current, false, fmt.Errorf("evaluating open expression: %w", err)
	}
	open, isBool := result.(bool)
	if !isBool {
		return current, false, fmt.Errorf("open expression returned %T, want bool", result)
	}
	return open, true, nil
}

func (s *EntryStrategy) GetMetadata() HueMetadata {
	return HueMetadata{
		Type:             "Window covering device",
		ModelID:          "LCT001",
		ManufacturerName: "Philips",
	}
}
