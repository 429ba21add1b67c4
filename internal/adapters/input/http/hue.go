package http

import (
	"encoding/json"
	"fmt"
	"neosmart-shades/internal/domain/model"
	"neosmart-shades/internal/ports"
	"hash/fnv"
	"net/http"
	"sort"
	"strconv"

	"github.com/amimof/huego"
)

const hueUsername = "admin"

// hueID is the numeric light id Hue clients see for a shade. It is derived
// from the native id so it survives restarts and device creation.
func hueID(nativeID string) string {
	h := fnv.New32a()
	h.Write([]byte(nativeID))
	return strconv.FormatUint(uint64(h.Sum32()), 10)
}

// lookupLight resolves a Hue light id, accepting the native id as well.
func (s *Server) lookupLight(id string) (ports.Shade, bool) {
	if d, ok := s.provider.Lookup(id); ok {
		return d, true
	}
	for _, d := range s.provider.Devices() {
		if hueID(d.NativeID()) == id {
			return d, true
		}
	}
	return nil, false
}

func (s *Server) handleDescription(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/xml")
	fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8" ?>
<root xmlns="urn:schemas-upnp-org:device-1-0">
<specVersion>
<major>1</major>
<minor>0</minor>
</specVersion>
<URLBase>http://%s:%d/</URLBase>
<device>
<deviceType>urn:schemas-upnp-org:device:Basic:1</deviceType>
<friendlyName>Neo Smart Shades (%s)</friendlyName>
<manufacturer>Royal Philips Electronics</manufacturer>
<manufacturerURL>http://www.philips.com</manufacturerURL>
<modelDescription>Philips hue Personal Wireless Lighting</modelDescription>
<modelName>Philips hue bridge 2012</modelName>
<modelNumber>929000226503</modelNumber>
<modelURL>http://www.meethue.com</modelURL>
<serialNumber>001788102201</serialNumber>
<UDN>uuid:2f402f80-da50-11e1-9b23-001788102201</UDN>
</device>
</root>`, s.ip, s.port, s.ip)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, []map[string]any{
		{"success": map[string]string{"username": hueUsername}},
	})
}

func (s *Server) light(d ports.Shade) *huego.Light {
	strategy := s.translators.GetTranslator(model.DeviceTypeEntry)
	meta := strategy.GetMetadata()
	return &huego.Light{
		Name:             d.Name(),
		Type:             meta.Type,
		State:            strategy.ToHue(d.EntryOpen()),
		ModelID:          meta.ModelID,
		UniqueID:         d.NativeID(),
		ManufacturerName: meta.ManufacturerName,
	}
}

func (s *Server) lights() map[string]*huego.Light {
	lights := make(map[string]*huego.Light)
	for _, d := range s.provider.Devices() {
		lights[hueID(d.NativeID())] = s.light(d)
	}
	return lights
}

func (s *Server) handleFullState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"lights": s.lights(),
		"groups": map[string]any{},
		"config": map[string]any{
			"name":       "Neo Smart Shades",
			"swversion":  "01003542",
			"apiversion": "1.11.0",
			"mac":        "00:17:88:10:22:01",
			"bridgeid":   "001788FFFE102201",
			"modelid":    "BSB001",
		},
	})
}

func (s *Server) handleGetLights(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.lights())
}

func (s *Server) handleGetLight(w http.ResponseWriter, r *http.Request) {
	d, ok := s.lookupLight(idParam(r))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown light")
		return
	}
	writeJSON(w, http.StatusOK, s.light(d))
}

// handleSetLightState opens or closes the shade. Attributes that carry no
// entry meaning are acknowledged unchanged.
func (s *Server) handleSetLightState(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	d, ok := s.lookupLight(id)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown light")
		return
	}

	var update map[string]any
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	strategy := s.translators.GetTranslator(model.DeviceTypeEntry)
	open, changed, err := strategy.ToEntry(update, d.EntryOpen())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if changed {
		if open {
			d.OpenEntry(r.Context())
		} else {
			d.CloseEntry(r.Context())
		}
	}

	keys := make([]string, 0, len(update))
	for k := range update {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	resp := make([]map[string]any, 0, len(keys))
	for _, k := range keys {
		resp = append(resp, map[string]any{
			"success": map[string]any{
				fmt.Sprintf("/lights/%s/state/%s", id, k): update[k],
			},
		})
	}
	writeJSON(w, http.StatusOK, resp)
}
