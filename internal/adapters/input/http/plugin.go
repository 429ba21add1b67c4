package http

import (
	"encoding/json"
	"errors"
	"neosmart-shades/internal/domain/service"
	"net/http"
)

type deviceView struct {
	NativeID string `json:"nativeId"`
	Name     string `json:"name"`
	Open     bool   `json:"open"`
}

type settingUpdate struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

func (s *Server) handleListDevices(w http.ResponseWriter, r *http.Request) {
	devices := s.provider.Devices()
	out := make([]deviceView, 0, len(devices))
	for _, d := range devices {
		out = append(out, deviceView{NativeID: d.NativeID(), Name: d.Name(), Open: d.EntryOpen()})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.provider.CreateDeviceSettings())
}

func (s *Server) handleCreateDevice(w http.ResponseWriter, r *http.Request) {
	var settings map[string]any
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	id, err := s.provider.CreateDevice(r.Context(), settings)
	if errors.Is(err, service.ErrIncompleteSettings) {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err != nil {
		s.logger.Error("device creation failed", "native_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"nativeId": id})
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	device, ok := s.provider.Lookup(idParam(r))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown device")
		return
	}
	writeJSON(w, http.StatusOK, device.Settings())
}

func (s *Server) handlePutSetting(w http.ResponseWriter, r *http.Request) {
	var update settingUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil || update.Key == "" {
		writeError(w, http.StatusBadRequest, "expected {\"key\":..,\"value\":..}")
		return
	}

	device := s.provider.GetDevice(idParam(r))
	if err := device.PutSetting(r.Context(), update.Key, update.Value); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, device.Settings())
}

func (s *Server) handleOpen(w http.ResponseWriter, r *http.Request) {
	device, ok := s.provider.Lookup(idParam(r))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown device")
		return
	}
	device.OpenEntry(r.Context())
	writeJSON(w, http.StatusOK, deviceView{NativeID: device.NativeID(), Name: device.Name(), Open: device.EntryOpen()})
}

func (s *Server) handleClose(w http.ResponseWriter, r *http.Request) {
	device, ok := s.provider.Lookup(idParam(r))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown device")
		return
	}
	device.CloseEntry(r.Context())
	writeJSON(w, http.StatusOK, deviceView{NativeID: device.NativeID(), Name: device.Name(), Open: device.EntryOpen()})
}

func (s *Server) handleReleaseDevice(w http.ResponseWriter, r *http.Request) {
	if err := s.provider.ReleaseDevice(r.Context(), idParam(r)); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
