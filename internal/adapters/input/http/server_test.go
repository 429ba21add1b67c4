package http

import (
	"context"
	"encoding/json"
	"io"
	"neosmart-shades/internal/adapters/output/discovery"
	"neosmart-shades/internal/adapters/output/persistence"
	"neosmart-shades/internal/domain/model"
	"neosmart-shades/internal/domain/service"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/amimof/huego"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	server   *Server
	handler  http.Handler
	provider *service.Provider
	recorder *discovery.Recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := persistence.NewJSONDeviceStore(filepath.Join(t.TempDir(), "shades.json"))
	require.NoError(t, store.Load(context.Background()))

	recorder := discovery.NewRecorder(nil)
	metrics := service.NewMetrics()
	provider := service.NewProvider(service.Options{
		Store:     store,
		Announcer: recorder,
		Publisher: recorder,
		Metrics:   metrics,
		NewID:     func() string { return "0001" },
	})

	server := NewServer(Options{
		Provider:    provider,
		Gatherer:    metrics.Registry(),
		AdvertiseIP: "192.168.1.50",
		Port:        8080,
	})
	return &fixture{server: server, handler: server.Handler(), provider: provider, recorder: recorder}
}

func (f *fixture) do(method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

const createBody = `{
	"shadeName": "Living Room",
	"password": "x",
	"ip": "192.168.2.222",
	"port": 8838,
	"blindCode": "1",
	"motorCode": "2",
	"parentGroup": "G1",
	"name": "Living Room Blind"
}`

func TestServer_CreateAndList(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/plugin/devices", createBody)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"nativeId":"shell:0001"}`, rec.Body.String())

	manifest, ok := f.recorder.Manifest("shell:0001")
	require.True(t, ok)
	assert.Equal(t, "Living Room Blind", manifest.Name)

	rec = f.do(http.MethodGet, "/plugin/devices", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"nativeId":"shell:0001","name":"Living Room Blind","open":false}]`, rec.Body.String())
}

func TestServer_CreateIncomplete(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/plugin/devices", `{"shadeName":"Kitchen"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "password")
	assert.Empty(t, f.provider.Devices())

	rec = f.do(http.MethodPost, "/plugin/devices", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_CreateSettings(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/plugin/create-settings", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var fields []model.Setting
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fields))
	require.Len(t, fields, 7)
	assert.Equal(t, "shadeName", fields[0].Key)
	assert.Equal(t, model.SettingTypePassword, fields[1].Type)
}

func TestServer_Settings(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPut, "/plugin/devices/shell:abc/settings", `{"key":"port","value":8838}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(http.MethodGet, "/plugin/devices/shell:abc/settings", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var settings []model.Setting
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &settings))
	require.NotNil(t, settings[3].Value)
	assert.Equal(t, "8838", *settings[3].Value)
	assert.Nil(t, settings[0].Value)

	rec = f.do(http.MethodPut, "/plugin/devices/shell:abc/settings", `{"value":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(http.MethodGet, "/plugin/devices/shell:missing/settings", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Len(t, f.provider.Devices(), 1)
}

func settingValues(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code)

	var settings []model.Setting
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &settings))
	values := map[string]string{}
	for _, s := range settings {
		if s.Value != nil {
			values[s.Key] = *s.Value
		}
	}
	return values
}

func TestServer_LargeNumbersKeepDigits(t *testing.T) {
	f := newFixture(t)

	body := strings.NewReplacer(`"blindCode": "1"`, `"blindCode": 12345678`, `"motorCode": "2"`, `"motorCode": 1000000`).Replace(createBody)
	rec := f.do(http.MethodPost, "/plugin/devices", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	values := settingValues(t, f.do(http.MethodGet, "/plugin/devices/shell:0001/settings", ""))
	assert.Equal(t, "12345678", values["blindCode"])
	assert.Equal(t, "1000000", values["motorCode"])
	assert.Equal(t, "8838", values["port"])

	rec = f.do(http.MethodPut, "/plugin/devices/shell:0001/settings", `{"key":"ip","value":null}`)
	require.Equal(t, http.StatusOK, rec.Code)

	values = settingValues(t, f.do(http.MethodGet, "/plugin/devices/shell:0001/settings", ""))
	assert.Equal(t, "", values["ip"])
	assert.NotContains(t, rec.Body.String(), "<nil>")
}

func TestServer_OpenCloseRelease(t *testing.T) {
	f := newFixture(t)
	f.provider.GetDevice("a")

	rec := f.do(http.MethodPost, "/plugin/devices/a/open", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"nativeId":"a","name":"a","open":true}`, rec.Body.String())

	open, ok := f.recorder.EntryState("a")
	assert.True(t, ok)
	assert.True(t, open)

	rec = f.do(http.MethodDelete, "/plugin/devices/a", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, f.provider.GetDevice("a").EntryOpen())

	rec = f.do(http.MethodPost, "/plugin/devices/a/close", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, f.provider.GetDevice("a").EntryOpen())
}

func TestServer_UnknownDeviceNotCreated(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, http.StatusNotFound, f.do(http.MethodPost, "/plugin/devices/ghost/open", "").Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodPost, "/plugin/devices/ghost/close", "").Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/plugin/devices/ghost/settings", "").Code)

	_, ok := f.provider.Lookup("ghost")
	assert.False(t, ok)
	assert.JSONEq(t, `[]`, f.do(http.MethodGet, "/plugin/devices", "").Body.String())
}

func TestServer_HueLights(t *testing.T) {
	f := newFixture(t)
	f.provider.GetDevice("a")

	rec := f.do(http.MethodPost, "/api", `{"devicetype":"echo"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"success":{"username":"admin"}}]`, rec.Body.String())

	rec = f.do(http.MethodGet, "/api/admin/lights", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var lights map[string]huego.Light
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &lights))
	id := hueID("a")
	require.Contains(t, lights, id)
	assert.Equal(t, "Window covering device", lights[id].Type)
	assert.Equal(t, "a", lights[id].UniqueID)
	assert.False(t, lights[id].State.On)

	rec = f.do(http.MethodPut, "/api/admin/lights/"+id+"/state", `{"on":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"success":{"/lights/`+id+`/state/on":true}}]`, rec.Body.String())
	assert.True(t, f.provider.GetDevice("a").EntryOpen())

	rec = f.do(http.MethodGet, "/api/admin/lights/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var light huego.Light
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &light))
	assert.True(t, light.State.On)

	rec = f.do(http.MethodGet, "/api/admin", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"lights"`)
}

func TestHueID(t *testing.T) {
	id := hueID("shell:5f0c7c2e-7d3e-4b8a-9a55-0d6f1f0c2b11")
	assert.Equal(t, id, hueID("shell:5f0c7c2e-7d3e-4b8a-9a55-0d6f1f0c2b11"))
	assert.NotEqual(t, id, hueID("shell:other"))
	_, err := strconv.ParseUint(id, 10, 32)
	assert.NoError(t, err)
}

func TestServer_DefaultTranslators(t *testing.T) {
	s := NewServer(Options{})
	require.NotNil(t, s.translators)
	assert.Equal(t, "Window covering device", s.translators.GetTranslator(model.DeviceTypeEntry).GetMetadata().Type)
}

func TestServer_HueUnknownLight(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/api/admin/lights/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(http.MethodPut, "/api/admin/lights/missing/state", `{"on":true}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, f.provider.Devices())
}

func TestServer_HueIgnoresColour(t *testing.T) {
	f := newFixture(t)
	f.provider.GetDevice("a").OpenEntry(context.Background())

	rec := f.do(http.MethodPut, "/api/admin/lights/a/state", `{"hue":1000}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, f.provider.GetDevice("a").EntryOpen())
}

func TestServer_DescriptionAndMetrics(t *testing.T) {
	f := newFixture(t)
	f.provider.GetDevice("a")
	f.do(http.MethodPost, "/plugin/devices/a/open", "")

	rec := f.do(http.MethodGet, "/description.xml", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<URLBase>http://192.168.1.50:8080/</URLBase>")

	rec = f.do(http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "shades_devices 1")
	assert.Contains(t, rec.Body.String(), `shades_commands_total{command="open"} 1`)
}
