package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":80", cfg.HTTP.Listen)
	assert.False(t, cfg.MQTT.Enabled)
	assert.Equal(t, 500*time.Millisecond, cfg.Provider.Debounce)
	assert.Equal(t, 2*time.Second, cfg.Provider.ReannounceDelay)
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, `
http:
  listen: ":8080"
  advertise_ip: "10.0.0.5"
storage:
  path: "/tmp/shades.json"
mqtt:
  enabled: true
  broker:
    host: "broker"
    port: 1884
  qos: 0
  topic_prefix: "home/shades"
provider:
  debounce: "1s"
  hue_open_when: "bri > 0"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Listen)
	assert.Equal(t, "10.0.0.5", cfg.HTTP.AdvertiseIP)
	assert.Equal(t, "/tmp/shades.json", cfg.Storage.Path)
	assert.True(t, cfg.MQTT.Enabled)
	assert.Equal(t, 1884, cfg.MQTT.Broker.Port)
	assert.Equal(t, "neosmart-shades", cfg.MQTT.Broker.ClientID)
	assert.Equal(t, "home/shades", cfg.MQTT.TopicPrefix)
	assert.Equal(t, time.Second, cfg.Provider.Debounce)
	assert.Equal(t, 2*time.Second, cfg.Provider.ReannounceDelay)
	assert.Equal(t, "bri > 0", cfg.Provider.HueOpenWhen)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	assert.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "invalid: [yaml: content"))
	assert.Error(t, err)
}

func TestLoad_ValidationFailure(t *testing.T) {
	path := writeConfig(t, `
mqtt:
  enabled: true
  qos: 3
  topic_prefix: "/"
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mqtt.qos")
	assert.Contains(t, err.Error(), "mqtt.topic_prefix")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SHADES_HTTP_LISTEN", ":9000")
	t.Setenv("LOCAL_IP", "192.168.1.2")
	t.Setenv("SHADES_STORAGE_PATH", "/data/shades.json")
	t.Setenv("SHADES_MQTT_HOST", "mosquitto")
	t.Setenv("SHADES_MQTT_PASSWORD", "secret")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.HTTP.Listen)
	assert.Equal(t, "192.168.1.2", cfg.HTTP.AdvertiseIP)
	assert.Equal(t, "/data/shades.json", cfg.Storage.Path)
	assert.True(t, cfg.MQTT.Enabled)
	assert.Equal(t, "mosquitto", cfg.MQTT.Broker.Host)
	assert.Equal(t, "secret", cfg.MQTT.Auth.Password)
}
