// Package config loads the plugin host configuration.
//
// Configuration is read once at startup from an optional YAML file and then
// overridden by SHADES_* environment variables:
//
//	http:
//	  listen: ":80"
//	storage:
//	  path: "/app/shades.json"
//	mqtt:
//	  enabled: true
//	  broker:
//	    host: "mosquitto"
//	provider:
//	  debounce: "500ms"
//	  reannounce_delay: "2s"
//
// MQTT credentials belong in the environment, not in the file.
package config
