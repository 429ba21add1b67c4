package main

import (
	"context"
	"flag"
	"fmt"
	"neosmart-shades/internal/adapters/input/http"
	"neosmart-shades/internal/adapters/input/ssdp"
	"neosmart-shades/internal/adapters/output/clock"
	"neosmart-shades/internal/adapters/output/discovery"
	"neosmart-shades/internal/adapters/output/mqtt"
	"neosmart-shades/internal/adapters/output/persistence"
	"neosmart-shades/internal/config"
	"neosmart-shades/internal/domain/service"
	"neosmart-shades/internal/domain/translator"
	"neosmart-shades/internal/logging"
	"neosmart-shades/internal/ports"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
)

var version = "dev"

func main() {
	configPath := flag.String("config", os.Getenv("SHADES_CONFIG"), "path to YAML config")
	flag.Parse()

	if err := run(*configPath); err != nil {
		logging.Default().Error("neosmart-shades stopped", "error", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := logging.New(cfg.Logging, version)

	ip := cfg.HTTP.AdvertiseIP
	if ip == "" {
		ip = getLocalIP()
	}
	if ip == "" {
		return fmt.Errorf("could not determine local IP; set LOCAL_IP")
	}
	logger.Info("starting", "advertise_ip", ip, "listen", cfg.HTTP.Listen)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := persistence.NewJSONDeviceStore(cfg.Storage.Path)
	if err := store.Load(ctx); err != nil {
		return err
	}

	var announcer ports.Announcer
	var publisher ports.StatePublisher
	if cfg.MQTT.Enabled {
		client, err := mqtt.Connect(cfg.MQTT, logger.With("component", "mqtt"))
		if err != nil {
			return err
		}
		defer client.Close()
		a := mqtt.NewAnnouncer(client, cfg.MQTT.TopicPrefix, cfg.MQTT.QoS)
		announcer, publisher = a, a
	} else {
		r := discovery.NewRecorder(logger.With("component", "discovery"))
		announcer, publisher = r, r
	}

	translators, err := translator.NewFactory(cfg.Provider.HueOpenWhen)
	if err != nil {
		return fmt.Errorf("hue_open_when: %w", err)
	}

	metrics := service.NewMetrics()
	provider := service.NewProvider(service.Options{
		Store:           store,
		Announcer:       announcer,
		Publisher:       publisher,
		Scheduler:       clock.Scheduler{},
		Logger:          logger.With("component", "provider"),
		Metrics:         metrics,
		Debounce:        cfg.Provider.Debounce,
		ReannounceDelay: cfg.Provider.ReannounceDelay,
	})
	defer provider.Close()

	if err := provider.Initialize(ctx); err != nil {
		return err
	}

	port := listenPort(cfg.HTTP.Listen)

	if cfg.SSDP.Enabled {
		ssdpServer := ssdp.NewServer(ip, port, logger.With("component", "ssdp"))
		go func() {
			if err := ssdpServer.Start(ctx); err != nil {
				logger.Error("ssdp server stopped", "error", err)
			}
		}()
	}

	httpServer := http.NewServer(http.Options{
		Provider:    provider,
		Translators: translators,
		Gatherer:    metrics.Registry(),
		Logger:      logger.With("component", "http"),
		AdvertiseIP: ip,
		Port:        port,
	})
	return httpServer.ListenAndServe(ctx, cfg.HTTP.Listen)
}

func listenPort(listen string) int {
	_, p, err := net.SplitHostPort(listen)
	if err != nil {
		return 80
	}
	port, err := strconv.Atoi(p)
	if err != nil {
		return 80
	}
	return port
}

func getLocalIP() string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return ""
	}
	for _, address := range addrs {
		if ipnet, ok := address.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
			if ipnet.IP.To4() != nil {
				return ipnet.IP.String()
			}
		}
	}
	return ""
}
