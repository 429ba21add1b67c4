package ssdp

import (
	"context"
	"errors"
	"fmt"
	"neosmart-shades/internal/ports"
	"net"
	"strings"
)

const multicastAddr = "239.255.255.250:1900"

// searchTargets are the M-SEARCH targets voice assistants use to find a
// Hue bridge.
var searchTargets = []string{
	"urn:schemas-upnp-org:device:basic:1",
	"upnp:rootdevice",
	"ssdp:all",
}

type Server struct {
	ip     string
	port   int
	logger ports.Logger
}

// NewServer answers discovery requests with the description.xml served on
// ip:port.
func NewServer(ip string, port int, logger ports.Logger) *Server {
	if logger == nil {
		logger = ports.NoopLogger{}
	}
	if port == 0 {
		port = 80
	}
	return &Server{ip: ip, port: port, logger: logger}
}

// Start listens until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	addr, err := net.ResolveUDPAddr("udp4", multicastAddr)
	if err != nil {
		return err
	}

	conn, err := net.ListenMulticastUDP("udp4", nil, addr)
	if err != nil {
		return fmt.Errorf("ssdp listen: %w", err)
	}
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	s.logger.Info("ssdp responder listening", "addr", multicastAddr)

	buf := make([]byte, 1024)
	for {
		n, src, err := conn.ReadFromUDP(buf)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			continue
		}

		if matches(string(buf[:n])) {
			s.respond(src)
		}
	}
}

func matches(msg string) bool {
	if !strings.Contains(msg, "M-SEARCH") {
		return false
	}
	lower := strings.ToLower(msg)
	for _, target := range searchTargets {
		if strings.Contains(lower, target) {
			return true
		}
	}
	return false
}

func (s *Server) respond(dest *net.UDPAddr) {
	conn, err := net.DialUDP("udp4", nil, dest)
	if err != nil {
		s.logger.Warn("ssdp reply failed", "dest", dest.String(), "error", err)
		return
	}
	defer conn.Close()

	if _, err := conn.Write([]byte(s.response())); err != nil {
		s.logger.Warn("ssdp reply failed", "dest", dest.String(), "error", err)
	}
}

func (s *Server) response() string {
	return fmt.Sprintf("HTTP/1.1 200 OK\r\n"+
		"CACHE-CONTROL: max-age=100\r\n"+
		"EXT:\r\n"+
		"LOCATION: http://%s:%d/description.xml\r\n"+
		"SERVER: FreeRTOS/6.0.5, UPnP/1.1, IpBridge/1.17.0\r\n"+
		"ST: urn:schemas-upnp-org:device:basic:1\r\n"+
		"USN: uuid:2f402f80-da50-11e1-9b23-001788102201::urn:schemas-upnp-org:device:basic:1\r\n\r\n", s.ip, s.port)
}
