package launch

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"
)

const probeTimeout = 200 * time.Millisecond

// PortOpen reports whether host:port accepts TCP connections right now.
func PortOpen(host string, port int) bool {
	conn, err := net.DialTimeout("tcp", net.JoinHostPort(host, strconv.Itoa(port)), probeTimeout)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// WaitPortOpen polls until the port accepts connections. A node that
// printed its URL is not necessarily listening yet.
func WaitPortOpen(ctx context.Context, host string, port int, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for !PortOpen(host, port) {
		if !time.Now().Before(deadline) {
			return fmt.Errorf("timed out waiting for port %s:%d", host, port)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pollInterval):
		}
	}
	return nil
}

// WaitPortClosed polls until the port stops accepting connections.
func WaitPortClosed(ctx context.Context, host string, port int, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for PortOpen(host, port) {
		if !time.Now().Before(deadline) {
			return &TeardownError{Port: port}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pollInterval):
		}
	}
	return nil
}
