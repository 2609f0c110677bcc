package launch

import (
	"net"
	"strconv"

	"sclab_app/core"
)

// IsPortFree reports whether a TCP listener can bind host:port right now.
// The probe listener is closed immediately, so a small race with another
// process remains possible; the child rebinding shortly after keeps the
// window harmless in practice.
func IsPortFree(host string, port int) bool {
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return false
	}
	listener.Close()
	return true
}

// SelectPort returns the requested port when it is free, otherwise the first
// free port found scanning upward from it. The scan is bounded so a fully
// occupied range returns ErrPortExhausted instead of spinning forever.
func SelectPort(host string, requested int) (int, error) {
	for i := 0; i < core.MaxPortScanAttempts; i++ {
		port := requested + i
		if port > 65535 {
			break
		}
		if IsPortFree(host, port) {
			return port, nil
		}
	}
	return 0, core.ErrPortExhausted(host, requested, core.MaxPortScanAttempts)
}
