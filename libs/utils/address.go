package utils

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
)

var (
	ErrInvalidIP   = errors.New("invalid IP address or hostname given")
	ErrInvalidPort = errors.New("invalid port given")
	ErrInvalidURL  = errors.New("invalid endpoint URL given")
)

// SanitizeAddr trims leading protocol scheme, port and trailing slash from the given IP address or
// hostname if present.
func SanitizeAddr(addr string) (string, error) {
	original := addr
	if i := strings.Index(addr, "://"); i >= 0 {
		addr = addr[i+3:]
	}
	addr = strings.TrimSuffix(addr, "/")
	if host, _, err := net.SplitHostPort(addr); err == nil {
		addr = host
	}
	if addr == "" {
		return "", fmt.Errorf("%w: %s", ErrInvalidIP, original)
	}
	return addr, nil
}

// ValidateAddr sanitizes the given address and verifies that it is a valid IP or hostname. The
// sanitized address is returned. Hostnames are not resolved.
func ValidateAddr(addr string) (string, error) {
	addr, err := SanitizeAddr(addr)
	if err != nil {
		return addr, err
	}
	if net.ParseIP(addr) != nil {
		return addr, nil
	}

	for _, label := range strings.Split(addr, ".") {
		if label == "" || len(label) > 63 || strings.HasPrefix(label, "-") || strings.HasSuffix(label, "-") {
			return addr, fmt.Errorf("%w: %s", ErrInvalidIP, addr)
		}
		for _, r := range label {
			if !(r == '-' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
				return addr, fmt.Errorf("%w: %s", ErrInvalidIP, addr)
			}
		}
	}
	return addr, nil
}

// ValidatePort verifies the given port is a number in the TCP range. Zero is allowed and picks a
// free port on listen.
func ValidatePort(port string) error {
	if _, err := strconv.ParseUint(port, 10, 16); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidPort, port)
	}
	return nil
}

// ValidateURL verifies the given endpoint is an absolute http(s) or ws(s) URL with a valid host.
func ValidateURL(endpoint string) error {
	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	switch u.Scheme {
	case "http", "https", "ws", "wss":
	default:
		return fmt.Errorf("%w: unsupported scheme in %s", ErrInvalidURL, endpoint)
	}
	if _, err := ValidateAddr(u.Host); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	if port := u.Port(); port != "" {
		return ValidatePort(port)
	}
	return nil
}
