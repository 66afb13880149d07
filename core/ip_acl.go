package core

import (
	"fmt"
	"net"
	"strings"
)

// AdminNetworkACL restricts which client addresses may reach admin routes.
// A nil ACL allows every address.
type AdminNetworkACL struct {
	allow []*net.IPNet
	deny  []*net.IPNet
}

// NewAdminNetworkACL parses ADMIN_ALLOW_CIDRS and ADMIN_DENY_CIDRS entries.
// Bare IPs are treated as single-host networks. It returns nil, nil when both lists are empty.
func NewAdminNetworkACL(allowCIDRs, denyCIDRs []string) (*AdminNetworkACL, error) {
	allow, err := parseNetworks(allowCIDRs)
	if err != nil {
		return nil, fmt.Errorf("invalid ADMIN_ALLOW_CIDRS: %w", err)
	}
	deny, err := parseNetworks(denyCIDRs)
	if err != nil {
		return nil, fmt.Errorf("invalid ADMIN_DENY_CIDRS: %w", err)
	}
	if len(allow) == 0 && len(deny) == 0 {
		return nil, nil
	}
	return &AdminNetworkACL{allow: allow, deny: deny}, nil
}

// Allows reports whether the client address may use admin routes. Deny entries win.
func (a *AdminNetworkACL) Allows(clientIP string) bool {
	if a == nil {
		return true
	}
	ip := net.ParseIP(strings.TrimSpace(clientIP))
	if ip == nil {
		return false
	}

	for _, n := range a.deny {
		if n.Contains(ip) {
			return false
		}
	}
	if len(a.allow) == 0 {
		return true
	}
	for _, n := range a.allow {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

func parseNetworks(list []string) ([]*net.IPNet, error) {
	var out []*net.IPNet
	for _, raw := range list {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		n, err := parseCIDROrIP(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func parseCIDROrIP(value string) (*net.IPNet, error) {
	if strings.Contains(value, "/") {
		_, ipNet, err := net.ParseCIDR(value)
		if err != nil {
			return nil, fmt.Errorf("invalid CIDR %q", value)
		}
		return ipNet, nil
	}

	ip := net.ParseIP(value)
	if ip == nil {
		return nil, fmt.Errorf("invalid IP %q", value)
	}
	if ip4 := ip.To4(); ip4 != nil {
		return &net.IPNet{IP: ip4, Mask: net.CIDRMask(32, 32)}, nil
	}
	return &net.IPNet{IP: ip, Mask: net.CIDRMask(128, 128)}, nil
}
