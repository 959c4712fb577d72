// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package lanaddr discovers the non-loopback IPv4 addresses of this machine,
// so that a local server can tell its operator how to reach it from other
// devices.
//
// Discovery is best-effort: every failure is swallowed and the worst case is
// an empty result.
package lanaddr

import (
	"context"
	"net"
	"os"
	"time"

	"go.astrophena.name/devserve/internal/util/set"
)

// DefaultProbeAddr is the public address the routing probe "connects" to.
// No packet is ever sent to it.
const DefaultProbeAddr = "8.8.8.8:80"

// DefaultTimeout bounds the whole discovery.
const DefaultTimeout = 2 * time.Second

// Discoverer finds local addresses. The zero value uses the operating
// system's resolver and network stack.
type Discoverer struct {
	// Hostname returns the machine's host name. If nil, os.Hostname is used.
	Hostname func() (string, error)
	// LookupHost resolves a host name to addresses. If nil,
	// net.DefaultResolver.LookupHost is used.
	LookupHost func(ctx context.Context, host string) ([]string, error)
	// Dial opens a connection. If nil, a net.Dialer is used.
	Dial func(ctx context.Context, network, addr string) (net.Conn, error)
	// ProbeAddr is the target of the routing probe. If empty,
	// DefaultProbeAddr is used.
	ProbeAddr string
	// Timeout bounds the discovery. If zero, DefaultTimeout is used.
	Timeout time.Duration
}

// Discover returns the sorted, deduplicated non-loopback IPv4 addresses of
// this machine. It never fails; the result may be empty.
//
// Two sources are combined: the addresses the machine's host name resolves
// to, and the local address the routing stack picks for an outbound UDP
// socket.
func (d *Discoverer) Discover(ctx context.Context) []string {
	timeout := d.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	found := set.New[string](4)
	found.AddAll(d.fromHostname(ctx))
	found.AddAll(d.fromRoute(ctx))
	return found.ToSortedSlice()
}

func (d *Discoverer) fromHostname(ctx context.Context) []string {
	hostname := d.Hostname
	if hostname == nil {
		hostname = os.Hostname
	}
	lookup := d.LookupHost
	if lookup == nil {
		lookup = net.DefaultResolver.LookupHost
	}

	name, err := hostname()
	if err != nil || name == "" {
		return nil
	}
	addrs, err := lookup(ctx, name)
	if err != nil {
		return nil
	}
	var ips []string
	for _, a := range addrs {
		if ip, ok := usable(net.ParseIP(a)); ok {
			ips = append(ips, ip)
		}
	}
	return ips
}

func (d *Discoverer) fromRoute(ctx context.Context) []string {
	dial := d.Dial
	if dial == nil {
		dial = new(net.Dialer).DialContext
	}
	probe := d.ProbeAddr
	if probe == "" {
		probe = DefaultProbeAddr
	}

	// Connecting a UDP socket only selects a route; nothing is sent.
	conn, err := dial(ctx, "udp4", probe)
	if err != nil {
		return nil
	}
	defer conn.Close()

	udp, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok {
		return nil
	}
	if ip, ok := usable(udp.IP); ok {
		return []string{ip}
	}
	return nil
}

// usable reports whether ip is an IPv4 address outside 127.0.0.0/8 and
// returns its dotted form.
func usable(ip net.IP) (string, bool) {
	ip4 := ip.To4()
	if ip4 == nil || ip4.IsLoopback() || ip4.IsUnspecified() {
		return "", false
	}
	return ip4.String(), true
}
