// Package probe implements ICMP echo reachability checks for test hosts.
//
// A Prober sends a single ICMP echo request and waits for the matching
// reply. The outcome is reported as a three-valued Status so callers can
// tell a host that did not answer apart from a probe that never ran:
//
//   - StatusReachable: an echo reply arrived within the timeout.
//   - StatusUnreachable: the window expired, or the network answered
//     with a destination-unreachable message.
//   - StatusIndeterminate: the probe could not be carried out, usually
//     because the process may not open an ICMP socket.
//
// # Socket Modes
//
// By default the prober uses an unprivileged datagram ICMP socket
// ("udp4"), which works for ordinary processes on Linux when
// net.ipv4.ping_group_range admits the process group. Privileged mode
// uses a raw socket ("ip4:icmp") and matches the echo identifier
// exactly, but requires elevated rights.
//
// # Usage
//
//	p := probe.NewProber(time.Second, false)
//	res, err := p.Ping(context.Background(), "192.168.1.10")
//	if err != nil {
//		// the probe itself failed
//	}
//	if res.Status == probe.StatusReachable {
//		// host answered in res.RTT
//	}
package probe
