package probe

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"os"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"
)

const (
	// protocolICMP is the IANA protocol number for ICMPv4, used when
	// parsing inbound messages.
	protocolICMP = 1

	// timeSliceLength is the size of the timestamp carried in the echo
	// payload, used to compute the round-trip time from the reply.
	timeSliceLength = 8
)

// ipv4Proto maps the socket mode to the network string understood by
// icmp.ListenPacket.
var ipv4Proto = map[bool]string{
	false: "udp4",
	true:  "ip4:icmp",
}

var (
	// ErrBadHost indicates the probe target is not an IPv4 address in
	// dotted-quad form.
	ErrBadHost = errors.New("host is not an IPv4 dotted-quad address")
)

// Status is the three-valued outcome of a reachability probe.
type Status int

const (
	// StatusReachable means an echo reply arrived within the timeout.
	StatusReachable Status = iota
	// StatusUnreachable means the window expired without a reply, or
	// the network reported the destination unreachable.
	StatusUnreachable
	// StatusIndeterminate means the probe could not run, typically
	// because an ICMP socket could not be opened.
	StatusIndeterminate
)

// String returns a human-readable name for the status.
func (s Status) String() string {
	switch s {
	case StatusReachable:
		return "reachable"
	case StatusUnreachable:
		return "unreachable"
	case StatusIndeterminate:
		return "indeterminate"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Result carries the outcome of a single probe.
type Result struct {
	// Status is the three-valued probe outcome.
	Status Status
	// RTT is the measured round-trip time. It is zero unless Status is
	// StatusReachable.
	RTT time.Duration
}

// Prober sends ICMP echo requests with a fixed per-probe timeout.
// A Prober is safe for concurrent use.
type Prober struct {
	timeout    time.Duration
	privileged bool
	seq        uint32
}

// NewProber creates a prober. The timeout bounds each individual probe;
// privileged selects a raw ICMP socket instead of an unprivileged
// datagram socket.
func NewProber(timeout time.Duration, privileged bool) *Prober {
	if timeout <= 0 {
		timeout = time.Second
	}
	return &Prober{
		timeout:    timeout,
		privileged: privileged,
	}
}

// Ping probes host with a single ICMP echo request. The host must be an
// IPv4 address in dotted-quad form; hostnames are rejected with
// ErrBadHost. A non-nil error means the probe could not be carried out
// and the returned status is StatusIndeterminate.
func (p *Prober) Ping(ctx context.Context, host string) (Result, error) {
	logrus.WithFields(logrus.Fields{
		"function": "Ping",
		"host":     host,
		"timeout":  p.timeout,
	}).Debug("Probing host")

	addr, err := netip.ParseAddr(host)
	if err != nil || !addr.Is4() {
		return Result{Status: StatusIndeterminate}, fmt.Errorf("probe %q: %w", host, ErrBadHost)
	}

	conn, err := icmp.ListenPacket(ipv4Proto[p.privileged], "0.0.0.0")
	if err != nil {
		return Result{Status: StatusIndeterminate}, fmt.Errorf("probe %s: open icmp socket: %w", host, err)
	}
	defer conn.Close()

	seq := int(atomic.AddUint32(&p.seq, 1) & 0xffff)
	payload := make([]byte, timeSliceLength)
	binary.BigEndian.PutUint64(payload, uint64(time.Now().UnixNano()))

	msg := icmp.Message{
		Type: ipv4.ICMPTypeEcho,
		Code: 0,
		Body: &icmp.Echo{
			ID:   os.Getpid() & 0xffff,
			Seq:  seq,
			Data: payload,
		},
	}
	wire, err := msg.Marshal(nil)
	if err != nil {
		return Result{Status: StatusIndeterminate}, fmt.Errorf("probe %s: marshal echo: %w", host, err)
	}

	if _, err := conn.WriteTo(wire, p.dest(addr)); err != nil {
		return Result{Status: StatusIndeterminate}, fmt.Errorf("probe %s: send echo: %w", host, err)
	}

	deadline := time.Now().Add(p.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err := conn.SetReadDeadline(deadline); err != nil {
		return Result{Status: StatusIndeterminate}, fmt.Errorf("probe %s: arm deadline: %w", host, err)
	}

	buf := make([]byte, 1500)
	for {
		if err := ctx.Err(); err != nil {
			return Result{Status: StatusIndeterminate}, fmt.Errorf("probe %s: %w", host, err)
		}

		n, _, err := conn.ReadFrom(buf)
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				logrus.WithFields(logrus.Fields{
					"function": "Ping",
					"host":     host,
				}).Debug("Probe window expired without a reply")
				return Result{Status: StatusUnreachable}, nil
			}
			return Result{Status: StatusIndeterminate}, fmt.Errorf("probe %s: read reply: %w", host, err)
		}

		reply, err := icmp.ParseMessage(protocolICMP, buf[:n])
		if err != nil {
			continue
		}

		switch body := reply.Body.(type) {
		case *icmp.Echo:
			if reply.Type != ipv4.ICMPTypeEchoReply {
				continue
			}
			if !p.matches(body, seq, payload) {
				continue
			}
			rtt := p.rtt(body.Data)
			logrus.WithFields(logrus.Fields{
				"function": "Ping",
				"host":     host,
				"rtt":      rtt,
			}).Debug("Host answered echo request")
			return Result{Status: StatusReachable, RTT: rtt}, nil
		case *icmp.DstUnreach:
			logrus.WithFields(logrus.Fields{
				"function": "Ping",
				"host":     host,
			}).Debug("Network reported destination unreachable")
			return Result{Status: StatusUnreachable}, nil
		}
	}
}

// dest builds the destination address for the active socket mode. The
// unprivileged datagram socket expects a UDP address, the raw socket an
// IP address.
func (p *Prober) dest(addr netip.Addr) net.Addr {
	ip := addr.AsSlice()
	if p.privileged {
		return &net.IPAddr{IP: ip}
	}
	return &net.UDPAddr{IP: ip}
}

// matches reports whether an echo body answers the request we sent. On
// an unprivileged socket the kernel rewrites the identifier, so only
// the sequence number and payload are compared there.
func (p *Prober) matches(body *icmp.Echo, seq int, payload []byte) bool {
	if body.Seq != seq {
		return false
	}
	if len(body.Data) < timeSliceLength {
		return false
	}
	if p.privileged && body.ID != os.Getpid()&0xffff {
		return false
	}
	return string(body.Data[:timeSliceLength]) == string(payload)
}

// rtt recovers the round-trip time from the echoed timestamp.
func (p *Prober) rtt(data []byte) time.Duration {
	if len(data) < timeSliceLength {
		return 0
	}
	sent := int64(binary.BigEndian.Uint64(data[:timeSliceLength]))
	return time.Duration(time.Now().UnixNano() - sent)
}
