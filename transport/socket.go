package transport

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/ipv4"
)

// MaxTTL is the largest hop limit an IPv4 header can carry.
const MaxTTL = 255

// GroupAddr validates a multicast group and port and resolves them into a
// UDP destination address. The group must be a dotted-quad IPv4 address
// inside the multicast range (224.0.0.0/4).
func GroupAddr(group string, port int) (*net.UDPAddr, error) {
	ip := net.ParseIP(group)
	if ip == nil || ip.To4() == nil {
		return nil, fmt.Errorf("%w: %q", ErrBadGroupAddress, group)
	}
	if !ip.IsMulticast() {
		return nil, fmt.Errorf("%w: %s", ErrNotMulticast, group)
	}
	if port < 1 || port > 65535 {
		return nil, fmt.Errorf("%w: %d", ErrPortRange, port)
	}
	return &net.UDPAddr{IP: ip.To4(), Port: port}, nil
}

// SendSocket is a UDP4 datagram socket configured for multicast
// transmission. Its only multicast state is the IP_MULTICAST_TTL option;
// the destination group travels with every send.
type SendSocket struct {
	conn net.PacketConn
	pc   *ipv4.PacketConn
	ttl  int

	mu     sync.Mutex
	closed bool
}

// NewSendSocket creates a send-role multicast socket with the given TTL.
// TTL values outside 0-255 are rejected rather than truncated.
func NewSendSocket(ttl int) (*SendSocket, error) {
	if ttl < 0 || ttl > MaxTTL {
		return nil, fmt.Errorf("%w: %d", ErrTTLRange, ttl)
	}

	conn, err := net.ListenPacket("udp4", ":0")
	if err != nil {
		return nil, newTransportError("create send socket", "", err)
	}

	pc := ipv4.NewPacketConn(conn)
	if err := pc.SetMulticastTTL(ttl); err != nil {
		conn.Close()
		return nil, newTransportError("set multicast TTL", "", err)
	}

	logrus.WithFields(logrus.Fields{
		"function":   "NewSendSocket",
		"ttl":        ttl,
		"local_addr": conn.LocalAddr().String(),
	}).Debug("Created multicast send socket")

	return &SendSocket{conn: conn, pc: pc, ttl: ttl}, nil
}

// TTL returns the hop limit configured on the socket.
func (s *SendSocket) TTL() int {
	return s.ttl
}

// LocalAddr returns the ephemeral local address of the socket.
func (s *SendSocket) LocalAddr() net.Addr {
	return s.conn.LocalAddr()
}

// WriteTo transmits one datagram to the given destination.
func (s *SendSocket) WriteTo(p []byte, addr net.Addr) (int, error) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return 0, newTransportError("send", addr.String(), ErrSocketClosed)
	}
	return s.conn.WriteTo(p, addr)
}

// Close releases the socket. Closing twice is a no-op.
func (s *SendSocket) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	return s.conn.Close()
}

// ReceiveSocket is a UDP4 datagram socket bound to a port with address
// reuse enabled and a multicast group membership on the any interface.
type ReceiveSocket struct {
	conn  net.PacketConn
	pc    *ipv4.PacketConn
	group *net.UDPAddr

	mu     sync.Mutex
	closed bool
}

// NewReceiveSocket creates a receive-role multicast socket: SO_REUSEADDR,
// a wildcard bind on port, then IP_ADD_MEMBERSHIP for the group.
func NewReceiveSocket(group string, port int) (*ReceiveSocket, error) {
	gaddr, err := GroupAddr(group, port)
	if err != nil {
		return nil, err
	}

	lc := net.ListenConfig{Control: reuseAddrControl}
	conn, err := lc.ListenPacket(context.Background(), "udp4", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, newTransportError("bind", fmt.Sprintf(":%d", port), err)
	}

	pc := ipv4.NewPacketConn(conn)
	if err := pc.JoinGroup(nil, &net.UDPAddr{IP: gaddr.IP}); err != nil {
		conn.Close()
		return nil, newTransportError("join group", gaddr.String(), err)
	}

	logrus.WithFields(logrus.Fields{
		"function":   "NewReceiveSocket",
		"group":      gaddr.String(),
		"local_addr": conn.LocalAddr().String(),
	}).Debug("Created multicast receive socket")

	return &ReceiveSocket{conn: conn, pc: pc, group: gaddr}, nil
}

// Group returns the joined multicast group and port.
func (r *ReceiveSocket) Group() *net.UDPAddr {
	return r.group
}

// LocalAddr returns the bound local address of the socket.
func (r *ReceiveSocket) LocalAddr() net.Addr {
	return r.conn.LocalAddr()
}

// SetReadDeadline bounds all future ReadFrom calls on the socket.
func (r *ReceiveSocket) SetReadDeadline(t time.Time) error {
	return r.conn.SetReadDeadline(t)
}

// ReadFrom reads one datagram from the socket.
func (r *ReceiveSocket) ReadFrom(p []byte) (int, net.Addr, error) {
	r.mu.Lock()
	closed := r.closed
	r.mu.Unlock()
	if closed {
		return 0, nil, newTransportError("receive", r.group.String(), ErrSocketClosed)
	}
	return r.conn.ReadFrom(p)
}

// Close leaves the multicast group and releases the socket. Closing twice
// is a no-op.
func (r *ReceiveSocket) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	r.mu.Unlock()

	// Membership is dropped with the socket anyway; an explicit leave just
	// keeps the kernel state tidy when the port stays shared.
	_ = r.pc.LeaveGroup(nil, &net.UDPAddr{IP: r.group.IP})

	return r.conn.Close()
}
