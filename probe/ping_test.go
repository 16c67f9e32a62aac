package probe

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/net/icmp"
)

func TestStatusString(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusReachable, "reachable"},
		{StatusUnreachable, "unreachable"},
		{StatusIndeterminate, "indeterminate"},
		{Status(42), "status(42)"},
	}
	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("Status(%d).String() = %q, want %q", int(tt.status), got, tt.want)
		}
	}
}

func TestPingRejectsNonDottedQuad(t *testing.T) {
	p := NewProber(time.Second, false)

	for _, host := range []string{"example.com", "", "fe80::1", "192.168.1"} {
		res, err := p.Ping(context.Background(), host)
		if err == nil {
			t.Errorf("Ping(%q) should fail for a non dotted-quad host", host)
			continue
		}
		if !errors.Is(err, ErrBadHost) {
			t.Errorf("Ping(%q) error = %v, want ErrBadHost", host, err)
		}
		if res.Status != StatusIndeterminate {
			t.Errorf("Ping(%q) status = %v, want indeterminate", host, res.Status)
		}
	}
}

func TestNewProberDefaultsTimeout(t *testing.T) {
	p := NewProber(0, false)
	if p.timeout != time.Second {
		t.Errorf("zero timeout should default to one second, got %v", p.timeout)
	}
	p = NewProber(-time.Second, true)
	if p.timeout != time.Second {
		t.Errorf("negative timeout should default to one second, got %v", p.timeout)
	}
}

// icmpAvailable reports whether this process may open an unprivileged
// ICMP socket. CI sandboxes frequently close ping_group_range.
func icmpAvailable() bool {
	conn, err := icmp.ListenPacket("udp4", "0.0.0.0")
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

func TestPingLoopback(t *testing.T) {
	if !icmpAvailable() {
		t.Skip("unprivileged ICMP sockets not permitted in this environment")
	}

	p := NewProber(2*time.Second, false)
	res, err := p.Ping(context.Background(), "127.0.0.1")
	if err != nil {
		t.Fatalf("Ping(127.0.0.1) failed: %v", err)
	}
	if res.Status != StatusReachable {
		t.Fatalf("loopback should be reachable, got %v", res.Status)
	}
	if res.RTT <= 0 {
		t.Errorf("reachable probe should report a positive RTT, got %v", res.RTT)
	}
}

func TestPingTimesOutOnSilentHost(t *testing.T) {
	if !icmpAvailable() {
		t.Skip("unprivileged ICMP sockets not permitted in this environment")
	}

	// 192.0.2.0/24 is TEST-NET-1 and never answers.
	p := NewProber(300*time.Millisecond, false)
	start := time.Now()
	res, err := p.Ping(context.Background(), "192.0.2.1")
	elapsed := time.Since(start)
	if err != nil {
		t.Skipf("probe could not run: %v", err)
	}
	if res.Status != StatusUnreachable {
		t.Fatalf("silent host should be unreachable, got %v", res.Status)
	}
	if elapsed > 2*time.Second {
		t.Errorf("probe should return once the window expires, took %v", elapsed)
	}
}

func TestPingHonorsContextCancellation(t *testing.T) {
	if !icmpAvailable() {
		t.Skip("unprivileged ICMP sockets not permitted in this environment")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	p := NewProber(10*time.Second, false)
	start := time.Now()
	res, _ := p.Ping(ctx, "192.0.2.1")
	elapsed := time.Since(start)

	if res.Status == StatusReachable {
		t.Fatal("TEST-NET-1 must not be reachable")
	}
	if elapsed > 5*time.Second {
		t.Errorf("context deadline should bound the probe, took %v", elapsed)
	}
}
