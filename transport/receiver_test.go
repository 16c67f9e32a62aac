package transport

import (
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReceiveNilSocket(t *testing.T) {
	_, err := Receive(nil, time.Second)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNilSocket))
}

func TestReceiveEmptyWindow(t *testing.T) {
	sock, err := NewReceiveSocket("239.239.239.239", 16010)
	if err != nil {
		t.Skipf("multicast membership not available in this environment: %v", err)
	}
	defer sock.Close()

	timeout := 200 * time.Millisecond
	start := time.Now()
	messages, err := Receive(sock, timeout)
	elapsed := time.Since(start)

	require.NoError(t, err, "an empty window is a normal outcome, not an error")
	assert.Empty(t, messages)
	assert.GreaterOrEqual(t, elapsed, timeout, "the window must stay open for the full timeout")
	assert.Less(t, elapsed, timeout+time.Second)
}

func TestReceiveCollectsInArrivalOrder(t *testing.T) {
	sock, err := NewReceiveSocket("239.239.239.239", 16011)
	if err != nil {
		t.Skipf("multicast membership not available in this environment: %v", err)
	}
	defer sock.Close()

	// Datagrams written to the bound port over loopback land in the same
	// receive queue as group traffic, which keeps this test independent of
	// multicast routing.
	go func() {
		conn, err := net.Dial("udp4", "127.0.0.1:16011")
		if err != nil {
			return
		}
		defer conn.Close()
		for i := 1; i <= 3; i++ {
			fmt.Fprintf(conn, "message-%d", i)
			time.Sleep(20 * time.Millisecond)
		}
	}()

	messages, err := Receive(sock, 500*time.Millisecond)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, []string{"message-1", "message-2", "message-3"}, messages)
}

func TestReceiveTruncatesOversizedDatagram(t *testing.T) {
	sock, err := NewReceiveSocket("239.239.239.239", 16012)
	if err != nil {
		t.Skipf("multicast membership not available in this environment: %v", err)
	}
	defer sock.Close()

	payload := make([]byte, 2000)
	for i := range payload {
		payload[i] = 'a'
	}

	go func() {
		conn, err := net.Dial("udp4", "127.0.0.1:16012")
		if err != nil {
			return
		}
		defer conn.Close()
		conn.Write(payload)
	}()

	messages, err := Receive(sock, 500*time.Millisecond)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Len(t, messages[0], recvBufferSize, "reads are capped at the datagram buffer size")
}

func TestReceiveAfterClose(t *testing.T) {
	sock, err := NewReceiveSocket("239.239.239.239", 16013)
	if err != nil {
		t.Skipf("multicast membership not available in this environment: %v", err)
	}
	require.NoError(t, sock.Close())

	messages, err := Receive(sock, 100*time.Millisecond)
	require.Error(t, err)
	assert.Empty(t, messages)
}

func TestSendReceiveRoundTripOverLoopback(t *testing.T) {
	recv, err := NewReceiveSocket("239.239.239.239", 16014)
	if err != nil {
		t.Skipf("multicast membership not available in this environment: %v", err)
	}
	defer recv.Close()

	send, err := NewSendSocket(5)
	require.NoError(t, err)
	defer send.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		dst := &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 16014}
		for i := 0; i < 3; i++ {
			send.WriteTo([]byte("round-trip"), dst)
			time.Sleep(20 * time.Millisecond)
		}
	}()

	messages, err := Receive(recv, 500*time.Millisecond)
	<-done
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(messages), 1, "loopback datagrams should reach the bound socket")
	for _, msg := range messages {
		assert.Equal(t, "round-trip", msg)
	}
}
