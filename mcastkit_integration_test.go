package mcastkit

import (
	"bytes"
	"errors"
	"image"
	"image/jpeg"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/mcastkit/journal"
	"github.com/opd-ai/mcastkit/video"
)

func TestFacadeReceiveCollectsLoopbackTraffic(t *testing.T) {
	lib := newTestLibrary(t)

	recv, err := lib.CreateReceiveSocket("239.239.239.239", 17001)
	if err != nil {
		t.Skipf("multicast membership not available in this environment: %v", err)
	}
	defer recv.Close()

	go func() {
		conn, err := net.Dial("udp4", "127.0.0.1:17001")
		if err != nil {
			return
		}
		defer conn.Close()
		for i := 0; i < 3; i++ {
			conn.Write([]byte("status-check"))
			time.Sleep(20 * time.Millisecond)
		}
	}()

	messages, err := lib.ReceiveMulticastMessage(recv, 500*time.Millisecond)
	require.NoError(t, err)
	require.NotEmpty(t, messages, "loopback datagrams should reach the bound socket")

	require.NoError(t, lib.ShouldMessagesBeEqual("status-check", messages))
	require.Error(t, lib.ShouldMessagesNotBeEqual("status-check", messages))
}

func TestFacadeStopLatchShortensSendWindows(t *testing.T) {
	lib := newTestLibrary(t)

	sock, err := lib.CreateSendSocket(5)
	require.NoError(t, err)
	defer sock.Close()

	lib.StopSending()

	// With the latch set, a long window must end without a single
	// transmission, so no multicast route is needed.
	start := time.Now()
	err = lib.SendMulticastMessage(sock, "239.239.239.239", 17002, "silence", 100*time.Millisecond, 10*time.Second)
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Less(t, elapsed, time.Second, "latched send should return at once")

	lib.ResetSending()

	start = time.Now()
	err = lib.SendMulticastMessage(sock, "239.239.239.239", 17002, "pace", 50*time.Millisecond, 200*time.Millisecond)
	elapsed = time.Since(start)
	if err != nil {
		t.Skipf("multicast send not available in this environment: %v", err)
	}
	assert.GreaterOrEqual(t, elapsed, 200*time.Millisecond, "after reset the window runs out in full")
}

func TestFacadeJournalRecordsOutcomes(t *testing.T) {
	journalPath := filepath.Join(t.TempDir(), "run.db")

	options := NewOptions()
	options.LogLevel = "error"
	options.JournalPath = journalPath
	lib, err := New(options)
	require.NoError(t, err)

	require.NoError(t, lib.ShouldMessagesBeEqual("a", []string{"a"}))
	require.Error(t, lib.ShouldMessagesBeEqual("b", []string{"a"}))
	lib.StopSending()

	// The facade reads the live journal without reopening the file.
	recent, err := lib.RecentEvents(2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "StopSending", recent[1].Keyword)

	require.NoError(t, lib.Close())

	j, err := journal.Open(journalPath)
	require.NoError(t, err)
	defer j.Close()

	events, err := j.Recent(0)
	require.NoError(t, err)
	require.Len(t, events, 3)

	assert.Equal(t, "ShouldMessagesBeEqual", events[0].Keyword)
	assert.Equal(t, "pass", events[0].Outcome)
	assert.Equal(t, "fail", events[1].Outcome)
	assert.Contains(t, events[1].Error, "'b' is not found")
	assert.Equal(t, "StopSending", events[2].Keyword)
}

func TestFacadeRecentEventsWithoutJournal(t *testing.T) {
	lib := newTestLibrary(t)

	_, err := lib.RecentEvents(5)
	require.ErrorIs(t, err, ErrNoJournal)
}

func TestFacadeGrabsStreamedFrame(t *testing.T) {
	lib := newTestLibrary(t)

	recv, err := lib.CreateReceiveSocket("239.239.239.239", 17003)
	if err != nil {
		t.Skipf("multicast membership not available in this environment: %v", err)
	}
	recv.Close()

	// Encode a uniform test card and stream it in small datagrams.
	img := image.NewYCbCr(image.Rect(0, 0, 32, 32), image.YCbCrSubsampleRatio420)
	for i := range img.Y {
		img.Y[i] = 160
	}
	for i := range img.Cb {
		img.Cb[i] = 128
		img.Cr[i] = 128
	}
	var encoded bytes.Buffer
	require.NoError(t, jpeg.Encode(&encoded, img, &jpeg.Options{Quality: 100}))

	go func() {
		conn, err := net.Dial("udp4", "127.0.0.1:17003")
		if err != nil {
			return
		}
		defer conn.Close()
		data := encoded.Bytes()
		// Give GetStreamingFrame a moment to join before the burst.
		time.Sleep(50 * time.Millisecond)
		for len(data) > 0 {
			n := 400
			if n > len(data) {
				n = len(data)
			}
			conn.Write(data[:n])
			data = data[n:]
			time.Sleep(5 * time.Millisecond)
		}
	}()

	frame, err := lib.GetStreamingFrame("udp://239.239.239.239:17003")
	require.NoError(t, err)
	assert.Equal(t, 32, frame.Width)
	assert.InDelta(t, 160, int(frame.Y[0]), 4)

	path, err := lib.ConvertFrameToImage(frame, filepath.Join(t.TempDir(), "grab.jpg"), 0, 0)
	require.NoError(t, err)
	require.NoError(t, lib.ShouldBeEqualAsFrames(path, path))
}

func TestFacadeGrabTimesOutOnSilentStream(t *testing.T) {
	options := NewOptions()
	options.LogLevel = "error"
	options.ReceiveTimeout = 200 * time.Millisecond
	lib, err := New(options)
	require.NoError(t, err)
	defer lib.Close()

	probeSock, err := lib.CreateReceiveSocket("239.239.239.239", 17004)
	if err != nil {
		t.Skipf("multicast membership not available in this environment: %v", err)
	}
	probeSock.Close()

	_, err = lib.GetStreamingFrame("udp://239.239.239.239:17005")
	require.Error(t, err)
	assert.True(t, errors.Is(err, video.ErrNoFrame))

	var kerr *KeywordError
	require.True(t, errors.As(err, &kerr))
	assert.Equal(t, FailureExternal, kerr.Kind)
}
