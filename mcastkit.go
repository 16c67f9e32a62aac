// Package mcastkit implements a keyword library for multicast stream
// test automation.
//
// Example:
//
//	lib, err := mcastkit.New(mcastkit.NewOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer lib.Close()
//
//	sock, err := lib.CreateSendSocket(5)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer sock.Close()
//
//	err = lib.SendMulticastMessage(sock, "239.239.239.239", 5999,
//	    "hello", time.Second, 5*time.Second)
package mcastkit

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/mcastkit/journal"
	"github.com/opd-ai/mcastkit/probe"
	"github.com/opd-ai/mcastkit/transport"
	"github.com/opd-ai/mcastkit/video"
)

// ErrBadStreamURL indicates a stream location that is not in
// udp://group:port form.
var ErrBadStreamURL = errors.New("stream url must be udp://group:port")

// ErrNoJournal indicates a journal read on a library that runs without
// a configured journal path.
var ErrNoJournal = errors.New("no run journal configured")

// Library is the keyword library instance. It owns the stop registry
// shared by all send loops, the reachability prober, and the optional
// run journal. A Library is safe for concurrent use.
type Library struct {
	options  *Options
	registry *transport.StopRegistry
	prober   *probe.Prober
	journal  *journal.Journal
}

// New creates a Library with the given options. A nil options uses the
// defaults. The configured log level is applied to the process-wide
// logger, and the run journal is opened when a path is configured.
func New(options *Options) (*Library, error) {
	if options == nil {
		options = NewOptions()
	}
	if err := options.Validate(); err != nil {
		return nil, fmt.Errorf("library options: %w", err)
	}

	level, err := logrus.ParseLevel(options.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("library options: %w", err)
	}
	logrus.SetLevel(level)

	lib := &Library{
		options:  options,
		registry: transport.NewStopRegistry(),
		prober:   probe.NewProber(options.ProbeTimeout, options.PrivilegedICMP),
	}

	if options.JournalPath != "" {
		lib.journal, err = journal.Open(options.JournalPath)
		if err != nil {
			return nil, err
		}
	}

	logrus.WithFields(logrus.Fields{
		"function": "New",
		"group":    options.Group,
		"port":     options.Port,
	}).Debug("Created keyword library")
	return lib, nil
}

// Close releases the run journal, if one is open.
func (l *Library) Close() error {
	if l.journal == nil {
		return nil
	}
	return l.journal.Close()
}

// RecentEvents returns the newest journal events in chronological
// order, at most limit of them.
func (l *Library) RecentEvents(limit int) ([]journal.Event, error) {
	if l.journal == nil {
		return nil, ErrNoJournal
	}
	return l.journal.Recent(limit)
}

// record appends a keyword outcome to the run journal. Journal trouble
// is logged, never surfaced, so bookkeeping cannot fail a test step.
func (l *Library) record(keyword string, err error, detail map[string]string) {
	if l.journal == nil {
		return
	}
	event := journal.Event{
		Time:    time.Now(),
		Keyword: keyword,
		Outcome: "pass",
		Detail:  detail,
	}
	if err != nil {
		event.Outcome = "fail"
		event.Error = err.Error()
	}
	if jerr := l.journal.Record(event); jerr != nil {
		logrus.WithFields(logrus.Fields{
			"function": "record",
			"keyword":  keyword,
			"error":    jerr,
		}).Warn("Could not record keyword outcome")
	}
}

// fail classifies err as a keyword failure, records it, and returns
// the wrapped error.
func (l *Library) fail(keyword string, err error, detail map[string]string) *KeywordError {
	kerr := newKeywordError(keyword, err)
	l.record(keyword, kerr, detail)
	return kerr
}

// CreateSendSocket opens a UDP socket configured for multicast sending
// with the given time-to-live. The caller owns the socket and must
// close it.
func (l *Library) CreateSendSocket(ttl int) (*transport.SendSocket, error) {
	sock, err := transport.NewSendSocket(ttl)
	if err != nil {
		return nil, l.fail("CreateSendSocket", err, map[string]string{"ttl": strconv.Itoa(ttl)})
	}
	l.record("CreateSendSocket", nil, map[string]string{"ttl": strconv.Itoa(ttl)})
	return sock, nil
}

// CreateReceiveSocket opens a UDP socket bound to the group's port and
// joined to the group. The caller owns the socket and must close it.
func (l *Library) CreateReceiveSocket(group string, port int) (*transport.ReceiveSocket, error) {
	detail := map[string]string{"group": group, "port": strconv.Itoa(port)}
	sock, err := transport.NewReceiveSocket(group, port)
	if err != nil {
		return nil, l.fail("CreateReceiveSocket", err, detail)
	}
	l.record("CreateReceiveSocket", nil, detail)
	return sock, nil
}

// SendMulticastMessage repeats message to group:port on the given
// interval until duration elapses or StopSending is called. The call
// blocks for the whole window; run it in a goroutine to overlap with a
// receive. Ending by stop request or by running out the window are
// both success.
func (l *Library) SendMulticastMessage(sock *transport.SendSocket, group string, port int, message string, interval, duration time.Duration) error {
	token := l.registry.NewToken()
	defer l.registry.Release(token)

	sent, err := transport.Send(sock, group, port, message, interval, duration, token)
	detail := map[string]string{
		"group": group,
		"port":  strconv.Itoa(port),
		"sent":  strconv.Itoa(sent),
	}
	if err != nil {
		return l.fail("SendMulticastMessage", err, detail)
	}
	l.record("SendMulticastMessage", nil, detail)
	return nil
}

// ReceiveMulticastMessage collects every datagram that arrives on the
// socket within timeout and returns them in arrival order. An empty
// slice means a silent window, which is a normal outcome.
func (l *Library) ReceiveMulticastMessage(sock *transport.ReceiveSocket, timeout time.Duration) ([]string, error) {
	messages, err := transport.Receive(sock, timeout)
	detail := map[string]string{
		"timeout":  timeout.String(),
		"messages": strconv.Itoa(len(messages)),
	}
	if err != nil {
		return messages, l.fail("ReceiveMulticastMessage", err, detail)
	}
	l.record("ReceiveMulticastMessage", nil, detail)
	return messages, nil
}

// StopSending halts every in-flight send loop and latches: send
// keywords started after this call finish immediately with zero
// transmissions, until ResetSending.
func (l *Library) StopSending() {
	l.registry.StopAll()
	l.record("StopSending", nil, nil)
}

// ResetSending releases the stop latch so later send keywords run
// their full windows again.
func (l *Library) ResetSending() {
	l.registry.Reset()
	l.record("ResetSending", nil, nil)
}

// ShouldMessagesBeEqual verifies that the sent message appears among
// the received ones. The returned failure is assertion-classified.
func (l *Library) ShouldMessagesBeEqual(sent string, received []string) error {
	if !containsMessage(received, sent) {
		kerr := newAssertionError("ShouldMessagesBeEqual",
			"'%s' is not found in the received message", sent)
		l.record("ShouldMessagesBeEqual", kerr, nil)
		return kerr
	}
	l.record("ShouldMessagesBeEqual", nil, nil)
	return nil
}

// ShouldMessagesNotBeEqual verifies that the sent message does not
// appear among the received ones.
func (l *Library) ShouldMessagesNotBeEqual(sent string, received []string) error {
	if containsMessage(received, sent) {
		kerr := newAssertionError("ShouldMessagesNotBeEqual",
			"'%s' is found in the received message", sent)
		l.record("ShouldMessagesNotBeEqual", kerr, nil)
		return kerr
	}
	l.record("ShouldMessagesNotBeEqual", nil, nil)
	return nil
}

func containsMessage(messages []string, want string) bool {
	for _, msg := range messages {
		if msg == want {
			return true
		}
	}
	return false
}

// Ping probes a host with a single ICMP echo and reports plain
// reachability. Hosts that are down, silent, or not valid dotted-quad
// addresses all report false.
func (l *Library) Ping(host string) bool {
	res, err := l.prober.Ping(context.Background(), host)
	detail := map[string]string{"host": host, "status": res.Status.String()}
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "Ping",
			"host":     host,
			"error":    err,
		}).Warn("Reachability probe could not run")
	}
	l.record("Ping", nil, detail)
	return res.Status == probe.StatusReachable
}

// GetFrameCount returns the number of frames in a capture file.
func (l *Library) GetFrameCount(videoFile string) (int, error) {
	count, err := video.CountFrames(videoFile)
	detail := map[string]string{"file": videoFile, "frames": strconv.Itoa(count)}
	if err != nil {
		return 0, l.fail("GetFrameCount", err, detail)
	}
	l.record("GetFrameCount", nil, detail)
	return count, nil
}

// ExtractVideoFrames writes every frame of a capture file as numbered
// still images and returns their paths in frame order. Empty format
// and outputDir fall back to the configured defaults.
func (l *Library) ExtractVideoFrames(videoFile, format, outputDir string) ([]string, error) {
	if format == "" {
		format = l.options.FrameFormat
	}
	if outputDir == "" {
		outputDir = l.options.FrameDir
	}

	written, err := video.ExtractFrames(videoFile, format, outputDir)
	detail := map[string]string{
		"file":   videoFile,
		"format": format,
		"frames": strconv.Itoa(len(written)),
	}
	if err != nil {
		return written, l.fail("ExtractVideoFrames", err, detail)
	}
	l.record("ExtractVideoFrames", nil, detail)
	return written, nil
}

// RemoveVideoFrameFiles deletes every file with the given image format
// extension from dir and returns how many were removed. Empty format
// and dir fall back to the configured defaults.
func (l *Library) RemoveVideoFrameFiles(format, dir string) (int, error) {
	if format == "" {
		format = l.options.FrameFormat
	}
	if dir == "" {
		dir = l.options.FrameDir
	}

	removed, err := video.RemoveFrameFiles(format, dir)
	detail := map[string]string{
		"format":  format,
		"removed": strconv.Itoa(removed),
	}
	if err != nil {
		return removed, l.fail("RemoveVideoFrameFiles", err, detail)
	}
	l.record("RemoveVideoFrameFiles", nil, detail)
	return removed, nil
}

// ShouldBeEqualAsFrames verifies that two still-image files show the
// same picture within the codec-noise tolerance. Differing pictures
// and differing dimensions both fail the assertion; missing files are
// not-found failures.
func (l *Library) ShouldBeEqualAsFrames(srcImg, dstImg string) error {
	detail := map[string]string{"src": srcImg, "dst": dstImg}

	match, err := video.ImagesMatch(srcImg, dstImg)
	if err != nil {
		return l.fail("ShouldBeEqualAsFrames", err, detail)
	}
	if !match {
		kerr := newAssertionError("ShouldBeEqualAsFrames",
			"'%s' and '%s' do not show the same frame", srcImg, dstImg)
		l.record("ShouldBeEqualAsFrames", kerr, detail)
		return kerr
	}
	l.record("ShouldBeEqualAsFrames", nil, detail)
	return nil
}

// GetStreamingFrame joins the MJPEG stream at streamURL, grabs one
// complete frame, and returns it decoded. The stream location must be
// in udp://group:port form; the receive window is bounded by the
// configured receive timeout.
func (l *Library) GetStreamingFrame(streamURL string) (*video.Frame, error) {
	detail := map[string]string{"url": streamURL}

	group, port, err := parseStreamURL(streamURL)
	if err != nil {
		return nil, l.fail("GetStreamingFrame", err, detail)
	}

	sock, err := transport.NewReceiveSocket(group, port)
	if err != nil {
		return nil, l.fail("GetStreamingFrame", err, detail)
	}
	defer sock.Close()

	frame, err := video.GrabFrame(sock, l.options.ReceiveTimeout)
	if err != nil {
		return nil, l.fail("GetStreamingFrame", err, detail)
	}
	l.record("GetStreamingFrame", nil, detail)
	return frame, nil
}

// ConvertFrameToImage writes a frame to disk as a still image and
// returns the written path. Positive width and height resize the
// frame; zero values keep its native size.
func (l *Library) ConvertFrameToImage(frame *video.Frame, filename string, width, height int) (string, error) {
	detail := map[string]string{"file": filename}

	if err := video.WriteImage(frame, filename, width, height); err != nil {
		return "", l.fail("ConvertFrameToImage", err, detail)
	}
	l.record("ConvertFrameToImage", nil, detail)
	return filename, nil
}

// parseStreamURL extracts the multicast group and port out of a
// udp://group:port stream location. A VLC-style "@" before the group
// is tolerated.
func parseStreamURL(streamURL string) (string, int, error) {
	u, err := url.Parse(streamURL)
	if err != nil || u.Scheme != "udp" || u.Hostname() == "" || u.Port() == "" {
		return "", 0, fmt.Errorf("%q: %w", streamURL, ErrBadStreamURL)
	}
	port, err := strconv.Atoi(u.Port())
	if err != nil {
		return "", 0, fmt.Errorf("%q: %w", streamURL, ErrBadStreamURL)
	}
	return u.Hostname(), port, nil
}
