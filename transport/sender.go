package transport

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Send runs the paced multicast transmission loop: encode message, send it
// to group:port, pause for interval, until duration of wall-clock time has
// elapsed or the token is stopped. The loop runs in the calling goroutine;
// the call returns only when the loop ends, which is the synchronous
// behavior the keyword surface guarantees.
//
// Each iteration checks the token before the elapsed-time bound, so a
// token stopped before the call begins yields zero transmissions. The
// pause is interruptible by the token. A nil token never fires.
//
// Returns the number of datagrams transmitted.
func Send(sock *SendSocket, group string, port int, message string, interval, duration time.Duration, token *StopToken) (int, error) {
	if sock == nil {
		return 0, ErrNilSocket
	}
	if token == nil {
		token = newStopToken()
	}

	dst, err := GroupAddr(group, port)
	if err != nil {
		return 0, err
	}

	payload := []byte(message)
	start := time.Now()
	sent := 0

	for {
		if token.Stopped() {
			break
		}
		if time.Since(start) > duration {
			break
		}

		if _, err := sock.WriteTo(payload, dst); err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "Send",
				"group":    dst.String(),
				"sent":     sent,
			}).WithError(err).Error("Multicast send failed")
			return sent, newTransportError("send", dst.String(), err)
		}
		sent++

		logrus.WithFields(logrus.Fields{
			"function": "Send",
			"group":    dst.String(),
			"bytes":    len(payload),
			"sent":     sent,
		}).Debug("Sent multicast datagram")

		if !pause(interval, token) {
			break
		}
	}

	logrus.WithFields(logrus.Fields{
		"function": "Send",
		"group":    dst.String(),
		"sent":     sent,
		"elapsed":  time.Since(start).String(),
	}).Debug("Multicast send loop finished")

	return sent, nil
}

// pause sleeps for interval or until the token fires, whichever comes
// first. Returns false when the token ended the pause. A non-positive
// interval returns immediately, which makes the send loop a tight loop
// bounded only by its duration.
func pause(interval time.Duration, token *StopToken) bool {
	if interval <= 0 {
		return !token.Stopped()
	}

	timer := time.NewTimer(interval)
	defer timer.Stop()

	select {
	case <-token.Done():
		return false
	case <-timer.C:
		return true
	}
}
