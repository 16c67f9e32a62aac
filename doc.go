// Package mcastkit implements a keyword library for multicast stream
// test automation.
//
// The library drives UDP multicast verification scenarios end to end:
// sending paced message bursts to a group, collecting what arrives in a
// bounded window, probing device reachability, and turning captured or
// streamed video into images that can be compared for a verdict. Each
// operation is a keyword: a small, self-contained step that a test
// runner sequences into scenarios.
//
// # Getting Started
//
// Create a Library with options and use its keywords directly:
//
//	options := mcastkit.NewOptions()
//	options.Group = "239.239.239.239"
//	options.Port = 5999
//
//	lib, err := mcastkit.New(options)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer lib.Close()
//
//	recv, err := lib.CreateReceiveSocket(options.Group, options.Port)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer recv.Close()
//
//	send, err := lib.CreateSendSocket(5)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer send.Close()
//
//	go lib.SendMulticastMessage(send, options.Group, options.Port,
//	    "status-check", time.Second, 5*time.Second)
//
//	messages, err := lib.ReceiveMulticastMessage(recv, 5*time.Second)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := lib.ShouldMessagesBeEqual("status-check", messages); err != nil {
//	    log.Fatal(err)
//	}
//
// # Messaging
//
// SendMulticastMessage repeats one message on a fixed interval until a
// duration elapses or StopSending is called. ReceiveMulticastMessage
// holds a window open for a timeout and returns every datagram that
// arrived, in order. An empty window is a normal result, not an error;
// the verification keywords decide pass or fail.
//
// # Stop Control
//
// StopSending halts every in-flight send loop and latches, so sends
// started afterwards finish immediately with zero transmissions.
// ResetSending releases the latch for the next test case. The latch
// makes "stop, then verify silence" scenarios deterministic.
//
// # Reachability Probes
//
// Ping sends a single ICMP echo and reports plain reachability:
//
//	if !lib.Ping("192.168.1.10") {
//	    // device under test is down
//	}
//
// # Video Verification
//
// Capture files are walked frame by frame (GetFrameCount), exploded
// into numbered stills (ExtractVideoFrames), and cleaned up afterwards
// (RemoveVideoFrameFiles). GetStreamingFrame grabs one frame out of a
// live MJPEG multicast stream; ConvertFrameToImage writes a frame to
// disk, optionally resized. ShouldBeEqualAsFrames compares two stills
// with a tolerance that absorbs codec noise.
//
// # Run Journal
//
// With Options.JournalPath set, every keyword invocation is appended
// to a bbolt-backed journal with its outcome and context, surviving
// process restarts. Flaky overnight runs can be reconstructed from it.
//
// # Configuration
//
// Options carry defaults for the conventional verification group
// (239.239.239.239:5999), pacing, timeouts, and frame handling.
// LoadOptions layers a YAML file over those defaults; a missing file
// is not an error, so configuration is always optional.
//
// # Error Classification
//
// Every keyword failure is a *KeywordError naming the keyword and
// classifying the cause: invalid arguments, missing files, external
// faults, or failed assertions. Test reports branch on the class:
//
//	err := lib.ShouldMessagesBeEqual(sent, received)
//	var kerr *mcastkit.KeywordError
//	if errors.As(err, &kerr) && kerr.Kind == mcastkit.FailureAssertion {
//	    // the check ran and did not hold
//	}
//
// # Thread Safety
//
// A Library is safe for concurrent use. Sockets are owned by their
// creator: use one goroutine per socket, or synchronize externally.
// SendMulticastMessage blocks for its whole window; run it in its own
// goroutine when the scenario overlaps send and receive.
//
// # Scripted Suites
//
// The script package binds these keywords into a Lua environment so
// whole scenarios can live in version-controlled script files, and
// cmd/mcastctl exposes every keyword on the command line.
package mcastkit
