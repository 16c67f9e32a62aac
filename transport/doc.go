// Package transport provides the multicast UDP primitives behind the
// mcastkit keywords: socket construction, the paced send loop, the
// bounded receive loop, and the stop-signal registry that cancels
// in-flight senders.
//
// # Architecture
//
// The package exposes two socket roles built by a small factory:
//
//	send, err := transport.NewSendSocket(5)          // TTL 5
//	recv, err := transport.NewReceiveSocket("239.239.239.239", 5999)
//
// A send socket is an unbound UDP4 datagram socket whose only multicast
// configuration is the IP_MULTICAST_TTL option. A receive socket enables
// address reuse, binds the wildcard address on the requested port and
// joins the multicast group on the any interface, mirroring the classic
// SO_REUSEADDR + bind + IP_ADD_MEMBERSHIP sequence.
//
// # Send and Receive Loops
//
// Send transmits one payload repeatedly until a wall-clock duration
// elapses or its stop token fires:
//
//	reg := transport.NewStopRegistry()
//	token := reg.NewToken()
//	sent, err := transport.Send(send, "239.239.239.239", 5999, "ping",
//	    time.Second, 5*time.Second, token)
//	reg.Release(token)
//
// Receive drains a socket for a fixed window and returns every datagram
// decoded as text, in arrival order:
//
//	messages, err := transport.Receive(recv, 5*time.Second)
//
// An empty result is a normal outcome, not an error: it means nothing
// arrived inside the window.
//
// # Cancellation
//
// Every sender gets its own StopToken so one invocation can be cancelled
// without touching the others. StopRegistry.StopAll reproduces the legacy
// stop-everything behavior as an explicit broadcast, and latches so that
// senders started after the broadcast observe it before their first
// transmission. Reset clears the latch.
//
// Sockets are single-owner and are never shared between invocations;
// closing them is the caller's responsibility.
package transport
