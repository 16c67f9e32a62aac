// Package script runs Lua scenario scripts against the keyword
// library.
//
// A Runner preloads an "mcast" module into a fresh Lua state and
// executes a script file. Scenarios sequence the same keywords the Go
// API exposes, so a verification flow can live in a version-controlled
// script instead of a compiled test:
//
//	local mcast = require("mcast")
//
//	local recv = mcast.create_receive_socket(mcast.group, mcast.port)
//	local send = mcast.create_send_socket(5)
//
//	mcast.send(send, { message = "status-check", interval = "200ms", duration = "1s" })
//	local messages = mcast.receive(recv, "2s")
//	mcast.messages_should_contain("status-check", messages)
//
//	recv:close()
//	send:close()
//
// # Argument Conventions
//
// Durations accept either a number of seconds (0.2) or a Go duration
// string ("200ms"). The send keyword takes its parameters as a table;
// omitted fields fall back to the library defaults, which the module
// also exposes as mcast.group, mcast.port, and mcast.ttl.
//
// # Failures
//
// A failed keyword raises a Lua error carrying the classified failure
// text, aborting the script. Runner.Run surfaces it as a Go error.
package script
