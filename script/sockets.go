package script

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/opd-ai/mcastkit/transport"
)

// Lua type names for the socket userdata handles.
const (
	sendSocketType    = "mcast.send_socket"
	receiveSocketType = "mcast.receive_socket"
)

// registerSocketTypes installs the metatables for socket handles. Both
// expose a close method; scripts own their sockets the same way Go
// callers do.
func registerSocketTypes(L *lua.LState) {
	sendMT := L.NewTypeMetatable(sendSocketType)
	L.SetField(sendMT, "__index", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"close": closeSendSocket,
		"ttl":   sendSocketTTL,
	}))

	recvMT := L.NewTypeMetatable(receiveSocketType)
	L.SetField(recvMT, "__index", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"close": closeReceiveSocket,
	}))
}

// wrapSendSocket boxes a send socket as Lua userdata.
func wrapSendSocket(L *lua.LState, sock *transport.SendSocket) *lua.LUserData {
	ud := L.NewUserData()
	ud.Value = sock
	L.SetMetatable(ud, L.GetTypeMetatable(sendSocketType))
	return ud
}

// wrapReceiveSocket boxes a receive socket as Lua userdata.
func wrapReceiveSocket(L *lua.LState, sock *transport.ReceiveSocket) *lua.LUserData {
	ud := L.NewUserData()
	ud.Value = sock
	L.SetMetatable(ud, L.GetTypeMetatable(receiveSocketType))
	return ud
}

// checkSendSocket extracts the send socket at stack position n,
// raising a Lua error for anything else.
func checkSendSocket(L *lua.LState, n int) *transport.SendSocket {
	ud := L.CheckUserData(n)
	if sock, ok := ud.Value.(*transport.SendSocket); ok {
		return sock
	}
	L.ArgError(n, "send socket expected")
	return nil
}

// checkReceiveSocket extracts the receive socket at stack position n.
func checkReceiveSocket(L *lua.LState, n int) *transport.ReceiveSocket {
	ud := L.CheckUserData(n)
	if sock, ok := ud.Value.(*transport.ReceiveSocket); ok {
		return sock
	}
	L.ArgError(n, "receive socket expected")
	return nil
}

func closeSendSocket(L *lua.LState) int {
	if err := checkSendSocket(L, 1).Close(); err != nil {
		L.RaiseError("%v", err)
	}
	return 0
}

func sendSocketTTL(L *lua.LState) int {
	L.Push(lua.LNumber(checkSendSocket(L, 1).TTL()))
	return 1
}

func closeReceiveSocket(L *lua.LState) int {
	if err := checkReceiveSocket(L, 1).Close(); err != nil {
		L.RaiseError("%v", err)
	}
	return 0
}
