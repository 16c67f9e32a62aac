package script

import (
	"github.com/yuin/gluamapper"
	lua "github.com/yuin/gopher-lua"

	"github.com/opd-ai/mcastkit"
	"github.com/opd-ai/mcastkit/video"
)

const frameType = "mcast.frame"

// registerFrameType installs the metatable for grabbed-frame handles.
func registerFrameType(L *lua.LState) {
	mt := L.NewTypeMetatable(frameType)
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"size": frameSize,
	}))
}

func wrapFrame(L *lua.LState, frame *video.Frame) *lua.LUserData {
	ud := L.NewUserData()
	ud.Value = frame
	L.SetMetatable(ud, L.GetTypeMetatable(frameType))
	return ud
}

func checkFrame(L *lua.LState, n int) *video.Frame {
	ud := L.CheckUserData(n)
	if frame, ok := ud.Value.(*video.Frame); ok {
		return frame
	}
	L.ArgError(n, "frame expected")
	return nil
}

func frameSize(L *lua.LState) int {
	frame := checkFrame(L, 1)
	L.Push(lua.LNumber(frame.Width))
	L.Push(lua.LNumber(frame.Height))
	return 2
}

// sendSpec is the table argument of the send keyword. Omitted fields
// fall back to the runner defaults; message is required.
type sendSpec struct {
	Group   string
	Port    int
	Message string
}

func (r *Runner) createSendSocket(L *lua.LState) int {
	ttl := L.OptInt(1, r.options.TTL)

	sock, err := r.lib.CreateSendSocket(ttl)
	if err != nil {
		L.RaiseError("%v", err)
		return 0
	}
	L.Push(wrapSendSocket(L, sock))
	return 1
}

func (r *Runner) createReceiveSocket(L *lua.LState) int {
	group := L.OptString(1, r.options.Group)
	port := L.OptInt(2, r.options.Port)

	sock, err := r.lib.CreateReceiveSocket(group, port)
	if err != nil {
		L.RaiseError("%v", err)
		return 0
	}
	L.Push(wrapReceiveSocket(L, sock))
	return 1
}

func (r *Runner) send(L *lua.LState) int {
	sock := checkSendSocket(L, 1)
	tbl := L.CheckTable(2)

	var spec sendSpec
	if err := gluamapper.Map(tbl, &spec); err != nil {
		L.RaiseError("send: %v", err)
		return 0
	}
	if spec.Group == "" {
		spec.Group = r.options.Group
	}
	if spec.Port == 0 {
		spec.Port = r.options.Port
	}
	if spec.Message == "" {
		L.RaiseError("send: message is required")
		return 0
	}
	interval := toDuration(L, tbl.RawGetString("interval"), r.options.SendInterval)
	duration := toDuration(L, tbl.RawGetString("duration"), r.options.SendDuration)

	if err := r.lib.SendMulticastMessage(sock, spec.Group, spec.Port, spec.Message, interval, duration); err != nil {
		L.RaiseError("%v", err)
		return 0
	}
	return 0
}

func (r *Runner) receive(L *lua.LState) int {
	sock := checkReceiveSocket(L, 1)
	timeout := toDuration(L, L.Get(2), r.options.ReceiveTimeout)

	messages, err := r.lib.ReceiveMulticastMessage(sock, timeout)
	if err != nil {
		L.RaiseError("%v", err)
		return 0
	}
	ret := L.NewTable()
	for _, msg := range messages {
		ret.Append(lua.LString(msg))
	}
	L.Push(ret)
	return 1
}

func (r *Runner) stopSending(L *lua.LState) int {
	r.lib.StopSending()
	return 0
}

func (r *Runner) resetSending(L *lua.LState) int {
	r.lib.ResetSending()
	return 0
}

func (r *Runner) messagesShouldContain(L *lua.LState) int {
	sent := L.CheckString(1)
	received := tableToStrings(L.CheckTable(2))

	if err := r.lib.ShouldMessagesBeEqual(sent, received); err != nil {
		L.RaiseError("%v", err)
	}
	return 0
}

func (r *Runner) messagesShouldNotContain(L *lua.LState) int {
	sent := L.CheckString(1)
	received := tableToStrings(L.CheckTable(2))

	if err := r.lib.ShouldMessagesNotBeEqual(sent, received); err != nil {
		L.RaiseError("%v", err)
	}
	return 0
}

func (r *Runner) ping(L *lua.LState) int {
	host := L.CheckString(1)
	L.Push(lua.LBool(r.lib.Ping(host)))
	return 1
}

func (r *Runner) frameCount(L *lua.LState) int {
	videoFile := L.CheckString(1)

	count, err := r.lib.GetFrameCount(videoFile)
	if err != nil {
		L.RaiseError("%v", err)
		return 0
	}
	L.Push(lua.LNumber(count))
	return 1
}

func (r *Runner) extractFrames(L *lua.LState) int {
	videoFile := L.CheckString(1)
	format := L.OptString(2, "")
	outputDir := L.OptString(3, "")

	paths, err := r.lib.ExtractVideoFrames(videoFile, format, outputDir)
	if err != nil {
		L.RaiseError("%v", err)
		return 0
	}
	ret := L.NewTable()
	for _, path := range paths {
		ret.Append(lua.LString(path))
	}
	L.Push(ret)
	return 1
}

func (r *Runner) removeFrames(L *lua.LState) int {
	format := L.OptString(1, "")
	dir := L.OptString(2, "")

	removed, err := r.lib.RemoveVideoFrameFiles(format, dir)
	if err != nil {
		L.RaiseError("%v", err)
		return 0
	}
	L.Push(lua.LNumber(removed))
	return 1
}

func (r *Runner) framesShouldMatch(L *lua.LState) int {
	srcImg := L.CheckString(1)
	dstImg := L.CheckString(2)

	if err := r.lib.ShouldBeEqualAsFrames(srcImg, dstImg); err != nil {
		L.RaiseError("%v", err)
	}
	return 0
}

func (r *Runner) grabFrame(L *lua.LState) int {
	streamURL := L.CheckString(1)

	frame, err := r.lib.GetStreamingFrame(streamURL)
	if err != nil {
		L.RaiseError("%v", err)
		return 0
	}
	L.Push(wrapFrame(L, frame))
	return 1
}

func (r *Runner) saveFrame(L *lua.LState) int {
	frame := checkFrame(L, 1)
	filename := L.CheckString(2)
	width := L.OptInt(3, 0)
	height := L.OptInt(4, 0)

	saved, err := r.lib.ConvertFrameToImage(frame, filename, width, height)
	if err != nil {
		L.RaiseError("%v", err)
		return 0
	}
	L.Push(lua.LString(saved))
	return 1
}

func (r *Runner) keywords(L *lua.LState) int {
	ret := L.NewTable()
	for _, kw := range mcastkit.Keywords() {
		entry := L.NewTable()
		L.SetField(entry, "name", lua.LString(kw.Name))
		L.SetField(entry, "args", lua.LString(kw.Args))
		L.SetField(entry, "doc", lua.LString(kw.Doc))
		ret.Append(entry)
	}
	L.Push(ret)
	return 1
}

// tableToStrings flattens an array-style table of messages.
func tableToStrings(tbl *lua.LTable) []string {
	n := tbl.Len()
	out := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, lua.LVAsString(tbl.RawGetInt(i)))
	}
	return out
}
