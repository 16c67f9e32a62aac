package script

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	lua "github.com/yuin/gopher-lua"

	"github.com/opd-ai/mcastkit"
)

// Runner executes Lua scenario scripts against a keyword library
// instance. Each Run uses a fresh Lua state; the library and its
// defaults are shared across runs.
type Runner struct {
	lib     *mcastkit.Library
	options *mcastkit.Options
}

// NewRunner creates a script runner bound to a library and the
// defaults scripts see as module fields.
func NewRunner(lib *mcastkit.Library, options *mcastkit.Options) *Runner {
	if options == nil {
		options = mcastkit.NewOptions()
	}
	return &Runner{lib: lib, options: options}
}

// Run executes a scenario script file. A raised keyword failure or a
// Lua error aborts the script and is returned.
func (r *Runner) Run(path string) error {
	logrus.WithFields(logrus.Fields{
		"function": "Run",
		"script":   path,
	}).Info("Running scenario script")

	L := r.newState()
	defer L.Close()

	if err := L.DoFile(path); err != nil {
		return fmt.Errorf("script %s: %w", path, err)
	}
	return nil
}

// RunString executes scenario source directly, which keeps scripted
// checks testable without fixture files.
func (r *Runner) RunString(source string) error {
	L := r.newState()
	defer L.Close()

	if err := L.DoString(source); err != nil {
		return fmt.Errorf("script: %w", err)
	}
	return nil
}

// newState builds a Lua state with the mcast module preloaded.
func (r *Runner) newState() *lua.LState {
	L := lua.NewState()
	registerSocketTypes(L)
	registerFrameType(L)
	L.PreloadModule("mcast", r.loadModule)
	return L
}

// loadModule assembles the mcast module table: every keyword as a
// function, plus the configured defaults as readable fields.
func (r *Runner) loadModule(L *lua.LState) int {
	mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"create_send_socket":          r.createSendSocket,
		"create_receive_socket":       r.createReceiveSocket,
		"send":                        r.send,
		"receive":                     r.receive,
		"stop_sending":                r.stopSending,
		"reset_sending":               r.resetSending,
		"messages_should_contain":     r.messagesShouldContain,
		"messages_should_not_contain": r.messagesShouldNotContain,
		"ping":                        r.ping,
		"frame_count":                 r.frameCount,
		"extract_frames":              r.extractFrames,
		"remove_frames":               r.removeFrames,
		"frames_should_match":         r.framesShouldMatch,
		"grab_frame":                  r.grabFrame,
		"save_frame":                  r.saveFrame,
		"keywords":                    r.keywords,
	})

	L.SetField(mod, "group", lua.LString(r.options.Group))
	L.SetField(mod, "port", lua.LNumber(r.options.Port))
	L.SetField(mod, "ttl", lua.LNumber(r.options.TTL))

	L.Push(mod)
	return 1
}

// toDuration reads a script duration value: numbers are seconds,
// strings go through time.ParseDuration, nil keeps the fallback.
func toDuration(L *lua.LState, value lua.LValue, fallback time.Duration) time.Duration {
	switch v := value.(type) {
	case lua.LNumber:
		return time.Duration(float64(v) * float64(time.Second))
	case lua.LString:
		parsed, err := time.ParseDuration(string(v))
		if err != nil {
			L.RaiseError("bad duration %q: %v", string(v), err)
			return 0
		}
		return parsed
	case *lua.LNilType, nil:
		return fallback
	default:
		L.RaiseError("duration must be a number of seconds or a duration string, got %s", value.Type())
		return 0
	}
}
