package mcastkit

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/opd-ai/mcastkit/transport"
	"github.com/opd-ai/mcastkit/video"
)

// Options contains configuration for creating a Library instance.
// Every field has a working default; a zero Options from NewOptions
// talks to the conventional verification group out of the box.
type Options struct {
	// Group is the default multicast group for send and receive
	// keywords that do not name one.
	Group string
	// Port is the default multicast port.
	Port int
	// TTL is the default send socket time-to-live.
	TTL int
	// SendInterval is the default pause between periodic sends.
	SendInterval time.Duration
	// SendDuration is the default length of a send window.
	SendDuration time.Duration
	// ReceiveTimeout is the default length of a receive window.
	ReceiveTimeout time.Duration
	// ProbeTimeout bounds each ICMP reachability probe.
	ProbeTimeout time.Duration
	// PrivilegedICMP selects raw ICMP sockets for probes.
	PrivilegedICMP bool
	// FrameFormat is the default still-image format for frame
	// extraction and cleanup.
	FrameFormat string
	// FrameDir is the default directory for extracted frames. Empty
	// means the current directory.
	FrameDir string
	// JournalPath enables the keyword run journal when non-empty.
	JournalPath string
	// LogLevel sets the logrus level: trace, debug, info, warn, or
	// error.
	LogLevel string
}

// NewOptions creates Options with the conventional defaults.
func NewOptions() *Options {
	return &Options{
		Group:          "239.239.239.239",
		Port:           5999,
		TTL:            5,
		SendInterval:   time.Second,
		SendDuration:   5 * time.Second,
		ReceiveTimeout: 5 * time.Second,
		ProbeTimeout:   time.Second,
		FrameFormat:    "jpg",
		LogLevel:       "info",
	}
}

// rawOptions is the YAML shape of Options. Durations are strings in
// time.ParseDuration form so config files can say "500ms" or "2s".
type rawOptions struct {
	Group          string `yaml:"group"`
	Port           *int   `yaml:"port"`
	TTL            *int   `yaml:"ttl"`
	SendInterval   string `yaml:"send_interval"`
	SendDuration   string `yaml:"send_duration"`
	ReceiveTimeout string `yaml:"receive_timeout"`
	ProbeTimeout   string `yaml:"probe_timeout"`
	PrivilegedICMP *bool  `yaml:"privileged_icmp"`
	FrameFormat    string `yaml:"frame_format"`
	FrameDir       string `yaml:"frame_dir"`
	JournalPath    string `yaml:"journal_path"`
	LogLevel       string `yaml:"log_level"`
}

// LoadOptions reads a YAML config file over the defaults. A missing
// file returns the defaults without error, so a config file is always
// optional.
func LoadOptions(path string) (*Options, error) {
	options := NewOptions()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return options, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var raw rawOptions
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if raw.Group != "" {
		options.Group = raw.Group
	}
	if raw.Port != nil {
		options.Port = *raw.Port
	}
	if raw.TTL != nil {
		options.TTL = *raw.TTL
	}
	if raw.PrivilegedICMP != nil {
		options.PrivilegedICMP = *raw.PrivilegedICMP
	}
	if raw.FrameFormat != "" {
		options.FrameFormat = raw.FrameFormat
	}
	if raw.FrameDir != "" {
		options.FrameDir = raw.FrameDir
	}
	if raw.JournalPath != "" {
		options.JournalPath = raw.JournalPath
	}
	if raw.LogLevel != "" {
		options.LogLevel = raw.LogLevel
	}

	durations := []struct {
		value string
		field string
		dst   *time.Duration
	}{
		{raw.SendInterval, "send_interval", &options.SendInterval},
		{raw.SendDuration, "send_duration", &options.SendDuration},
		{raw.ReceiveTimeout, "receive_timeout", &options.ReceiveTimeout},
		{raw.ProbeTimeout, "probe_timeout", &options.ProbeTimeout},
	}
	for _, d := range durations {
		if d.value == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.value)
		if err != nil {
			return nil, fmt.Errorf("config %s: %s: %w", path, d.field, err)
		}
		*d.dst = parsed
	}

	return options, nil
}

// Validate checks the options for values no keyword could accept.
func (o *Options) Validate() error {
	if o.TTL < 0 || o.TTL > transport.MaxTTL {
		return fmt.Errorf("ttl %d: %w", o.TTL, transport.ErrTTLRange)
	}
	if _, err := transport.GroupAddr(o.Group, o.Port); err != nil {
		return err
	}
	if o.SendInterval < 0 {
		return fmt.Errorf("send interval %v must not be negative", o.SendInterval)
	}
	if o.SendDuration < 0 {
		return fmt.Errorf("send duration %v must not be negative", o.SendDuration)
	}
	if o.ReceiveTimeout <= 0 {
		return fmt.Errorf("receive timeout %v must be positive", o.ReceiveTimeout)
	}
	if o.ProbeTimeout <= 0 {
		return fmt.Errorf("probe timeout %v must be positive", o.ProbeTimeout)
	}
	switch o.FrameFormat {
	case "jpg", "jpeg", "png":
	default:
		return fmt.Errorf("frame format %q: %w", o.FrameFormat, video.ErrBadImageFormat)
	}
	if _, err := logrus.ParseLevel(o.LogLevel); err != nil {
		return fmt.Errorf("log level %q: %w", o.LogLevel, err)
	}
	return nil
}
