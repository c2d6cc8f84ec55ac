package config

import (
	"io"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/curtisnewbie/rfctime/logging"
	"github.com/curtisnewbie/rfctime/util/atom"
	"github.com/curtisnewbie/rfctime/util/errs"
	"github.com/curtisnewbie/rfctime/util/json"
	"github.com/curtisnewbie/rfctime/util/rfc3339"
)

const (
	ErrCodeInvalidProp = "INVALID_PROP"
)

var (
	ErrInvalidProp = errs.NewErrfCode(ErrCodeInvalidProp, "Invalid Configuration")
)

// Parse timezone.
//
// Supported forms:
//   - "", "UTC", "Z" for UTC, "Local" for time.Local
//   - fixed offset, e.g., "+05:30", "-0800", "+08"
//   - offset in hours, e.g., "8", "-3"
//   - IANA name, e.g., "Asia/Shanghai"
func ParseTimezone(s string) (*time.Location, error) {
	s = strings.TrimSpace(s)
	switch strings.ToUpper(s) {
	case "", "UTC", "Z":
		return time.UTC, nil
	case "LOCAL":
		return time.Local, nil
	}

	if s[0] == '+' || s[0] == '-' {
		if off, ok := parseFixedOffset(s); ok {
			if off == 0 {
				return time.UTC, nil
			}
			return time.FixedZone("", off), nil
		}
	}
	if h, err := strconv.Atoi(s); err == nil {
		if h < -23 || h > 23 {
			return nil, ErrInvalidProp.WithInternalMsg("timezone '%v' out of range", s)
		}
		if h == 0 {
			return time.UTC, nil
		}
		return time.FixedZone("", h*60*60), nil
	}

	loc, err := time.LoadLocation(s)
	if err != nil {
		return nil, ErrInvalidProp.Wrapf(err, "unknown timezone '%v'", s)
	}
	return loc, nil
}

// Parse ±HH, ±HHMM or ±HH:MM into offset in seconds.
func parseFixedOffset(s string) (int, bool) {
	sign := 1
	if s[0] == '-' {
		sign = -1
	}
	v := strings.Replace(s[1:], ":", "", 1)
	if len(v) != 2 && len(v) != 4 {
		return 0, false
	}
	for i := 0; i < len(v); i++ {
		if v[i] < '0' || v[i] > '9' {
			return 0, false
		}
	}
	h, _ := strconv.Atoi(v[:2])
	m := 0
	if len(v) == 4 {
		m, _ = strconv.Atoi(v[2:])
	}
	if h > 23 || m > 59 {
		return 0, false
	}
	return sign * (h*60*60 + m*60), true
}

// Timezone used to serialize timestamps.
func (a *AppConfig) SerializationTimezone() (*time.Location, error) {
	return ParseTimezone(a.GetPropStr(PropSerializationTimezone))
}

// Build rfc3339.Codec based on the loaded config.
func (a *AppConfig) BuildCodec() (*rfc3339.Codec, error) {
	loc, err := a.SerializationTimezone()
	if err != nil {
		return nil, err
	}
	var opts []rfc3339.CodecOption
	if a.GetPropBool(PropStandardFraction) {
		opts = append(opts, rfc3339.WithStandardFraction())
	}
	if a.GetPropBool(PropTotalOffsetSign) {
		opts = append(opts, rfc3339.WithTotalOffsetSign())
	}
	return rfc3339.NewCodec(loc, opts...), nil
}

// Build json.DateOptions based on the loaded config.
func (a *AppConfig) DateOptions() (json.DateOptions, error) {
	c, err := a.BuildCodec()
	if err != nil {
		return json.DateOptions{}, err
	}
	p, err := json.ParsePolicy(a.GetPropStr(PropJsonDatePolicy))
	if err != nil {
		return json.DateOptions{}, ErrInvalidProp.Wrapf(err, "prop '%v'", PropJsonDatePolicy)
	}
	return json.DateOptions{Policy: p, Codec: c}, nil
}

// Apply the loaded config to package level codecs in atom and json.
func (a *AppConfig) ApplyGlobal() error {
	opts, err := a.DateOptions()
	if err != nil {
		return err
	}
	atom.SetSerializationCodec(opts.Codec)
	json.SetDateOptions(opts)
	logging.Debugf("Applied serialization timezone: %v, policy: %v, standard fraction: %v",
		opts.Codec.Location(), opts.Policy, opts.Codec.StandardFraction())
	return nil
}

// Configure log level and log output.
//
// The returned io.Closer should be closed before exit, it's a noop if rolling file is not used.
func (a *AppConfig) ConfigureLogging() (io.Closer, error) {
	lv := a.GetPropStr(PropLoggingLevel)
	if !logging.SetLogLevel(lv) {
		return nil, ErrInvalidProp.WithInternalMsg("prop '%v', unknown log level '%v'", PropLoggingLevel, lv)
	}

	file := a.GetPropStr(PropLoggingRollingFile)
	if file == "" {
		return io.NopCloser(nil), nil
	}
	w := logging.BuildRollingLogFileWriter(logging.NewRollingLogFileParam{
		Filename:   file,
		MaxSize:    a.GetPropInt(PropLoggingRollingMaxSize),
		MaxAge:     a.GetPropInt(PropLoggingRollingMaxAge),
		MaxBackups: a.GetPropInt(PropLoggingRollingMaxBackups),
	})
	logging.SetLogOutput(w)
	return w, nil
}
