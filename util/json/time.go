package json

import (
	"reflect"
	"strings"
	"time"
	"unsafe"

	"github.com/curtisnewbie/rfctime/util/errs"
	"github.com/curtisnewbie/rfctime/util/rfc3339"
	jsoniter "github.com/json-iterator/go"
	"github.com/modern-go/reflect2"
)

// How time.Time is written as json.
type DateSerializationPolicy string

const (
	PolicyRFC3339             DateSerializationPolicy = "rfc3339"               // string, e.g., "2020-01-01T08:00:00+08:00"
	PolicyUnixMillis          DateSerializationPolicy = "unix-millis"           // number, milliseconds since unix epoch
	PolicyUnixSeconds         DateSerializationPolicy = "unix-seconds"          // number, seconds since unix epoch
	PolicyUnixPositiveMillis  DateSerializationPolicy = "unix-positive-millis"  // same as unix-millis, but time before unix epoch is null
	PolicyUnixPositiveSeconds DateSerializationPolicy = "unix-positive-seconds" // same as unix-seconds, but time before unix epoch is null
)

var (
	timeType = reflect.TypeOf(time.Time{})

	policies = []DateSerializationPolicy{
		PolicyRFC3339,
		PolicyUnixMillis,
		PolicyUnixSeconds,
		PolicyUnixPositiveMillis,
		PolicyUnixPositiveSeconds,
	}
)

// Parse policy name, case-insensitive.
func ParsePolicy(s string) (DateSerializationPolicy, error) {
	v := DateSerializationPolicy(strings.ToLower(strings.TrimSpace(s)))
	for _, p := range policies {
		if p == v {
			return p, nil
		}
	}
	return "", errs.ErrIllegalArgument.WithInternalMsg("unknown date serialization policy '%v'", s)
}

// Codec for unix timestamps in json numbers.
//
// For PolicyRFC3339, numbers are read as milliseconds since unix epoch.
func (p DateSerializationPolicy) UnixCodec() rfc3339.UnixCodec {
	switch p {
	case PolicyUnixSeconds:
		return rfc3339.NewUnixSecondCodec(true)
	case PolicyUnixPositiveMillis:
		return rfc3339.NewUnixMilliCodec(false)
	case PolicyUnixPositiveSeconds:
		return rfc3339.NewUnixSecondCodec(false)
	default:
		return rfc3339.NewUnixMilliCodec(true)
	}
}

type DateOptions struct {
	Policy DateSerializationPolicy
	Codec  *rfc3339.Codec // used by PolicyRFC3339, UTC codec is used if nil.
}

// RFC3339 in UTC.
func DefaultDateOptions() DateOptions {
	return DateOptions{Policy: PolicyRFC3339, Codec: rfc3339.DefaultCodec()}
}

type timeExtension struct {
	jsoniter.DummyExtension
	codec *timeCodec
}

func newTimeExtension(opts DateOptions) *timeExtension {
	if opts.Policy == "" {
		opts.Policy = PolicyRFC3339
	}
	if opts.Codec == nil {
		opts.Codec = rfc3339.DefaultCodec()
	}
	return &timeExtension{
		codec: &timeCodec{
			policy: opts.Policy,
			rfc:    opts.Codec,
			unix:   opts.Policy.UnixCodec(),
		},
	}
}

func (e *timeExtension) CreateDecoder(typ reflect2.Type) jsoniter.ValDecoder {
	if typ.Type1() == timeType {
		return e.codec
	}
	return nil
}

func (e *timeExtension) CreateEncoder(typ reflect2.Type) jsoniter.ValEncoder {
	if typ.Type1() == timeType {
		return e.codec
	}
	return nil
}

type timeCodec struct {
	policy DateSerializationPolicy
	rfc    *rfc3339.Codec
	unix   rfc3339.UnixCodec
}

func (c *timeCodec) IsEmpty(ptr unsafe.Pointer) bool {
	return false
}

func (c *timeCodec) Encode(ptr unsafe.Pointer, stream *jsoniter.Stream) {
	t := *(*time.Time)(ptr)
	if c.policy == PolicyRFC3339 {
		stream.WriteString(c.rfc.Format(t))
		return
	}
	ts, ok := c.unix.ToTimestamp(t)
	if !ok {
		stream.WriteNil()
		return
	}
	stream.WriteInt64(ts)
}

// Strings are always read as RFC3339, numbers are read as unix timestamps, null leaves the value untouched.
func (c *timeCodec) Decode(ptr unsafe.Pointer, iter *jsoniter.Iterator) {
	switch iter.WhatIsNext() {
	case jsoniter.NilValue:
		iter.ReadNil()
	case jsoniter.StringValue:
		s := iter.ReadString()
		t, err := c.rfc.Parse(s)
		if err != nil {
			iter.ReportError("decode time.Time", err.Error())
			return
		}
		*(*time.Time)(ptr) = t
	case jsoniter.NumberValue:
		ts := iter.ReadInt64()
		if t, ok := c.unix.FromTimestamp(ts); ok {
			*(*time.Time)(ptr) = t
		}
	default:
		iter.Skip()
		iter.ReportError("decode time.Time", "expecting json string or number")
	}
}
