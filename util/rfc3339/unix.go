package rfc3339

import "time"

// Codec for unix timestamps.
//
// Timestamps are milliseconds since unix epoch divided by the Unit (in milliseconds), e.g., with Unit = time.Second,
// 1577836800123 ms is 1577836800.
//
// If AllowNegative is false, timestamps before unix epoch are treated as absent.
type UnixCodec struct {
	Unit          time.Duration
	AllowNegative bool
}

func NewUnixMilliCodec(allowNegative bool) UnixCodec {
	return UnixCodec{Unit: time.Millisecond, AllowNegative: allowNegative}
}

func NewUnixSecondCodec(allowNegative bool) UnixCodec {
	return UnixCodec{Unit: time.Second, AllowNegative: allowNegative}
}

// Number of milliseconds in one Unit, Unit below a millisecond is treated as a millisecond.
func (u UnixCodec) scale() int64 {
	s := int64(u.Unit / time.Millisecond)
	if s < 1 {
		return 1
	}
	return s
}

// Convert t to timestamp, returns false if the timestamp is negative and negative timestamps are not allowed.
func (u UnixCodec) ToTimestamp(t time.Time) (int64, bool) {
	ts := t.UnixMilli() / u.scale()
	if ts < 0 && !u.AllowNegative {
		return 0, false
	}
	return ts, true
}

// Convert timestamp to time, returns false if the timestamp is negative and negative timestamps are not allowed.
//
// The returned time is in UTC.
func (u UnixCodec) FromTimestamp(ts int64) (time.Time, bool) {
	if ts < 0 && !u.AllowNegative {
		return time.Time{}, false
	}
	return time.UnixMilli(ts * u.scale()).UTC(), true
}
