package atom

import (
	"database/sql/driver"
	"fmt"
	"reflect"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/curtisnewbie/rfctime/util/rfc3339"
	"github.com/curtisnewbie/rfctime/util/strutil"
)

const (
	unixSecPersudoMax = 9999999999 // 2286-11-21, should be enough :D

	nullJson = "null"
)

var (
	serializationCodec atomic.Pointer[rfc3339.Codec]
)

func init() {
	serializationCodec.Store(rfc3339.DefaultCodec())
}

// Enhanced wrapper of time.Time.
//
// This type implements sql.Scanner and driver.Valuer, it can be safely used in GORM just like time.Time.
//
// It also implements json Marshaler and Unmarshaler as well as yaml.v2 Marshaler and Unmarshaler, Time is written as
// RFC3339 text in the serialization timezone (UTC by default). You can change this behaviour though
// [SetSerializationCodec] or [SetSerializationTimezone].
//
// To cast from time.Time to Time, use [WrapTime] method. To cast from Time to time.Time, use [Time.Unwrap] method.
type Time struct {
	time.Time
}

func Now() Time {
	return WrapTime(time.Now())
}

func NowUTC() Time {
	return WrapTime(time.Now().UTC())
}

func WrapTime(t time.Time) Time {
	return Time{t}
}

func (t Time) Unwrap() time.Time {
	return t.Time
}

func (t Time) Add(d time.Duration) Time {
	t.Time = t.Time.Add(d)
	return t
}

func (t Time) Sub(u Time) time.Duration {
	return t.Time.Sub(u.Time)
}

func (t Time) After(u Time) bool {
	return t.Time.After(u.Time)
}

func (t Time) Before(u Time) bool {
	return t.Time.Before(u.Time)
}

func (t Time) Equal(u Time) bool {
	return t.Time.Equal(u.Time)
}

func (t Time) In(z *time.Location) Time {
	return WrapTime(t.Unwrap().In(z))
}

func (t Time) InZone(diffInHours int) Time {
	if diffInHours == 0 {
		return t.In(time.UTC)
	}
	return t.In(time.FixedZone("", diffInHours*60*60))
}

// Format as RFC3339 in the serialization timezone.
func (t Time) FormatRFC3339() string {
	return SerializationCodec().Format(t.Time)
}

// Format as RFC3339 in t's own timezone.
func (t Time) FormatRFC3339Local() string {
	return SerializationCodec().WithLocation(t.Location()).Format(t.Time)
}

func (t Time) String() string {
	return t.FormatRFC3339Local()
}

func (t Time) GoString() string {
	return t.String()
}

// Implements driver.Valuer in database/sql.
func (t Time) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	// some db (e.g., Aliyun ADB) only supports .999999, we have to manully truncate the precision down to microsecond
	return t.Truncate(time.Microsecond), nil
}

// Implements encoding/json Marshaler
func (t Time) MarshalJSON() ([]byte, error) {
	b := make([]byte, 0, 40)
	b = append(b, '"')
	b = SerializationCodec().AppendFormat(b, t.Time)
	b = append(b, '"')
	return b, nil
}

// Implements encoding/json Unmarshaler.
//
// Accepts RFC3339 string, milliseconds since unix epoch and null.
func (t *Time) UnmarshalJSON(b []byte) error {
	s := strutil.UnsafeByt2Str(b)
	if s == "" || s == nullJson {
		return nil
	}
	if millisec, err := strconv.ParseInt(s, 10, 64); err == nil {
		*t = WrapTime(time.UnixMilli(millisec))
		return nil
	}
	pt, err := SerializationCodec().Parse(strutil.UnquoteStr(s))
	if err != nil {
		return err
	}
	*t = WrapTime(pt)
	return nil
}

// Implements yaml.v2 Marshaler.
func (t Time) MarshalYAML() (interface{}, error) {
	return t.FormatRFC3339(), nil
}

// Implements yaml.v2 Unmarshaler.
func (t *Time) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	pt, err := SerializationCodec().Parse(s)
	if err != nil {
		return err
	}
	*t = WrapTime(pt)
	return nil
}

// Implements sql.Scanner in database/sql.
func (et *Time) Scan(value interface{}) error {
	return et.ScanLoc(value, nil)
}

// Same as [Time.Scan], but the scanned value is converted to loc if loc is not nil.
func (et *Time) ScanLoc(value interface{}, loc *time.Location) error {
	if value == nil {
		return nil
	}

	var t time.Time
	switch v := value.(type) {
	case time.Time:
		t = v
	case []byte:
		pt, err := SerializationCodec().Parse(string(v))
		if err != nil {
			return err
		}
		t = pt
	case string:
		pt, err := SerializationCodec().Parse(v)
		if err != nil {
			return err
		}
		t = pt
	case *string:
		if v == nil {
			return nil
		}
		return et.ScanLoc(*v, loc)
	case int64, int, uint, uint64, int32, uint32, int16, uint16, *int64, *int, *uint, *uint64, *int32, *uint32, *int16, *uint16:
		rv := reflect.Indirect(reflect.ValueOf(v))
		var val int64
		if rv.CanInt() {
			val = rv.Int()
		} else {
			val = int64(rv.Uint())
		}
		if val > unixSecPersudoMax {
			t = time.UnixMilli(val) // in milli-sec
		} else {
			t = time.Unix(val, 0) // in sec
		}
	default:
		return fmt.Errorf("invalid field type '%v' for Time, unable to convert, %#v", reflect.TypeOf(value), v)
	}

	if loc != nil {
		t = t.In(loc)
	}
	*et = WrapTime(t)
	return nil
}

// Codec used to marshal and unmarshal Time.
func SerializationCodec() *rfc3339.Codec {
	return serializationCodec.Load()
}

// Change the codec used to marshal and unmarshal Time, nil means the UTC codec.
func SetSerializationCodec(c *rfc3339.Codec) {
	if c == nil {
		c = rfc3339.DefaultCodec()
	}
	serializationCodec.Store(c)
}

// Change the serialization timezone, other options of current codec are kept.
func SetSerializationTimezone(loc *time.Location) {
	SetSerializationCodec(SerializationCodec().WithLocation(loc))
}

func ParseTime(v any) (Time, error) {
	var t Time
	return t, t.Scan(v)
}

func ParseTimeLoc(v any, loc *time.Location) (Time, error) {
	var t Time
	return t, t.ScanLoc(v, loc)
}
