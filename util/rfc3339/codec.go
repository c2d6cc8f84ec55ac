package rfc3339

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/curtisnewbie/rfctime/util/errs"
)

const (
	ErrCodeMalformedTimestamp = "MALFORMED_TIMESTAMP"

	// layout of the normalized text, offset is always ±HHMM.
	normalizedLayout = "2006-01-02T15:04:05-0700"

	// d: digit, s: sign, other chars must match exactly.
	normalizedShape = "dddd-dd-ddTdd:dd:ddsdddd"

	dateTimeLayout = "2006-01-02T15:04:05"
	utcOffset      = "-0000"
)

var (
	// Error returned when text cannot be parsed, the underlying failure is always wrapped.
	//
	// Use errors.Is(err, ErrParse) or [IsParseErr] to check.
	ErrParse = errs.NewErrfCode(ErrCodeMalformedTimestamp, "Malformed RFC3339 Timestamp")

	defaultCodec = NewCodec(time.UTC)
)

type CodecOption func(c *Codec)

// Emit the fraction zero-padded to 3 digits and read fractions as decimal fractions of a second.
func WithStandardFraction() CodecOption {
	return func(c *Codec) {
		c.standardFraction = true
	}
}

// Take the offset sign from the total offset rather than the whole hours, '-00:30' stays '-00:30'.
func WithTotalOffsetSign() CodecOption {
	return func(c *Codec) {
		c.totalOffsetSign = true
	}
}

// RFC3339 Codec.
//
// Codec is immutable and is safe for concurrent use.
type Codec struct {
	loc              *time.Location
	standardFraction bool
	totalOffsetSign  bool
}

// Create Codec that formats timestamps in loc, loc is UTC if nil.
func NewCodec(loc *time.Location, opts ...CodecOption) *Codec {
	if loc == nil {
		loc = time.UTC
	}
	c := &Codec{loc: loc}
	for _, op := range opts {
		op(c)
	}
	return c
}

// Shared Codec in UTC.
func DefaultCodec() *Codec {
	return defaultCodec
}

// Serialization timezone.
func (c *Codec) Location() *time.Location {
	return c.loc
}

func (c *Codec) StandardFraction() bool {
	return c.standardFraction
}

func (c *Codec) TotalOffsetSign() bool {
	return c.totalOffsetSign
}

// Copy of c that formats timestamps in loc, loc is UTC if nil.
func (c *Codec) WithLocation(loc *time.Location) *Codec {
	if loc == nil {
		loc = time.UTC
	}
	n := *c
	n.loc = loc
	return &n
}

// Format t as observed in the serialization timezone.
//
//	2020-01-01T08:00:00Z
//	2020-01-01T08:00:00.5+05:30 // 5ms past the second
func (c *Codec) Format(t time.Time) string {
	var buf [40]byte
	return string(c.AppendFormat(buf[:0], t))
}

// Same as [Codec.Format] but appends to b.
func (c *Codec) AppendFormat(b []byte, t time.Time) []byte {
	lt := t.In(c.loc)
	b = lt.AppendFormat(b, dateTimeLayout)

	if ms := lt.Nanosecond() / int(time.Millisecond); ms != 0 {
		b = append(b, '.')
		if c.standardFraction {
			b = appendPadded(b, ms, 3)
		} else {
			b = strconv.AppendInt(b, int64(ms), 10)
		}
	}

	_, offset := lt.Zone()
	return c.appendOffset(b, offset)
}

// Parse RFC3339 text, the offset embedded in s is used, the serialization timezone is not.
//
// The returned time is in UTC. Error returned is always [ErrParse].
func (c *Codec) Parse(s string) (time.Time, error) {
	t, _, err := c.ParseN(s)
	return t, err
}

// Same as [Codec.Parse] but also returns the number of chars consumed, which is len(s) on success and 0 on failure.
func (c *Codec) ParseN(s string) (time.Time, int, error) {
	src := s

	// fraction, e.g., '.5' in '2020-01-01T00:00:00.5Z'
	var millis int64
	if i := strings.LastIndexByte(s, '.'); i > -1 {
		j := i + 1
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		m, err := c.parseFraction(s[i+1 : j])
		if err != nil {
			return time.Time{}, 0, ErrParse.Wrapf(err, "text '%v'", src)
		}
		millis = m
		s = s[:i] + s[j:]
	}

	s = normalizeOffset(s)

	if err := checkShape(s); err != nil {
		return time.Time{}, 0, ErrParse.Wrapf(err, "text '%v'", src)
	}

	t, err := time.Parse(normalizedLayout, s)
	if err != nil {
		return time.Time{}, 0, ErrParse.Wrapf(err, "text '%v'", src)
	}

	if millis > 0 {
		um := t.UnixMilli()
		if um > 0 && millis > math.MaxInt64-um {
			return time.Time{}, 0, ErrParse.Wrapf(errors.New("fraction out of range"), "text '%v'", src)
		}
		t = time.UnixMilli(um + millis)
	}
	return t.UTC(), len(src), nil
}

// Format t using the UTC Codec.
func Format(t time.Time) string {
	return defaultCodec.Format(t)
}

// Parse s using the UTC Codec.
func Parse(s string) (time.Time, error) {
	return defaultCodec.Parse(s)
}

// Check if err is (or wraps) [ErrParse].
func IsParseErr(err error) bool {
	return errors.Is(err, ErrParse)
}

func (c *Codec) parseFraction(digits string) (int64, error) {
	if digits == "" {
		return 0, nil
	}
	if !c.standardFraction {
		// the digits are the millisecond count itself, '.5' is 5ms
		return strconv.ParseInt(digits, 10, 64)
	}
	if len(digits) > 3 {
		digits = digits[:3]
	} else if len(digits) < 3 {
		digits = digits + strings.Repeat("0", 3-len(digits))
	}
	return strconv.ParseInt(digits, 10, 64)
}

// Rewrite the offset suffix to ±HHMM.
//
// Trailing 'Z' becomes '-0000', the colon in '±HH:MM' is dropped, missing offset is treated as UTC.
func normalizeOffset(s string) string {
	n := len(s)
	if n > 0 && s[n-1] == 'Z' {
		return s[:n-1] + utcOffset
	}
	if n >= 6 && isSign(s[n-6]) && isDigit(s[n-5]) && isDigit(s[n-4]) && s[n-3] == ':' && isDigit(s[n-2]) && isDigit(s[n-1]) {
		return s[:n-3] + s[n-2:]
	}
	if n >= 5 && isSign(s[n-5]) && isDigit(s[n-4]) && isDigit(s[n-3]) && isDigit(s[n-2]) && isDigit(s[n-1]) {
		return s
	}
	return s + utcOffset
}

// time.Parse accepts single digit hour, the normalized text must match exactly.
func checkShape(s string) error {
	if len(s) != len(normalizedShape) {
		return fmt.Errorf("expected layout '%v', got '%v'", normalizedLayout, s)
	}
	for i := 0; i < len(s); i++ {
		var ok bool
		switch normalizedShape[i] {
		case 'd':
			ok = isDigit(s[i])
		case 's':
			ok = isSign(s[i])
		default:
			ok = s[i] == normalizedShape[i]
		}
		if !ok {
			return fmt.Errorf("unexpected char '%c' at %d, expected layout '%v', got '%v'", s[i], i, normalizedLayout, s)
		}
	}

	// time.Parse takes any 2 digit offset, e.g., '+9900'
	off := s[len(s)-4:]
	if hh := digits2(off[:2]); hh > 23 {
		return fmt.Errorf("offset hour %d out of range, got '%v'", hh, s)
	}
	if mm := digits2(off[2:]); mm > 59 {
		return fmt.Errorf("offset minute %d out of range, got '%v'", mm, s)
	}
	return nil
}

func digits2(s string) int {
	return int(s[0]-'0')*10 + int(s[1]-'0')
}

// Offset as ±HH:MM, the sign follows the whole hours, e.g., -1800s is '+00:30', unless totalOffsetSign is set.
func (c *Codec) appendOffset(b []byte, offset int) []byte {
	if offset == 0 {
		return append(b, 'Z')
	}
	hours := offset / 3600
	minutes := (offset - hours*3600) / 60

	negative := hours < 0
	if c.totalOffsetSign {
		negative = offset < 0
	}
	if negative {
		b = append(b, '-')
	} else {
		b = append(b, '+')
	}
	b = appendPadded(b, abs(hours), 2)
	b = append(b, ':')
	return appendPadded(b, abs(minutes), 2)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func appendPadded(b []byte, v int, width int) []byte {
	s := strconv.Itoa(v)
	for i := len(s); i < width; i++ {
		b = append(b, '0')
	}
	return append(b, s...)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isSign(c byte) bool {
	return c == '+' || c == '-'
}
