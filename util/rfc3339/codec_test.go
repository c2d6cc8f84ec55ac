package rfc3339

import (
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"
	_ "time/tzdata"
)

var (
	zoneIST  = time.FixedZone("", 5*60*60+30*60)
	zonePST  = time.FixedZone("", -8*60*60)
	zoneNST  = time.FixedZone("", -(3*60*60 + 30*60))
	zoneGMT  = time.FixedZone("GMT", 0)
	zoneHalf = time.FixedZone("", -30*60)
)

func TestFormat(t *testing.T) {
	noon := time.Date(2020, 1, 1, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		name string
		c    *Codec
		t    time.Time
		exp  string
	}{
		{"utc", NewCodec(nil), noon, "2020-01-01T12:00:00Z"},
		{"5ms", NewCodec(time.UTC), noon.Add(5 * time.Millisecond), "2020-01-01T12:00:00.5Z"},
		{"50ms", NewCodec(time.UTC), noon.Add(50 * time.Millisecond), "2020-01-01T12:00:00.50Z"},
		{"500ms", NewCodec(time.UTC), noon.Add(500 * time.Millisecond), "2020-01-01T12:00:00.500Z"},
		{"sub ms ignored", NewCodec(time.UTC), noon.Add(500 * time.Microsecond), "2020-01-01T12:00:00Z"},
		{"gmt is Z", NewCodec(zoneGMT), noon, "2020-01-01T12:00:00Z"},
		{"ist", NewCodec(zoneIST), noon, "2020-01-01T17:30:00+05:30"},
		{"pst", NewCodec(zonePST), noon, "2020-01-01T04:00:00-08:00"},
		{"nst", NewCodec(zoneNST), noon, "2020-01-01T08:30:00-03:30"},
		{"half hour behind", NewCodec(zoneHalf), noon, "2020-01-01T11:30:00+00:30"},
		{"half hour behind total sign", NewCodec(zoneHalf, WithTotalOffsetSign()), noon, "2020-01-01T11:30:00-00:30"},
		{"nst total sign", NewCodec(zoneNST, WithTotalOffsetSign()), noon, "2020-01-01T08:30:00-03:30"},
		{"ist total sign", NewCodec(zoneIST, WithTotalOffsetSign()), noon, "2020-01-01T17:30:00+05:30"},
		{"input zone ignored", NewCodec(time.UTC), noon.In(zoneIST), "2020-01-01T12:00:00Z"},
		{"standard fraction", NewCodec(time.UTC, WithStandardFraction()), noon.Add(5 * time.Millisecond), "2020-01-01T12:00:00.005Z"},
	}
	for _, c := range cases {
		if v := c.c.Format(c.t); v != c.exp {
			t.Fatalf("%v, expected: %v, actual: %v", c.name, c.exp, v)
		}
	}
}

func TestFormatBeforeEpoch(t *testing.T) {
	// 5ms past the second is -995ms since epoch, the fraction still reads as 5ms
	tt := time.Date(1969, 12, 31, 23, 59, 59, 5_000_000, time.UTC)
	if tt.UnixMilli() != -995 {
		t.Fatalf("unexpected: %v", tt.UnixMilli())
	}
	if v := DefaultCodec().Format(tt); v != "1969-12-31T23:59:59.5Z" {
		t.Fatalf("unexpected: %v", v)
	}
	if v := NewCodec(time.UTC, WithStandardFraction()).Format(tt); v != "1969-12-31T23:59:59.005Z" {
		t.Fatalf("unexpected: %v", v)
	}
	if v := NewCodec(zonePST).Format(time.UnixMilli(-1)); v != "1969-12-31T15:59:59.999-08:00" {
		t.Fatalf("unexpected: %v", v)
	}

	p, err := Parse("1969-12-31T23:59:59.5Z")
	if err != nil {
		t.Fatal(err)
	}
	if !p.Equal(tt) {
		t.Fatalf("expected: %v, actual: %v", tt, p)
	}
}

func TestWithLocation(t *testing.T) {
	base := NewCodec(nil, WithStandardFraction(), WithTotalOffsetSign())
	c := base.WithLocation(zoneHalf)
	if c.Location() != zoneHalf || !c.StandardFraction() || !c.TotalOffsetSign() {
		t.Fatalf("options should be kept, %+v", c)
	}
	if base.Location() != time.UTC {
		t.Fatalf("base should not change, %v", base.Location())
	}
	if v := c.Format(time.Date(2020, 1, 1, 12, 0, 0, 5_000_000, time.UTC)); v != "2020-01-01T11:30:00.005-00:30" {
		t.Fatalf("unexpected: %v", v)
	}
	if c.WithLocation(nil).Location() != time.UTC {
		t.Fatal("nil should be UTC")
	}
}

func TestFormatDaylightSaving(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatal(err)
	}
	c := NewCodec(ny)

	summer := time.Date(2020, 7, 1, 12, 0, 0, 0, time.UTC)
	if v := c.Format(summer); v != "2020-07-01T08:00:00-04:00" {
		t.Fatalf("summer: %v", v)
	}
	winter := time.Date(2020, 1, 1, 12, 0, 0, 0, time.UTC)
	if v := c.Format(winter); v != "2020-01-01T07:00:00-05:00" {
		t.Fatalf("winter: %v", v)
	}
}

func TestAppendFormat(t *testing.T) {
	b := []byte(`"`)
	b = DefaultCodec().AppendFormat(b, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
	b = append(b, '"')
	if string(b) != `"2020-01-01T00:00:00Z"` {
		t.Fatalf("unexpected: %s", b)
	}
}

func TestRoundTrip(t *testing.T) {
	for _, loc := range []*time.Location{time.UTC, zoneIST, zonePST} {
		for _, std := range []bool{false, true} {
			var opts []CodecOption
			if std {
				opts = append(opts, WithStandardFraction())
			}
			c := NewCodec(loc, opts...)
			for _, ms := range []int{0, 1, 500, 999} {
				tt := time.Date(2021, 3, 14, 1, 59, 7, ms*int(time.Millisecond), time.UTC)
				s := c.Format(tt)
				p, err := c.Parse(s)
				if err != nil {
					t.Fatal(err)
				}
				if !p.Equal(tt) {
					t.Fatalf("round trip failed, text: %v, expected: %v, actual: %v", s, tt, p)
				}
				t.Logf("%v -> %v", tt, s)
			}
		}
	}
}

func TestRoundTripHalfHourBehind(t *testing.T) {
	tt := time.Date(2020, 1, 1, 12, 0, 0, 0, time.UTC)

	legacy := NewCodec(zoneHalf)
	p, err := legacy.Parse(legacy.Format(tt))
	if err != nil {
		t.Fatal(err)
	}
	if d := tt.Sub(p); d != time.Hour {
		t.Fatalf("'+00:30' should read one hour early, diff: %v", d)
	}

	c := NewCodec(zoneHalf, WithTotalOffsetSign())
	p, err = c.Parse(c.Format(tt))
	if err != nil {
		t.Fatal(err)
	}
	if !p.Equal(tt) {
		t.Fatalf("expected: %v, actual: %v", tt, p)
	}
}

func TestParseZNormalization(t *testing.T) {
	exp := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, s := range []string{
		"2020-01-01T00:00:00Z",
		"2020-01-01T00:00:00-0000",
		"2020-01-01T00:00:00+00:00",
		"2020-01-01T00:00:00+0000",
		"2020-01-01T00:00:00",
	} {
		p, err := Parse(s)
		if err != nil {
			t.Fatal(err)
		}
		if !p.Equal(exp) {
			t.Fatalf("%v, expected: %v, actual: %v", s, exp, p)
		}
		if p.Location() != time.UTC {
			t.Fatalf("%v, should be in UTC, actual: %v", s, p.Location())
		}
	}
}

func TestParseMissingOffset(t *testing.T) {
	a, err := Parse("2020-06-15T10:20:30")
	if err != nil {
		t.Fatal(err)
	}
	b, err := Parse("2020-06-15T10:20:30Z")
	if err != nil {
		t.Fatal(err)
	}
	if !a.Equal(b) {
		t.Fatalf("%v != %v", a, b)
	}

	// configured timezone is only used by Format
	c, err := NewCodec(zonePST).Parse("2020-06-15T10:20:30")
	if err != nil {
		t.Fatal(err)
	}
	if !c.Equal(b) {
		t.Fatalf("%v != %v", c, b)
	}
}

func TestParseOffset(t *testing.T) {
	exp := time.Date(2020, 6, 15, 4, 50, 30, 0, time.UTC)
	a, err := Parse("2020-06-15T10:20:30+0530")
	if err != nil {
		t.Fatal(err)
	}
	b, err := Parse("2020-06-15T10:20:30+05:30")
	if err != nil {
		t.Fatal(err)
	}
	if !a.Equal(exp) || !b.Equal(exp) {
		t.Fatalf("expected: %v, a: %v, b: %v", exp, a, b)
	}

	n, err := Parse("2020-01-01T00:00:00-03:30")
	if err != nil {
		t.Fatal(err)
	}
	if v := n.Format(time.RFC3339); v != "2020-01-01T03:30:00Z" {
		t.Fatalf("unexpected: %v", v)
	}
}

func TestParseFraction(t *testing.T) {
	base := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		c   *Codec
		s   string
		exp time.Time
	}{
		{DefaultCodec(), "2020-01-01T00:00:00.5Z", base.Add(5 * time.Millisecond)},
		{DefaultCodec(), "2020-01-01T00:00:00.500+00:00", base.Add(500 * time.Millisecond)},
		{DefaultCodec(), "2020-01-01T00:00:00.0Z", base},
		{DefaultCodec(), "2020-01-01T00:00:00.Z", base},
		{DefaultCodec(), "2020-01-01T00:00:00.999", base.Add(999 * time.Millisecond)},
		{DefaultCodec(), "2020-01-01T05:30:00.1+05:30", base.Add(time.Millisecond)},
		{NewCodec(nil, WithStandardFraction()), "2020-01-01T00:00:00.5Z", base.Add(500 * time.Millisecond)},
		{NewCodec(nil, WithStandardFraction()), "2020-01-01T00:00:00.005Z", base.Add(5 * time.Millisecond)},
		{NewCodec(nil, WithStandardFraction()), "2020-01-01T00:00:00.382503Z", base.Add(382 * time.Millisecond)},
	}
	for _, c := range cases {
		p, err := c.c.Parse(c.s)
		if err != nil {
			t.Fatal(err)
		}
		if !p.Equal(c.exp) {
			t.Fatalf("%v, expected: %v, actual: %v", c.s, c.exp, p)
		}
	}
}

func TestParseN(t *testing.T) {
	s := "2020-01-01T00:00:00.25+08:00"
	_, n, err := DefaultCodec().ParseN(s)
	if err != nil {
		t.Fatal(err)
	}
	if n != len(s) {
		t.Fatalf("expected: %v, actual: %v", len(s), n)
	}

	_, n, err = DefaultCodec().ParseN("2020-01-01")
	if err == nil {
		t.Fatal("should fail")
	}
	if n != 0 {
		t.Fatalf("expected: 0, actual: %v", n)
	}
}

func TestParseMalformed(t *testing.T) {
	for _, s := range []string{
		"",
		"not-a-date",
		"2020-13-01T00:00:00Z",
		"2020-02-30T00:00:00Z",
		"2020-00-10T00:00:00Z",
		"2020-01-01T24:00:00Z",
		"2020-01-01T23:60:00Z",
		"2020-01-01T23:59:60Z",
		"2020-01-01T1:00:00Z",
		"20-01-01T10:00:00Z",
		"2020-01-01 10:00:00Z",
		"2020-01-01T10:00:00Zjunk",
		"2020-01-01T10:00:00+5:30",
		"2020-01-01",
		"2020-01-01T00:00:00.99999999999999999999Z",
		"2020-01-01T00:00:00+99:00",
		"2020-01-01T00:00:00+2400",
		"2020-01-01T00:00:00-05:60",
		"2020-01-01T00:00:00.5+24:00",
	} {
		_, err := Parse(s)
		if err == nil {
			t.Fatalf("'%v' should fail", s)
		}
		if !errors.Is(err, ErrParse) || !IsParseErr(err) {
			t.Fatalf("'%v' should be ErrParse, %v", s, err)
		}
		if errors.Unwrap(err) == nil {
			t.Fatalf("'%v' should wrap the cause", s)
		}
		t.Logf("'%v': %v", s, err)
	}
}

func TestParseErrCause(t *testing.T) {
	_, err := Parse("2020-13-01T00:00:00Z")
	var pe *time.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("cause should be *time.ParseError, %v", err)
	}

	_, err = Parse("2020-01-01T00:00:00.99999999999999999999Z")
	var ne *strconv.NumError
	if !errors.As(err, &ne) {
		t.Fatalf("cause should be *strconv.NumError, %v", err)
	}
}

func TestCodecConcurrentUse(t *testing.T) {
	c := NewCodec(zoneIST)
	base := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	errs := make(chan error, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tt := base.Add(time.Duration(i) * (time.Hour + time.Millisecond))
			p, err := c.Parse(c.Format(tt))
			if err != nil {
				errs <- err
				return
			}
			if !p.Equal(tt) {
				errs <- errors.New(tt.String() + " != " + p.String())
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}
}

func TestNormalizeOffset(t *testing.T) {
	cases := map[string]string{
		"2020-01-01T00:00:00Z":      "2020-01-01T00:00:00-0000",
		"2020-01-01T00:00:00+05:30": "2020-01-01T00:00:00+0530",
		"2020-01-01T00:00:00-0800":  "2020-01-01T00:00:00-0800",
		"2020-01-01T00:00:00":       "2020-01-01T00:00:00-0000",
	}
	for in, exp := range cases {
		if v := normalizeOffset(in); v != exp {
			t.Fatalf("%v, expected: %v, actual: %v", in, exp, v)
		}
	}
}

func BenchmarkFormat(b *testing.B) {
	c := NewCodec(zoneIST)
	tt := time.Date(2020, 1, 1, 0, 0, 0, 123_000_000, time.UTC)
	for i := 0; i < b.N; i++ {
		c.Format(tt)
	}
}

func BenchmarkParse(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Parse("2020-01-01T05:30:00.123+05:30")
	}
}
