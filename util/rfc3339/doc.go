// Package for RFC3339 timestamp processing.
//
// The core type in this package is [Codec]. A [Codec] formats time.Time as RFC3339 text in the serialization timezone
// it's created with, and parses RFC3339 text back using the offset embedded in the text, e.g.,
//
//	c := rfc3339.NewCodec(time.FixedZone("", 8*60*60))
//	s := c.Format(t)        // 2020-01-01T08:00:00+08:00
//	t, err := c.Parse(s)    // t is in UTC
//
// Text in following shapes can be parsed:
//   - 2020-01-01T00:00:00Z
//   - 2020-01-01T00:00:00+05:30
//   - 2020-01-01T00:00:00+0530
//   - 2020-01-01T00:00:00 (treated as UTC)
//   - any of the above with fraction, e.g., 2020-01-01T00:00:00.123Z
//
// By default, the fraction is the number of milliseconds as is, i.e., 5ms is formatted as '.5' (not '.005') and '.5' is
// parsed as 5ms. Existing consumers depend on this text, use [WithStandardFraction] only when both sides agree on it.
//
// Malformed text is reported as [ErrParse], the underlying failure is always wrapped.
//
// [UnixCodec] converts time.Time to and from unix timestamps in milliseconds or seconds.
package rfc3339
