// Package for time values that are written as RFC3339 text.
//
// The core type in this package is [Time]. [Time] is an enhanced wrapper of [time.Time] that uses the package level
// [rfc3339.Codec] for json, yaml and database values, e.g.,
//
//	atom.SetSerializationTimezone(time.FixedZone("", 8*60*60))
//	b, _ := json.Marshal(atom.WrapTime(t)) // "2020-01-01T08:00:00+08:00"
//
// [Time] can be unmarshaled from:
//   - RFC3339 text, see [rfc3339.Codec] for the tolerated shapes
//   - `millseconds since unix epoch` (json only)
//   - `seconds since unix epoch` (database only, values up to 9999999999 are treated as seconds)
//
// The serialization timezone is only used when writing, the offset in the text is always respected when reading.
package atom
