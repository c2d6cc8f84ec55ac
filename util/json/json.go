package json

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/curtisnewbie/rfctime/util/errs"
	"github.com/curtisnewbie/rfctime/util/strutil"
	jsoniter "github.com/json-iterator/go"
)

var (
	api = NewAPI(DefaultDateOptions())
)

// Create frozen jsoniter.API, time.Time values are written and read based on the DateOptions.
//
// Exported fields without explicit json name are named with the first letter lowercased, e.g., CreatedAt -> createdAt.
func NewAPI(opts DateOptions) jsoniter.API {
	a := jsoniter.Config{EscapeHTML: true}.Froze()
	a.RegisterExtension(&lowerCamelExtension{})
	a.RegisterExtension(newTimeExtension(opts))
	return a
}

// Change how time.Time is serialized by the package level funcs.
//
// It's expected to be called during initialization, before any json processing.
func SetDateOptions(opts DateOptions) {
	api = NewAPI(opts)
}

// Parse json bytes.
func ParseJson(body []byte, ptr any) error {
	return api.Unmarshal(body, ptr)
}

// Parse json string.
func SParseJson(body string, ptr any) error {
	if err := ParseJson(strutil.UnsafeStr2Byt(body), ptr); err != nil {
		return errs.Wrapf(err, "body '%v'", body)
	}
	return nil
}

// Write json as bytes.
func WriteJson(body any) ([]byte, error) {
	return api.Marshal(body)
}

// Write json as string.
func SWriteJson(body any) (string, error) {
	buf, err := WriteJson(body)
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

type lowerCamelExtension struct {
	jsoniter.DummyExtension
}

func (e *lowerCamelExtension) UpdateStructDescriptor(sd *jsoniter.StructDescriptor) {
	for _, b := range sd.Fields {
		name := b.Field.Name()
		if !unicode.IsUpper([]rune(name)[0]) {
			continue
		}
		if tag, ok := b.Field.Tag().Lookup("json"); ok {
			if n, _, _ := strings.Cut(tag, ","); n != "" {
				continue // named or hidden with '-'
			}
		}
		lc := lowerFirst(name)
		b.ToNames = []string{lc}
		b.FromNames = []string{lc}
	}
}

func lowerFirst(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[n:]
}
