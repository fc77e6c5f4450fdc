package paginate

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

// Defaults applied when page or limit is missing, zero or unparsable.
const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// Reserved option keys. They drive pagination and are never forwarded to a fetch.
const (
	KeyPage   = "page"
	KeyLimit  = "limit"
	KeyOffset = "offset"
)

// FetchOptions is the passthrough bag handed to the underlying fetch as is
// (eager-load directives, column lists, anything the host layer understands).
type FetchOptions map[string]any

// Options controls a single Paginate call.
//
// Page and Limit hold parsed values; zero means "not supplied" and resolves to
// DefaultPage / DefaultLimit. Negative values are kept verbatim unless Strict is set,
// in which case anything below 1 also falls back to the default.
type Options struct {
	Page   int
	Limit  int
	Strict bool
	Fetch  FetchOptions
}

// OptionsFrom builds Options from a dynamic option bag. page and limit go through
// ParseInt; offset is dropped; every other key is copied into Fetch.
func OptionsFrom(raw map[string]any) Options {
	opts := Options{
		Page:  ParseInt(raw[KeyPage], 0),
		Limit: ParseInt(raw[KeyLimit], 0),
	}
	for k, v := range raw {
		if isReserved(k) {
			continue
		}
		if opts.Fetch == nil {
			opts.Fetch = make(FetchOptions, len(raw))
		}
		opts.Fetch[k] = v
	}
	return opts
}

// OptionsFromQuery is OptionsFrom for HTTP query strings. Keys with a single value
// are forwarded as a string, repeated keys as []string.
func OptionsFromQuery(values url.Values) Options {
	raw := make(map[string]any, len(values))
	for k, vs := range values {
		switch len(vs) {
		case 0:
			continue
		case 1:
			raw[k] = vs[0]
		default:
			raw[k] = append([]string(nil), vs...)
		}
	}
	return OptionsFrom(raw)
}

// ParseInt parses raw as an integer and returns def when that fails or yields zero.
//
// Strings are read leniently: leading blanks and an optional sign are skipped and
// parsing stops at the first non-digit, so "12abc" is 12 and "abc" is def.
// A 0x or 0X prefix switches to hexadecimal, so "0x10" is 16.
// Floats are truncated toward zero. Negative results are returned unchanged.
func ParseInt(raw any, def int) int {
	n, ok := parseInt(raw)
	if !ok || n == 0 {
		return def
	}
	return n
}

func parseInt(raw any) (int, bool) {
	switch v := raw.(type) {
	case nil:
		return 0, false
	case int:
		return v, true
	case int8:
		return int(v), true
	case int16:
		return int(v), true
	case int32:
		return int(v), true
	case int64:
		if v > math.MaxInt || v < math.MinInt {
			return 0, false
		}
		return int(v), true
	case uint:
		if uint64(v) > math.MaxInt {
			return 0, false
		}
		return int(v), true
	case uint8:
		return int(v), true
	case uint16:
		return int(v), true
	case uint32:
		if uint64(v) > math.MaxInt {
			return 0, false
		}
		return int(v), true
	case uint64:
		if v > math.MaxInt {
			return 0, false
		}
		return int(v), true
	case float32:
		return parseFloat(float64(v))
	case float64:
		return parseFloat(v)
	case string:
		return parseLeadingInt(v)
	case []string:
		if len(v) == 0 {
			return 0, false
		}
		return parseLeadingInt(v[0])
	case []byte:
		return parseLeadingInt(string(v))
	case interface{ String() string }:
		return parseLeadingInt(v.String())
	default:
		return 0, false
	}
}

func parseFloat(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f > math.MaxInt || f < math.MinInt {
		return 0, false
	}
	return int(f), true
}

func parseLeadingInt(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t\n\r\v\f")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	sign := s[:end]
	base, isDigit := 10, isDecimal
	if len(s) > end+1 && s[end] == '0' && (s[end+1] == 'x' || s[end+1] == 'X') {
		end += 2
		base, isDigit = 16, isHex
	}
	digits := end
	for end < len(s) && isDigit(s[end]) {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.ParseInt(sign+s[digits:end], base, strconv.IntSize)
	if err != nil {
		return 0, false
	}
	return int(n), true
}

func isDecimal(c byte) bool { return c >= '0' && c <= '9' }

func isHex(c byte) bool {
	return isDecimal(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isReserved(key string) bool {
	return key == KeyPage || key == KeyLimit || key == KeyOffset
}

// forward copies the non-reserved keys of o. It never returns nil so fetch
// implementations can index it freely.
func (o FetchOptions) forward() FetchOptions {
	out := make(FetchOptions, len(o))
	for k, v := range o {
		if isReserved(k) {
			continue
		}
		out[k] = v
	}
	return out
}

func resolve(v, def int, strict bool) int {
	if v == 0 || (strict && v < 1) {
		return def
	}
	return v
}
