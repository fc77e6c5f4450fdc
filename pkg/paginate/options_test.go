package paginate_test

import (
	"math"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/maxviazov/bookshelf-paginate/pkg/paginate"
)

func TestParseInt(t *testing.T) {
	cases := []struct {
		name string
		raw  any
		want int
	}{
		{"nil", nil, 7},
		{"empty string", "", 7},
		{"blank string", "   ", 7},
		{"zero int", 0, 7},
		{"zero string", "0", 7},
		{"non numeric", "abc", 7},
		{"sign only", "-", 7},
		{"plain", "3", 3},
		{"padded", "  12", 12},
		{"trailing garbage", "12abc", 12},
		{"decimal string", "3.9", 3},
		{"explicit plus", "+4", 4},
		{"negative string", "-1", -1},
		{"negative int", -2, -2},
		{"int64", int64(42), 42},
		{"uint8", uint8(9), 9},
		{"float truncated", 2.7, 2},
		{"small float is zero", 0.4, 7},
		{"negative float", -1.5, -1},
		{"nan", math.NaN(), 7},
		{"inf", math.Inf(1), 7},
		{"bool", true, 7},
		{"string slice", []string{"5", "6"}, 5},
		{"empty slice", []string{}, 7},
		{"bytes", []byte("8"), 8},
		{"overflow", "99999999999999999999999", 7},
		{"uint out of range", uint(math.MaxUint), 7},
		{"uint64 out of range", uint64(math.MaxUint64), 7},
		{"uint max int", uint(math.MaxInt), math.MaxInt},
		{"hex", "0x10", 16},
		{"hex upper", "0XfF", 255},
		{"negative hex", "-0x1a", -26},
		{"hex trailing garbage", "0x1g", 1},
		{"hex prefix only", "0x", 7},
		{"leading zero", "010", 10},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, paginate.ParseInt(tc.raw, 7))
		})
	}
}

func TestOptionsFrom(t *testing.T) {
	opts := paginate.OptionsFrom(map[string]any{
		"page":        "x",
		"limit":       25,
		"offset":      "40",
		"withRelated": "author",
		"columns":     []string{"id", "title"},
	})

	assert.Equal(t, 0, opts.Page, "unparsable page is left for the default")
	assert.Equal(t, 25, opts.Limit)
	assert.False(t, opts.Strict)
	assert.Equal(t, paginate.FetchOptions{
		"withRelated": "author",
		"columns":     []string{"id", "title"},
	}, opts.Fetch)
}

func TestOptionsFrom_NoPassthrough(t *testing.T) {
	opts := paginate.OptionsFrom(map[string]any{"page": 2, "offset": 3})
	assert.Nil(t, opts.Fetch)
	assert.Equal(t, 2, opts.Page)
	assert.Equal(t, 0, opts.Limit)
}

func TestOptionsFromQuery(t *testing.T) {
	values := url.Values{
		"page":        {"3"},
		"limit":       {"-4"},
		"offset":      {"10"},
		"withRelated": {"author", "publisher"},
		"columns":     {"id,title"},
		"empty":       {},
	}

	opts := paginate.OptionsFromQuery(values)

	assert.Equal(t, 3, opts.Page)
	assert.Equal(t, -4, opts.Limit, "negative limits parse and are kept")
	assert.Equal(t, paginate.FetchOptions{
		"withRelated": []string{"author", "publisher"},
		"columns":     "id,title",
	}, opts.Fetch)
}
