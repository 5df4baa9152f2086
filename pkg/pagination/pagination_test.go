package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDefaults(t *testing.T) {
	cases := []struct {
		name      string
		page      string
		limit     string
		wantPage  int
		wantLimit int
	}{
		{"empty", "", "", 1, 10},
		{"valid", "3", "25", 3, 25},
		{"garbage", "abc", "xyz", 1, 10},
		{"zero page", "0", "0", 1, 10},
		{"negative", "-2", "-5", 1, 10},
		{"limit capped", "1", "5000", 1, MaxLimit},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := Parse(tc.page, tc.limit)
			assert.Equal(t, tc.wantPage, p.Page)
			assert.Equal(t, tc.wantLimit, p.Limit)
		})
	}
}

func TestMetaFor(t *testing.T) {
	p := Params{Page: 2, Limit: 10}
	meta := p.MetaFor(35)
	assert.Equal(t, int64(35), meta.Total)
	assert.Equal(t, int64(4), meta.Pages)
	assert.True(t, meta.HasMore)

	last := Params{Page: 4, Limit: 10}.MetaFor(35)
	assert.False(t, last.HasMore)

	empty := Params{Page: 1, Limit: 10}.MetaFor(0)
	assert.Equal(t, int64(0), empty.Pages)
	assert.False(t, empty.HasMore)
}

func TestMetaForZeroLimit(t *testing.T) {
	meta := Params{}.MetaFor(25)
	assert.Equal(t, DefaultLimit, meta.Limit)
	assert.Equal(t, int64(3), meta.Pages)
	assert.True(t, meta.HasMore)
}

func TestSlice(t *testing.T) {
	p := Params{Page: 2, Limit: 10}
	start, end := p.Slice(35)
	assert.Equal(t, 10, start)
	assert.Equal(t, 20, end)

	// past the end: empty window, not an error
	start, end = Params{Page: 9, Limit: 10}.Slice(35)
	assert.Equal(t, start, end)

	// partial final page
	start, end = Params{Page: 4, Limit: 10}.Slice(35)
	assert.Equal(t, 30, start)
	assert.Equal(t, 35, end)
}
