package internal

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseListParams(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		wantLimit  int
		wantOffset int
		wantQ      string
	}{
		{"defaults", "/items", 50, 0, ""},
		{"explicit", "/items?limit=10&offset=20&q=proj", 10, 20, "proj"},
		{"limit capped", "/items?limit=9999", 200, 0, ""},
		{"garbage ignored", "/items?limit=abc&offset=-5", 50, 0, ""},
		{"q trimmed", "/items?q=%20proj%20", 50, 0, "proj"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := parseListParams(httptest.NewRequest("GET", tt.url, nil))
			assert.Equal(t, tt.wantLimit, p.limit)
			assert.Equal(t, tt.wantOffset, p.offset)
			assert.Equal(t, tt.wantQ, p.q)
		})
	}
}

func TestWindow(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	assert.Equal(t, []int{1, 2, 3, 4, 5}, window(items, listParams{limit: 50}))
	assert.Equal(t, []int{2, 3}, window(items, listParams{limit: 2, offset: 1}))
	assert.Equal(t, []int{5}, window(items, listParams{limit: 10, offset: 4}))
	assert.Equal(t, []int{}, window(items, listParams{limit: 10, offset: 99}))
}
