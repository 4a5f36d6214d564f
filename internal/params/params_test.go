package params

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  Pagination
	}{
		{"defaults", "", Pagination{Limit: 15, Offset: 0, Page: 1}},
		{"explicit values", "limit=20&page=3", Pagination{Limit: 20, Offset: 40, Page: 3}},
		{"limit clamped to max", "limit=500", Pagination{Limit: 30, Offset: 0, Page: 1}},
		{"non-positive limit falls back", "limit=0", Pagination{Limit: 15, Offset: 0, Page: 1}},
		{"garbage ignored", "limit=abc&page=-2", Pagination{Limit: 15, Offset: 0, Page: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, ParsePagination(q))
		})
	}
}
