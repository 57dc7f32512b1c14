package listing

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseQueryReadsDeclaredFilters(t *testing.T) {
	values := url.Values{
		"breed":     {"pre"},
		"q":         {"  bailador  "},
		"status":    {"nominado,consagrado"},
		"votes_min": {"10"},
		"votes_max": {"200"},
		"limit":     {"30"},
		"offset":    {"60"},
		"sort_by":   {"votes"},
		"order":     {"ASC"},
		"unknown":   {"ignored"},
	}

	q := ParseQuery(values, horseResource())

	assert.Equal(t, map[string]string{
		"breed":     "pre",
		"q":         "bailador",
		"status":    "nominado,consagrado",
		"votes_min": "10",
		"votes_max": "200",
	}, q.Filters)
	assert.Equal(t, 30, q.Limit)
	assert.Equal(t, 60, q.Offset)
	assert.Equal(t, "votes", q.SortBy)
	assert.Equal(t, "asc", q.SortOrder)
}

func TestParseQueryDropsEmptyAndMalformedValues(t *testing.T) {
	values := url.Values{
		"breed":  {""},
		"q":      {"   "},
		"limit":  {"veinte"},
		"offset": {""},
	}

	q := ParseQuery(values, horseResource())

	assert.Empty(t, q.Filters)
	assert.Zero(t, q.Limit)
	assert.Zero(t, q.Offset)
}

func TestParseQueryIgnoresUndeclaredParams(t *testing.T) {
	values := url.Values{
		"owner_id":  {"someone-else"},
		"is_public": {"false"},
	}

	q := ParseQuery(values, horseResource())
	assert.Empty(t, q.Filters)
}
