package listing

import (
	"net/url"
	"strconv"
	"strings"
)

// ParseQuery builds a Query from raw query-string parameters. Parsing is
// tolerant on purpose: unknown parameter names, empty values and malformed
// numbers are dropped so old clients keep working. Range specs read
// "<name>_min" and "<name>_max".
func ParseQuery(values url.Values, res Resource) Query {
	q := Query{Filters: make(map[string]string)}

	if v := values.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			q.Limit = n
		}
	}
	if v := values.Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			q.Offset = n
		}
	}
	q.SortBy = strings.TrimSpace(values.Get("sort_by"))
	q.SortOrder = strings.ToLower(strings.TrimSpace(values.Get("order")))

	for name, spec := range res.Filters {
		if spec.Kind == Range {
			for _, key := range []string{name + "_min", name + "_max"} {
				if v := strings.TrimSpace(values.Get(key)); v != "" {
					q.Filters[key] = v
				}
			}
			continue
		}
		// An empty search box means "no filter", not "match empty".
		if v := strings.TrimSpace(values.Get(name)); v != "" {
			q.Filters[name] = v
		}
	}

	return q
}
