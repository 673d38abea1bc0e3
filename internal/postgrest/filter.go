package postgrest

import (
	"net/url"
	"strconv"
	"strings"
)

// Query builds PostgREST query parameters. Methods return the receiver
// so filters can be chained.
type Query struct {
	vals url.Values
}

// NewQuery creates an empty Query.
func NewQuery() *Query {
	return &Query{vals: url.Values{}}
}

// Select restricts the returned columns.
func (q *Query) Select(cols ...string) *Query {
	q.vals.Set("select", strings.Join(cols, ","))
	return q
}

// Eq adds an equality filter on a column.
func (q *Query) Eq(col, val string) *Query {
	q.vals.Set(col, "eq."+val)
	return q
}

// In adds a membership filter: col=in.(k1,k2,...). The length of the
// encoded key list is what bounds how many keys fit in one request.
func (q *Query) In(col string, keys []string) *Query {
	quoted := make([]string, len(keys))
	for i, k := range keys {
		quoted[i] = quoteReserved(k)
	}
	q.vals.Set(col, "in.("+strings.Join(quoted, ",")+")")
	return q
}

// Order sorts the result by a column.
func (q *Query) Order(col string, desc bool) *Query {
	dir := "asc"
	if desc {
		dir = "desc"
	}
	q.vals.Set("order", col+"."+dir)
	return q
}

// Limit caps the number of returned rows.
func (q *Query) Limit(n int) *Query {
	q.vals.Set("limit", strconv.Itoa(n))
	return q
}

// Values returns the accumulated query parameters.
func (q *Query) Values() url.Values {
	return q.vals
}

// quoteReserved wraps values containing PostgREST list delimiters in
// double quotes.
func quoteReserved(v string) string {
	if strings.ContainsAny(v, `,()" `) {
		return `"` + strings.ReplaceAll(v, `"`, `\"`) + `"`
	}
	return v
}
