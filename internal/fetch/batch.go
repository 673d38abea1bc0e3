// Package fetch retrieves rows from a keyed remote table in bounded-size
// batches. PostgREST membership filters put every key in the request
// URL, so a large key set has to be split across requests to stay under
// the server's URL length limit.
package fetch

import (
	"context"
	"fmt"

	"github.com/crimson-sun/lampwatch/internal/postgrest"
)

// DefaultChunkSize keeps a single in.(...) filter safely below the URL
// length limit.
const DefaultChunkSize = 200

// Row is one decoded result row. Column sets vary per table.
type Row = map[string]any

// Options controls a keyed fetch.
type Options struct {
	// ChunkSize is the maximum number of keys per request.
	// Defaults to DefaultChunkSize when <= 0.
	ChunkSize int

	// Apply adds filters (ordering, equality, row cap) to every chunk's
	// query. Applied identically to each chunk.
	Apply func(q *postgrest.Query)
}

// Keyed fetches all rows whose keyColumn is in keys, issuing one request
// per chunk of at most ChunkSize keys, in key order.
//
// On the first chunk that errors, no further chunks are issued and the
// rows accumulated so far are returned together with the error. Callers
// must treat a non-nil error as "this dataset is incomplete" and degrade
// rather than fail. Retry policy, if any, belongs to the caller.
func Keyed(ctx context.Context, client *postgrest.Client, table string, selectCols []string, keyColumn string, keys []string, opts Options) ([]Row, error) {
	size := opts.ChunkSize
	if size <= 0 {
		size = DefaultChunkSize
	}

	var rows []Row
	for start := 0; start < len(keys); start += size {
		end := start + size
		if end > len(keys) {
			end = len(keys)
		}

		q := postgrest.NewQuery().
			Select(selectCols...).
			In(keyColumn, keys[start:end])
		if opts.Apply != nil {
			opts.Apply(q)
		}

		var chunk []Row
		if err := client.GetJSON(ctx, table, q.Values(), &chunk); err != nil {
			return rows, fmt.Errorf("fetch %s: %w", table, err)
		}
		rows = append(rows, chunk...)
	}
	return rows, nil
}
