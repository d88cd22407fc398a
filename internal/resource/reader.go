package resource

import (
	"context"
	"encoding/json"
	"time"

	"linebridge/internal/store"
	"linebridge/pkg/errors"
	"linebridge/pkg/metrics"
)

// Querier is the slice of the message store the reader needs.
type Querier interface {
	Query(ctx context.Context, filter store.QueryFilter) ([]store.MessageRecord, error)
}

// Reader resolves resource URIs into serialized result sets from the store.
type Reader struct {
	store Querier
}

func NewReader(querier Querier) *Reader {
	return &Reader{store: querier}
}

type resourceBody struct {
	Messages []store.MessageRecord `json:"messages"`
}

// ReadResource parses the URI, queries the store with the parsed type fixed,
// and returns the matching records as a JSON document. An empty result set is
// a valid success; a failing store read is surfaced as resource-unavailable,
// never masked as empty.
func (r *Reader) ReadResource(ctx context.Context, uri string) (string, error) {
	filter, err := ParseURI(uri)
	if err != nil {
		metrics.IncResourceRead("invalid", "error")
		return "", err
	}

	resourceType := string(filter.Type)
	start := time.Now()

	records, err := r.store.Query(ctx, filter)
	if err != nil {
		metrics.IncResourceRead(resourceType, "error")
		return "", errors.ErrResourceUnavailable.WithCause(err)
	}

	data, err := json.MarshalIndent(resourceBody{Messages: records}, "", "  ")
	if err != nil {
		metrics.IncResourceRead(resourceType, "error")
		return "", errors.ErrResourceUnavailable.WithCause(err)
	}

	metrics.IncResourceRead(resourceType, "success")
	metrics.ObserveResourceReadDuration(resourceType, time.Since(start))
	return string(data), nil
}
