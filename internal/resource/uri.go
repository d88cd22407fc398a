package resource

import (
	"fmt"
	"net/url"
	"time"

	"linebridge/internal/constants"
	"linebridge/internal/store"
	"linebridge/pkg/errors"
)

// ParseURI resolves a resource identifier of the form line://<type>/data
// into a store query. Optional query parameters narrow the result:
// sender (exact match), since (inclusive, RFC 3339), until (exclusive,
// RFC 3339). Anything outside that grammar is an invalid URI.
func ParseURI(raw string) (store.QueryFilter, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return store.QueryFilter{}, errors.ErrInvalidURI.WithCause(err)
	}

	if u.Scheme != constants.ResourceScheme {
		return store.QueryFilter{}, errors.ErrInvalidURI.WithCause(fmt.Errorf("unsupported scheme %q", u.Scheme))
	}

	if u.Path != "/data" {
		return store.QueryFilter{}, errors.ErrInvalidURI.WithCause(fmt.Errorf("unsupported path %q", u.Path))
	}

	messageType, err := exposedType(u.Host)
	if err != nil {
		return store.QueryFilter{}, err
	}

	filter := store.QueryFilter{
		Type:   messageType,
		Sender: u.Query().Get("sender"),
	}

	if since := u.Query().Get("since"); since != "" {
		t, err := parseTimestamp("since", since)
		if err != nil {
			return store.QueryFilter{}, err
		}
		filter.Since = &t
	}

	if until := u.Query().Get("until"); until != "" {
		t, err := parseTimestamp("until", until)
		if err != nil {
			return store.QueryFilter{}, err
		}
		filter.Until = &t
	}

	return filter, nil
}

func exposedType(name string) (store.MessageType, error) {
	for _, t := range store.ExposedTypes() {
		if string(t) == name {
			return t, nil
		}
	}
	return "", errors.ErrInvalidURI.WithCause(fmt.Errorf("unknown message type %q", name))
}

func parseTimestamp(param, value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, errors.ErrInvalidURI.WithCause(fmt.Errorf("parameter %s: %w", param, err))
	}
	return t, nil
}
