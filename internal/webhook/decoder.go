package webhook

import (
	"encoding/json"
	"fmt"
	"time"

	"linebridge/internal/store"
	"linebridge/pkg/errors"
)

// DecodeEvent normalizes one raw platform event into a message record.
// The second return value is false for events that are valid but not
// message events (follow, join, postback, ...), which are acknowledged
// and skipped without being stored.
func DecodeEvent(raw json.RawMessage) (store.MessageRecord, bool, error) {
	var ev platformEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		return store.MessageRecord{}, false, errors.ErrMalformedEvent.WithCause(err)
	}

	if ev.Type != "message" {
		return store.MessageRecord{}, false, nil
	}

	if len(ev.Message) == 0 {
		return store.MessageRecord{}, false, errors.ErrMalformedEvent.WithCause(fmt.Errorf("message event without message body"))
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(ev.Message, &fields); err != nil {
		return store.MessageRecord{}, false, errors.ErrMalformedEvent.WithCause(err)
	}

	id := stringField(fields, "id")
	if id == "" {
		return store.MessageRecord{}, false, errors.ErrMalformedEvent.WithCause(fmt.Errorf("message without id"))
	}

	sender := ev.Source.senderID()
	if sender == "" {
		return store.MessageRecord{}, false, errors.ErrMalformedEvent.WithCause(fmt.Errorf("message %s without source", id))
	}

	rec := store.MessageRecord{
		ID:        id,
		SenderID:  sender,
		Timestamp: time.UnixMilli(ev.Timestamp).UTC(),
	}

	switch stringField(fields, "type") {
	case "text":
		rec.Type = store.TypeText
		rec.Content.Text = &store.TextContent{Body: stringField(fields, "text")}
	case "sticker":
		rec.Type = store.TypeSticker
		rec.Content.Sticker = &store.StickerContent{
			PackageID: stringField(fields, "packageId"),
			StickerID: stringField(fields, "stickerId"),
		}
	case "image":
		rec.Type = store.TypeImage
		rec.Content.Image = &store.ImageContent{
			MediaID:  id,
			Provider: contentProviderType(fields),
		}
	default:
		// Unknown message kinds are kept, payload intact, instead of dropped.
		rec.Type = store.TypeOther
		rec.RawMetadata = fields
	}

	return rec, true, nil
}

func stringField(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return ""
	}
	return value
}

func contentProviderType(fields map[string]json.RawMessage) string {
	raw, ok := fields["contentProvider"]
	if !ok {
		return ""
	}
	var provider struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &provider); err != nil {
		return ""
	}
	return provider.Type
}
