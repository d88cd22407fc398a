package store

import (
	"encoding/json"
	"time"
)

// MessageType is the closed set of message kinds the bridge understands.
// Unrecognized platform events are preserved as TypeOther rather than dropped.
type MessageType string

const (
	TypeText    MessageType = "text"
	TypeSticker MessageType = "sticker"
	TypeImage   MessageType = "image"
	TypeOther   MessageType = "other"
)

func (t MessageType) Valid() bool {
	switch t {
	case TypeText, TypeSticker, TypeImage, TypeOther:
		return true
	}
	return false
}

// ExposedTypes returns the message types served as resources, in the fixed
// order used by the catalog. TypeOther is stored but not exposed.
func ExposedTypes() []MessageType {
	return []MessageType{TypeText, TypeSticker, TypeImage}
}

// Content is a tagged union: the record's Type determines which field is set.
type Content struct {
	Text    *TextContent    `json:"text,omitempty"`
	Sticker *StickerContent `json:"sticker,omitempty"`
	Image   *ImageContent   `json:"image,omitempty"`
}

type TextContent struct {
	Body string `json:"body"`
}

type StickerContent struct {
	PackageID string `json:"package_id"`
	StickerID string `json:"sticker_id"`
}

type ImageContent struct {
	MediaID  string `json:"media_id"`
	Provider string `json:"provider,omitempty"`
}

type MessageRecord struct {
	ID          string                     `json:"id"`
	Type        MessageType                `json:"type"`
	SenderID    string                     `json:"sender_id"`
	Timestamp   time.Time                  `json:"timestamp"`
	Content     Content                    `json:"content"`
	RawMetadata map[string]json.RawMessage `json:"raw_metadata,omitempty"`
}

// QueryFilter constrains a store query. Zero values mean "no constraint";
// Since is inclusive, Until is exclusive.
type QueryFilter struct {
	Type   MessageType
	Sender string
	Since  *time.Time
	Until  *time.Time
}

func (f QueryFilter) Matches(rec MessageRecord) bool {
	if f.Type != "" && rec.Type != f.Type {
		return false
	}
	if f.Sender != "" && rec.SenderID != f.Sender {
		return false
	}
	if f.Since != nil && rec.Timestamp.Before(*f.Since) {
		return false
	}
	if f.Until != nil && !rec.Timestamp.Before(*f.Until) {
		return false
	}
	return true
}
