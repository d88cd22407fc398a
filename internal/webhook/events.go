package webhook

import "encoding/json"

// batchRequest is the envelope LINE delivers to the webhook endpoint. Events
// stay raw until decoded one by one so a malformed event cannot take its
// siblings down with it.
type batchRequest struct {
	Destination string            `json:"destination"`
	Events      []json.RawMessage `json:"events"`
}

type platformEvent struct {
	Type       string          `json:"type"`
	Timestamp  int64           `json:"timestamp"` // epoch milliseconds
	ReplyToken string          `json:"replyToken"`
	Source     eventSource     `json:"source"`
	Message    json.RawMessage `json:"message"`
}

type eventSource struct {
	Type    string `json:"type"`
	UserID  string `json:"userId"`
	GroupID string `json:"groupId"`
	RoomID  string `json:"roomId"`
}

// senderID resolves the opaque sender identifier: the user when present,
// otherwise the group or room the event originated from.
func (s eventSource) senderID() string {
	switch {
	case s.UserID != "":
		return s.UserID
	case s.GroupID != "":
		return s.GroupID
	case s.RoomID != "":
		return s.RoomID
	}
	return ""
}
