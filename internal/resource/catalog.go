package resource

import (
	"fmt"

	"linebridge/internal/constants"
	"linebridge/internal/store"
)

// Descriptor is a read-only view definition exposed to the protocol client.
type Descriptor struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description"`
	MIMEType    string `json:"mimeType"`
}

// URI builds the deterministic resource identifier for a message type.
func URI(t store.MessageType) string {
	return fmt.Sprintf("%s://%s/data", constants.ResourceScheme, t)
}

// ListResources returns one descriptor per exposed message type in fixed,
// stable order. It is a pure function of the type enum: listing succeeds
// even when the store is empty or unreadable.
func ListResources() []Descriptor {
	types := store.ExposedTypes()
	descriptors := make([]Descriptor, 0, len(types))

	for _, t := range types {
		descriptors = append(descriptors, Descriptor{
			URI:         URI(t),
			Name:        displayName(t),
			Description: describe(t),
			MIMEType:    constants.ResourceMIMEType,
		})
	}

	return descriptors
}

func displayName(t store.MessageType) string {
	switch t {
	case store.TypeText:
		return "Text messages"
	case store.TypeSticker:
		return "Sticker messages"
	case store.TypeImage:
		return "Image messages"
	case store.TypeOther:
		return "Other messages"
	}
	return string(t)
}

func describe(t store.MessageType) string {
	switch t {
	case store.TypeText:
		return "Text messages received from the LINE channel, filterable by sender and date range"
	case store.TypeSticker:
		return "Sticker messages received from the LINE channel, filterable by sender and date range"
	case store.TypeImage:
		return "Image messages received from the LINE channel, filterable by sender and date range"
	case store.TypeOther:
		return "Messages of unrecognized types, preserved verbatim"
	}
	return string(t)
}
