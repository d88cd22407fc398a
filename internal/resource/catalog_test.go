package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linebridge/internal/store"
)

func TestListResources_FixedOrder(t *testing.T) {
	descriptors := ListResources()

	require.Len(t, descriptors, 3)
	assert.Equal(t, "line://text/data", descriptors[0].URI)
	assert.Equal(t, "line://sticker/data", descriptors[1].URI)
	assert.Equal(t, "line://image/data", descriptors[2].URI)

	for _, d := range descriptors {
		assert.NotEmpty(t, d.Name)
		assert.NotEmpty(t, d.Description)
		assert.Equal(t, "application/json", d.MIMEType)
	}
}

func TestListResources_Deterministic(t *testing.T) {
	assert.Equal(t, ListResources(), ListResources())
}

func TestListResources_OtherNotExposed(t *testing.T) {
	for _, d := range ListResources() {
		assert.NotEqual(t, URI(store.TypeOther), d.URI)
	}
}

func TestURI(t *testing.T) {
	assert.Equal(t, "line://text/data", URI(store.TypeText))
	assert.Equal(t, "line://sticker/data", URI(store.TypeSticker))
	assert.Equal(t, "line://image/data", URI(store.TypeImage))
}
