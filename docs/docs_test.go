package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcknowledgeDescription(t *testing.T) {
	var doc struct {
		Paths map[string]map[string]struct {
			Description string `json:"description"`
		} `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(SwaggerInfo.ReadDoc()), &doc))

	ack, ok := doc.Paths["/alerts/{id}/ack"]["post"]
	require.True(t, ok)
	assert.Contains(t, ack.Description, "The alarm keeps running")
	assert.NotContains(t, ack.Description, "silences the alarm")
}
