package model

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeliveryString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "SENT", Sent().String())
	assert.Equal(t, "SKIPPED: Missing email", SkippedMissingEmail().String())
	assert.Equal(t, "ERROR: connection refused", Failed(errors.New("connection refused")).String())
	assert.Equal(t, "", Delivery{}.String())
}

func TestParseDelivery(t *testing.T) {
	t.Parallel()

	for _, d := range []Delivery{Sent(), SkippedMissingEmail(), Failed(errors.New("550 mailbox unavailable"))} {
		assert.Equal(t, d, ParseDelivery(d.String()))
	}

	got := ParseDelivery("something else")
	assert.Equal(t, DeliveryFailed, got.Kind)
	assert.Equal(t, "something else", got.Detail)
}

func TestDeliveryJSON(t *testing.T) {
	t.Parallel()

	lead := EnrichedLead{Lead: Lead{Name: "Jane"}, Delivery: Failed(errors.New("timeout"))}
	b, err := json.Marshal(lead)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"delivery":"ERROR: timeout"`)

	var back EnrichedLead
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, lead.Delivery, back.Delivery)
}
