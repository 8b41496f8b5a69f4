package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounterpart(t *testing.T) {
	m := Message{SenderID: 1, ReceiverID: 2}
	assert.Equal(t, uint64(2), Counterpart(m, 1))
	assert.Equal(t, uint64(1), Counterpart(m, 2))
}

func TestLatestPerCounterpartKeepsNewestAndOrder(t *testing.T) {
	// Newest first, the way Conversations fetches them.
	msgs := []Message{
		{ID: 9, SenderID: 1, ReceiverID: 3, Content: "latest with 3"},
		{ID: 8, SenderID: 2, ReceiverID: 1, Content: "latest with 2"},
		{ID: 7, SenderID: 3, ReceiverID: 1, Content: "older with 3"},
		{ID: 6, SenderID: 1, ReceiverID: 2, Content: "older with 2"},
	}

	got := LatestPerCounterpart(msgs, 1)
	require.Len(t, got, 2)
	assert.Equal(t, uint64(9), got[0].ID, "conversation with 3 surfaces its newest message first")
	assert.Equal(t, uint64(8), got[1].ID)
}

func TestLatestPerCounterpartEmpty(t *testing.T) {
	assert.Empty(t, LatestPerCounterpart(nil, 1))
}

func TestReverseMessages(t *testing.T) {
	msgs := []Message{{ID: 3}, {ID: 2}, {ID: 1}}
	reverseMessages(msgs)
	assert.Equal(t, uint64(1), msgs[0].ID)
	assert.Equal(t, uint64(3), msgs[2].ID)
}
