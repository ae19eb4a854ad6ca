package swaphub

import (
	"testing"

	"swapgogo/backend/internal/models"
	"swapgogo/backend/internal/storage"

	"github.com/stretchr/testify/assert"
)

func lockedPair(t *testing.T) (*HandshakeService, *models.Offer, *models.Offer) {
	t.Helper()

	store := storage.NewMemoryStore()
	matcher := NewMatcherService(store)

	a := &models.Offer{OwnerID: "alice", HaveItem: models.Item{Name: "Yam"}, WantItem: models.Item{Name: "Rice"}}
	_, err := matcher.SubmitOffer(a)
	assert.NoError(t, err)

	b := &models.Offer{OwnerID: "bob", HaveItem: models.Item{Name: "Rice"}, WantItem: models.Item{Name: "Yam"}}
	counterpart, err := matcher.SubmitOffer(b)
	assert.NoError(t, err)
	assert.NotNil(t, counterpart)

	return NewHandshakeService(store), a, b
}

// TestPairLocks_ReleasedOnCompletion: the per-pair mutex must not outlive the
// pair, otherwise the lock table grows with every pair ever handshaked.
func TestPairLocks_ReleasedOnCompletion(t *testing.T) {
	handshake, a, b := lockedPair(t)

	code, err := handshake.GenerateCode(b.ID, "bob")
	assert.NoError(t, err)
	assert.Len(t, handshake.pairLocks, 1, "an in-flight handshake holds one pair lock")

	_, _, err = handshake.ConfirmCode(a.ID, "alice", code)
	assert.NoError(t, err)
	assert.Empty(t, handshake.pairLocks, "completion must release the pair lock")
}

// TestPairLocks_ReleasedOnDecline: declining is terminal for the pair, so its
// lock entry must be evicted too.
func TestPairLocks_ReleasedOnDecline(t *testing.T) {
	handshake, a, b := lockedPair(t)

	_, err := handshake.GenerateCode(a.ID, "alice")
	assert.NoError(t, err)

	_, _, err = handshake.Decline(b.ID, "bob")
	assert.NoError(t, err)
	assert.Empty(t, handshake.pairLocks, "decline must release the pair lock")
}
