package swaphub_test

import (
	"testing"

	"swapgogo/backend/internal/models"
	"swapgogo/backend/internal/storage"
	"swapgogo/backend/internal/swaphub"

	"github.com/stretchr/testify/assert"
)

// matchedPair створює та зіставляє пару alice(Yam→Rice) / bob(Rice→Yam).
func matchedPair(t *testing.T) (*storage.MemoryStore, *swaphub.HandshakeService, *models.Offer, *models.Offer) {
	t.Helper()

	store := storage.NewMemoryStore()
	matcher := swaphub.NewMatcherService(store)

	a := newOffer("alice", "Yam", "Rice")
	_, err := matcher.SubmitOffer(a)
	assert.NoError(t, err)

	b := newOffer("bob", "Rice", "Yam")
	counterpart, err := matcher.SubmitOffer(b)
	assert.NoError(t, err)
	assert.NotNil(t, counterpart)

	return store, swaphub.NewHandshakeService(store), a, b
}

// TestHandshake_RoundTrip walks the full happy path: match, code generated
// by one party, confirmed by the other, both offers completed, and every
// follow-up handshake operation rejected.
func TestHandshake_RoundTrip(t *testing.T) {
	store, handshake, a, b := matchedPair(t)

	// Bob (the responder) generates a code
	code, err := handshake.GenerateCode(b.ID, "bob")
	assert.NoError(t, err)
	assert.NotEmpty(t, code)

	// Alice (the creator) confirms it on her own offer
	offer, counterpart, err := handshake.ConfirmCode(a.ID, "alice", code)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, offer.Status)
	assert.Equal(t, models.StatusCompleted, counterpart.Status)
	assert.Equal(t, b.ID, *offer.MatchedWith, "completed offers keep their pairing link")
	assert.Equal(t, a.ID, *counterpart.MatchedWith)
	assert.Nil(t, offer.ConfirmationCode, "the code is cleared on completion")
	assert.Nil(t, counterpart.ConfirmationCode)

	// Completed is terminal: further confirms and declines must fail
	_, _, err = handshake.ConfirmCode(a.ID, "alice", code)
	assert.ErrorIs(t, err, swaphub.ErrNotMatched)
	_, _, err = handshake.Decline(b.ID, "bob")
	assert.ErrorIs(t, err, swaphub.ErrNotMatched)

	// The completed event reached both parties (after the matched one)
	ev := <-store.Events
	assert.Equal(t, models.EventMatched, ev.Type)
	ev = <-store.Events
	assert.Equal(t, models.EventCompleted, ev.Type)
	assert.True(t, ev.Involves("alice"))
	assert.True(t, ev.Involves("bob"))
}

// TestHandshake_WrongCode verifies that a mismatching code changes nothing.
func TestHandshake_WrongCode(t *testing.T) {
	store, handshake, a, b := matchedPair(t)

	code, err := handshake.GenerateCode(b.ID, "bob")
	assert.NoError(t, err)
	assert.NotEqual(t, "WRONG", code)

	_, _, err = handshake.ConfirmCode(a.ID, "alice", "WRONG")
	assert.ErrorIs(t, err, swaphub.ErrWrongCode)

	storedA, _ := store.GetOffer(a.ID)
	storedB, _ := store.GetOffer(b.ID)
	assert.Equal(t, models.StatusMatched, storedA.Status, "both offers must remain matched")
	assert.Equal(t, models.StatusMatched, storedB.Status)

	// The correct code still works afterwards
	_, _, err = handshake.ConfirmCode(a.ID, "alice", code)
	assert.NoError(t, err)
}

// TestHandshake_SelfConfirmRejected: the party who generated the code cannot
// confirm it, even with the correct code.
func TestHandshake_SelfConfirmRejected(t *testing.T) {
	_, handshake, _, b := matchedPair(t)

	code, err := handshake.GenerateCode(b.ID, "bob")
	assert.NoError(t, err)

	_, _, err = handshake.ConfirmCode(b.ID, "bob", code)
	assert.ErrorIs(t, err, swaphub.ErrForbidden)
}

// TestHandshake_StrangerForbidden: only the two parties of a pair may drive
// the handshake.
func TestHandshake_StrangerForbidden(t *testing.T) {
	_, handshake, a, b := matchedPair(t)

	_, err := handshake.GenerateCode(a.ID, "mallory")
	assert.ErrorIs(t, err, swaphub.ErrForbidden)

	code, err := handshake.GenerateCode(b.ID, "bob")
	assert.NoError(t, err)
	_, _, err = handshake.ConfirmCode(a.ID, "mallory", code)
	assert.ErrorIs(t, err, swaphub.ErrForbidden)

	_, _, err = handshake.Decline(a.ID, "mallory")
	assert.ErrorIs(t, err, swaphub.ErrForbidden)
}

// TestHandshake_CodeOverwrite: a fresh code replaces the outstanding one, so
// only one code is ever valid per pair.
func TestHandshake_CodeOverwrite(t *testing.T) {
	_, handshake, a, b := matchedPair(t)

	oldCode, err := handshake.GenerateCode(b.ID, "bob")
	assert.NoError(t, err)
	newCode, err := handshake.GenerateCode(b.ID, "bob")
	assert.NoError(t, err)

	if oldCode == newCode {
		t.Skip("codes collided; overwrite not observable in this run")
	}

	_, _, err = handshake.ConfirmCode(a.ID, "alice", oldCode)
	assert.ErrorIs(t, err, swaphub.ErrWrongCode)

	_, _, err = handshake.ConfirmCode(a.ID, "alice", newCode)
	assert.NoError(t, err)
}

// TestHandshake_ConfirmWithoutCode: confirming before any code exists fails
// as a code mismatch and changes nothing.
func TestHandshake_ConfirmWithoutCode(t *testing.T) {
	store, handshake, a, _ := matchedPair(t)

	_, _, err := handshake.ConfirmCode(a.ID, "alice", "0000")
	assert.ErrorIs(t, err, swaphub.ErrWrongCode)

	storedA, _ := store.GetOffer(a.ID)
	assert.Equal(t, models.StatusMatched, storedA.Status)
}

// TestHandshake_DeclineSymmetry: declining returns BOTH offers to pending,
// unlinked and with no code; a second decline is rejected.
func TestHandshake_DeclineSymmetry(t *testing.T) {
	store, handshake, a, b := matchedPair(t)

	_, err := handshake.GenerateCode(b.ID, "bob")
	assert.NoError(t, err)

	offer, counterpart, err := handshake.Decline(a.ID, "alice")
	assert.NoError(t, err)
	assert.Equal(t, models.StatusPending, offer.Status)
	assert.Equal(t, models.StatusPending, counterpart.Status)
	assert.Nil(t, offer.MatchedWith)
	assert.Nil(t, counterpart.MatchedWith)
	assert.Nil(t, offer.ConfirmationCode)
	assert.Nil(t, counterpart.ConfirmationCode)

	// Re-declining an already unlinked offer must be rejected, not ignored
	_, _, err = handshake.Decline(a.ID, "alice")
	assert.ErrorIs(t, err, swaphub.ErrNotMatched)
	_, _, err = handshake.Decline(b.ID, "bob")
	assert.ErrorIs(t, err, swaphub.ErrNotMatched)

	// Unlinked offers are matchable again
	storedA, _ := store.GetOffer(a.ID)
	assert.Equal(t, models.StatusPending, storedA.Status)
}

// TestHandshake_GenerateRequiresMatch: pending offers have no handshake.
func TestHandshake_GenerateRequiresMatch(t *testing.T) {
	store := storage.NewMemoryStore()
	handshake := swaphub.NewHandshakeService(store)

	lonely := newOffer("alice", "Yam", "Rice")
	assert.NoError(t, store.CreateOffer(lonely))

	_, err := handshake.GenerateCode(lonely.ID, "alice")
	assert.ErrorIs(t, err, swaphub.ErrNotMatched)

	_, err = handshake.GenerateCode("no-such-offer", "alice")
	assert.ErrorIs(t, err, storage.ErrOfferNotFound)
}

// TestHandshake_MatchedWithSymmetry re-checks the pairing invariant through
// the whole lifecycle driven by the coordinator.
func TestHandshake_MatchedWithSymmetry(t *testing.T) {
	store, handshake, a, b := matchedPair(t)

	storedA, _ := store.GetOffer(a.ID)
	storedB, _ := store.GetOffer(b.ID)
	assert.Equal(t, storedB.ID, *storedA.MatchedWith)
	assert.Equal(t, storedA.ID, *storedB.MatchedWith)

	code, err := handshake.GenerateCode(a.ID, "bob") // either side's id resolves the pair
	assert.NoError(t, err)

	offer, counterpart, err := handshake.ConfirmCode(b.ID, "alice", code)
	assert.NoError(t, err)
	assert.Equal(t, *offer.MatchedWith, counterpart.ID)
	assert.Equal(t, *counterpart.MatchedWith, offer.ID)
}
