package simcards

import (
	"context"
	"testing"

	"github.com/simako/simako-backend/internal/model"
	"github.com/simako/simako-backend/internal/repository"
)

// fakeRepo enforces the sim_id unique key the way the real table does.
type fakeRepo struct {
	bySimID map[string]model.SimCard
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{bySimID: map[string]model.SimCard{}}
}

func (f *fakeRepo) Insert(_ context.Context, s model.SimCard) error {
	if _, exists := f.bySimID[s.SimID]; exists {
		return repository.ErrDuplicateSimID
	}
	f.bySimID[s.SimID] = s
	return nil
}

func (f *fakeRepo) ListAll(_ context.Context) ([]model.SimCard, error) {
	out := make([]model.SimCard, 0, len(f.bySimID))
	for _, s := range f.bySimID {
		out = append(out, s)
	}
	return out, nil
}

func TestRegisterDefaults(t *testing.T) {
	svc := New(newFakeRepo())

	card, err := svc.Register(context.Background(), RegisterInput{
		SimID:       "SIM001",
		PhoneNumber: "+1234567890",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if !card.IsActive {
		t.Error("is_active must default to true")
	}
	if card.Carrier != nil {
		t.Error("carrier must stay nil when omitted")
	}
	if card.CreatedAt.IsZero() || card.LastSeen.IsZero() {
		t.Error("created_at and last_seen must be stamped")
	}
	if len(card.ID) != 26 {
		t.Errorf("expected 26-char ULID, got %q", card.ID)
	}
}

func TestRegisterExplicitInactive(t *testing.T) {
	svc := New(newFakeRepo())

	inactive := false
	card, err := svc.Register(context.Background(), RegisterInput{
		SimID:       "SIM002",
		PhoneNumber: "+1234567890",
		IsActive:    &inactive,
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if card.IsActive {
		t.Error("expected is_active=false")
	}
}

func TestRegisterDuplicate(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo)

	in := RegisterInput{SimID: "SIM001", PhoneNumber: "+1234567890"}
	if _, err := svc.Register(context.Background(), in); err != nil {
		t.Fatalf("first Register returned error: %v", err)
	}

	_, err := svc.Register(context.Background(), in)
	if err != ErrAlreadyRegistered {
		t.Fatalf("expected ErrAlreadyRegistered, got %v", err)
	}
	if len(repo.bySimID) != 1 {
		t.Fatalf("store must hold exactly one record, got %d", len(repo.bySimID))
	}
}
