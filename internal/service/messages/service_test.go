package messages

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/simako/simako-backend/internal/model"
)

type fakeRepo struct {
	items     map[string]model.Message
	insertErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: map[string]model.Message{}}
}

func (f *fakeRepo) Insert(_ context.Context, m model.Message) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.items[m.ID] = m
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*model.Message, error) {
	m, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (f *fakeRepo) List(_ context.Context, filter model.MessageFilter, limit, skip int) ([]model.Message, int64, error) {
	var out []model.Message
	for _, m := range f.items {
		if filter.SimID != "" && m.SimID != filter.SimID {
			continue
		}
		if filter.Kind != "" && m.Kind != filter.Kind {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	total := int64(len(out))
	if skip < len(out) {
		out = out[skip:]
	} else {
		out = nil
	}
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, total, nil
}

func (f *fakeRepo) MarkProcessed(_ context.Context, id string, at time.Time) (bool, error) {
	m, ok := f.items[id]
	if !ok {
		return false, nil
	}
	m.Processed = true
	m.ProcessedAt = &at
	f.items[id] = m
	return true, nil
}

type recordingNotifier struct {
	got []model.Message
}

func (r *recordingNotifier) MessageReceived(m model.Message) {
	r.got = append(r.got, m)
}

func TestIngestAssignsServerFields(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo, nil)

	before := time.Now().UTC()
	msg, err := svc.Ingest(context.Background(), IngestInput{
		SimID: "SIM001",
		Kind:  model.KindSMS,
		From:  "+1234567890",
		Body:  "hello",
	})
	if err != nil {
		t.Fatalf("Ingest returned error: %v", err)
	}

	if len(msg.ID) != 26 {
		t.Errorf("expected 26-char ULID, got %q", msg.ID)
	}
	if msg.Processed {
		t.Error("new message must not be processed")
	}
	if msg.ProcessedAt != nil {
		t.Error("processed_at must be unset on ingest")
	}
	if msg.Metadata == nil {
		t.Error("metadata must default to an empty map")
	}
	if msg.CreatedAt.Before(before) {
		t.Errorf("created_at %v before test start %v", msg.CreatedAt, before)
	}
	if msg.Timestamp.IsZero() {
		t.Error("timestamp must default to insertion time")
	}
	if _, ok := repo.items[msg.ID]; !ok {
		t.Error("message was not persisted")
	}
}

func TestIngestKeepsCallerTimestamp(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo, nil)

	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	msg, err := svc.Ingest(context.Background(), IngestInput{
		SimID:     "SIM001",
		Kind:      model.KindCall,
		From:      "+1234567890",
		Body:      "missed call",
		Timestamp: &ts,
	})
	if err != nil {
		t.Fatalf("Ingest returned error: %v", err)
	}
	if !msg.Timestamp.Equal(ts) {
		t.Errorf("timestamp = %v, want %v", msg.Timestamp, ts)
	}
}

func TestIngestNotifies(t *testing.T) {
	repo := newFakeRepo()
	notifier := &recordingNotifier{}
	svc := New(repo, notifier)

	if _, err := svc.Ingest(context.Background(), IngestInput{
		SimID: "SIM001", Kind: model.KindSMS, From: "+1", Body: "hi",
	}); err != nil {
		t.Fatalf("Ingest returned error: %v", err)
	}
	if len(notifier.got) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(notifier.got))
	}
	if notifier.got[0].SimID != "SIM001" {
		t.Errorf("notification sim_id = %q", notifier.got[0].SimID)
	}
}

func TestIngestRejectsOversizedMetadata(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo, nil)

	tooManyKeys := model.Metadata{}
	for i := 0; i <= MaxMetadataKeys; i++ {
		tooManyKeys["k"+strconv.Itoa(i)] = i
	}

	cases := map[string]model.Metadata{
		"too many keys": tooManyKeys,
		"too many bytes": {
			"blob": strings.Repeat("x", MaxMetadataBytes+1),
		},
	}

	for name, meta := range cases {
		_, err := svc.Ingest(context.Background(), IngestInput{
			SimID: "SIM001", Kind: model.KindSMS, From: "+1", Body: "hi",
			Metadata: meta,
		})
		if err == nil {
			t.Fatalf("%s: expected error", name)
		}
		if len(repo.items) != 0 {
			t.Fatalf("%s: validation failure must not write", name)
		}
	}
}

func TestMarkProcessedUnknownID(t *testing.T) {
	svc := New(newFakeRepo(), nil)

	_, err := svc.MarkProcessed(context.Background(), "01JUNKNOWNID00000000000000")
	if err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMarkProcessedStamps(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo, nil)

	msg, err := svc.Ingest(context.Background(), IngestInput{
		SimID: "SIM001", Kind: model.KindSMS, From: "+1", Body: "hi",
	})
	if err != nil {
		t.Fatalf("Ingest returned error: %v", err)
	}

	updated, err := svc.MarkProcessed(context.Background(), msg.ID)
	if err != nil {
		t.Fatalf("MarkProcessed returned error: %v", err)
	}
	if !updated.Processed {
		t.Error("expected processed=true")
	}
	if updated.ProcessedAt == nil {
		t.Fatal("expected processed_at to be set")
	}
	if updated.ProcessedAt.Before(updated.CreatedAt) {
		t.Errorf("processed_at %v before created_at %v", updated.ProcessedAt, updated.CreatedAt)
	}
}
