package journal_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"folio/internal/book"
	"folio/internal/journal"
	"folio/internal/testsupport"
)

func TestOpenCreatesDatabaseAndReopens(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	store, err := journal.Open(cfg)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	if store.Path() == "" {
		t.Fatal("store path empty")
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := journal.Open(cfg)
	if err != nil {
		t.Fatalf("reopen after close: %v", err)
	}
	defer reopened.Close()
}

func TestOpenRejectsHeldLock(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	first := testsupport.MustOpenJournal(t, cfg)
	_ = first

	if _, err := journal.Open(cfg); err == nil {
		t.Fatal("expected second open to fail while lock held")
	} else if !strings.Contains(err.Error(), "journal locked") {
		t.Fatalf("expected lock error, got %v", err)
	}
}

func TestInvocationLifecycle(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)
	ctx := context.Background()

	id, err := store.BeginInvocation(ctx, "mint", "978-0-123456-78-9")
	if err != nil {
		t.Fatalf("BeginInvocation: %v", err)
	}
	if id == "" {
		t.Fatal("empty invocation id")
	}

	inv, err := store.GetInvocation(ctx, id)
	if err != nil {
		t.Fatalf("GetInvocation: %v", err)
	}
	if inv.Kind != "mint" || inv.ISBN != "978-0-123456-78-9" {
		t.Fatalf("unexpected invocation: %+v", inv)
	}
	if inv.Outcome != "" || inv.FinishedAt != nil {
		t.Fatalf("invocation must start open: %+v", inv)
	}
	if inv.StartedAt.IsZero() {
		t.Fatal("started_at not recorded")
	}

	if err := store.FinishInvocation(ctx, id, journal.OutcomeError, "popup dismissed"); err != nil {
		t.Fatalf("FinishInvocation: %v", err)
	}
	inv, err = store.GetInvocation(ctx, id)
	if err != nil {
		t.Fatalf("GetInvocation after finish: %v", err)
	}
	if inv.Outcome != journal.OutcomeError || inv.Error != "popup dismissed" {
		t.Fatalf("outcome not stamped: %+v", inv)
	}
	if inv.FinishedAt == nil || inv.FinishedAt.Before(inv.StartedAt) {
		t.Fatalf("finished_at not stamped correctly: %+v", inv)
	}
}

func TestTransitionsKeepInsertionOrder(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)
	ctx := context.Background()

	id, err := store.BeginInvocation(ctx, "mint", "978-0-123456-78-9")
	if err != nil {
		t.Fatalf("BeginInvocation: %v", err)
	}

	steps := [][2]string{
		{"idle", "connecting"},
		{"connecting", "publishing"},
		{"publishing", "submitting"},
		{"submitting", "confirming"},
		{"confirming", "success"},
	}
	for _, step := range steps {
		if err := store.RecordTransition(ctx, id, step[0], step[1], ""); err != nil {
			t.Fatalf("RecordTransition %v: %v", step, err)
		}
	}

	got, err := store.Transitions(ctx, id)
	if err != nil {
		t.Fatalf("Transitions: %v", err)
	}
	if len(got) != len(steps) {
		t.Fatalf("expected %d transitions, got %d", len(steps), len(got))
	}
	for i, tr := range got {
		if tr.FromState != steps[i][0] || tr.ToState != steps[i][1] {
			t.Fatalf("transition %d out of order: %+v", i, tr)
		}
	}
}

func TestListInvocationsNewestFirst(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)
	ctx := context.Background()

	var last string
	for i := 0; i < 3; i++ {
		id, err := store.BeginInvocation(ctx, "verify", "978-0-123456-78-9")
		if err != nil {
			t.Fatalf("BeginInvocation: %v", err)
		}
		last = id
		time.Sleep(2 * time.Millisecond)
	}

	list, err := store.ListInvocations(ctx, 2)
	if err != nil {
		t.Fatalf("ListInvocations: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("limit not applied, got %d", len(list))
	}
	if list[0].ID != last {
		t.Fatalf("expected newest invocation first, got %s", list[0].ID)
	}
}

func TestRecordSnapshotRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)
	ctx := context.Background()

	id, err := store.BeginInvocation(ctx, "verify", "978-0-123456-78-9")
	if err != nil {
		t.Fatalf("BeginInvocation: %v", err)
	}

	minted := time.Date(2026, time.January, 2, 3, 4, 5, 0, time.UTC)
	record := book.Record{
		ISBN:    "978-0-123456-78-9",
		Exists:  true,
		TokenID: "7",
		Owner:   "0x00000000000000000000000000000000000000c2",
		Metadata: &book.Metadata{
			Title:    "The Dispossessed",
			Author:   "Ursula K. Le Guin",
			MintedAt: minted,
		},
	}
	if err := store.RecordSnapshot(ctx, id, record); err != nil {
		t.Fatalf("RecordSnapshot: %v", err)
	}

	// A record without metadata must also persist cleanly.
	if err := store.RecordSnapshot(ctx, id, book.Record{ISBN: "978-1-0"}); err != nil {
		t.Fatalf("RecordSnapshot without metadata: %v", err)
	}
}
