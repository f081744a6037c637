package directory

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"

	"groundhog/internal/model"
	"groundhog/internal/storage"
)

type mockFetcher struct {
	members  []model.Member
	channels []model.Channel
	err      error
	calls    int
}

func (m *mockFetcher) ListMembers(_ context.Context) ([]model.Member, error) {
	m.calls++
	return m.members, m.err
}

func (m *mockFetcher) ListChannels(_ context.Context) ([]model.Channel, error) {
	return m.channels, m.err
}

func newTestStore(t *testing.T) *storage.SQLite {
	t.Helper()
	s, err := storage.NewSQLite(":memory:")
	if err != nil {
		t.Fatalf("new sqlite: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestEnsureLoadsEmptyStore(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	f := &mockFetcher{
		members:  []model.Member{{ID: "U1", Name: "alice"}},
		channels: []model.Channel{{ID: "C1", Name: "general"}},
	}

	synced, err := New(f, store, discard()).Ensure(ctx, false)
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if !synced {
		t.Fatal("expected a sync on an empty store")
	}

	name, err := store.LookupMember(ctx, "U1")
	if err != nil {
		t.Fatalf("lookup member: %v", err)
	}
	if diff := cmp.Diff("alice", name); diff != "" {
		t.Errorf("member mismatch (-want +got):\n%s", diff)
	}
	ch, err := store.LookupChannel(ctx, "C1")
	if err != nil {
		t.Fatalf("lookup channel: %v", err)
	}
	if diff := cmp.Diff("general", ch); diff != "" {
		t.Errorf("channel mismatch (-want +got):\n%s", diff)
	}
}

func TestEnsureKeepsExistingSnapshot(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	if err := store.ReplaceMembers(ctx, []model.Member{{ID: "U1", Name: "alice"}}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	f := &mockFetcher{members: []model.Member{{ID: "U1", Name: "renamed"}}}

	synced, err := New(f, store, discard()).Ensure(ctx, false)
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if synced || f.calls != 0 {
		t.Fatalf("expected no sync, synced=%v calls=%d", synced, f.calls)
	}

	synced, err = New(f, store, discard()).Ensure(ctx, true)
	if err != nil {
		t.Fatalf("forced ensure: %v", err)
	}
	if !synced {
		t.Fatal("expected forced sync")
	}
	name, _ := store.LookupMember(ctx, "U1")
	if diff := cmp.Diff("renamed", name); diff != "" {
		t.Errorf("member mismatch (-want +got):\n%s", diff)
	}
}

func TestSyncFetchError(t *testing.T) {
	f := &mockFetcher{err: errors.New("invalid_auth")}
	if err := New(f, newTestStore(t), discard()).Sync(context.Background()); err == nil {
		t.Fatal("expected error, got nil")
	}
}
