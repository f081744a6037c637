package dispatch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"golang.org/x/time/rate"

	"groundhog/internal/metrics"
)

type call struct {
	Method  string
	Channel string
	TS      string
	Value   string
}

type mockAPI struct {
	mu         sync.Mutex
	calls      []call
	reactErr   error
	messageErr error
}

func (m *mockAPI) AddReaction(_ context.Context, channel, ts, emoji string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call{Method: "reactions.add", Channel: channel, TS: ts, Value: emoji})
	return m.reactErr
}

func (m *mockAPI) PostMessage(_ context.Context, channel, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call{Method: "chat.postMessage", Channel: channel, Value: text})
	return m.messageErr
}

func newTestDispatcher(api ChatAPI) *Dispatcher {
	return NewWithLimiter(api, rate.NewLimiter(rate.Inf, 0), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestDispatch(t *testing.T) {
	tests := []struct {
		name   string
		action Action
		want   []call
	}{
		{
			name:   "reaction and reply",
			action: Action{Emoji: "question", Text: "Ask in #support"},
			want: []call{
				{Method: "reactions.add", Channel: "C1", TS: "1.000", Value: "question"},
				{Method: "chat.postMessage", Channel: "C1", Value: "Ask in #support"},
			},
		},
		{
			name:   "reaction only",
			action: Action{Emoji: "rage"},
			want:   []call{{Method: "reactions.add", Channel: "C1", TS: "1.000", Value: "rage"}},
		},
		{
			name:   "reply only",
			action: Action{Text: "hi"},
			want:   []call{{Method: "chat.postMessage", Channel: "C1", Value: "hi"}},
		},
		{
			name:   "nothing",
			action: Action{},
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &mockAPI{}
			newTestDispatcher(api).Dispatch(context.Background(), "C1", "1.000", tt.action)
			if diff := cmp.Diff(tt.want, api.calls); diff != "" {
				t.Errorf("calls mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDispatchFailedReactionStillReplies(t *testing.T) {
	api := &mockAPI{reactErr: errors.New("already_reacted")}
	before := testutil.ToFloat64(metrics.DispatchErrors.WithLabelValues("reactions.add"))

	newTestDispatcher(api).Dispatch(context.Background(), "C1", "1.000", Action{Emoji: "x", Text: "y"})

	if diff := cmp.Diff(2, len(api.calls)); diff != "" {
		t.Fatalf("call count mismatch (-want +got):\n%s", diff)
	}
	after := testutil.ToFloat64(metrics.DispatchErrors.WithLabelValues("reactions.add"))
	if diff := cmp.Diff(before+1, after); diff != "" {
		t.Errorf("dispatch error counter mismatch (-want +got):\n%s", diff)
	}
}

func TestDispatchNoRetry(t *testing.T) {
	api := &mockAPI{messageErr: errors.New("channel_not_found")}

	newTestDispatcher(api).Post(context.Background(), "C1", "hello")

	if diff := cmp.Diff(1, len(api.calls)); diff != "" {
		t.Errorf("expected exactly one attempt (-want +got):\n%s", diff)
	}
}

func TestDispatchCancelledContext(t *testing.T) {
	api := &mockAPI{}
	d := NewWithLimiter(api, rate.NewLimiter(rate.Every(1e9), 0), slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.Dispatch(ctx, "C1", "1.000", Action{Emoji: "x", Text: "y"})

	if len(api.calls) != 0 {
		t.Errorf("expected no calls after cancellation, got %v", api.calls)
	}
}
