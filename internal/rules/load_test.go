package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"groundhog/internal/model"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []model.Rule
		wantErr bool
	}{
		{
			name:  "full rule",
			input: `[{"trigger":"help","user_trigger":[],"emoji":"question","text":"Ask in #support"}]`,
			want:  []model.Rule{{Trigger: "help", Users: []string{}, Emoji: "question", Text: "Ask in #support"}},
		},
		{
			name:  "colons stripped from emoji",
			input: `[{"trigger":"ship it","user_trigger":["alice"],"emoji":":rocket:"}]`,
			want:  []model.Rule{{Trigger: "ship it", Users: []string{"alice"}, Emoji: "rocket"}},
		},
		{
			name:  "empty array",
			input: `[]`,
			want:  []model.Rule{},
		},
		{
			name:    "missing trigger",
			input:   `[{"emoji":"x"}]`,
			wantErr: true,
		},
		{
			name:    "no effect",
			input:   `[{"trigger":"x"}]`,
			wantErr: true,
		},
		{
			name:    "not an array",
			input:   `{"trigger":"x"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse([]byte(tt.input))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.json")
	body := `[
  {"trigger": "help", "user_trigger": [], "emoji": "question", "text": "Ask in #support"},
  {"trigger": "coffee", "user_trigger": ["bob"], "emoji": "coffee", "text": ""}
]`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write rules: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := []model.Rule{
		{Trigger: "help", Users: []string{}, Emoji: "question", Text: "Ask in #support"},
		{Trigger: "coffee", Users: []string{"bob"}, Emoji: "coffee"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	got, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected no rules, got %v", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error, got nil")
	}
}
