package rules

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"groundhog/internal/model"
)

func TestMatch(t *testing.T) {
	helpRule := model.Rule{Trigger: "help", Emoji: "question", Text: "Ask in #support"}
	botRule := model.Rule{Trigger: "Głupi bot", Emoji: "rage", Text: "Sam jesteś głupi!"}
	vipRule := model.Rule{Trigger: "deploy", Users: []string{"alice", "carol"}, Emoji: "rocket"}
	anyDeploy := model.Rule{Trigger: "DEPLOY", Text: "Check #releases first"}

	all := []model.Rule{helpRule, botRule, vipRule, anyDeploy}

	tests := []struct {
		name   string
		text   string
		sender string
		want   []model.Rule
	}{
		{
			name: "case insensitive trigger",
			text: "HELP me please",
			want: []model.Rule{helpRule},
		},
		{
			name: "trigger inside a word",
			text: "unhelpful answer",
			want: []model.Rule{helpRule},
		},
		{
			name: "unicode folding",
			text: "GŁUPI BOT",
			want: []model.Rule{botRule},
		},
		{
			name:   "allow list matches listed sender",
			text:   "time to deploy",
			sender: "alice",
			want:   []model.Rule{vipRule, anyDeploy},
		},
		{
			name:   "allow list rejects other sender",
			text:   "time to deploy",
			sender: "bob",
			want:   []model.Rule{anyDeploy},
		},
		{
			name: "allow list rejects unresolved sender",
			text: "time to deploy",
			want: []model.Rule{anyDeploy},
		},
		{
			name:   "multiple rules all fire in order",
			text:   "help, I need to deploy",
			sender: "carol",
			want:   []model.Rule{helpRule, vipRule, anyDeploy},
		},
		{
			name: "no match",
			text: "good morning",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Match(all, tt.text, tt.sender)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Match() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMatchNoRules(t *testing.T) {
	if got := Match(nil, "help", "alice"); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func TestNeedsSender(t *testing.T) {
	tests := []struct {
		name  string
		rules []model.Rule
		want  bool
	}{
		{name: "no rules", rules: nil, want: false},
		{name: "open rules only", rules: []model.Rule{{Trigger: "a"}, {Trigger: "b", Users: []string{}}}, want: false},
		{name: "one restricted rule", rules: []model.Rule{{Trigger: "a"}, {Trigger: "b", Users: []string{"x"}}}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, NeedsSender(tt.rules)); diff != "" {
				t.Errorf("NeedsSender() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
