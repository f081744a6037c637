package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseTS(t *testing.T) {
	tests := []struct {
		name    string
		ts      string
		want    int64
		wantErr bool
	}{
		{name: "slack timestamp", ts: "1700000000.000200", want: 1700000000000200},
		{name: "whole seconds", ts: "1000", want: 1000000000},
		{name: "short fraction", ts: "1000.5", want: 1000500000},
		{name: "long fraction truncated", ts: "1000.1234567", want: 1000123456},
		{name: "garbage", ts: "soon", wantErr: true},
		{name: "bad fraction", ts: "1000.x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTS(tt.ts)
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
				t.Errorf("ParseTS() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
