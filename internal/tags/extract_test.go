package tags

import (
	"reflect"
	"testing"
)

func TestExtract(t *testing.T) {
	markers := []string{"possible", "可能"}

	tests := []struct {
		name    string
		summary string
		want    []string
	}{
		{
			name:    "case-insensitive match",
			summary: "Patient shows improvement. Possible anxiety disorder.",
			want:    []string{"Patient shows improvement. Possible anxiety disorder."},
		},
		{
			name:    "matching lines only, order preserved",
			summary: "Summary of visit.\nPossible migraine.\nFollow up in two weeks.\npossible tension headache",
			want:    []string{"Possible migraine.", "possible tension headache"},
		},
		{
			name:    "chinese marker",
			summary: "总结。\n可能为偏头痛。",
			want:    []string{"可能为偏头痛。"},
		},
		{
			name:    "zero matches",
			summary: "Patient is in good health.\nNo concerns noted.",
			want:    []string{},
		},
		{
			name:    "empty summary",
			summary: "",
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.summary, markers)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Extract(%q) = %v, want %v", tt.summary, got, tt.want)
			}
		})
	}
}

func TestExtractNoMarkers(t *testing.T) {
	got := Extract("Possible flu.", nil)
	if len(got) != 0 {
		t.Errorf("expected no tags without markers, got %v", got)
	}
}
