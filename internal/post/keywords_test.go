package post

import (
	"reflect"
	"testing"
)

func TestSplitKeywords(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "comma separated",
			input: "sourdough, recipe, bts",
			want:  []string{"sourdough", "recipe", "bts"},
		},
		{
			name:  "semicolon separated",
			input: "sourdough; recipe",
			want:  []string{"sourdough", "recipe"},
		},
		{
			name:  "mixed delimiters",
			input: "a, b; c",
			want:  []string{"a", "b", "c"},
		},
		{
			name:  "lowercased and trimmed",
			input: "  Sourdough ,  RECIPE  ",
			want:  []string{"sourdough", "recipe"},
		},
		{
			name:  "duplicates preserved",
			input: "bts, bts, launch",
			want:  []string{"bts", "bts", "launch"},
		},
		{
			name:  "empty tokens dropped",
			input: "a,, ,b",
			want:  []string{"a", "b"},
		},
		{
			name:  "empty string",
			input: "",
			want:  nil,
		},
		{
			name:  "whitespace only",
			input: "   ",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitKeywords(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitKeywords(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestEncodeKeywords(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  string
	}{
		{
			name:  "sorted and joined",
			input: []string{"recipe", "bts"},
			want:  "bts, recipe",
		},
		{
			name:  "deduplicated case insensitively",
			input: []string{"BTS", "bts", "Launch"},
			want:  "bts, launch",
		},
		{
			name:  "blank entries dropped",
			input: []string{" ", "", "bread"},
			want:  "bread",
		},
		{
			name:  "empty input",
			input: nil,
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EncodeKeywords(tt.input)
			if got != tt.want {
				t.Errorf("EncodeKeywords(%v) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSplitRoundTrip(t *testing.T) {
	// Encoded form reads back as the same token set
	encoded := EncodeKeywords([]string{"Recipe", "bts", "recipe"})
	got := SplitKeywords(encoded)
	want := []string{"bts", "recipe"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitKeywords(%q) = %v, want %v", encoded, got, want)
	}
}
