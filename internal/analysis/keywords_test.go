package analysis

import (
	"reflect"
	"strings"
	"testing"
)

func TestKeywords(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		max      int
		expected []string
	}{
		{
			name:     "frequency order",
			text:     strings.Repeat("game ", 5) + strings.Repeat("music ", 3),
			max:      2,
			expected: []string{"game", "music"},
		},
		{
			name:     "tie broken by first occurrence",
			text:     "alpha beta alpha beta gamma",
			max:      3,
			expected: []string{"alpha", "beta", "gamma"},
		},
		{
			name:     "stop words dropped",
			text:     "the game and the game",
			max:      5,
			expected: []string{"game"},
		},
		{
			name:     "korean tokens",
			text:     "오늘 게임 방송 게임 최고",
			max:      2,
			expected: []string{"게임", "오늘"},
		},
		{
			name:     "single characters ignored",
			text:     "a b c game",
			max:      5,
			expected: []string{"game"},
		},
		{
			name:     "empty text",
			text:     "",
			max:      5,
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Keywords(tt.text, tt.max)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Keywords() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestKeywordsLowercases(t *testing.T) {
	got := Keywords("GAME Game game", 1)
	if len(got) != 1 || got[0] != "game" {
		t.Errorf("Keywords() = %v, want [game]", got)
	}
}

func TestKeywordsDefaultMax(t *testing.T) {
	words := []string{"one", "two", "three", "four", "five", "six", "seven", "eight", "nine", "ten", "eleven", "twelve"}
	got := Keywords(strings.Join(words, " "), 0)
	if len(got) != DefaultMaxKeywords {
		t.Errorf("Keywords() returned %d keywords, want %d", len(got), DefaultMaxKeywords)
	}
}
