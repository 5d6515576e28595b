package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitIngredients(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "ascii commas",
			in:   "water, sugar, salt",
			want: []string{"water", "sugar", "salt"},
		},
		{
			name: "fullwidth separators",
			in:   "水，糖、鹽",
			want: []string{"水", "糖", "鹽"},
		},
		{
			name: "semicolons and newlines",
			in:   "water; sugar\nsalt",
			want: []string{"water", "sugar", "salt"},
		},
		{
			name: "parenthetical sub-ingredients become phrases",
			in:   "emulsifier (soy lecithin), sugar",
			want: []string{"emulsifier", "soy lecithin", "sugar"},
		},
		{
			name: "fullwidth parens with contains prefix",
			in:   "米糠（含胚芽）",
			want: []string{"米糠", "胚芽"},
		},
		{
			name: "english contains prefix",
			in:   "chocolate (contains milk), flour",
			want: []string{"chocolate", "milk", "flour"},
		},
		{
			name: "trailing periods trimmed",
			in:   "water, sugar.",
			want: []string{"water", "sugar"},
		},
		{
			name: "empty pieces dropped",
			in:   ",, water ,,  , sugar,",
			want: []string{"water", "sugar"},
		},
		{
			name: "empty input",
			in:   "",
			want: []string{},
		},
		{
			name: "whitespace only",
			in:   "   \n  ",
			want: []string{},
		},
		{
			name: "delimiters only",
			in:   "，、；()",
			want: []string{},
		},
		{
			name: "casing preserved",
			in:   "Aspartame, Red 40",
			want: []string{"Aspartame", "Red 40"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitIngredients(tt.in))
		})
	}
}

func TestStripContainsPrefix(t *testing.T) {
	assert.Equal(t, "胚芽", stripContainsPrefix("含胚芽"))
	assert.Equal(t, "胚芽", stripContainsPrefix("內含胚芽"))
	assert.Equal(t, "milk", stripContainsPrefix("contains milk"))
	assert.Equal(t, "soy", stripContainsPrefix("including soy"))
	// A bare "含" with nothing after it stays untouched rather than
	// producing an empty phrase.
	assert.Equal(t, "含", stripContainsPrefix("含"))
	assert.Equal(t, "plain", stripContainsPrefix("plain"))
}
