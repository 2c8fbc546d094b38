package diamonds

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"clean", "Ideal", "Ideal"},
		{"byte literal", "b'Ideal'", "Ideal"},
		{"double quoted byte literal", `b"Very Good"`, "Very Good"},
		{"quotes only", "'SI2'", "SI2"},
		{"nested", "b'b'VS1''", "VS1"},
		{"label with spaces kept", "b'Very Good'", "Very Good"},
		{"empty", "", ""},
		{"bare b is a value", "b", "b"},
		{"b inside a label kept", "b'Very Goodb'", "Very Goodb"},
		{"doubled marker not stripped", "bb'Good'", "bb'Good"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeLabel(tt.raw))
		})
	}
}

func TestSanitizeLabel_Idempotent(t *testing.T) {
	inputs := []string{
		"Ideal", "b'Ideal'", `b"Premium"`, "'VVS1'", "b'b'VS1''", "''", "b''", "b'", `"'I1'"`,
		"Very Good", "b'Very Good'", "bb'x'", "",
	}
	for _, in := range inputs {
		once := SanitizeLabel(in)
		assert.Equal(t, once, SanitizeLabel(once), "input %q", in)
	}
}

func TestColorLetter(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"byte literal", "b'E'", "E"},
		{"double quoted byte literal", `b"J"`, "J"},
		{"clean letter", "E", "E"},
		{"longer value keeps one letter", "b'DE'", "D"},
		{"non-ASCII letter kept whole", "É", "É"},
		{"non-ASCII byte literal", "b'Ø'", "Ø"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ColorLetter(tt.raw))
		})
	}
}

func TestColorLetter_Idempotent(t *testing.T) {
	for _, in := range []string{"b'D'", "E", `b"F"`, "G", "É"} {
		once := ColorLetter(in)
		assert.Equal(t, once, ColorLetter(once), "input %q", in)
	}
}

func TestColorLetter_ValidUTF8(t *testing.T) {
	for _, in := range []string{"É", "b'É'", "ÉF", "日本"} {
		out := ColorLetter(in)
		assert.True(t, utf8.ValidString(out), "input %q gave %q", in, out)
		assert.Equal(t, 1, utf8.RuneCountInString(out), "input %q gave %q", in, out)
	}
}
