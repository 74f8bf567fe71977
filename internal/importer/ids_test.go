package importer

import (
	"testing"
	"unicode"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestNameToID_Charset(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		name := rapid.StringOf(rapid.RuneFrom([]rune{' ', '-', '\''}, unicode.Letter, unicode.Digit)).Draw(t, "name")
		id := NameToID(name)
		for _, r := range id {
			assert.True(t, r == '_' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'),
				"unexpected char %q in id %q", r, id)
		}
	})
}

func TestNameToID_Idempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		name := rapid.StringOf(rapid.RuneFrom([]rune{' ', '-'}, unicode.Letter, unicode.Digit)).Draw(t, "name")
		id := NameToID(name)
		assert.Equal(t, id, NameToID(id))
	})
}

func TestNameToID_KnownValues(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"The Crypt", "the_crypt"},
		{"Warden's Keep", "wardens_keep"},
		{"level-2 vault", "level_2_vault"},
		{"Linear Crypt", "linear_crypt"},
	}
	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.want, NameToID(tc.input))
		})
	}
}

func TestTemplateName(t *testing.T) {
	assert.Equal(t, "Linear Crypt", templateName("content/templates/linear_crypt.lua"))
	assert.Equal(t, "Two Wings", templateName("two-wings.lua"))
	assert.Equal(t, "Édifice Ürn", templateName("édifice_ürn.lua"))
	assert.Equal(t, "Ossuary", templateName("Ossuary.lua"))
}

func TestTemplateName_ValidUTF8(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		base := rapid.StringOf(rapid.RuneFrom([]rune{'_', '-', 'é', 'ß', 'ж'}, unicode.Letter)).Draw(t, "base")
		name := templateName(base + ".lua")
		assert.True(t, utf8.ValidString(name), "invalid utf8 in %q", name)
	})
}
