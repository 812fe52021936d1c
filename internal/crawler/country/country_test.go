package country

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndex_Lookup(t *testing.T) {
	idx := New()

	tests := []struct {
		name     string
		input    string
		expected string
		ok       bool
	}{
		{name: "english name", input: "Ukraine", expected: "UA", ok: true},
		{name: "english name any case", input: "  rUSSIA ", expected: "RU", ok: true},
		{name: "ukrainian name", input: "Україна", expected: "UA", ok: true},
		{name: "ukrainian official alias", input: "Російська Федерація", expected: "RU", ok: true},
		{name: "russian name", input: "Беларусь", expected: "BY", ok: true},
		{name: "ukrainian united kingdom", input: "Сполучене Королівство", expected: "GB", ok: true},
		{name: "ukrainian united kingdom official", input: "Сполучене Королівство Великої Британії та Північної Ірландії", expected: "GB", ok: true},
		{name: "united kingdom with city", input: "Сполучене Королівство м. Лондон", expected: "GB", ok: true},
		{name: "alpha-2 code", input: "ua", expected: "UA", ok: true},
		{name: "alpha-3 code", input: "UKR", expected: "UA", ok: true},
		{name: "contained name", input: "Republic of Kazakhstan", expected: "KZ", ok: true},
		{name: "contained ukrainian name", input: "місто Мінськ Білорусь", expected: "BY", ok: true},
		{name: "whole words only", input: "Nigeria", expected: "NG", ok: true},
		{name: "unknown text", input: "Kyiv region", expected: "", ok: false},
		{name: "empty text", input: "   ", expected: "", ok: false},
		{name: "non country region code", input: "EU", expected: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, ok := idx.Lookup(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, code)
		})
	}
}

func TestIndex_WithAliases(t *testing.T) {
	idx := New(WithAliases(map[string]string{
		"Ічкерія":  "RU",
		"Atlantis": "QQ",
	}))

	code, ok := idx.Lookup("ічкерія")
	assert.True(t, ok)
	assert.Equal(t, "RU", code)

	_, ok = idx.Lookup("Atlantis")
	assert.False(t, ok, "aliases to non-country codes are ignored")
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "cote d ivoire", Normalize("Côte d’Ivoire"))
	assert.Equal(t, "российская федерация", Normalize("  Российская   Федерация. "))
	assert.Equal(t, "", Normalize(" - "))
}

func TestIndex_Len(t *testing.T) {
	assert.Greater(t, New().Len(), 200)
}
