package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tripmapper/backend/internal/domain"
)

func TestNormalizeTitle(t *testing.T) {
	cases := map[string]string{
		"Eiger":       "eiger",
		"  Eiger  ":   "eiger",
		"ALPS 2026":   "alps 2026",
		"\tZytglogge": "zytglogge",
		"":            "",
		"   ":         "",
	}
	for in, want := range cases {
		assert.Equal(t, want, domain.NormalizeTitle(in), "input %q", in)
	}
}

func TestNormalizeTitleSet(t *testing.T) {
	got := domain.NormalizeTitleSet([]string{"Eiger", "  ", "eiger", "Jungfrau", "", "JUNGFRAU", "Mönch"})

	// Blanks and duplicates drop; first-seen order survives.
	assert.Equal(t, []string{"eiger", "jungfrau", "mönch"}, got)
}

func TestNormalizeTitleSet_Empty(t *testing.T) {
	assert.Empty(t, domain.NormalizeTitleSet(nil))
	assert.Empty(t, domain.NormalizeTitleSet([]string{"", "   "}))
}
