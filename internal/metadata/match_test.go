package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vmunix/costar/internal/domain"
)

func TestBestMatch(t *testing.T) {
	candidates := []domain.ActorSummary{
		{ID: 1, Name: "Chris Evans"},
		{ID: 2, Name: "Chris Pratt"},
		{ID: 3, Name: "Christopher Walken"},
	}

	tests := []struct {
		name       string
		query      string
		wantID     int64
		wantOK     bool
		confidence MatchConfidence
	}{
		{"exact", "Chris Pratt", 2, true, ConfidenceHigh},
		{"case and punctuation", "chris-evans!", 1, true, ConfidenceHigh},
		{"typo", "Chris Prat", 2, true, ConfidenceHigh},
		{"no match", "Zendaya", 0, false, ConfidenceNone},
		{"empty", "", 0, false, ConfidenceNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := BestMatch(tt.query, candidates)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, m.Actor.ID)
			assert.Equal(t, tt.confidence, m.Confidence)
		})
	}
}

func TestBestMatch_TieKeepsFirst(t *testing.T) {
	m, ok := BestMatch("Sam Jones", []domain.ActorSummary{{ID: 7, Name: "Sam Jones"}, {ID: 8, Name: "Sam Jones"}})
	assert.True(t, ok)
	assert.Equal(t, int64(7), m.Actor.ID)
}

func TestMatchConfidence_String(t *testing.T) {
	assert.Equal(t, "high", ConfidenceHigh.String())
	assert.Equal(t, "medium", ConfidenceMedium.String())
	assert.Equal(t, "low", ConfidenceLow.String())
	assert.Equal(t, "none", ConfidenceNone.String())
}

func TestCleanName(t *testing.T) {
	assert.Equal(t, "robert downey jr", cleanName("  Robert Downey, Jr. "))
	assert.Equal(t, "jean claude van damme", cleanName("Jean-Claude Van Damme"))
	assert.Equal(t, "penélope cruz", cleanName("Penélope Cruz"))
}
