package budget

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatch_BidirectionalContainment(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"exact", "Luz", "luz", true},
		{"a contains b", "Pago de luz", "Luz", true},
		{"b contains a", "Luz", "pago de luz enel", true},
		{"diacritics ignored", "Gasto Común", "gasto comun", true},
		{"unrelated", "Netflix", "Agua", false},
		{"empty never matches", "", "Luz", false},
		{"both empty never match", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Match(tt.a, tt.b, false))
		})
	}
}

func TestFindItem_FirstMatchWins(t *testing.T) {
	items := []BudgetItem{
		{ID: uuid.New(), Name: "Luz"},
		{ID: uuid.New(), Name: "Luz del patio"},
	}

	found := FindItem(items, "pago de luz")
	require.NotNil(t, found)
	assert.Equal(t, items[0].ID, found.ID)

	assert.Nil(t, FindItem(items, "netflix"))
	assert.Nil(t, FindItem(nil, "luz"))
}

func TestSharesSignificantToken(t *testing.T) {
	assert.True(t, sharesSignificantToken("luz electrica", "boleta luz enero"))
	// Tokens shorter than three characters never count.
	assert.False(t, sharesSignificantToken("la tv", "la radio"))
	assert.False(t, sharesSignificantToken("agua", "luz"))
}

func TestRankCandidates_Ordering(t *testing.T) {
	items := []BudgetItem{
		{ID: uuid.New(), Name: "Netflix"},
		{ID: uuid.New(), Name: "Internet"},
		{ID: uuid.New(), Name: "Luz"},
	}

	ranked := RankCandidates(items, "netflix premium", 2)
	require.Len(t, ranked, 2)
	assert.Equal(t, "Netflix", ranked[0].Item.Name)
	assert.Greater(t, ranked[0].Score, ranked[1].Score)

	assert.Nil(t, RankCandidates(items, "", 5))
	assert.Nil(t, RankCandidates(nil, "luz", 5))
}

func TestSimilarityScore(t *testing.T) {
	assert.Equal(t, 100, similarityScore("luz", "luz"))
	assert.GreaterOrEqual(t, similarityScore("pago de luz", "luz"), 75)
	assert.Less(t, similarityScore("netflix", "agua"), 50)
	assert.Zero(t, similarityScore("", "luz"))
}

func TestLevenshtein(t *testing.T) {
	assert.Equal(t, 0, levenshtein("luz", "luz"))
	assert.Equal(t, 1, levenshtein("luz", "lus"))
	assert.Equal(t, 3, levenshtein("", "luz"))
	assert.Equal(t, 1, levenshtein("agua", "aga"))
	assert.Equal(t, 2, levenshtein("gato", "pago"))
}
