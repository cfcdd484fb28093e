package exam

import (
	"testing"

	"github.com/SAP-F-2025/exam-session-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnswer_Toggle(t *testing.T) {
	t.Run("keeps letters sorted", func(t *testing.T) {
		a := Answer{Kind: models.MultiSelect}
		require.NoError(t, a.Toggle("C"))
		require.NoError(t, a.Toggle("a"))
		assert.Equal(t, []string{"A", "C"}, a.Selected)
		assert.Equal(t, "A,C", a.Value())
	})

	t.Run("toggle twice restores prior slot", func(t *testing.T) {
		priors := [][]string{nil, {"B"}, {"A", "D"}}
		for _, prior := range priors {
			a := Answer{Kind: models.MultiSelect, Selected: prior}
			before := a.Clone()
			for _, l := range models.OptionLetters {
				require.NoError(t, a.Toggle(l))
				require.NoError(t, a.Toggle(l))
				assert.Equal(t, before, a, "letter %s from %v", l, prior)
			}
		}
	})

	t.Run("removing last letter empties slot", func(t *testing.T) {
		a := Answer{Kind: models.MultiSelect}
		require.NoError(t, a.Toggle("B"))
		require.NoError(t, a.Toggle("B"))
		assert.True(t, a.IsEmpty())
		assert.Nil(t, a.Selected)
	})

	t.Run("rejects unknown letter", func(t *testing.T) {
		a := Answer{Kind: models.MultiSelect}
		assert.ErrorIs(t, a.Toggle("E"), ErrInvalidOption)
		assert.True(t, a.IsEmpty())
	})

	t.Run("does not alias cloned slices", func(t *testing.T) {
		a := Answer{Kind: models.MultiSelect, Selected: []string{"A", "B"}}
		c := a.Clone()
		require.NoError(t, a.Toggle("A"))
		assert.Equal(t, []string{"A", "B"}, c.Selected)
	})
}

func TestAnswer_SetChoice(t *testing.T) {
	a := Answer{Kind: models.SingleChoice}
	require.NoError(t, a.SetChoice("b"))
	require.NoError(t, a.SetChoice("D"))
	assert.Equal(t, "D", a.Choice)
	assert.ErrorIs(t, a.SetChoice("Z"), ErrInvalidOption)
	assert.Equal(t, "D", a.Choice)
}

func TestAnswer_ValueRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		answer Answer
		raw    string
	}{
		{"single", Answer{Kind: models.SingleChoice, Choice: "B"}, "B"},
		{"multi", Answer{Kind: models.MultiSelect, Selected: []string{"A", "C"}}, "A,C"},
		{"category", Answer{Kind: models.CategoryTrueFalse, Statements: map[string]bool{"X": true, "Y": false}}, `{"X":true,"Y":false}`},
		{"empty category", Answer{Kind: models.CategoryTrueFalse}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.raw, tt.answer.Value())
			assert.Equal(t, tt.answer, ParseAnswer(tt.answer.Kind, tt.raw))
		})
	}
}

func TestParseAnswer_Fallbacks(t *testing.T) {
	tests := []struct {
		name string
		kind models.QuestionType
		raw  string
		want Answer
	}{
		{"malformed category", models.CategoryTrueFalse, `{"X":`, Answer{Kind: models.CategoryTrueFalse}},
		{"category wrong shape", models.CategoryTrueFalse, `["X"]`, Answer{Kind: models.CategoryTrueFalse}},
		{"multi unsorted", models.MultiSelect, "C, a ,C", Answer{Kind: models.MultiSelect, Selected: []string{"A", "C"}}},
		{"multi only commas", models.MultiSelect, ",,", Answer{Kind: models.MultiSelect}},
		{"single invalid", models.SingleChoice, "Q", Answer{Kind: models.SingleChoice}},
		{"blank", models.SingleChoice, "  ", Answer{Kind: models.SingleChoice}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseAnswer(tt.kind, tt.raw)
			assert.Equal(t, tt.want, got)
		})
	}
}
