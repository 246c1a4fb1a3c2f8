package rank

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tenderwatch/tenderwatch/internal/tender"
)

func candidate(raw string, score int) tender.Candidate {
	return tender.Candidate{
		Offer:          tender.Offer{RawText: raw},
		Classification: tender.Classification{Score: score, Category: "Data"},
	}
}

func TestRankSpecialTagBonus(t *testing.T) {
	t.Parallel()

	ranker := New(DefaultBonusRules())

	ranked := ranker.Rank([]tender.Candidate{
		candidate("numérisation des archives", 3),
		candidate("plateforme big data à Rabat", 1),
	})

	// Two bonuses (big data + rabat) dominate the higher keyword score.
	require.Equal(t, 201, ranked[0].Priority)
	require.Equal(t, "plateforme big data à Rabat", ranked[0].Offer.RawText)
	require.Equal(t, 3, ranked[1].Priority)
}

func TestRankTiesKeepEncounterOrder(t *testing.T) {
	t.Parallel()

	ranker := New(nil)

	ranked := ranker.Rank([]tender.Candidate{
		candidate("first", 2),
		candidate("second", 2),
		candidate("third", 2),
	})

	require.Equal(t, "first", ranked[0].Offer.RawText)
	require.Equal(t, "second", ranked[1].Offer.RawText)
	require.Equal(t, "third", ranked[2].Offer.RawText)
}

func TestRankDescendingByPriority(t *testing.T) {
	t.Parallel()

	ranker := New(nil)

	ranked := ranker.Rank([]tender.Candidate{
		candidate("low", 1),
		candidate("high", 5),
		candidate("mid", 3),
	})

	require.Equal(t, []int{5, 3, 1}, []int{ranked[0].Priority, ranked[1].Priority, ranked[2].Priority})
}
