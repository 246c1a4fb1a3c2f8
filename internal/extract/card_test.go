package extract

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const baseURL = "https://www.marchespublics.gov.ma/bdc/entreprise/consultation/"

const samplePage = `
<html><body>
<div class="content__resultat">398 résultats trouvés</div>
<div class="entreprise__card">
  <p>Objet : Développement d'un portail web institutionnel</p>
  <p>Référence : AO-2026-117</p>
  <p>Date limite de remise des plis : 15/10/2026</p>
  <p>Lieu d'exécution : Rabat</p>
  <a href="/bdc/entreprise/consultation/detail/117">Détail</a>
</div>
<div class="entreprise__card">
  <p>Objet : Acquisition de fournitures de bureau</p>
</div>
<div class="entreprise__card">   </div>
</body></html>`

func TestCardsExtractAllFields(t *testing.T) {
	t.Parallel()

	doc, err := Parse(samplePage)
	require.NoError(t, err)

	offers, skipped := Cards(doc, baseURL)
	require.Len(t, offers, 2)
	require.Equal(t, 1, skipped, "empty card cannot be fingerprinted")

	first := offers[0]
	require.Equal(t, "Développement d'un portail web institutionnel", first.Title)
	require.Equal(t, "AO-2026-117", first.Reference)
	require.Equal(t, "15/10/2026", first.Deadline)
	require.Equal(t, "Rabat", first.Location)
	require.Equal(t, "https://www.marchespublics.gov.ma/bdc/entreprise/consultation/detail/117", first.Link)
	require.Contains(t, first.RawText, "Objet : Développement")
}

func TestCardsPartialFieldsUseSentinel(t *testing.T) {
	t.Parallel()

	doc, err := Parse(samplePage)
	require.NoError(t, err)

	offers, _ := Cards(doc, baseURL)
	partial := offers[1]
	require.Equal(t, "Acquisition de fournitures de bureau", partial.Title)
	require.Equal(t, FieldUnknown, partial.Reference)
	require.Equal(t, FieldUnknown, partial.Deadline)
	require.Equal(t, FieldUnknown, partial.Location)
	require.Equal(t, baseURL, partial.Link, "card without anchor falls back to the listing url")
}

func TestCardsNoCards(t *testing.T) {
	t.Parallel()

	doc, err := Parse("<html><body><p>Aucun résultat</p></body></html>")
	require.NoError(t, err)

	offers, skipped := Cards(doc, baseURL)
	require.Empty(t, offers)
	require.Zero(t, skipped)
}
