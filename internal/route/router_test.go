package route

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tenderwatch/tenderwatch/internal/tender"
)

func TestRoute(t *testing.T) {
	t.Parallel()

	router := New([]tender.Subscriber{
		{ID: "ops", Subscriptions: []string{tender.SubscribeAll}},
		{ID: "data-team", Subscriptions: []string{"Data"}},
		{ID: "web-team", Subscriptions: []string{"Dév & Web", "Infra"}},
	})

	t.Run("wildcard receives every category", func(t *testing.T) {
		require.Contains(t, router.Route("Data"), "ops")
		require.Contains(t, router.Route("Infra"), "ops")
		require.Contains(t, router.Route("Dév & Web"), "ops")
	})

	t.Run("exact category only", func(t *testing.T) {
		require.Equal(t, []string{"ops", "data-team"}, router.Route("Data"))
		require.NotContains(t, router.Route("Infra"), "data-team")
	})

	t.Run("multi-category subscriber", func(t *testing.T) {
		require.Contains(t, router.Route("Infra"), "web-team")
		require.Contains(t, router.Route("Dév & Web"), "web-team")
	})

	t.Run("unknown category routes to wildcard only", func(t *testing.T) {
		require.Equal(t, []string{"ops"}, router.Route("Travaux"))
	})
}

func TestRouteNoSubscribers(t *testing.T) {
	t.Parallel()

	router := New(nil)
	require.Empty(t, router.Route("Data"))
}

func TestRouteDeduplicatesRecipients(t *testing.T) {
	t.Parallel()

	router := New([]tender.Subscriber{
		{ID: "ops", Subscriptions: []string{tender.SubscribeAll, "Data"}},
	})
	require.Equal(t, []string{"ops"}, router.Route("Data"))
}
