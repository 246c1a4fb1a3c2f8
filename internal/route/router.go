// Package route maps alert categories to subscribed recipients.
package route

import (
	"github.com/tenderwatch/tenderwatch/internal/tender"
)

// Router resolves the recipients for a category from the static subscriber
// list. The list is loaded once at startup and never mutated.
type Router struct {
	subscribers []tender.Subscriber
}

// New builds a Router over the configured subscribers.
func New(subscribers []tender.Subscriber) *Router {
	return &Router{subscribers: subscribers}
}

// Route returns the ids of every subscriber whose subscription set contains
// the category or the "ALL" wildcard, preserving configuration order. An
// empty result means the alert has nowhere to go and is dropped upstream.
func (r *Router) Route(category string) []string {
	var recipients []string
	seen := map[string]struct{}{}
	for _, sub := range r.subscribers {
		if !subscribes(sub, category) {
			continue
		}
		if _, dup := seen[sub.ID]; dup {
			continue
		}
		seen[sub.ID] = struct{}{}
		recipients = append(recipients, sub.ID)
	}
	return recipients
}

func subscribes(sub tender.Subscriber, category string) bool {
	for _, s := range sub.Subscriptions {
		if s == tender.SubscribeAll || s == category {
			return true
		}
	}
	return false
}
