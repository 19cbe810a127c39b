package stripe

import (
	"github.com/stripe/stripe-go/v75/client"
)

// NewClient returns a Stripe client carrying its own key, so no handler ever
// mutates the process-global stripe.Key.
func NewClient(key string) *client.API {
	api := &client.API{}
	api.Init(key, nil)
	return api
}
