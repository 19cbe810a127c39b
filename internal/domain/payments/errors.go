package payments

import "errors"

// ErrMissingEventID means the event payload carried no usable object id, even
// after raw-JSON extraction. Processing of that one event stops; the webhook
// endpoint still answers. Signature failures and provider-call failures are
// mapped to HTTP responses directly at the handlers.
var ErrMissingEventID = errors.New("event payload missing object id")
