// Package marketplace implements the HTTP gateways to the two marketplaces:
// the stats venue publishing floor/top-bid quotes and the listings venue
// holding the operator's own listings.
//
// Retry policy lives in the transport: up to MaxAttempts total calls with a
// fixed RetryWait between them, retrying network errors, 5xx, and 429.
// Client errors (400/401/403/404) are never retried; they indicate a
// request that will not succeed unmodified.
package marketplace
