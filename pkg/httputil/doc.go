// Package httputil provides the HTTP plumbing shared by penplot's clients.
//
// # Retry
//
// [Retry] runs an operation with capped exponential backoff. Only errors
// wrapped in [RetryableError] are retried; anything else is returned at once:
//
//	err := httputil.Retry(ctx, httputil.DefaultAttempts, httputil.DefaultDelay, func() error {
//	    resp, err := httputil.Do(ctx, client, req)
//	    ...
//	})
//
// # Requests
//
// [Do] sends a request, reports it to the observability HTTP hooks and turns
// network failures into retryable errors. [CheckStatus] converts a non-2xx
// response into a coded error, marking 5xx responses retryable.
package httputil
