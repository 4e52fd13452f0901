// Package client talks to the weatherdesk REST API.
//
// HTTPClient is stateless with respect to the session: protected calls take
// the bearer token as an argument, so the session controller alone decides
// which token is current.
//
// # Error Handling
//
// Transport failures (including timeouts) wrap ErrUnavailable. Non-2xx
// answers are *APIError; 401 and 403 also match ErrUnauthorized. A 2xx answer
// whose body cannot be decoded wraps ErrMalformedResponse.
package client
