/*
Package client performs typed HTTP calls against the Sihui API.

# Overview

The client turns a logical endpoint call into one HTTP exchange:
  - URL built by appending the endpoint to the base URL
  - Query maps encoded with nil values dropped and slices repeated per element
  - JSON default headers plus the stored bearer token
  - Multipart uploads with the boundary content type
  - A per-call deadline (10s unless overridden)
  - JSON decoding of successful bodies into the caller's type

No retries happen here; see package resilience.

# Errors

Failures come back as:
  - *ResponseError for non-2xx statuses, with the body's message or "HTTP <status>: <text>"
  - an error wrapping ErrTimeout when the call's own deadline fired
  - *DecodeError (wrapping ErrMalformedResponse) when a 2xx body does not fit the target type
  - a wrapped transport error for DNS, connection and TLS failures

A 401 additionally runs the configured OnUnauthorized hook.

# Example Usage

	c, err := client.New(client.Config{
		BaseURL: "http://localhost:8080/api",
		Store:   session.NewFileStore(""),
	})
	if err != nil {
		return err
	}

	env, err := client.Fetch[types.Envelope[types.Page[types.User]]](ctx, c, client.Request{
		Endpoint: "/api/users",
		Query:    client.Params{"page": 0, "size": 10, "sort": []string{"id,desc"}},
	})

# Observability

Every exchange is passed to the configured Recorders (request log,
analytics) and to the metrics collector. Recorder failures are logged and
never fail the call.

# Thread Safety

A Client is safe for concurrent use once constructed.
*/
package client
