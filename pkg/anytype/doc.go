// Package anytype provides a thin client for the Anytype REST API. The Client
// type authenticates with a bearer API key, sends the fixed Anytype-Version
// header, and exposes one method per HTTP verb. Non-2xx responses surface as
// *HTTPError values carrying the status code, the decoded error body and, for
// write requests, a truncated echo of the payload that was sent.
//
// Resource-specific helpers live in the objects and tables packages; both
// accept any Requester, which *Client implements.
package anytype
