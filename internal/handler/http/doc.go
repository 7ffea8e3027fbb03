// Package http implements the REST transport of the store server.
//
// It exposes the key/value endpoints under /api/kv, the long-poll watch
// endpoint, the session endpoint and the version endpoint. Cross-cutting
// concerns such as authentication, request tracing, access logging, response
// compression, body limits and integrity checks are handled in this package
// before requests are delegated to the service layer.
package http
