// Package http provides the HTTP transport layer for the report server.
// Handlers translate service results into JSON responses and service errors
// into RFC 7807 problem details.
package http
