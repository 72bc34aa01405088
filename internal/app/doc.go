// Package app wires configuration, logging, services and the HTTP transport
// into a runnable report server.
package app
