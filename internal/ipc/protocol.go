// Package ipc implements the single-instance one-click handoff endpoint.
//
// The first process to bind the endpoint becomes the server and forwards
// every received one-click URL to the application. Later launches connect
// as clients, hand their URL over, wait for the acknowledgement line, and
// exit.
package ipc

const (
	// DefaultLogicalName is the platform-independent endpoint identifier.
	DefaultLogicalName = "rust4diva.sock"

	// AckLine is written to every client once its connection is accepted.
	AckLine = "URL Received\n"

	// initialLineBuffer is the starting read buffer; longer lines grow it.
	initialLineBuffer = 128
)
