// Package server wires and runs the store server's transports.
//
// It provides orchestration for HTTP and gRPC server lifecycles and the
// background workers (the watch relay), including startup, signal handling
// and graceful shutdown of everything that was started.
package server
