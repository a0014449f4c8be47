package server

// Server is the lifecycle contract of the vault's inbound transport.
//
// RunServer blocks until a stop signal arrives and the listener has drained;
// Shutdown may also be called directly to stop serving early.
type Server interface {
	// RunServer starts serving requests and blocks until the server stops.
	RunServer()

	// Shutdown gracefully stops the server and frees associated resources.
	Shutdown()
}
