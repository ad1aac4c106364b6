package http

// RouterConfig contains the dependencies of the HTTP router.
type RouterConfig struct {
	// Catalog serializes requests against the shared catalog session.
	Catalog *Catalog

	// Database is pinged by the health check. Optional.
	Database Pinger

	// Application info
	Version string
}
