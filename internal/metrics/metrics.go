// Package metrics provides lightweight hooks for instrumentation.
package metrics

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Account lifecycle metrics
	IncUserRegistered()
	IncUserLogin()
	IncTokenRefreshed()
	IncUserUpdated()
	IncUserDeleted()

	// Product management metrics
	IncProductCreated()
	IncProductUpdated()
	IncProductDeleted()

	// Authorization metrics
	IncAuthzDenied(rule string)
}
