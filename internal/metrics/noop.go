package metrics

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncUserRegistered is a no-op.
func (n *NoopRecorder) IncUserRegistered() {}

// IncUserLogin is a no-op.
func (n *NoopRecorder) IncUserLogin() {}

// IncTokenRefreshed is a no-op.
func (n *NoopRecorder) IncTokenRefreshed() {}

// IncUserUpdated is a no-op.
func (n *NoopRecorder) IncUserUpdated() {}

// IncUserDeleted is a no-op.
func (n *NoopRecorder) IncUserDeleted() {}

// IncProductCreated is a no-op.
func (n *NoopRecorder) IncProductCreated() {}

// IncProductUpdated is a no-op.
func (n *NoopRecorder) IncProductUpdated() {}

// IncProductDeleted is a no-op.
func (n *NoopRecorder) IncProductDeleted() {}

// IncAuthzDenied is a no-op.
func (n *NoopRecorder) IncAuthzDenied(rule string) {}
