package domain

// ContextValue is a single introspected field. Available distinguishes a real
// empty value (a clean status, for instance) from a value that could not be read.
type ContextValue struct {
	Value     string
	Available bool
}

// Known wraps a successfully introspected value.
func Known(value string) ContextValue {
	return ContextValue{Value: value, Available: true}
}

// Unavailable is the typed absence of a value.
func Unavailable() ContextValue {
	return ContextValue{}
}

// String returns the value, or "unavailable" when it was never read.
func (v ContextValue) String() string {
	if !v.Available {
		return "unavailable"
	}
	return v.Value
}

// RepoContext is the branch/status/remote snapshot of the working tree that is
// sent along with the user's message. It is built once per run and compared by
// value.
type RepoContext struct {
	Branch    ContextValue
	Status    ContextValue
	RemoteURL ContextValue
}
