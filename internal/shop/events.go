package shop

// Event is something that may have made the in-memory cart stale.
type Event interface{ isEvent() }

// PageShow fires when the storefront is shown again, such as on start or
// when the terminal program resumes after being suspended.
type PageShow struct{}

// StorageChanged fires when another process wrote to a shared store.
type StorageChanged struct {
	Key string
}

// VisibilityChanged fires when the storefront gains or loses focus.
type VisibilityChanged struct {
	Hidden bool
}

func (PageShow) isEvent()          {}
func (StorageChanged) isEvent()    {}
func (VisibilityChanged) isEvent() {}
