package docs

// Generated must never be loaded.
type Generated struct{}
