// Code generated by hand for the loader tests. DO NOT EDIT.

package users

// GeneratedOnly must never be loaded.
type GeneratedOnly struct{}
