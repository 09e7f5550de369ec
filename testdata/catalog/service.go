// Package catalog declares parameters whose names and integer types the
// generated code has to live with.
package catalog

import "context"

// Level ranks an item.
type Level int8

// Item is a catalog entry.
type Item struct {
	Name  string `json:"name"`
	Level Level  `json:"level"`
}

// CatalogService serves the catalog.
// @service
type CatalogService struct{}

// Search finds items.
// @alias search
// @query query
// @optional level
func (s *CatalogService) Search(ctx context.Context, query string, level Level, out uint8, c bool) ([]Item, error) {
	return nil, nil
}

// Get returns one item.
// @alias items
func (s *CatalogService) Get(id uint16, Id int32) (*Item, error) {
	return &Item{}, nil
}

// Rename replaces an item.
// @alias items
// @method put
func (s *CatalogService) Rename(ctx context.Context, err int64, res Item) (Item, error) {
	return res, nil
}
