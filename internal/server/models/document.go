package models

import "time"

// Document is one JSON object addressed by collection and id.
type Document struct {
	Collection string
	ID         string
	Fields     map[string]any
	UpdatedAt  time.Time
}
