package ports

import "github.com/vesselbridge/sdk/domain/entities"

// ClassConfigParser parses a raw class configuration document.
type ClassConfigParser interface {
	Parse(data []byte) (entities.ClassConfig, error)
}
