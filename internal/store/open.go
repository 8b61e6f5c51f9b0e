package store

import (
	"fmt"
	"strings"
)

// Open picks a backend from a location: postgres:// and postgresql:// URLs
// and "key=value" connection strings go to Postgres, anything else is a
// JSON file path.
func Open(location string) (Storage, error) {
	switch {
	case location == "":
		return nil, fmt.Errorf("empty store location")
	case strings.HasPrefix(location, "postgres://"), strings.HasPrefix(location, "postgresql://"),
		strings.Contains(location, "dbname="):
		return NewPostgresStore(location)
	default:
		return NewJSONStore(strings.TrimPrefix(location, "json:"))
	}
}
