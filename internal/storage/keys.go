package storage

import (
	"fmt"

	"github.com/google/uuid"
)

// ReportKey returns a fresh object key for a report with the given extension.
func ReportKey(ext string) string {
	return fmt.Sprintf("reports/%s.%s", uuid.New(), ext)
}
