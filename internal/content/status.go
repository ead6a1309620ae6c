package content

import (
	"context"
)

// Features is the feature list reported by the status endpoint.
var Features = []string{
	"Enhanced Window Management System",
	"Arizona to Peak District Content",
	"UK Remote Work Opportunities",
	"Content Management System",
	"Relocation Data",
	"Virtual Pet Ecosystem",
}

// DatabaseStatus is the database readout.
type DatabaseStatus struct {
	Status          string         `json:"status"`
	Error           string         `json:"error,omitempty"`
	DatabaseType    string         `json:"database_type"`
	Database        string         `json:"database,omitempty"`
	Tables          map[string]int `json:"tables,omitempty"`
	TotalRecords    int            `json:"total_records"`
	MigrationStatus string         `json:"migration_status"`
	RelocationFocus string         `json:"relocation_focus,omitempty"`
	Features        []string       `json:"features,omitempty"`
}

// Connected reports whether the readout is healthy.
func (d DatabaseStatus) Connected() bool {
	return d.Status == "connected"
}

// Status counts every content table. Failures are reported in the result
// rather than returned, so the readout always renders.
func (s *Store) Status(ctx context.Context) DatabaseStatus {
	tables := make(map[string]int, len(Tables))
	total := 0
	for _, table := range Tables {
		n, err := s.Count(ctx, table)
		if err != nil {
			s.log.WithError(err).WithField("table", table).Warn("status count failed")
			return DatabaseStatus{
				Status:          "error",
				Error:           err.Error(),
				DatabaseType:    DatabaseType,
				MigrationStatus: "failed",
			}
		}
		tables[table] = n
		total += n
	}
	return DatabaseStatus{
		Status:          "connected",
		DatabaseType:    DatabaseType,
		Database:        s.path,
		Tables:          tables,
		TotalRecords:    total,
		MigrationStatus: "completed",
		RelocationFocus: "Arizona to Peak District",
		Features:        append([]string(nil), Features...),
	}
}
