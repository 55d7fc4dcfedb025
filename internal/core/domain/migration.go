package domain

// MigrationReport summarises one mirror-migration sweep. Repeated sweeps
// converge: once the mirror holds every account, Migrated stays at zero.
type MigrationReport struct {
	Migrated int `json:"migrated"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
}

// Total returns the number of accounts examined.
func (r MigrationReport) Total() int {
	return r.Migrated + r.Skipped + r.Failed
}
