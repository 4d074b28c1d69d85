package vessel

import "context"

// RosterRecorder records matches into a locally loaded roster, buffering
// link updates in memory until Flush writes the file.
type RosterRecorder struct {
	roster  *Roster
	outPath string
}

// NewRosterRecorder creates a recorder writing to outPath on Flush. An empty
// outPath overwrites the roster's source file.
func NewRosterRecorder(roster *Roster, outPath string) *RosterRecorder {
	return &RosterRecorder{roster: roster, outPath: outPath}
}

// RecordMatch buffers a report link against the vessel's roster row.
func (r *RosterRecorder) RecordMatch(ctx context.Context, v Vessel, link string) error {
	r.roster.AddLink(v.Row, link)
	return nil
}

// Flush writes the updated roster to disk.
func (r *RosterRecorder) Flush(ctx context.Context) error {
	return r.roster.Save(r.outPath)
}
