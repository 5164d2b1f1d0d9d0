// Package sqlite contains the SQLite repository for tracking sessions and
// per-frame marker pose observations.
//
// All database read/write operations live here rather than in the domain
// packages, keeping the coordinator free of SQL noise. Persistence is
// optional: the coordinator only sees the ObservationSink interface and a
// missing store simply means nothing is recorded.
package sqlite
