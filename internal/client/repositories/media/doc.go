// Package media keeps a local history of images protected from this machine.
//
// The backend is the source of truth for registered media IDs. This table
// only remembers what was produced here, so the history command can show
// labels and file names without a round trip.
//
// Typical Usage
//
//	repo := media.NewSQLiteRepository(db)
//	_ = repo.Insert(ctx, rec)
//	recent, _ := repo.ListByOwner(ctx, ownerSHA, 10)
package media
