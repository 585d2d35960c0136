// Package store mediates all access to the relational store. Every query
// filters by the owning user, so an id belonging to someone else resolves the
// same as a missing one. The bundle submit and delete paths apply plans from
// the bundling package inside a single transaction; everything else is plain
// guarded CRUD.
package store

import (
	"errors"
	"time"

	"drillpay/bundling"
	"drillpay/models"

	"gorm.io/gorm"
)

var (
	// ErrNotFound means the id does not resolve for the acting user.
	ErrNotFound = errors.New("not found")
	// ErrLocked means the log entry belongs to a bundle and cannot be
	// edited or deleted directly.
	ErrLocked = errors.New("log entry is locked by a bundle")
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// unbundledOrder makes the allocation walk deterministic: oldest start first,
// insertion order (created_at, then id) breaking ties.
const unbundledOrder = "start asc, created_at asc, id asc"

func snapshot(rows []models.LogEntry) []bundling.Entry {
	entries := make([]bundling.Entry, len(rows))
	for i, r := range rows {
		entries[i] = bundling.Entry{
			ID:    r.ID,
			Hours: r.Hours,
			Start: r.Start,
			End:   r.End,
			Note:  r.Note,
		}
	}
	return entries
}

func unbundled(tx *gorm.DB, userID uint) ([]models.LogEntry, error) {
	var rows []models.LogEntry
	err := tx.Where("user_id = ? AND bundle_id IS NULL", userID).
		Order(unbundledOrder).
		Find(&rows).Error
	return rows, err
}

// Entries lists the user's log entries, newest first. bundled narrows the
// list to locked (true) or unbundled (false) entries when non-nil.
func (s *Store) Entries(userID uint, bundled *bool) ([]models.LogEntry, error) {
	query := s.db.Where("user_id = ?", userID)
	if bundled != nil {
		if *bundled {
			query = query.Where("bundle_id IS NOT NULL")
		} else {
			query = query.Where("bundle_id IS NULL")
		}
	}
	var rows []models.LogEntry
	err := query.Order("start desc, created_at desc").Find(&rows).Error
	return rows, err
}

func (s *Store) EntryByID(userID uint, id string) (*models.LogEntry, error) {
	var entry models.LogEntry
	err := s.db.Where("user_id = ?", userID).First(&entry, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *Store) CreateEntry(entry *models.LogEntry) error {
	return s.db.Create(entry).Error
}

// UpdateEntry rewrites an unbundled entry's fields. Locked entries are
// immutable and return ErrLocked untouched.
func (s *Store) UpdateEntry(userID uint, id string, hours float64, start, end time.Time, note string) (*models.LogEntry, error) {
	entry, err := s.EntryByID(userID, id)
	if err != nil {
		return nil, err
	}
	if entry.Bundled() {
		return nil, ErrLocked
	}

	entry.Hours = hours
	entry.Start = start
	entry.End = end
	entry.Note = note
	if err := s.db.Save(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

// DeleteEntry removes an unbundled entry. Locked entries return ErrLocked.
func (s *Store) DeleteEntry(userID uint, id string) error {
	entry, err := s.EntryByID(userID, id)
	if err != nil {
		return err
	}
	if entry.Bundled() {
		return ErrLocked
	}
	return s.db.Delete(entry).Error
}

// Balance reports the user's unbundled-hour total and how many full bundles
// it covers, from a read-only snapshot.
func (s *Store) Balance(userID uint) (hours float64, bundles int, err error) {
	rows, err := unbundled(s.db, userID)
	if err != nil {
		return 0, 0, err
	}
	hours, bundles = bundling.Balance(snapshot(rows))
	return hours, bundles, nil
}
