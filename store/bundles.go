package store

import (
	"errors"
	"time"

	"drillpay/bundling"
	"drillpay/models"

	"gorm.io/gorm"
)

// Bundles lists the user's bundles, most recently filed first. status narrows
// the list when non-empty.
func (s *Store) Bundles(userID uint, status models.BundleStatus) ([]models.Bundle, error) {
	query := s.db.Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var rows []models.Bundle
	err := query.Order("filed_date desc, created_at desc").Find(&rows).Error
	return rows, err
}

func (s *Store) BundleByID(userID uint, id string) (*models.Bundle, error) {
	var bundle models.Bundle
	err := s.db.Preload("Entries").Where("user_id = ?", userID).First(&bundle, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &bundle, nil
}

// SubmitBundle allocates 3.0 hours of the user's oldest unbundled entries
// into a new bundle filed on filedDate. When the unbundled total falls short
// of the quota it returns (nil, nil): a deliberate no-op, not an error.
// The allocation runs in one transaction, so a failure leaves no partial
// bundle behind.
func (s *Store) SubmitBundle(userID uint, filedDate time.Time) (*models.Bundle, error) {
	var bundle *models.Bundle
	err := s.db.Transaction(func(tx *gorm.DB) error {
		rows, err := unbundled(tx, userID)
		if err != nil {
			return err
		}
		plan, ok := bundling.PlanBundle(snapshot(rows))
		if !ok {
			return nil
		}

		// The bundle row must exist before entries reference it.
		b := models.Bundle{
			UserID:    userID,
			FiledDate: filedDate,
			Status:    models.StatusSubmitted,
			Notes:     plan.Notes,
		}
		if err := tx.Create(&b).Error; err != nil {
			return err
		}

		if len(plan.AssignIDs) > 0 {
			if err := tx.Model(&models.LogEntry{}).
				Where("id IN ?", plan.AssignIDs).
				Update("bundle_id", b.ID).Error; err != nil {
				return err
			}
		}

		if sp := plan.Split; sp != nil {
			var source *models.LogEntry
			for i := range rows {
				if rows[i].ID == sp.EntryID {
					source = &rows[i]
					break
				}
			}
			if source == nil {
				return errors.New("split entry missing from snapshot")
			}
			if err := tx.Model(&models.LogEntry{}).
				Where("id = ?", sp.EntryID).
				Updates(map[string]interface{}{
					"hours":     sp.Keep,
					"bundle_id": b.ID,
				}).Error; err != nil {
				return err
			}
			leftover := models.LogEntry{
				UserID: userID,
				Hours:  sp.Leftover,
				Start:  source.Start,
				End:    source.End,
				Note:   source.Note,
			}
			if err := tx.Create(&leftover).Error; err != nil {
				return err
			}
		}

		bundle = &b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return bundle, nil
}

// DeleteBundle removes the user's bundle, reverts its entries to unbundled
// and merges back fragments that were split from one original entry. The
// whole reversal runs in one transaction.
func (s *Store) DeleteBundle(userID uint, id string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var bundle models.Bundle
		err := tx.Where("user_id = ?", userID).First(&bundle, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		// Entries revert to unbundled, never cascade-deleted.
		if err := tx.Model(&models.LogEntry{}).
			Where("bundle_id = ?", bundle.ID).
			Update("bundle_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Delete(&bundle).Error; err != nil {
			return err
		}

		rows, err := unbundled(tx, userID)
		if err != nil {
			return err
		}
		for _, m := range bundling.PlanMerges(snapshot(rows)) {
			if err := tx.Model(&models.LogEntry{}).
				Where("id = ?", m.KeepID).
				Update("hours", m.Hours).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", m.DropIDs).
				Delete(&models.LogEntry{}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// SetBundleStatus flips a bundle between submitted and paid.
func (s *Store) SetBundleStatus(userID uint, id string, status models.BundleStatus) (*models.Bundle, error) {
	var bundle models.Bundle
	err := s.db.Where("user_id = ?", userID).First(&bundle, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	bundle.Status = status
	if err := s.db.Save(&bundle).Error; err != nil {
		return nil, err
	}
	return &bundle, nil
}

// StatusCounts groups the user's bundles by status for the summary view.
func (s *Store) StatusCounts(userID uint) (map[models.BundleStatus]int64, error) {
	var rows []struct {
		Status models.BundleStatus
		N      int64
	}
	err := s.db.Model(&models.Bundle{}).
		Select("status, count(*) as n").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := map[models.BundleStatus]int64{
		models.StatusSubmitted: 0,
		models.StatusPaid:      0,
	}
	for _, r := range rows {
		counts[r.Status] = r.N
	}
	return counts, nil
}
