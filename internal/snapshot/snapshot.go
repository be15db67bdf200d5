package snapshot

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"spot-rental-api/internal/database"
	"spot-rental-api/internal/models"
)

// Service records daily snapshots of each spot's derived stats so rating
// and price history survives review churn.
type Service struct {
	db  *database.DB
	log zerolog.Logger
}

// NewService creates a new snapshot service
func NewService(db *database.DB, log zerolog.Logger) *Service {
	return &Service{db: db, log: log}
}

// SnapshotAll writes today's snapshot for every spot. Snapshots are keyed by
// (spot, day): re-running within the same day updates in place.
func (s *Service) SnapshotAll() (int, error) {
	spots, err := s.db.ListSpots()
	if err != nil {
		return 0, fmt.Errorf("failed to list spots for snapshot: %w", err)
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	written := 0
	for i := range spots {
		snap := models.SpotStatsSnapshot{
			SpotID:     spots[i].ID,
			SnapshotAt: today,
			AvgRating:  spots[i].AvgRating,
			NumReviews: s.countReviews(spots[i].ID),
			Price:      spots[i].Price,
		}
		if err := s.upsert(&snap); err != nil {
			s.log.Error().Err(err).Uint("spot_id", spots[i].ID).Msg("snapshot write failed")
			continue
		}
		written++
	}

	s.log.Info().Int("written", written).Int("spots", len(spots)).Msg("stats snapshot completed")
	return written, nil
}

func (s *Service) countReviews(spotID uint) int64 {
	var count int64
	s.db.Gorm().Model(&models.Review{}).Where("spot_id = ?", spotID).Count(&count)
	return count
}

func (s *Service) upsert(snap *models.SpotStatsSnapshot) error {
	var existing models.SpotStatsSnapshot
	result := s.db.Gorm().
		Where("spot_id = ? AND snapshot_at = ?", snap.SpotID, snap.SnapshotAt).
		First(&existing)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return s.db.Gorm().Create(snap).Error
	} else if result.Error != nil {
		return result.Error
	}

	snap.ID = existing.ID
	return s.db.Gorm().Save(snap).Error
}

// GetSpotHistory returns the most recent snapshots for a spot, newest first.
func (s *Service) GetSpotHistory(spotID uint, limit int) ([]models.SpotStatsSnapshot, error) {
	if limit <= 0 {
		limit = 30
	}
	var snapshots []models.SpotStatsSnapshot
	err := s.db.Gorm().
		Where("spot_id = ?", spotID).
		Order("snapshot_at DESC").
		Limit(limit).
		Find(&snapshots).Error
	return snapshots, err
}
