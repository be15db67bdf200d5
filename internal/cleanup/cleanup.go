package cleanup

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"spot-rental-api/internal/database"
	"spot-rental-api/internal/models"
)

// Service prunes old spot delete-log rows once they fall out of the audit
// retention window.
type Service struct {
	db  *database.DB
	log zerolog.Logger
}

// NewService creates a new cleanup service
func NewService(db *database.DB, log zerolog.Logger) *Service {
	return &Service{db: db, log: log}
}

// PruneDeleteLogs removes delete-log entries older than retentionDays and
// returns how many rows were removed.
func (s *Service) PruneDeleteLogs(retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		retentionDays = 90
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	result := s.db.Gorm().
		Where("deleted_at < ?", cutoff).
		Delete(&models.SpotDeleteLog{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to prune delete logs: %w", result.Error)
	}

	if result.RowsAffected > 0 {
		s.log.Info().
			Int64("pruned", result.RowsAffected).
			Str("cutoff", cutoff.Format("2006-01-02")).
			Msg("pruned old delete logs")
	}
	return result.RowsAffected, nil
}

// GetRecentDeleteLogs returns recent delete log entries, newest first.
func (s *Service) GetRecentDeleteLogs(limit int) ([]models.SpotDeleteLog, error) {
	if limit <= 0 {
		limit = 100
	}
	var logs []models.SpotDeleteLog
	err := s.db.Gorm().
		Order("deleted_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}
