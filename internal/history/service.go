package history

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mugiwarahub/mugiwara/internal/database"
)

// CompletedThreshold is the watched percentage at which an episode counts as finished
const CompletedThreshold = 85.0

// Service is the local mirror of continue watching, with playback progress
type Service struct {
	db  *gorm.DB
	now func() time.Time
}

var errNoDB = errors.New("database connection is nil")

// SortOrder defines the sorting order for history items
type SortOrder string

const (
	SortRecentFirst  SortOrder = "recent_first"
	SortOldestFirst  SortOrder = "oldest_first"
	SortTitleAsc     SortOrder = "title_asc"
	SortTitleDesc    SortOrder = "title_desc"
	SortProgressAsc  SortOrder = "progress_asc"
	SortProgressDesc SortOrder = "progress_desc"
)

// FilterOptions defines filtering options for history queries
type FilterOptions struct {
	AnimeID      int    // 0 for all
	ProviderName string // Filter by provider
	SearchQuery  string // Search in title
	StartDate    time.Time
	EndDate      time.Time
	Completed    *bool
	Limit        int // 0 = no limit
	Offset       int
	SortBy       SortOrder
}

// Stats represents watch history statistics
type Stats struct {
	TotalItems     int64
	TotalWatchTime time.Duration
	AnimeCount     int64
	CompletedCount int64
}

// NewService creates a new history service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db, now: time.Now}
}

// AddOrUpdate records progress for an episode. An unfinished record for the
// same anime and episode is updated in place.
func (s *Service) AddOrUpdate(entry database.History) error {
	if s.db == nil {
		return errNoDB
	}
	if entry.AnimeID <= 0 {
		return fmt.Errorf("history entry needs an anime id")
	}

	if entry.TotalSeconds > 0 && entry.ProgressPercent == 0 {
		entry.ProgressPercent = float64(entry.ProgressSeconds) / float64(entry.TotalSeconds) * 100
	}
	if entry.ProgressPercent >= CompletedThreshold {
		entry.Completed = true
	}

	if !entry.Completed {
		var existing database.History
		err := s.db.Where("anime_id = ? AND episode = ? AND completed = ?", entry.AnimeID, entry.Episode, false).
			Order("watched_at DESC").
			First(&existing).Error

		if err == nil {
			existing.AnimeTitle = entry.AnimeTitle
			existing.Image = entry.Image
			existing.WatchID = entry.WatchID
			existing.ProgressSeconds = entry.ProgressSeconds
			existing.TotalSeconds = entry.TotalSeconds
			existing.ProgressPercent = entry.ProgressPercent
			existing.WatchedAt = s.now()
			if entry.ProviderName != "" {
				existing.ProviderName = entry.ProviderName
			}

			return s.db.Save(&existing).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to look up history: %w", err)
		}
	}

	if entry.Completed {
		if err := s.db.Where("anime_id = ? AND episode = ? AND completed = ?", entry.AnimeID, entry.Episode, false).
			Delete(&database.History{}).Error; err != nil {
			return fmt.Errorf("failed to drop unfinished history: %w", err)
		}
	}

	entry.ID = 0
	entry.WatchedAt = s.now()
	return s.db.Create(&entry).Error
}

var sortColumns = map[SortOrder][]string{
	SortOldestFirst:  {"watched_at ASC"},
	SortTitleAsc:     {"anime_title ASC"},
	SortTitleDesc:    {"anime_title DESC"},
	SortProgressAsc:  {"progress_percent ASC"},
	SortProgressDesc: {"progress_percent DESC"},
	SortRecentFirst:  {"watched_at DESC", "id DESC"},
}

// scopes turns the filter into gorm scopes; zero fields add nothing.
func (f FilterOptions) scopes() []func(*gorm.DB) *gorm.DB {
	where := func(cond string, arg any) func(*gorm.DB) *gorm.DB {
		return func(db *gorm.DB) *gorm.DB { return db.Where(cond, arg) }
	}

	var out []func(*gorm.DB) *gorm.DB
	if f.AnimeID > 0 {
		out = append(out, where("anime_id = ?", f.AnimeID))
	}
	if f.ProviderName != "" {
		out = append(out, where("provider_name = ?", f.ProviderName))
	}
	if f.SearchQuery != "" {
		out = append(out, where("anime_title LIKE ?", "%"+f.SearchQuery+"%"))
	}
	if !f.StartDate.IsZero() {
		out = append(out, where("watched_at >= ?", f.StartDate))
	}
	if !f.EndDate.IsZero() {
		out = append(out, where("watched_at <= ?", f.EndDate))
	}
	if f.Completed != nil {
		out = append(out, where("completed = ?", *f.Completed))
	}

	order, ok := sortColumns[f.SortBy]
	if !ok {
		order = sortColumns[SortRecentFirst]
	}
	out = append(out, func(db *gorm.DB) *gorm.DB {
		for _, col := range order {
			db = db.Order(col)
		}
		if f.Limit > 0 {
			db = db.Limit(f.Limit)
		}
		if f.Offset > 0 {
			db = db.Offset(f.Offset)
		}
		return db
	})
	return out
}

// GetHistory lists entries matching filter, newest first unless SortBy says otherwise.
func (s *Service) GetHistory(filter FilterOptions) ([]database.History, error) {
	if s.db == nil {
		return nil, errNoDB
	}

	var records []database.History
	if err := s.db.Scopes(filter.scopes()...).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch history: %w", err)
	}
	return records, nil
}

// Recent returns the latest unfinished entry of each anime, newest first.
// This is the offline continue-watching list.
func (s *Service) Recent(n int) ([]database.History, error) {
	notDone := false
	records, err := s.GetHistory(FilterOptions{Completed: &notDone})
	if err != nil {
		return nil, err
	}

	seen := make(map[int]bool)
	var recent []database.History
	for _, r := range records {
		if seen[r.AnimeID] {
			continue
		}
		seen[r.AnimeID] = true
		recent = append(recent, r)
		if n > 0 && len(recent) == n {
			break
		}
	}
	return recent, nil
}

// Latest returns the newest entry for an anime, nil when there is none
func (s *Service) Latest(animeID int) (*database.History, error) {
	records, err := s.GetHistory(FilterOptions{AnimeID: animeID, Limit: 1})
	if err != nil || len(records) == 0 {
		return nil, err
	}
	return &records[0], nil
}

func (s *Service) forAnime(animeID int) (*gorm.DB, error) {
	if s.db == nil {
		return nil, errNoDB
	}
	return s.db.Model(&database.History{}).Where("anime_id = ?", animeID), nil
}

// DeleteByMediaID removes all history items for an anime
func (s *Service) DeleteByMediaID(animeID int) error {
	q, err := s.forAnime(animeID)
	if err != nil {
		return err
	}
	return q.Delete(&database.History{}).Error
}

// MarkCompleted flags every entry of an anime as completed so it leaves
// the continue-watching list.
func (s *Service) MarkCompleted(animeID int) error {
	q, err := s.forAnime(animeID)
	if err != nil {
		return err
	}
	return q.Update("completed", true).Error
}

func (s *Service) GetStats() (*Stats, error) {
	if s.db == nil {
		return nil, errNoDB
	}

	var row struct {
		Total     int64
		Seconds   int64
		Anime     int64
		Completed int64
	}
	err := s.db.Model(&database.History{}).Select(
		"COUNT(*) AS total, " +
			"COALESCE(SUM(progress_seconds), 0) AS seconds, " +
			"COUNT(DISTINCT anime_id) AS anime, " +
			"COALESCE(SUM(CASE WHEN completed THEN 1 ELSE 0 END), 0) AS completed",
	).Scan(&row).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute history stats: %w", err)
	}

	return &Stats{
		TotalItems:     row.Total,
		TotalWatchTime: time.Duration(row.Seconds) * time.Second,
		AnimeCount:     row.Anime,
		CompletedCount: row.Completed,
	}, nil
}

// Cleanup removes unfinished records older than maxAge, 30 days when unset.
func (s *Service) Cleanup(maxAge time.Duration) (int64, error) {
	if s.db == nil {
		return 0, errNoDB
	}
	if maxAge <= 0 {
		maxAge = 30 * 24 * time.Hour
	}

	res := s.db.Where("completed = ? AND watched_at < ?", false, s.now().Add(-maxAge)).Delete(&database.History{})
	return res.RowsAffected, res.Error
}
