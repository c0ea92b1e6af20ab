package onboarding

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrDraftNotFound = errors.New("wizard draft not found")

// Draft persists one user's wizard between requests.
type Draft struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	UserID    int64     `json:"user_id" gorm:"uniqueIndex;not null"`
	Wizard    Wizard    `json:"wizard" gorm:"serializer:json;type:text;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"index"`
}

func (Draft) TableName() string {
	return "wizard_drafts"
}

// DraftStore provides DB access for wizard drafts.
type DraftStore struct {
	db *gorm.DB
}

func NewDraftStore(db *gorm.DB) *DraftStore {
	return &DraftStore{db: db}
}

func (s *DraftStore) AutoMigrate() error {
	return s.db.AutoMigrate(&Draft{})
}

func (s *DraftStore) Load(ctx context.Context, userID int64) (*Wizard, error) {
	var d Draft
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d.Wizard, nil
}

func (s *DraftStore) Save(ctx context.Context, userID int64, w *Wizard) error {
	d := Draft{UserID: userID, Wizard: *w}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"wizard", "updated_at"}),
	}).Create(&d).Error
}

func (s *DraftStore) Delete(ctx context.Context, userID int64) error {
	return s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&Draft{}).Error
}

// DeleteOlderThan removes drafts not touched since cutoff.
func (s *DraftStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Where("updated_at < ?", cutoff).Delete(&Draft{})
	return res.RowsAffected, res.Error
}
