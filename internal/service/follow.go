package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodshare/backend/internal/model"
)

// FollowService manages subscriptions between users.
type FollowService struct {
	db *gorm.DB
}

func NewFollowService(db *gorm.DB) *FollowService {
	return &FollowService{db: db}
}

// Subscribe creates a follow edge from follower to followee.
func (s *FollowService) Subscribe(ctx context.Context, followerID, followeeID uuid.UUID) (*model.User, error) {
	if followerID == followeeID {
		return nil, ErrSelfFollow
	}

	var followee model.User
	if err := s.db.WithContext(ctx).First(&followee, "id = ?", followeeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	follow := model.Follow{FollowerID: followerID, FolloweeID: followeeID}
	if err := s.db.WithContext(ctx).Create(&follow).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyFollows
		}
		return nil, err
	}
	return &followee, nil
}

func (s *FollowService) Unsubscribe(ctx context.Context, followerID, followeeID uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&model.Follow{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Subscriptions returns the authors the user follows, ordered by when the
// subscription was created, plus the unpaginated total.
func (s *FollowService) Subscriptions(ctx context.Context, followerID uuid.UUID, offset, limit int) ([]model.User, int64, error) {
	base := s.db.WithContext(ctx).Model(&model.User{}).
		Joins("JOIN follows ON follows.followee_id = users.id").
		Where("follows.follower_id = ?", followerID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []model.User
	if err := base.
		Order("follows.created_at DESC").
		Offset(offset).Limit(limit).
		Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// IsSubscribed reports whether follower follows followee.
func (s *FollowService) IsSubscribed(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&count).Error
	return count > 0, err
}
