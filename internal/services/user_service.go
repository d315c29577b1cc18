package services

import (
	"context"
	"errors"

	"github.com/justsurfingit/jobtrack/internal/dtos"
	"github.com/justsurfingit/jobtrack/internal/logger"
	"github.com/justsurfingit/jobtrack/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService owns the users table. The address stored here is where reminders go.
type UserService struct {
	DB       *gorm.DB
	HashCost int
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db, HashCost: bcrypt.DefaultCost}
}

// Register creates an account for a new email address. An address that is already
// registered, in any letter case, is ErrConflict.
func (s *UserService) Register(ctx context.Context, req *dtos.RegisterRequest) (*models.User, error) {
	email := req.NormalizedEmail()

	var existing int64
	if err := s.DB.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&existing).Error; err != nil {
		return nil, dataAccess("find user", err)
	}
	if existing > 0 {
		return nil, ErrConflict
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.HashCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{Email: email, PasswordHash: string(hash)}
	if err := s.DB.WithContext(ctx).Create(user).Error; err != nil {
		// Lost a race with a concurrent registration.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrConflict
		}
		return nil, dataAccess("create user", err)
	}

	logger.Log.WithField("user_id", user.ID).Info("User registered")
	return user, nil
}
