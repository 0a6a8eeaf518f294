package service

import (
	"errors"
	"time"

	"habit_tracker_backend/internal/engine"
	"habit_tracker_backend/internal/model"
	"habit_tracker_backend/internal/repository"
	"habit_tracker_backend/internal/util"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	UserRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{UserRepo: userRepo}
}

func (s *UserService) GetUserByID(id uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	return user, err
}

// UpdateProfile changes the user's display name and preferred timezone. The
// timezone is validated the same way the engine validates request zones, so
// a bad preference can never park a user on a broken default.
func (s *UserService) UpdateProfile(userID uint, name, timezone string) (*model.User, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	if timezone != "" {
		if _, _, err := engine.LocalDay(time.Now(), timezone); err != nil {
			return nil, err
		}
		user.Timezone = timezone
	}
	if name != "" {
		user.Name = name
	}
	user.UpdatedAt = time.Now()

	return user, s.UserRepo.Update(user)
}

func (s *UserService) UpdatePassword(userID uint, current, next string) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(current)); err != nil {
		return errors.New("invalid credentials")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashed)
	user.UpdatedAt = time.Now()

	return s.UserRepo.Update(user)
}

func (s *UserService) UpdateAvatar(userID uint, url string) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}
	user.Avatar = url
	user.UpdatedAt = time.Now()
	return s.UserRepo.Update(user)
}
