package service

import (
	"errors"
	"strings"

	"github.com/ikkim/storefront-account/internal/app/model"
	"github.com/ikkim/storefront-account/internal/app/repository"
	"github.com/ikkim/storefront-account/pkg/logger"
	"github.com/ikkim/storefront-account/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrPasswordMismatch   = errors.New("passwords do not match")
)

type RegistrationInput struct {
	FirstName       string
	LastName        string
	Email           string
	Phone           string
	Password        string
	PasswordConfirm string
}

type RegistrationService interface {
	Register(input RegistrationInput) (*model.User, error)
}

type registrationService struct {
	userRepo repository.UserRepository
}

func NewRegistrationService(userRepo repository.UserRepository) RegistrationService {
	return &registrationService{
		userRepo: userRepo,
	}
}

func (s *registrationService) Register(input RegistrationInput) (*model.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	logger.Info("Attempting user registration", map[string]interface{}{
		"email": email,
	})

	profile, err := SanitizeProfile(ProfileInput{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Phone:     input.Phone,
	})
	if err != nil {
		return nil, err
	}

	if err := util.ValidatePasswordStrength(input.Password); err != nil {
		return nil, err
	}
	if input.Password != input.PasswordConfirm {
		return nil, ErrPasswordMismatch
	}

	existingUser, err := s.userRepo.FindByEmail(email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing user", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}
	if existingUser != nil {
		logger.Warn("Registration failed: email already exists", map[string]interface{}{
			"email": email,
		})
		return nil, ErrEmailAlreadyExists
	}

	hashedPassword, err := util.HashPassword(input.Password)
	if err != nil {
		logger.Error("Failed to hash password", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}

	user := &model.User{
		FirstName:    profile.FirstName,
		LastName:     profile.LastName,
		Email:        email,
		Phone:        profile.Phone,
		PasswordHash: hashedPassword,
	}
	if err := s.userRepo.Create(user); err != nil {
		logger.Error("Failed to create user in database", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}

	logger.Info("User registered successfully", map[string]interface{}{
		"user_id": user.ID,
		"email":   email,
	})
	return user, nil
}
