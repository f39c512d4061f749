package service

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/ikkim/storefront-account/internal/app/model"
	"github.com/ikkim/storefront-account/internal/app/repository"
	"github.com/ikkim/storefront-account/pkg/logger"
	"gorm.io/gorm"
)

const (
	maxNameLength  = 100
	maxPhoneLength = 30
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrAddressNotFound = errors.New("address not found")
)

// ValidationError is a rejected form field. Message is safe to show.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type ProfileInput struct {
	FirstName string
	LastName  string
	Phone     string
}

// ProfilePage is the read side of the profile page.
type ProfilePage struct {
	User         *model.User
	Addresses    []model.Address
	RecentOrders []model.OrderSummary
}

type ProfileService interface {
	GetProfile(userID uint) (*ProfilePage, error)
	UpdateProfile(userID uint, input ProfileInput) (ProfileInput, error)
	SetDefaultAddress(userID, addressID uint) error
}

type profileService struct {
	userRepo     repository.UserRepository
	addressRepo  repository.AddressRepository
	orderService OrderService
}

func NewProfileService(
	userRepo repository.UserRepository,
	addressRepo repository.AddressRepository,
	orderService OrderService,
) ProfileService {
	return &profileService{
		userRepo:     userRepo,
		addressRepo:  addressRepo,
		orderService: orderService,
	}
}

func (s *profileService) GetProfile(userID uint) (*ProfilePage, error) {
	logger.Info("Fetching profile", map[string]interface{}{
		"user_id": userID,
	})

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		logger.Error("Failed to fetch user for profile", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	addresses, err := s.addressRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}

	recent, err := s.orderService.GetRecentOrders(userID, RecentOrderLimit)
	if err != nil {
		return nil, err
	}

	return &ProfilePage{
		User:         user,
		Addresses:    addresses,
		RecentOrders: recent,
	}, nil
}

// SanitizeProfile cleans and validates submitted profile fields.
func SanitizeProfile(input ProfileInput) (ProfileInput, error) {
	clean := ProfileInput{
		FirstName: SanitizeText(input.FirstName),
		LastName:  SanitizeText(input.LastName),
		Phone:     SanitizeText(input.Phone),
	}

	switch {
	case clean.FirstName == "":
		return clean, &ValidationError{Field: "first_name", Message: "First name is required."}
	case clean.LastName == "":
		return clean, &ValidationError{Field: "last_name", Message: "Last name is required."}
	case utf8.RuneCountInString(clean.FirstName) > maxNameLength:
		return clean, &ValidationError{Field: "first_name", Message: "First name must be 100 characters or fewer."}
	case utf8.RuneCountInString(clean.LastName) > maxNameLength:
		return clean, &ValidationError{Field: "last_name", Message: "Last name must be 100 characters or fewer."}
	case utf8.RuneCountInString(clean.Phone) > maxPhoneLength:
		return clean, &ValidationError{Field: "phone", Message: "Phone number must be 30 characters or fewer."}
	case !ValidPhone(clean.Phone):
		return clean, &ValidationError{Field: "phone", Message: "Phone number may only contain digits, spaces and + - ( )."}
	}
	return clean, nil
}

func (s *profileService) UpdateProfile(userID uint, input ProfileInput) (ProfileInput, error) {
	clean, err := SanitizeProfile(input)
	if err != nil {
		logger.Warn("Profile update rejected", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		return clean, err
	}

	if err := s.userRepo.UpdateProfile(userID, clean.FirstName, clean.LastName, clean.Phone); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return clean, ErrUserNotFound
		}
		logger.Error("Failed to update profile", err, map[string]interface{}{
			"user_id": userID,
		})
		return clean, err
	}

	logger.Info("Profile updated", map[string]interface{}{
		"user_id": userID,
	})
	return clean, nil
}

func (s *profileService) SetDefaultAddress(userID, addressID uint) error {
	if addressID == 0 {
		return ErrAddressNotFound
	}

	if err := s.addressRepo.SetDefault(userID, addressID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Default address target not owned by user", map[string]interface{}{
				"user_id":    userID,
				"address_id": addressID,
			})
			return ErrAddressNotFound
		}
		logger.Error("Failed to set default address", err, map[string]interface{}{
			"user_id":    userID,
			"address_id": addressID,
		})
		return err
	}

	logger.Info("Default address changed", map[string]interface{}{
		"user_id":    userID,
		"address_id": addressID,
	})
	return nil
}
