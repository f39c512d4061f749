package controller

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront-account/internal/app/service"
	"github.com/ikkim/storefront-account/internal/app/view"
	apperrors "github.com/ikkim/storefront-account/internal/errors"
	"github.com/ikkim/storefront-account/internal/middleware"
	"github.com/ikkim/storefront-account/internal/session"
)

type ProfileController struct {
	profileService service.ProfileService
}

func NewProfileController(profileService service.ProfileService) *ProfileController {
	return &ProfileController{
		profileService: profileService,
	}
}

type UpdateProfileRequest struct {
	FirstName string `form:"first_name"`
	LastName  string `form:"last_name"`
	Phone     string `form:"phone"`
}

// Show renders account details, addresses and recent orders
// GET /account/profile
func (ctrl *ProfileController) Show(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	page, err := ctrl.profileService.GetProfile(userID)
	if err != nil {
		fields := map[string]interface{}{"user_id": userID}
		if errors.Is(err, service.ErrUserNotFound) {
			// Session outlived the account.
			log.Warn("Profile requested for missing user", fields)
			session.From(c).ClearIdentity()
			apperrors.Respond(c, apperrors.Missing(apperrors.ResourceNotFound, "Your account could not be found. Please sign in again."), "/", fields)
			return
		}
		apperrors.Respond(c, apperrors.Failed(err, "profile"), "/", fields)
		return
	}

	view.OK(c, "profile.html", view.Page{
		Title:   "My account",
		Nav:     "profile",
		Content: view.ProfileContent{Profile: page},
	})
}

// Update dispatches profile form actions
// POST /account/profile
func (ctrl *ProfileController) Update(c *gin.Context) {
	action := formAction(c, "update_profile", "set_default_address")
	switch action {
	case "update_profile":
		ctrl.updateProfile(c)
	case "set_default_address":
		ctrl.setDefaultAddress(c)
	default:
		apperrors.Respond(c, apperrors.OK(""), ProfilePath, map[string]interface{}{
			"action": action,
		})
	}
}

func (ctrl *ProfileController) updateProfile(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	fields := map[string]interface{}{
		"user_id": userID,
		"action":  "update_profile",
	}

	var req UpdateProfileRequest
	if err := c.ShouldBind(&req); err != nil {
		apperrors.Respond(c, apperrors.Invalid(apperrors.ValidationInvalidInput, "Please check the form and try again."), ProfilePath, fields)
		return
	}

	clean, err := ctrl.profileService.UpdateProfile(userID, service.ProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		var ve *service.ValidationError
		switch {
		case errors.As(err, &ve):
			fields["field"] = ve.Field
			apperrors.Respond(c, apperrors.Invalid(apperrors.ValidationInvalidInput, ve.Message), ProfilePath, fields)
		case errors.Is(err, service.ErrUserNotFound):
			apperrors.Respond(c, apperrors.Missing(apperrors.ResourceNotFound, "Your account could not be found."), ProfilePath, fields)
		default:
			apperrors.Respond(c, apperrors.Failed(err, "update profile"), ProfilePath, fields)
		}
		return
	}

	session.From(c).UpdateName(clean.FirstName, clean.LastName)
	apperrors.Respond(c, apperrors.OK("Your profile has been updated."), ProfilePath, fields)
}

func (ctrl *ProfileController) setDefaultAddress(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	fields := map[string]interface{}{
		"user_id":    userID,
		"action":     "set_default_address",
		"address_id": c.PostForm("address_id"),
	}

	addressID, ok := parseID(c.PostForm("address_id"))
	if !ok {
		apperrors.Respond(c, apperrors.Missing(apperrors.AddressNotFound, "We couldn't find that address."), ProfilePath, fields)
		return
	}

	if err := ctrl.profileService.SetDefaultAddress(userID, addressID); err != nil {
		if errors.Is(err, service.ErrAddressNotFound) {
			apperrors.Respond(c, apperrors.Missing(apperrors.AddressNotFound, "We couldn't find that address."), ProfilePath, fields)
			return
		}
		apperrors.Respond(c, apperrors.Failed(err, "update address"), ProfilePath, fields)
		return
	}

	apperrors.Respond(c, apperrors.OK("Default address updated."), ProfilePath, fields)
}
