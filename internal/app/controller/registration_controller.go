package controller

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront-account/internal/app/service"
	"github.com/ikkim/storefront-account/internal/app/view"
	apperrors "github.com/ikkim/storefront-account/internal/errors"
	"github.com/ikkim/storefront-account/pkg/util"
)

type RegistrationController struct {
	registrationService service.RegistrationService
	loginPath           string
}

func NewRegistrationController(registrationService service.RegistrationService, loginPath string) *RegistrationController {
	return &RegistrationController{
		registrationService: registrationService,
		loginPath:           loginPath,
	}
}

type RegisterRequest struct {
	FirstName       string `form:"first_name" binding:"required,max=100"`
	LastName        string `form:"last_name" binding:"required,max=100"`
	Email           string `form:"email" binding:"required,email,max=255"`
	Phone           string `form:"phone" binding:"max=30"`
	Password        string `form:"password" binding:"required"`
	PasswordConfirm string `form:"password_confirm" binding:"required"`
}

// Show renders the sign-up form
// GET /register
func (ctrl *RegistrationController) Show(c *gin.Context) {
	view.OK(c, "register.html", view.Page{
		Title: "Create an account",
		Nav:   "register",
		Content: view.RegisterContent{
			LoginPath:         ctrl.loginPath,
			MinPasswordLength: util.MinPasswordLength,
		},
	})
}

// Register creates an account and sends the visitor to sign in
// POST /register
func (ctrl *RegistrationController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		apperrors.Respond(c,
			apperrors.Invalid(apperrors.ValidationInvalidInput, "Please fill in every required field with a valid value."),
			RegisterPath,
			map[string]interface{}{"error": err.Error()},
		)
		return
	}

	fields := map[string]interface{}{"email": req.Email}

	user, err := ctrl.registrationService.Register(service.RegistrationInput{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Phone:           req.Phone,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
	})
	if err != nil {
		apperrors.Respond(c, registrationOutcome(err), RegisterPath, fields)
		return
	}

	fields["user_id"] = user.ID
	apperrors.Respond(c, apperrors.OK("Your account has been created. Please sign in."), ctrl.loginPath, fields)
}

func registrationOutcome(err error) apperrors.Outcome {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		return apperrors.Invalid(apperrors.ValidationInvalidInput, ve.Message)
	case errors.Is(err, util.ErrPasswordTooShort), errors.Is(err, util.ErrPasswordTooSimple):
		return apperrors.Invalid(apperrors.AuthWeakPassword, fmt.Sprintf(
			"Passwords need at least %d characters with upper and lower case letters, a digit and a symbol.",
			util.MinPasswordLength,
		))
	case errors.Is(err, service.ErrPasswordMismatch):
		return apperrors.Invalid(apperrors.AuthPasswordMismatch, "Passwords do not match.")
	case errors.Is(err, service.ErrEmailAlreadyExists):
		return apperrors.Invalid(apperrors.AuthEmailAlreadyExists, "An account with this email already exists.")
	}
	return apperrors.Failed(err, "register")
}
