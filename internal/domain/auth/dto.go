package auth

import (
	"fmt"
	"strings"

	"github.com/ddhealthcare/hrms-backend-go/internal/domain/employee"
	"github.com/ddhealthcare/hrms-backend-go/internal/pkg/validator"
)

type LoginRequest struct {
	Identifier string `json:"identifier"`
	Email      string `json:"email"`
	EmployeeID string `json:"employee_id"`
	Password   string `json:"password"`
}

// LoginIdentifier returns whichever of identifier, email or employee_id was sent.
func (r LoginRequest) LoginIdentifier() string {
	for _, v := range []string{r.Identifier, r.Email, r.EmployeeID} {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.LoginIdentifier() == "" {
		errs = append(errs, validator.ValidationError{
			Field:   "identifier",
			Message: "email or employee_id is required",
		})
	}
	if validator.IsEmpty(r.Password) {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password is required",
		})
	} else if len(r.Password) > employee.MaxPasswordLength {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: fmt.Sprintf("password must not exceed %d characters", employee.MaxPasswordLength),
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

func (r *ForgotPasswordRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Email = employee.NormalizeEmail(r.Email)
	if r.Email == "" {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	} else if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email must be a valid email address",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type VerifyOTPRequest struct {
	Email      string `json:"email"`
	EmployeeID string `json:"employee_id"`
	OTP        string `json:"otp"`
}

func (r *VerifyOTPRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Email = employee.NormalizeEmail(r.Email)
	r.EmployeeID = strings.TrimSpace(r.EmployeeID)
	r.OTP = strings.TrimSpace(r.OTP)

	if r.Email == "" && r.EmployeeID == "" {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email or employee_id is required",
		})
	}
	if r.OTP == "" {
		errs = append(errs, validator.ValidationError{
			Field:   "otp",
			Message: "otp is required",
		})
	} else if !validator.IsValidOTP(r.OTP) {
		errs = append(errs, validator.ValidationError{
			Field:   "otp",
			Message: "otp must be 6 digits",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ResetPasswordRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"new_password"`
}

func (r *ResetPasswordRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Email = employee.NormalizeEmail(r.Email)
	r.OTP = strings.TrimSpace(r.OTP)

	if r.Email == "" {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	}
	if r.OTP == "" {
		errs = append(errs, validator.ValidationError{
			Field:   "otp",
			Message: "otp is required",
		})
	}
	if validator.IsEmpty(r.NewPassword) {
		errs = append(errs, validator.ValidationError{
			Field:   "new_password",
			Message: "new_password is required",
		})
	} else if len(r.NewPassword) < employee.MinPasswordLength {
		errs = append(errs, validator.ValidationError{
			Field:   "new_password",
			Message: fmt.Sprintf("new_password must be at least %d characters long", employee.MinPasswordLength),
		})
	} else if len(r.NewPassword) > employee.MaxPasswordLength {
		errs = append(errs, validator.ValidationError{
			Field:   "new_password",
			Message: fmt.Sprintf("new_password must not exceed %d characters", employee.MaxPasswordLength),
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (r *RefreshTokenRequest) Validate() error {
	if validator.IsEmpty(r.RefreshToken) {
		return validator.ValidationErrors{{
			Field:   "refresh_token",
			Message: "refresh_token is required",
		}}
	}
	return nil
}

type SessionTrackingRequest struct {
	UserAgent string
	IPAddress string
}

type TokenResponse struct {
	AccessToken           string `json:"access_token"`
	AccessTokenExpiresIn  int64  `json:"access_token_expires_in"`
	RefreshToken          string `json:"-"`
	RefreshTokenExpiresIn int64  `json:"-"`
}

type LoginResponse struct {
	TokenResponse
	Employee employee.EmployeeResponse `json:"employee"`
}
