package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	apperrors "github.com/jrsteele09/go-calendar-client/internal/errors"
)

// MinPasswordLength applies to both the password and its confirmation.
const MinPasswordLength = 8

// Field check codes. They double as the keys of the message table.
const (
	CodeRequired           = "required"
	CodeEmail              = "email"
	CodeMinLength          = "minlength"
	CodeEmailExists        = "emailExists"
	CodeUsernameExists     = "usernameExists"
	CodePasswordsDontMatch = "passwordsDontMatch"
	CodeServerError        = "serverError"
	CodeWrongCredentials   = "wrongCredentials"
	CodeEmailDoesNotExists = "emailDoesNotExists"
)

// FormField is the key used for errors that belong to the whole form.
const FormField = "form"

var validationMessages = map[string]string{
	CodeRequired:           "This field is required",
	CodeEmail:              "Invalid email syntax",
	CodeMinLength:          fmt.Sprintf("Min length is %d characters", MinPasswordLength),
	CodeEmailExists:        "Email already exists",
	CodeUsernameExists:     "Username already exists",
	CodePasswordsDontMatch: "Passwords don't match",
	CodeServerError:        "Server error",
	CodeWrongCredentials:   "Wrong credentials",
	CodeEmailDoesNotExists: "Email does not exists",
}

// ValidationMessage returns the text shown for a check code.
func ValidationMessage(code string) string {
	if msg, ok := validationMessages[code]; ok {
		return msg
	}
	return code
}

type LoginForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (f LoginForm) Validate() error {
	err := validation.ValidateStruct(&f,
		validation.Field(&f.Email, validation.Required.Error(CodeRequired), is.Email.Error(CodeEmail)),
		validation.Field(&f.Password, validation.Required.Error(CodeRequired), validation.Length(MinPasswordLength, 0).Error(CodeMinLength)),
	)
	return apperrors.Validation(err, ValidationMessage)
}

func (f LoginForm) Credentials() Credentials {
	return Credentials{Email: f.Email, Password: f.Password}
}

type RegisterForm struct {
	Email           string `json:"email"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (f RegisterForm) Validate() error {
	err := validation.ValidateStruct(&f,
		validation.Field(&f.Email, validation.Required.Error(CodeRequired), is.Email.Error(CodeEmail)),
		validation.Field(&f.Username, validation.Required.Error(CodeRequired)),
		validation.Field(&f.Password, validation.Required.Error(CodeRequired), validation.Length(MinPasswordLength, 0).Error(CodeMinLength)),
		validation.Field(&f.ConfirmPassword,
			validation.Required.Error(CodeRequired),
			validation.Length(MinPasswordLength, 0).Error(CodeMinLength),
			validation.By(func(value interface{}) error {
				if confirm, _ := value.(string); confirm != f.Password {
					return errors.New(CodePasswordsDontMatch)
				}
				return nil
			}),
		),
	)
	return apperrors.Validation(err, ValidationMessage)
}

func (f RegisterForm) Request() RegisterRequest {
	return RegisterRequest{Username: f.Username, Email: f.Email, Password: f.Password}
}

// ValidateLogin runs the field checks and then, when the email is well formed,
// asks the API whether an account with that email exists.
func (c *Client) ValidateLogin(ctx context.Context, form LoginForm) error {
	fields, err := syncFields(form.Validate())
	if err != nil {
		return err
	}

	if _, failed := fields.Fields["email"]; !failed {
		exists, err := c.CheckEmailExists(ctx, form.Email)
		switch {
		case err != nil:
			c.log.Warn().Err(err).Msg("Email lookup failed")
			fields.Fields[FormField] = fieldError(CodeServerError)
		case !exists:
			fields.Fields["email"] = fieldError(CodeEmailDoesNotExists)
		}
	}
	return result(fields)
}

// ValidateRegister runs the field checks and then the availability lookups for
// the email and username fields that passed them.
func (c *Client) ValidateRegister(ctx context.Context, form RegisterForm) error {
	fields, err := syncFields(form.Validate())
	if err != nil {
		return err
	}

	checks := []struct {
		field string
		value string
		code  string
		check func(context.Context, string) (bool, error)
	}{
		{"email", form.Email, CodeEmailExists, c.CheckEmailExists},
		{"username", form.Username, CodeUsernameExists, c.CheckUsernameExists},
	}
	for _, chk := range checks {
		if _, failed := fields.Fields[chk.field]; failed {
			continue
		}
		taken, err := chk.check(ctx, chk.value)
		if err != nil {
			c.log.Warn().Err(err).Str("field", chk.field).Msg("Availability lookup failed")
			fields.Fields[FormField] = fieldError(CodeServerError)
			break
		}
		if taken {
			fields.Fields[chk.field] = fieldError(chk.code)
		}
	}
	return result(fields)
}

// LoginFailure turns an error from Login into the form error shown to the
// user: rejected credentials read as wrongCredentials, anything else as
// serverError. It returns nil for a nil error.
func LoginFailure(err error) *apperrors.ValidationError {
	if err == nil {
		return nil
	}
	code := CodeServerError
	switch apperrors.StatusCode(err) {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusNotFound:
		code = CodeWrongCredentials
	}
	return &apperrors.ValidationError{Fields: map[string]apperrors.FieldError{FormField: fieldError(code)}}
}

func fieldError(code string) apperrors.FieldError {
	return apperrors.FieldError{Code: code, Message: ValidationMessage(code)}
}

// syncFields unpacks a Validate result so more checks can be added to it.
func syncFields(err error) (*apperrors.ValidationError, error) {
	if err == nil {
		return &apperrors.ValidationError{Fields: make(map[string]apperrors.FieldError)}, nil
	}
	var fields *apperrors.ValidationError
	if errors.As(err, &fields) {
		return fields, nil
	}
	return nil, err
}

func result(fields *apperrors.ValidationError) error {
	if len(fields.Fields) == 0 {
		return nil
	}
	return fields
}
