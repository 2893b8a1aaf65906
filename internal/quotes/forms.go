package quotes

import (
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/industrialpartner/storefront-backend/pkg/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// ContactForm carries the requester fields shared by both quote variants.
type ContactForm struct {
	Notes     string `json:"notes"`
	Comments  string `json:"comments"`
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Company   string `json:"company" validate:"required,max=100"`
	Phone     string `json:"phone" validate:"required,max=20"`
	Email     string `json:"email" validate:"required,email"`
}

// SingleQuoteForm is the product-page variant carrying one line item.
type SingleQuoteForm struct {
	ContactForm
	ItemID   int `json:"item_id" validate:"required,min=1"`
	Quantity int `json:"quantity" validate:"required,min=1"`
}

// AddonForm carries the optional qualification fields posted after a quote
// was created.
type AddonForm struct {
	Address1 string `json:"address1" validate:"required,max=200"`
	Address2 string `json:"address2" validate:"max=200"`
	City     string `json:"city" validate:"required,max=100"`
	State    string `json:"state" validate:"required,max=100"`
	Zip      string `json:"zip" validate:"required,max=20"`
	Industry string `json:"industry" validate:"max=100"`
	Purpose  string `json:"purpose" validate:"max=200"`
}

// ContactFromValues maps submitted form fields onto a ContactForm.
func ContactFromValues(values url.Values) ContactForm {
	return ContactForm{
		Notes:     values.Get("notes"),
		Comments:  values.Get("comments"),
		FirstName: strings.TrimSpace(values.Get("first_name")),
		LastName:  strings.TrimSpace(values.Get("last_name")),
		Company:   strings.TrimSpace(values.Get("company")),
		Phone:     strings.TrimSpace(values.Get("phone")),
		Email:     strings.TrimSpace(values.Get("email")),
	}
}

// SingleFromValues maps submitted form fields onto a SingleQuoteForm.
// Non-numeric item/quantity values parse to zero and fail validation.
func SingleFromValues(values url.Values) SingleQuoteForm {
	return SingleQuoteForm{
		ContactForm: ContactFromValues(values),
		ItemID:      parseInt(values.Get("item_id")),
		Quantity:    parseInt(values.Get("quantity")),
	}
}

// AddonFromValues maps submitted form fields onto an AddonForm.
func AddonFromValues(values url.Values) AddonForm {
	return AddonForm{
		Address1: strings.TrimSpace(values.Get("address1")),
		Address2: strings.TrimSpace(values.Get("address2")),
		City:     strings.TrimSpace(values.Get("city")),
		State:    strings.TrimSpace(values.Get("state")),
		Zip:      strings.TrimSpace(values.Get("zip")),
		Industry: strings.TrimSpace(values.Get("industry")),
		Purpose:  strings.TrimSpace(values.Get("purpose")),
	}
}

// Validate applies the field rules, returning per-field messages.
func (f ContactForm) Validate() error {
	return formatValidationErrors(validate.Struct(f))
}

// Validate applies the field rules, returning per-field messages.
func (f SingleQuoteForm) Validate() error {
	return formatValidationErrors(validate.Struct(f))
}

// Validate applies the field rules, returning per-field messages.
func (f AddonForm) Validate() error {
	return formatValidationErrors(validate.Struct(f))
}

func formatValidationErrors(err error) error {
	if err == nil {
		return nil
	}
	if errs, ok := err.(validator.ValidationErrors); ok {
		details := map[string]string{}
		for _, fieldErr := range errs {
			details[fieldErr.Field()] = validationMessage(fieldErr)
		}
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "email":
		return "must be a valid email"
	}
	return "is invalid"
}

func parseInt(raw string) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return value
}
