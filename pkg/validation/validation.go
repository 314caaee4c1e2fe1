// Package validation holds the login and product form schemas.
package validation

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"product-console/pkg/models"
)

// FieldErrors maps a form field name to its message. Nil means the form is valid.
type FieldErrors map[string]string

// Get returns the message for field, or "".
func (fe FieldErrors) Get(field string) string {
	return fe[field]
}

// LoginForm is the login draft as typed
type LoginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"min=6"`
}

// ProductForm is the product draft as typed
type ProductForm struct {
	Title       string `form:"title" validate:"required"`
	Price       string `form:"price" validate:"omitempty,numeric,nonnegative"`
	Description string `form:"description"`
	Category    string `form:"category"`
	Image       string `form:"image"`
}

// messages is keyed by "field.tag"
var messages = map[string]string{
	"username.required": "Username is required",
	"password.min":      "Password should be minimum 6 letters",
	"title.required":    "Title is required",
	"price.numeric":     "Price must be a number",
	"price.nonnegative": "Price must not be negative",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return strings.ToLower(fld.Name)
		}
		return name
	})
	// Only meaningful after "numeric" has accepted the value.
	if err := v.RegisterValidation("nonnegative", func(fl validator.FieldLevel) bool {
		f, err := strconv.ParseFloat(strings.TrimSpace(fl.Field().String()), 64)
		return err == nil && f >= 0
	}); err != nil {
		panic(err)
	}
	return v
}

// ValidateLogin checks a login draft
func ValidateLogin(form LoginForm) (models.LoginRequest, FieldErrors) {
	if fe := check(form); fe != nil {
		return models.LoginRequest{}, fe
	}
	return models.LoginRequest{Username: form.Username, Password: form.Password}, nil
}

// ValidateProduct checks a product draft. An empty price means 0.
func ValidateProduct(form ProductForm) (models.ProductDraft, FieldErrors) {
	form.Price = strings.TrimSpace(form.Price)
	if fe := check(form); fe != nil {
		return models.ProductDraft{}, fe
	}

	var price float64
	if form.Price != "" {
		// numeric already accepted it
		price, _ = strconv.ParseFloat(form.Price, 64)
	}

	return models.ProductDraft{
		Title:       form.Title,
		Price:       price,
		Description: form.Description,
		Category:    form.Category,
		Image:       form.Image,
	}, nil
}

// ProductFormFrom pre-populates a form from a product's current values
func ProductFormFrom(p models.Product) ProductForm {
	return ProductForm{
		Title:       p.Title,
		Price:       strconv.FormatFloat(p.Price, 'f', -1, 64),
		Description: p.Description,
		Category:    p.Category,
		Image:       p.Image,
	}
}

func check(form any) FieldErrors {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{"_": err.Error()}
	}

	fe := make(FieldErrors, len(verrs))
	for _, v := range verrs {
		field := v.Field()
		if _, seen := fe[field]; seen {
			continue
		}
		msg, ok := messages[field+"."+v.Tag()]
		if !ok {
			msg = field + " is invalid"
		}
		fe[field] = msg
	}
	return fe
}
