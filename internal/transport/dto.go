package transport

import (
	"errors"
	"math"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(6, 100)),
	)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (r RefreshRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.RefreshToken, validation.Required),
	)
}

type CreateProductRequest struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

func (r CreateProductRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Price, validation.Required, validation.By(validPrice)),
	)
}

type PatchProductRequest struct {
	Name  *string  `json:"name"`
	Price *float64 `json:"price"`
}

func (r PatchProductRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.By(optionalName)),
		validation.Field(&r.Price, validation.By(optionalPrice)),
	)
}

// validPrice enforces the catalog price rule: strictly positive with at most
// two fractional digits. 10.005 is rejected, not rounded.
func validPrice(value interface{}) error {
	p, ok := value.(float64)
	if !ok {
		return errors.New("must be a number")
	}
	if p <= 0 {
		return errors.New("must be positive")
	}
	if math.Round(p*100)/100 != p {
		return errors.New("must have at most 2 decimal places")
	}
	return nil
}

func optionalPrice(value interface{}) error {
	p, ok := value.(*float64)
	if !ok || p == nil {
		return nil
	}
	return validPrice(*p)
}

func optionalName(value interface{}) error {
	n, ok := value.(*string)
	if !ok || n == nil {
		return nil
	}
	if *n == "" {
		return errors.New("cannot be blank")
	}
	return nil
}
