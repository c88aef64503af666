package shop

import (
	"errors"
	"net/mail"
	"sort"
	"strings"
)

var (
	// ErrInvalidCheckout is matched by every checkout validation failure.
	ErrInvalidCheckout = errors.New("invalid checkout details")
	// ErrEmptyCart is returned when checking out with nothing in the cart.
	ErrEmptyCart = errors.New("cart is empty")
)

// CheckoutForm is what the customer fills in to place an order.
type CheckoutForm struct {
	Name    string
	Email   string
	Address string
}

// CheckoutError lists the form fields that failed validation.
type CheckoutError struct {
	Fields map[string]string
}

func (e *CheckoutError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return ErrInvalidCheckout.Error() + ": " + strings.Join(parts, "; ")
}

func (e *CheckoutError) Is(target error) bool { return target == ErrInvalidCheckout }

// Validate checks that every field is filled in and the email parses.
func (f CheckoutForm) Validate() error {
	fields := map[string]string{}
	if strings.TrimSpace(f.Name) == "" {
		fields["name"] = "required"
	}
	if email := strings.TrimSpace(f.Email); email == "" {
		fields["email"] = "required"
	} else if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		fields["email"] = "not a valid address"
	}
	if strings.TrimSpace(f.Address) == "" {
		fields["address"] = "required"
	}
	if len(fields) > 0 {
		return &CheckoutError{Fields: fields}
	}
	return nil
}
