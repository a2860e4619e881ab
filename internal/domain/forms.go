package domain

import (
	"strings"

	"github.com/shopspring/decimal"

	"inventora/webclient/internal/validation"
)

const (
	msgAllFieldsRequired = "All fields are required!"
	msgNonNegative       = "Only non-negative numbers are allowed."
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	if !validation.ValidEmail(strings.TrimSpace(r.Email)) {
		return Invalid("Invalid email address.")
	}
	if !validation.ValidPassword(r.Password) {
		return Invalid("Password must be at least 8 characters long.")
	}
	return nil
}

type SignupRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (r SignupRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return Invalid("Name is required.")
	}
	if err := (LoginRequest{Email: r.Email, Password: r.Password}).Validate(); err != nil {
		return err
	}
	if !validation.PasswordsMatch(r.Password, r.ConfirmPassword) {
		return Invalid("Passwords do not match.")
	}
	return nil
}

type CustomerInput struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Mobile  string `json:"mobile"`
}

// Customer validates the form and returns the trimmed customer it describes.
func (in CustomerInput) Customer() (Customer, error) {
	c := Customer{
		Name:    strings.TrimSpace(in.Name),
		Address: strings.TrimSpace(in.Address),
		Mobile:  strings.TrimSpace(in.Mobile),
	}
	if c.Name == "" || c.Address == "" || c.Mobile == "" {
		return Customer{}, Invalid(msgAllFieldsRequired)
	}
	if !validation.ValidTextField(c.Name) {
		return Customer{}, Invalid("Invalid name format")
	}
	if !validation.ValidTextField(c.Address) {
		return Customer{}, Invalid("Invalid address format")
	}
	if !validation.ValidMobileNumber(c.Mobile) {
		return Customer{}, Invalid("Invalid mobile number. Must be 10 digits without whitespace.")
	}
	return c, nil
}

// ItemForm mirrors the inventory form, where quantity and price arrive as
// the raw text typed by the user.
type ItemForm struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	Unit        string `json:"unit"`
	Price       string `json:"price"`
}

func (f ItemForm) Item() (InventoryItem, error) {
	name := strings.TrimSpace(f.Name)
	description := strings.TrimSpace(f.Description)
	quantity := strings.TrimSpace(f.Quantity)
	price := strings.TrimSpace(f.Price)

	if name == "" || description == "" || quantity == "" || price == "" {
		return InventoryItem{}, Invalid(msgAllFieldsRequired)
	}
	if !validation.ValidTextField(name) {
		return InventoryItem{}, Invalid("Invalid name format")
	}
	if !validation.ValidTextField(description) {
		return InventoryItem{}, Invalid("Invalid description format")
	}
	if !validation.NumericText(quantity) || !validation.DecimalText(price) || price == "." {
		return InventoryItem{}, Invalid(msgNonNegative)
	}

	unit := Unit(strings.ToLower(strings.TrimSpace(f.Unit)))
	if unit == "" {
		unit = UnitKg
	}
	if !unit.Valid() {
		return InventoryItem{}, Invalid("Unit must be kg or litre.")
	}

	qty, err := ParseQuantity(quantity)
	if err != nil {
		return InventoryItem{}, err
	}
	amount, err := decimal.NewFromString(price)
	if err != nil || amount.IsNegative() {
		return InventoryItem{}, Invalid("Quantity and Price must be non-negative.")
	}

	return InventoryItem{
		Name:        name,
		Description: description,
		Quantity:    qty,
		Unit:        unit,
		Price:       amount,
	}, nil
}

// ParseQuantity reads a non-negative whole number typed into a quantity field.
func ParseQuantity(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || !validation.NumericText(raw) {
		return 0, Invalid(msgNonNegative)
	}
	n := 0
	for _, r := range raw {
		n = n*10 + int(r-'0')
		if n > 1_000_000_000 {
			return 0, Invalid("Quantity is too large.")
		}
	}
	return n, nil
}
