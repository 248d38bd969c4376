package validation

import (
	"net/mail"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmeshcher/puffingood/internal/model"
)

// Errors описывает ошибки валидации по полям.
type Errors map[string]string

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e Errors) orNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

const minPasswordLength = 6

// MaxQuantity ограничивает количество в одной позиции корзины или заказа.
const MaxQuantity = 999

// moneyScale задаёт число знаков после запятой в денежных суммах.
const moneyScale = 2

// Credentials проверяет email и пароль при регистрации.
func Credentials(email, password string) error {
	errs := Errors{}
	if _, err := mail.ParseAddress(email); err != nil || strings.TrimSpace(email) == "" {
		errs["email"] = "must be a valid email address"
	}
	if len(password) < minPasswordLength {
		errs["password"] = "must be at least 6 characters"
	}
	return errs.orNil()
}

// DeliveryDetails проверяет, что все поля адреса доставки заполнены.
func DeliveryDetails(d model.DeliveryDetails) error {
	errs := Errors{}
	required := []struct {
		field string
		value string
	}{
		{"name", d.Name},
		{"address", d.Address},
		{"city", d.City},
		{"state", d.State},
		{"zipCode", d.ZipCode},
		{"phone", d.Phone},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs[r.field] = "is required"
		}
	}
	return errs.orNil()
}

// Food проверяет обязательные поля позиции меню.
func Food(f model.Food) error {
	errs := Errors{}
	if strings.TrimSpace(f.Name) == "" {
		errs["name"] = "is required"
	}
	if !f.Price.IsPositive() {
		errs["price"] = "must be positive"
	} else if !isMoney(f.Price) {
		errs["price"] = "must have at most 2 decimal places"
	}
	if strings.TrimSpace(f.Category) == "" {
		errs["category"] = "is required"
	}
	seen := make(map[string]struct{}, len(f.Addons))
	for _, a := range f.Addons {
		if strings.TrimSpace(a.Name) == "" {
			errs["addons"] = "addon name is required"
			break
		}
		if a.Price.IsNegative() {
			errs["addons"] = "addon price must not be negative"
			break
		}
		if !isMoney(a.Price) {
			errs["addons"] = "addon price must have at most 2 decimal places"
			break
		}
		if _, ok := seen[a.Name]; ok {
			errs["addons"] = "addon names must be unique"
			break
		}
		seen[a.Name] = struct{}{}
	}
	return errs.orNil()
}

// Quantity проверяет количество в позиции корзины.
func Quantity(q int) error {
	if q < 1 {
		return Errors{"quantity": "must be at least 1"}
	}
	if q > MaxQuantity {
		return Errors{"quantity": "must be at most 999"}
	}
	return nil
}

func isMoney(d decimal.Decimal) bool {
	return d.Equal(d.Round(moneyScale))
}
