// Package model содержит доменные сущности витрины доставки еды.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// User представляет зарегистрированного покупателя или администратора.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash []byte    `json:"-"`
	IsAdmin      bool      `json:"isAdmin"`
	IsMarketing  bool      `json:"isMarketing"`
	Profile      Profile   `json:"profile"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Profile содержит контактные данные пользователя.
type Profile struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
}

// Addon описывает платную добавку к блюду.
type Addon struct {
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	IsAvailable bool            `json:"isAvailable"`
}

// Food описывает позицию меню.
type Food struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImagePath   string          `json:"imagePath"`
	Category    string          `json:"category"`
	IsAvailable bool            `json:"isAvailable"`
	Addons      []Addon         `json:"addons"`
	CreatedAt   time.Time       `json:"createdAt"`
	CreatedBy   string          `json:"createdBy,omitempty"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	UpdatedBy   string          `json:"updatedBy,omitempty"`
}

// FindAddon возвращает добавку блюда по имени.
func (f Food) FindAddon(name string) (Addon, bool) {
	for _, a := range f.Addons {
		if a.Name == name {
			return a, true
		}
	}
	return Addon{}, false
}

// LineItemAddon описывает добавку, выбранную в строке корзины или заказа.
type LineItemAddon struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// LineItem описывает одну позицию корзины или заказа. Quantity всегда не меньше 1.
type LineItem struct {
	FoodID    string          `json:"foodId"`
	Name      string          `json:"name,omitempty"`
	UnitPrice decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Addons    []LineItemAddon `json:"addons"`
}

// OrderStatus описывает статус обработки заказа.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Valid сообщает, входит ли статус в допустимое перечисление.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// Order описывает оформленный заказ. Total может отсутствовать в исходных данных,
// при агрегации отсутствующая сумма считается нулевой.
type Order struct {
	ID             string              `json:"id"`
	UserID         string              `json:"userId"`
	Items          []LineItem          `json:"items"`
	Status         OrderStatus         `json:"status"`
	Total          decimal.NullDecimal `json:"total"`
	DeliveryFee    decimal.Decimal     `json:"deliveryFee"`
	City           string              `json:"city"`
	TrackingNumber string              `json:"trackingNumber,omitempty"`
	CreatedAt      time.Time           `json:"createdAt"`
}

// TotalOrZero возвращает сумму заказа или ноль, если она не задана.
func (o Order) TotalOrZero() decimal.Decimal {
	if !o.Total.Valid {
		return decimal.Zero
	}
	return o.Total.Decimal
}

// DeliveryDetails содержит адрес доставки, указанный при оформлении заказа.
type DeliveryDetails struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Phone   string `json:"phone"`
}

// AdminSettings содержит настройки доставки, управляемые администратором.
type AdminSettings struct {
	IsGalway                  bool            `json:"isGalway"`
	IsOutsideGalway           bool            `json:"isOutsideGalway"`
	IsDiscount                bool            `json:"isDiscount"`
	DiscountCode              string          `json:"discountCode"`
	GalwayFee                 decimal.Decimal `json:"galwayFee"`
	OutsideGalwayFee          decimal.Decimal `json:"outsideGalwayFee"`
	GalwayDeliveryTime        int             `json:"galwayDeliveryTime"`
	OutsideGalwayDeliveryTime int             `json:"outsideGalwayDeliveryTime"`
	UpdatedAt                 time.Time       `json:"updatedAt"`
	UpdatedBy                 string          `json:"updatedBy,omitempty"`
}

// Cart описывает корзину пользователя.
type Cart struct {
	Items []LineItem `json:"items"`
}
