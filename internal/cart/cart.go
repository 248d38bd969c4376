// Package cart реализует операции над корзиной пользователя.
package cart

import (
	"errors"

	"github.com/mmeshcher/puffingood/internal/model"
	"github.com/mmeshcher/puffingood/internal/validation"
)

// ErrItemNotFound возвращается при обращении к несуществующей позиции корзины.
var ErrItemNotFound = errors.New("cart item not found")

// AddItem добавляет позицию в корзину. Если в корзине уже есть то же блюдо
// с тем же набором добавок, количество суммируется. Итоговое количество
// должно оставаться в пределах validation.Quantity.
func AddItem(c model.Cart, item model.LineItem) (model.Cart, error) {
	if err := validation.Quantity(item.Quantity); err != nil {
		return c, err
	}

	items := make([]model.LineItem, len(c.Items), len(c.Items)+1)
	copy(items, c.Items)

	for i, existing := range items {
		if existing.FoodID == item.FoodID && sameAddons(existing.Addons, item.Addons) {
			merged := existing.Quantity + item.Quantity
			if err := validation.Quantity(merged); err != nil {
				return c, err
			}
			items[i].Quantity = merged
			return model.Cart{Items: items}, nil
		}
	}

	return model.Cart{Items: append(items, item)}, nil
}

// UpdateQuantity задаёт количество для позиции с индексом index.
// Количество меньше единицы удаляет позицию.
func UpdateQuantity(c model.Cart, index, quantity int) (model.Cart, error) {
	if index < 0 || index >= len(c.Items) {
		return c, ErrItemNotFound
	}
	if quantity < 1 {
		return RemoveItem(c, index)
	}
	if err := validation.Quantity(quantity); err != nil {
		return c, err
	}

	items := make([]model.LineItem, len(c.Items))
	copy(items, c.Items)
	items[index].Quantity = quantity

	return model.Cart{Items: items}, nil
}

// RemoveItem удаляет позицию с индексом index.
func RemoveItem(c model.Cart, index int) (model.Cart, error) {
	if index < 0 || index >= len(c.Items) {
		return c, ErrItemNotFound
	}

	items := make([]model.LineItem, 0, len(c.Items)-1)
	items = append(items, c.Items[:index]...)
	items = append(items, c.Items[index+1:]...)

	return model.Cart{Items: items}, nil
}

func sameAddons(a, b []model.LineItemAddon) bool {
	if len(a) != len(b) {
		return false
	}
	names := make(map[string]int, len(a))
	for _, x := range a {
		names[x.Name]++
	}
	for _, x := range b {
		if names[x.Name] == 0 {
			return false
		}
		names[x.Name]--
	}
	return true
}
