package pricing

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmeshcher/puffingood/internal/model"
)

// DefaultCityFee применяется, когда настройки доставки не заданы.
var DefaultCityFee = decimal.RequireFromString("3.50")

// CityFee возвращает стоимость доставки в город по настройкам администратора
// и признак того, что доставка туда выполняется. settings может быть nil.
func CityFee(settings *model.AdminSettings, city string) (decimal.Decimal, bool) {
	if settings == nil {
		return DefaultCityFee, true
	}

	if strings.Contains(strings.ToLower(city), "galway") && settings.IsGalway {
		return settings.GalwayFee, true
	}
	if settings.IsOutsideGalway {
		return settings.OutsideGalwayFee, true
	}

	return decimal.Zero, false
}
