package pricing

import (
	"math"

	"github.com/m04kA/SMC-CleaningBooking/internal/config"
	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
)

// QuoteInput параметры уборки для расчета цены
type QuoteInput struct {
	ServiceType domain.ServiceType
	Intensity   domain.Intensity
	Frequency   domain.Frequency
	Bedrooms    int
	Bathrooms   int
	SquareFeet  int
	UnitCount   int
	Extras      []string
}

// Calculator считает цену уборки по таблицам из конфигурации
type Calculator struct {
	cfg config.PricingConfig
}

// NewCalculator создает калькулятор
func NewCalculator(cfg config.PricingConfig) *Calculator {
	return &Calculator{cfg: cfg}
}

// Quote возвращает итоговую цену до скидки по промокоду
//
// База по типу уборки + комнаты (жилая) / площадь (коммерческая) / юниты (управляющая),
// умножается на коэффициент интенсивности, плюс дополнительные услуги,
// минус скидка за регулярность. Не ниже MinimumPrice.
func (c *Calculator) Quote(in QuoteInput) float64 {
	price := c.cfg.BasePrices[string(in.ServiceType)]

	switch in.ServiceType {
	case domain.ServiceTypeResidential:
		price += float64(in.Bedrooms)*c.cfg.PerBedroom + float64(in.Bathrooms)*c.cfg.PerBathroom
	case domain.ServiceTypeCommercial:
		price += float64(in.SquareFeet) * c.cfg.PerSquareFoot
	case domain.ServiceTypePropertyManagement:
		price += float64(in.UnitCount) * c.cfg.PerUnit
	}

	if multiplier, ok := c.cfg.IntensityMultipliers[string(in.Intensity)]; ok && multiplier > 0 {
		price *= multiplier
	}

	for _, extra := range in.Extras {
		price += c.cfg.Extras[extra]
	}

	if discount, ok := c.cfg.FrequencyDiscounts[string(in.Frequency)]; ok && discount > 0 && discount < 1 {
		price *= 1 - discount
	}

	if price < c.cfg.MinimumPrice {
		price = c.cfg.MinimumPrice
	}

	return Round(price)
}

// Round округляет до центов
func Round(v float64) float64 {
	return math.Round(v*100) / 100
}
