package promotions

import (
	"strings"
	"time"

	"github.com/m04kA/SMC-CleaningBooking/internal/config"
)

// Discount описание скидки по промокоду
type Discount struct {
	Code    string
	Percent float64 // 10 = 10%
	Amount  float64 // фиксированная скидка
}

// Apply применяет скидку, цена не уходит ниже нуля
func (d *Discount) Apply(price float64) float64 {
	if d == nil {
		return price
	}
	result := price
	if d.Percent > 0 {
		result -= price * d.Percent / 100
	}
	result -= d.Amount
	if result < 0 {
		return 0
	}
	return result
}

type promo struct {
	discount  Discount
	expiresAt *time.Time // первый день, когда код уже не действует
}

// Validator проверяет промокоды по статической таблице из конфигурации
type Validator struct {
	codes map[string]promo
}

// NewValidator создает валидатор
// Коды сравниваются без учета регистра
func NewValidator(cfg config.PromotionsConfig, loc *time.Location) *Validator {
	if loc == nil {
		loc = time.Local
	}

	codes := make(map[string]promo, len(cfg.Codes))
	for _, c := range cfg.Codes {
		code := normalize(c.Code)
		p := promo{discount: Discount{Code: code, Percent: c.Percent, Amount: c.Amount}}
		if c.ExpiresAt != "" {
			// Формат проверен при загрузке конфигурации
			if day, err := time.ParseInLocation("2006-01-02", c.ExpiresAt, loc); err == nil {
				p.expiresAt = &day
			}
		}
		codes[code] = p
	}

	return &Validator{codes: codes}
}

// Validate возвращает скидку или ошибку, если код неизвестен или просрочен
func (v *Validator) Validate(code string, now time.Time) (*Discount, error) {
	p, ok := v.codes[normalize(code)]
	if !ok {
		return nil, ErrUnknownCode
	}
	if p.expiresAt != nil && !now.Before(*p.expiresAt) {
		return nil, ErrExpiredCode
	}

	discount := p.discount
	return &discount, nil
}

func normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
