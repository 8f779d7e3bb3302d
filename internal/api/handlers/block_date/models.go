package block_date

import (
	"time"

	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
	"github.com/m04kA/SMC-CleaningBooking/internal/service/calendar/models"
)

// BlockDateRequest HTTP request model
type BlockDateRequest struct {
	Date   string `json:"date"` // YYYY-MM-DD
	Reason string `json:"reason"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *BlockDateRequest) ToServiceRequest() (*models.BlockDateRequest, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}
	return &models.BlockDateRequest{Date: date, Reason: r.Reason}, nil
}
