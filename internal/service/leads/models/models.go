package models

import (
	"time"

	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
	"github.com/m04kA/SMC-CleaningBooking/pkg/types"
)

// Request модели

// AssignStaffRequest назначение сотрудника, nil снимает назначение
type AssignStaffRequest struct {
	StaffID *int64 `json:"staffId"`
}

// Response модели

// Quote расчет цены для клиента
type Quote struct {
	Subtotal  float64 // До скидки по промокоду
	Discount  float64
	Total     float64
	PromoCode *string // Примененный код в верхнем регистре
}

// LeadResponse лид для администратора
type LeadResponse struct {
	ID           string            `json:"id"`
	Status       string            `json:"status"`
	FirstName    string            `json:"firstName"`
	LastName     string            `json:"lastName"`
	Email        string            `json:"email"`
	Phone        string            `json:"phone"`
	ZipCode      string            `json:"zipCode"`
	Street       string            `json:"street"`
	City         string            `json:"city"`
	ServiceType  string            `json:"serviceType"`
	Intensity    string            `json:"intensity,omitempty"`
	Frequency    string            `json:"frequency,omitempty"`
	Bedrooms     int               `json:"bedrooms,omitempty"`
	Bathrooms    int               `json:"bathrooms,omitempty"`
	SquareFeet   int               `json:"squareFeet,omitempty"`
	UnitCount    int               `json:"unitCount,omitempty"`
	BusinessName string            `json:"businessName,omitempty"`
	Extras       []string          `json:"extras"`
	PromoCode    *string           `json:"promoCode,omitempty"`
	TotalPrice   float64           `json:"totalPrice"`
	ServiceDate  *string           `json:"serviceDate,omitempty"` // YYYY-MM-DD
	ServiceTime  *types.TimeString `json:"serviceTime,omitempty"`
	StaffID      *int64            `json:"staffId,omitempty"`
	CustomerType string            `json:"customerType"`
	BookedAt     *time.Time        `json:"bookedAt,omitempty"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

// FromDomainLead конвертирует лид в ответ
func FromDomainLead(l *domain.Lead, loc *time.Location) *LeadResponse {
	resp := &LeadResponse{
		ID:           l.ID.String(),
		Status:       string(l.Status),
		FirstName:    l.FirstName,
		LastName:     l.LastName,
		Email:        l.Email,
		Phone:        l.Phone,
		ZipCode:      l.ZipCode,
		Street:       l.Street,
		City:         l.City,
		ServiceType:  string(l.ServiceType),
		Intensity:    string(l.Intensity),
		Frequency:    string(l.Frequency),
		Bedrooms:     l.Bedrooms,
		Bathrooms:    l.Bathrooms,
		SquareFeet:   l.SquareFeet,
		UnitCount:    l.UnitCount,
		BusinessName: l.BusinessName,
		Extras:       l.Extras,
		PromoCode:    l.PromoCode,
		TotalPrice:   l.TotalPrice,
		ServiceTime:  l.ServiceTime,
		StaffID:      l.StaffID,
		CustomerType: string(l.CustomerType),
		BookedAt:     l.BookedAt,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
	if resp.Extras == nil {
		resp.Extras = []string{}
	}
	if l.ServiceDate != nil {
		date := l.ServiceDate.In(loc).Format(domain.DateFormat)
		resp.ServiceDate = &date
	}
	return resp
}
