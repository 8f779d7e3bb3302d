package wizard

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
)

// FormData накопленные данные мастера
// Теги validate проверяются только для полей текущего шага
type FormData struct {
	ZipCode     string             `json:"zipCode,omitempty" validate:"required,numeric,len=5"`
	ServiceType domain.ServiceType `json:"serviceType,omitempty" validate:"required,oneof=residential commercial property_management"`

	Intensity    domain.Intensity `json:"intensity,omitempty" validate:"required,oneof=standard deep move_out"`
	Bedrooms     int              `json:"bedrooms,omitempty" validate:"min=0,max=20"`
	Bathrooms    int              `json:"bathrooms,omitempty" validate:"min=1,max=20"`
	SquareFeet   int              `json:"squareFeet,omitempty" validate:"min=100,max=1000000"`
	UnitCount    int              `json:"unitCount,omitempty" validate:"min=1,max=1000"`
	BusinessName string           `json:"businessName,omitempty" validate:"required,max=200"`
	Extras       []string         `json:"extras,omitempty" validate:"max=20,dive,required,max=50"`
	Frequency    domain.Frequency `json:"frequency,omitempty" validate:"required,oneof=one_time weekly biweekly monthly"`

	FirstName string `json:"firstName,omitempty" validate:"required,max=100"`
	LastName  string `json:"lastName,omitempty" validate:"required,max=100"`
	Email     string `json:"email,omitempty" validate:"required,email,max=254"`
	Phone     string `json:"phone,omitempty" validate:"required,min=7,max=20"`
	PromoCode string `json:"promoCode,omitempty" validate:"omitempty,alphanum,max=32"`

	ServiceDate string `json:"serviceDate,omitempty" validate:"required,datetime=2006-01-02"`
	ServiceTime string `json:"serviceTime,omitempty" validate:"required,datetime=15:04"`

	Street string `json:"street,omitempty" validate:"required,max=200"`
	City   string `json:"city,omitempty" validate:"required,max=100"`

	LookupEmail    string `json:"lookupEmail,omitempty" validate:"required,email,max=254"`
	SelectedLeadID string `json:"selectedLeadId,omitempty" validate:"required,uuid"`

	// Поля ниже заполняет только сервер
	PreviousProperties []PropertySummary   `json:"previousProperties,omitempty"`
	LeadID             string              `json:"leadId,omitempty"`
	TotalPrice         float64             `json:"totalPrice,omitempty"`
	Discount           float64             `json:"discount,omitempty"`
	CustomerType       domain.CustomerType `json:"customerType,omitempty"`
	Booked             bool                `json:"booked,omitempty"`
}

// PropertySummary объект из прошлого заказа повторного клиента
type PropertySummary struct {
	LeadID          string             `json:"leadId"`
	Street          string             `json:"street"`
	City            string             `json:"city"`
	ZipCode         string             `json:"zipCode"`
	ServiceType     domain.ServiceType `json:"serviceType"`
	LastServiceDate string             `json:"lastServiceDate,omitempty"`
}

// Apply накладывает частичное обновление (JSON объект) на данные формы
// Не переданные поля сохраняются, серверные поля не перезаписываются
func (d *FormData) Apply(patch json.RawMessage) error {
	if len(patch) == 0 || string(patch) == "null" {
		return nil
	}

	next := d.Clone()
	if err := json.Unmarshal(patch, &next); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}

	next.PreviousProperties = d.PreviousProperties
	next.LeadID = d.LeadID
	next.TotalPrice = d.TotalPrice
	next.Discount = d.Discount
	next.CustomerType = d.CustomerType
	next.Booked = d.Booked

	next.normalize()
	*d = next
	return nil
}

// Clone возвращает копию без общих слайсов
func (d FormData) Clone() FormData {
	if d.Extras != nil {
		d.Extras = append([]string(nil), d.Extras...)
	}
	if d.PreviousProperties != nil {
		d.PreviousProperties = append([]PropertySummary(nil), d.PreviousProperties...)
	}
	return d
}

func (d *FormData) normalize() {
	d.ZipCode = strings.TrimSpace(d.ZipCode)
	d.Email = strings.TrimSpace(d.Email)
	d.LookupEmail = strings.TrimSpace(d.LookupEmail)
	d.PromoCode = strings.ToUpper(strings.TrimSpace(d.PromoCode))
	d.Street = strings.TrimSpace(d.Street)
	d.City = strings.TrimSpace(d.City)
}

// ScheduledDate дата уборки в указанном часовом поясе
func (d *FormData) ScheduledDate(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(domain.DateFormat, d.ServiceDate, loc)
}
