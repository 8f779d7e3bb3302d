package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CleaningBooking/pkg/types"
)

// LeadStatus represents the lifecycle status of a lead
type LeadStatus string

const (
	LeadStatusDraft     LeadStatus = "draft"
	LeadStatusBooked    LeadStatus = "booked"
	LeadStatusAbandoned LeadStatus = "abandoned"
)

// ServiceType тип уборки, определяет ветку мастера
type ServiceType string

const (
	ServiceTypeResidential        ServiceType = "residential"
	ServiceTypeCommercial         ServiceType = "commercial"
	ServiceTypePropertyManagement ServiceType = "property_management"
)

// Intensity интенсивность уборки
type Intensity string

const (
	IntensityStandard Intensity = "standard"
	IntensityDeep     Intensity = "deep"
	IntensityMoveOut  Intensity = "move_out"
)

// Frequency периодичность уборки
type Frequency string

const (
	FrequencyOneTime  Frequency = "one_time"
	FrequencyWeekly   Frequency = "weekly"
	FrequencyBiweekly Frequency = "biweekly"
	FrequencyMonthly  Frequency = "monthly"
)

// CustomerType новый или повторный клиент
type CustomerType string

const (
	CustomerTypeNew       CustomerType = "new"
	CustomerTypeReturning CustomerType = "returning"
)

// Lead represents a customer booking request, draft until confirmed
type Lead struct {
	ID     uuid.UUID
	Status LeadStatus

	// Контакты
	FirstName string
	LastName  string
	Email     string
	Phone     string

	// Адрес объекта
	ZipCode string
	Street  string
	City    string

	// Параметры уборки
	ServiceType  ServiceType
	Intensity    Intensity
	Frequency    Frequency
	Bedrooms     int
	Bathrooms    int
	SquareFeet   int
	UnitCount    int
	BusinessName string
	Extras       []string
	PromoCode    *string
	TotalPrice   float64

	ServiceDate *time.Time
	ServiceTime *types.TimeString

	// Details снимок состояния мастера (JSON)
	Details json.RawMessage

	StaffID      *int64
	CustomerType CustomerType

	BookedAt  *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsDraft returns true while the lead can still be edited by the wizard
func (l *Lead) IsDraft() bool {
	return l.Status == LeadStatusDraft
}

// IsBooked returns true if the lead was confirmed
func (l *Lead) IsBooked() bool {
	return l.Status == LeadStatusBooked
}

// HasSchedule returns true if both service date and time are set
func (l *Lead) HasSchedule() bool {
	return l.ServiceDate != nil && l.ServiceTime != nil && !l.ServiceTime.IsZero()
}

// FullName возвращает имя и фамилию клиента
func (l *Lead) FullName() string {
	switch {
	case l.FirstName == "":
		return l.LastName
	case l.LastName == "":
		return l.FirstName
	default:
		return l.FirstName + " " + l.LastName
	}
}

// IsValid проверяет, что статус входит в допустимый набор
func (s LeadStatus) IsValid() bool {
	switch s {
	case LeadStatusDraft, LeadStatusBooked, LeadStatusAbandoned:
		return true
	}
	return false
}

// IsValid проверяет тип уборки
func (t ServiceType) IsValid() bool {
	switch t {
	case ServiceTypeResidential, ServiceTypeCommercial, ServiceTypePropertyManagement:
		return true
	}
	return false
}

// LeadsFilter фильтр для выборки лидов
type LeadsFilter struct {
	From      *time.Time   // Начало периода по service_date (включительно)
	To        *time.Time   // Конец периода по service_date (включительно)
	Statuses  []LeadStatus // Пустой список - все статусы
	Email     *string      // Поиск повторного клиента
	ExcludeID *uuid.UUID   // Исключить лид (при повторной проверке вместимости)
	Limit     uint64
}

// OverwriteWizardFields переносит данные мастера из src
// Статус, сотрудник, тип клиента и даты жизненного цикла не меняются
func (l *Lead) OverwriteWizardFields(src *Lead) {
	l.FirstName = src.FirstName
	l.LastName = src.LastName
	l.Email = src.Email
	l.Phone = src.Phone
	l.ZipCode = src.ZipCode
	l.Street = src.Street
	l.City = src.City
	l.ServiceType = src.ServiceType
	l.Intensity = src.Intensity
	l.Frequency = src.Frequency
	l.Bedrooms = src.Bedrooms
	l.Bathrooms = src.Bathrooms
	l.SquareFeet = src.SquareFeet
	l.UnitCount = src.UnitCount
	l.BusinessName = src.BusinessName
	l.Extras = src.Extras
	l.PromoCode = src.PromoCode
	l.TotalPrice = src.TotalPrice
	l.ServiceDate = src.ServiceDate
	l.ServiceTime = src.ServiceTime
	l.Details = src.Details
}
