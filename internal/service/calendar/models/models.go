package models

import (
	"time"

	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
	"github.com/m04kA/SMC-CleaningBooking/pkg/types"
)

// Request модели

// DayPolicyInput настройки одного дня недели
type DayPolicyInput struct {
	Weekday       int    `json:"weekday"` // 0 - воскресенье
	IsOpen        bool   `json:"isOpen"`
	StartTime     string `json:"startTime"` // HH:MM
	EndTime       string `json:"endTime"`   // HH:MM
	DailyCapacity int    `json:"dailyCapacity"`
}

// UpdateSettingsRequest запрос на обновление расписания недели
// Можно передать любой набор дней, остальные не меняются
type UpdateSettingsRequest struct {
	Days []DayPolicyInput `json:"days"`
}

// BlockDateRequest запрос на блокировку даты
type BlockDateRequest struct {
	Date   time.Time
	Reason string
}

// Response модели

// DayPolicyResponse настройки дня недели
type DayPolicyResponse struct {
	Weekday       int              `json:"weekday"`
	IsOpen        bool             `json:"isOpen"`
	StartTime     types.TimeString `json:"startTime"`
	EndTime       types.TimeString `json:"endTime"`
	DailyCapacity int              `json:"dailyCapacity"`
}

// SettingsResponse расписание недели и глобальный лимит
type SettingsResponse struct {
	Days             []DayPolicyResponse `json:"days"`
	CapacityOverride *int                `json:"capacityOverride"`
}

// BlockedDateResponse заблокированная дата
type BlockedDateResponse struct {
	ID     int64  `json:"id"`
	Date   string `json:"date"` // YYYY-MM-DD
	Reason string `json:"reason"`
}

// BookingEvent лид в календаре администратора
type BookingEvent struct {
	LeadID       string            `json:"leadId"`
	Status       string            `json:"status"`
	Date         string            `json:"date"`
	Time         *types.TimeString `json:"time,omitempty"`
	CustomerName string            `json:"customerName"`
	Email        string            `json:"email"`
	Phone        string            `json:"phone"`
	ServiceType  string            `json:"serviceType"`
	Street       string            `json:"street"`
	City         string            `json:"city"`
	TotalPrice   float64           `json:"totalPrice"`
	StaffID      *int64            `json:"staffId,omitempty"`
}

// MonthEventsResponse события месяца для календаря администратора
type MonthEventsResponse struct {
	Month        string                `json:"month"` // YYYY-MM
	BlockedDates []BlockedDateResponse `json:"blockedDates"`
	Bookings     []BookingEvent        `json:"bookings"`
}

// Конвертеры

// FromDomainDayPolicy конвертирует политику дня
func FromDomainDayPolicy(p *domain.DayPolicy) DayPolicyResponse {
	return DayPolicyResponse{
		Weekday:       int(p.Weekday),
		IsOpen:        p.IsOpen,
		StartTime:     p.StartTime,
		EndTime:       p.EndTime,
		DailyCapacity: p.DailyCapacity,
	}
}

// FromDomainBlockedDate конвертирует блокировку
func FromDomainBlockedDate(b *domain.BlockedDate) BlockedDateResponse {
	return BlockedDateResponse{
		ID:     b.ID,
		Date:   b.Date.Format(domain.DateFormat),
		Reason: b.DisplayReason(),
	}
}

// FromDomainLead конвертирует лид в событие календаря
func FromDomainLead(l *domain.Lead, loc *time.Location) BookingEvent {
	event := BookingEvent{
		LeadID:       l.ID.String(),
		Status:       string(l.Status),
		Time:         l.ServiceTime,
		CustomerName: l.FullName(),
		Email:        l.Email,
		Phone:        l.Phone,
		ServiceType:  string(l.ServiceType),
		Street:       l.Street,
		City:         l.City,
		TotalPrice:   l.TotalPrice,
		StaffID:      l.StaffID,
	}
	if l.ServiceDate != nil {
		event.Date = l.ServiceDate.In(loc).Format(domain.DateFormat)
	}
	return event
}

// ToDomainDayPolicy конвертирует входные настройки дня
func (in DayPolicyInput) ToDomainDayPolicy() domain.DayPolicy {
	return domain.DayPolicy{
		Weekday:       time.Weekday(in.Weekday),
		IsOpen:        in.IsOpen,
		StartTime:     types.TimeString(in.StartTime),
		EndTime:       types.TimeString(in.EndTime),
		DailyCapacity: in.DailyCapacity,
	}
}
