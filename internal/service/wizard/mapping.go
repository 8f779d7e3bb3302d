package wizard

import (
	"encoding/json"
	"time"

	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
	flow "github.com/m04kA/SMC-CleaningBooking/internal/wizard"
	"github.com/m04kA/SMC-CleaningBooking/pkg/types"
)

// leadFromForm собирает поля лида из данных мастера
// Незаполненные дата и время остаются nil
func leadFromForm(d *flow.FormData, loc *time.Location) *domain.Lead {
	lead := &domain.Lead{
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		Email:        d.Email,
		Phone:        d.Phone,
		ZipCode:      d.ZipCode,
		Street:       d.Street,
		City:         d.City,
		ServiceType:  d.ServiceType,
		Intensity:    d.Intensity,
		Frequency:    d.Frequency,
		Bedrooms:     d.Bedrooms,
		Bathrooms:    d.Bathrooms,
		SquareFeet:   d.SquareFeet,
		UnitCount:    d.UnitCount,
		BusinessName: d.BusinessName,
		Extras:       d.Extras,
		TotalPrice:   d.TotalPrice,
		CustomerType: d.CustomerType,
	}
	if lead.Extras == nil {
		lead.Extras = []string{}
	}
	if d.PromoCode != "" {
		code := d.PromoCode
		lead.PromoCode = &code
	}

	if d.ServiceDate != "" {
		if date, err := d.ScheduledDate(loc); err == nil {
			lead.ServiceDate = &date
		}
	}
	if d.ServiceTime != "" {
		t := types.TimeString(d.ServiceTime)
		lead.ServiceTime = &t
	}

	// Снимок формы без списка прошлых объектов
	snapshot := d.Clone()
	snapshot.PreviousProperties = nil
	if details, err := json.Marshal(snapshot); err == nil {
		lead.Details = details
	}

	return lead
}

// prefillFromLead переносит в форму объект и параметры прошлого заказа
// Дата, время и промокод выбираются заново
func prefillFromLead(d *flow.FormData, lead *domain.Lead) {
	d.FirstName = lead.FirstName
	d.LastName = lead.LastName
	d.Email = lead.Email
	d.Phone = lead.Phone
	d.ZipCode = lead.ZipCode
	d.Street = lead.Street
	d.City = lead.City
	d.ServiceType = lead.ServiceType
	d.Intensity = lead.Intensity
	d.Frequency = lead.Frequency
	d.Bedrooms = lead.Bedrooms
	d.Bathrooms = lead.Bathrooms
	d.SquareFeet = lead.SquareFeet
	d.UnitCount = lead.UnitCount
	d.BusinessName = lead.BusinessName
	d.Extras = append([]string(nil), lead.Extras...)
	d.ServiceDate = ""
	d.ServiceTime = ""
	d.PromoCode = ""
	d.CustomerType = domain.CustomerTypeReturning
}

// propertySummaries краткое описание прошлых объектов клиента
func propertySummaries(leads []*domain.Lead, loc *time.Location) []flow.PropertySummary {
	result := make([]flow.PropertySummary, 0, len(leads))
	for _, l := range leads {
		summary := flow.PropertySummary{
			LeadID:      l.ID.String(),
			Street:      l.Street,
			City:        l.City,
			ZipCode:     l.ZipCode,
			ServiceType: l.ServiceType,
		}
		if l.ServiceDate != nil {
			summary.LastServiceDate = l.ServiceDate.In(loc).Format(domain.DateFormat)
		}
		result = append(result, summary)
	}
	return result
}
