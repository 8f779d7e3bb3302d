package wizard

import "github.com/m04kA/SMC-CleaningBooking/internal/domain"

// defaultGraph граф шагов мастера
//
// Новый клиент:
//
//	zip -> service_type -> residential_details -> extras -> frequency -> contact_quote
//	                    -> commercial_details -> frequency -> contact_quote
//	                    -> property_management_details -> contact_quote
//	contact_quote -> schedule -> address -> review -> success
//
// Повторный клиент:
//
//	returning_lookup -> property_select -> quick_reconfigure -> schedule -> ...
func defaultGraph() map[StepID]*Step {
	steps := []*Step{
		{
			ID:     StepZip,
			Fields: []string{"ZipCode"},
			Next:   to(StepServiceType),
		},
		{
			ID:       StepServiceType,
			Fields:   []string{"ServiceType"},
			Next:     nextByServiceType,
			Guard:    hasZip,
			Fallback: StepZip,
		},
		{
			ID:       StepResidentialDetails,
			Fields:   []string{"Intensity", "Bedrooms", "Bathrooms"},
			Next:     to(StepExtras),
			Guard:    isServiceType(domain.ServiceTypeResidential),
			Fallback: StepServiceType,
		},
		{
			ID:       StepCommercialDetails,
			Fields:   []string{"BusinessName", "SquareFeet", "Intensity"},
			Next:     to(StepFrequency),
			Guard:    isServiceType(domain.ServiceTypeCommercial),
			Fallback: StepServiceType,
		},
		{
			ID:       StepPropertyManagementDetails,
			Fields:   []string{"BusinessName", "UnitCount"},
			Next:     to(StepContactQuote),
			Guard:    isServiceType(domain.ServiceTypePropertyManagement),
			Fallback: StepServiceType,
		},
		{
			ID:       StepExtras,
			Fields:   []string{"Extras"},
			Next:     to(StepFrequency),
			Guard:    isServiceType(domain.ServiceTypeResidential),
			Fallback: StepServiceType,
		},
		{
			ID:       StepFrequency,
			Fields:   []string{"Frequency"},
			Next:     to(StepContactQuote),
			Guard:    hasServiceType,
			Fallback: StepServiceType,
		},
		{
			ID:       StepContactQuote,
			Fields:   []string{"FirstName", "LastName", "Email", "Phone", "PromoCode"},
			Next:     to(StepSchedule),
			Guard:    hasServiceType,
			Fallback: StepServiceType,
			OnLeave:  EffectSaveLead,
		},
		{
			ID:       StepSchedule,
			Fields:   []string{"ServiceDate", "ServiceTime"},
			Next:     to(StepAddress),
			Guard:    hasEmail,
			Fallback: StepContactQuote,
			OnLeave:  EffectReserveSlot,
		},
		{
			ID:       StepAddress,
			Fields:   []string{"Street", "City"},
			Next:     to(StepReview),
			Guard:    hasSchedule,
			Fallback: StepSchedule,
			OnLeave:  EffectSaveLead,
		},
		{
			ID:       StepReview,
			Fields:   bookingFields,
			Next:     to(StepSuccess),
			Guard:    hasAddress,
			Fallback: StepAddress,
			OnLeave:  EffectFinalize,
		},
		{
			ID:       StepSuccess,
			Next:     terminal,
			Guard:    isBooked,
			Fallback: StepReview,
		},
		{
			ID:      StepReturningLookup,
			Fields:  []string{"LookupEmail"},
			Next:    to(StepPropertySelect),
			OnLeave: EffectLookupCustomer,
		},
		{
			ID:       StepPropertySelect,
			Fields:   []string{"SelectedLeadID"},
			Next:     to(StepQuickReconfigure),
			Guard:    hasPreviousProperties,
			Fallback: StepReturningLookup,
			OnLeave:  EffectPrefillProperty,
		},
		{
			ID:       StepQuickReconfigure,
			Fields:   []string{"Intensity", "Frequency", "Extras"},
			Next:     to(StepSchedule),
			Guard:    hasSelectedProperty,
			Fallback: StepPropertySelect,
			OnLeave:  EffectSaveLead,
		},
	}

	graph := make(map[StepID]*Step, len(steps))
	for _, s := range steps {
		graph[s.ID] = s
	}
	return graph
}

// bookingFields поля, без которых лид нельзя подтвердить
// Проверяются на review для обеих веток мастера
var bookingFields = []string{
	"ZipCode", "ServiceType",
	"FirstName", "LastName", "Email", "Phone",
	"ServiceDate", "ServiceTime",
	"Street", "City",
}

func nextByServiceType(d *FormData) (StepID, bool) {
	switch d.ServiceType {
	case domain.ServiceTypeCommercial:
		return StepCommercialDetails, true
	case domain.ServiceTypePropertyManagement:
		return StepPropertyManagementDetails, true
	default:
		return StepResidentialDetails, true
	}
}

// Guards

func hasZip(d *FormData) bool {
	return d.ZipCode != ""
}

func hasServiceType(d *FormData) bool {
	return d.ServiceType.IsValid()
}

func isServiceType(t domain.ServiceType) func(*FormData) bool {
	return func(d *FormData) bool { return d.ServiceType == t }
}

func hasEmail(d *FormData) bool {
	return d.Email != ""
}

func hasSchedule(d *FormData) bool {
	return d.ServiceDate != "" && d.ServiceTime != ""
}

func hasAddress(d *FormData) bool {
	return d.Street != "" && d.City != ""
}

func isBooked(d *FormData) bool {
	return d.Booked
}

func hasPreviousProperties(d *FormData) bool {
	return len(d.PreviousProperties) > 0
}

func hasSelectedProperty(d *FormData) bool {
	return d.SelectedLeadID != ""
}
