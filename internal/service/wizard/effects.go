package wizard

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
	"github.com/m04kA/SMC-CleaningBooking/internal/service/leads"
	"github.com/m04kA/SMC-CleaningBooking/internal/usecase/get_available_slots"
	flow "github.com/m04kA/SMC-CleaningBooking/internal/wizard"
	"github.com/m04kA/SMC-CleaningBooking/pkg/types"
)

func (s *Service) runEffect(ctx context.Context, state *flow.State, effect flow.Effect) error {
	switch effect {
	case flow.EffectSaveLead:
		return s.saveLead(ctx, state)
	case flow.EffectReserveSlot:
		if err := s.checkSlot(ctx, state); err != nil {
			return err
		}
		return s.saveLead(ctx, state)
	case flow.EffectFinalize:
		return s.finalize(ctx, state)
	case flow.EffectLookupCustomer:
		return s.lookupCustomer(ctx, state)
	case flow.EffectPrefillProperty:
		return s.prefillProperty(ctx, state)
	default:
		return nil
	}
}

// saveLead пересчитывает цену и создает или обновляет черновик
// Ошибка сохранения не блокирует мастер, лид будет создан при подтверждении
func (s *Service) saveLead(ctx context.Context, state *flow.State) error {
	fields := leadFromForm(&state.Data, s.location)

	quote, err := s.leads.Quote(fields)
	if err != nil {
		if errors.Is(err, leads.ErrInvalidPromoCode) {
			return flow.NewValidationError("promoCode", "промокод недействителен или истек")
		}
		return fmt.Errorf("%w: quote: %v", ErrInternal, err)
	}
	state.Data.TotalPrice = quote.Total
	state.Data.Discount = quote.Discount
	fields.TotalPrice = quote.Total
	fields.PromoCode = quote.PromoCode

	leadID, ok := s.sessionLeadID(state)
	if !ok {
		id, err := s.leads.CreateLead(ctx, fields)
		if err != nil {
			s.logger.Warn("saveLead: session=%s failed to create lead: %v", state.SessionID, err)
			return nil
		}
		state.Data.LeadID = id.String()
		s.logger.Info("saveLead: session=%s lead=%s created", state.SessionID, id)
		return nil
	}

	if err := s.leads.UpdateLead(ctx, leadID, fields); err != nil {
		s.logger.Warn("saveLead: session=%s failed to update lead=%s: %v", state.SessionID, leadID, err)
	}
	return nil
}

// checkSlot проверяет, что выбранное время сейчас предлагается для даты
// Черновик текущей сессии не занимает вместимость
func (s *Service) checkSlot(ctx context.Context, state *flow.State) error {
	date, err := state.Data.ScheduledDate(s.location)
	if err != nil {
		return flow.NewValidationError("serviceDate", "некорректная дата")
	}

	now := s.timeProvider.Now().In(s.location)
	today, _ := domain.DayBounds(now)
	if date.Before(today) {
		return flow.NewValidationError("serviceDate", "дата уже прошла")
	}

	req := &get_available_slots.Request{Date: date}
	if leadID, ok := s.sessionLeadID(state); ok {
		req.ExcludeLeadID = &leadID
	}

	resp, err := s.availability.Execute(ctx, req)
	if err != nil {
		s.logger.Error("checkSlot: session=%s date=%s: %v", state.SessionID, state.Data.ServiceDate, err)
		return fmt.Errorf("%w: %v", ErrSlotsUnavailable, err)
	}

	if len(resp.Slots) == 0 {
		return flow.NewValidationError("serviceDate", fmt.Sprintf("дата недоступна для записи: %s", resp.Reason))
	}
	if !slices.Contains(resp.Slots, types.TimeString(state.Data.ServiceTime)) {
		return flow.NewValidationError("serviceTime", "выбранное время недоступно, выберите другое")
	}
	return nil
}

// finalize подтверждает бронирование с полным состоянием мастера
func (s *Service) finalize(ctx context.Context, state *flow.State) error {
	fields := leadFromForm(&state.Data, s.location)

	leadID, ok := s.sessionLeadID(state)
	if !ok {
		// Черновик не удалось сохранить раньше, создаем его сейчас
		id, err := s.leads.CreateLead(ctx, fields)
		if err != nil {
			s.logger.Error("finalize: session=%s failed to create lead: %v", state.SessionID, err)
			return fmt.Errorf("%w: %v", ErrBookingFailed, err)
		}
		leadID = id
		state.Data.LeadID = id.String()
	}

	lead, err := s.leads.Finalize(ctx, leadID, fields)
	if err != nil {
		switch {
		case errors.Is(err, leads.ErrAlreadyBooked):
			// Повторная отправка: лид этой сессии уже подтвержден
			s.logger.Info("finalize: session=%s lead=%s already booked", state.SessionID, leadID)
			state.Data.Booked = true
			return nil
		case errors.Is(err, leads.ErrBookingRejected):
			s.logger.Warn("finalize: session=%s lead=%s rejected: %v", state.SessionID, leadID, err)
			return flow.NewValidationError("serviceTime", "выбранное время больше недоступно, выберите другое")
		default:
			s.logger.Error("finalize: session=%s lead=%s failed: %v", state.SessionID, leadID, err)
			return fmt.Errorf("%w: %v", ErrBookingFailed, err)
		}
	}

	state.Data.Booked = true
	state.Data.TotalPrice = lead.TotalPrice
	s.logger.Info("finalize: session=%s lead=%s booked", state.SessionID, leadID)
	return nil
}

// lookupCustomer ищет прошлые объекты повторного клиента
func (s *Service) lookupCustomer(ctx context.Context, state *flow.State) error {
	found, err := s.leads.FindReturningCustomer(ctx, state.Data.LookupEmail)
	if err != nil {
		if errors.Is(err, leads.ErrInvalidInput) {
			return flow.NewValidationError("lookupEmail", "некорректный email")
		}
		s.logger.Error("lookupCustomer: session=%s failed: %v", state.SessionID, err)
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
	if len(found) == 0 {
		return flow.NewValidationError("lookupEmail", "прошлые заказы с этим email не найдены")
	}

	state.Data.PreviousProperties = propertySummaries(found, s.location)
	state.Data.Email = state.Data.LookupEmail
	state.Data.CustomerType = domain.CustomerTypeReturning
	return nil
}

// prefillProperty заполняет форму данными выбранного прошлого заказа
func (s *Service) prefillProperty(ctx context.Context, state *flow.State) error {
	selected := state.Data.SelectedLeadID
	known := slices.ContainsFunc(state.Data.PreviousProperties, func(p flow.PropertySummary) bool {
		return p.LeadID == selected
	})
	if !known {
		return flow.NewValidationError("selectedLeadId", "выберите объект из списка")
	}

	id, err := uuid.Parse(selected)
	if err != nil {
		return flow.NewValidationError("selectedLeadId", "выберите объект из списка")
	}

	lead, err := s.leads.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("prefillProperty: session=%s lead=%s: %v", state.SessionID, id, err)
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}

	prefillFromLead(&state.Data, lead)
	return nil
}

// sessionLeadID черновик, созданный этой сессией
func (s *Service) sessionLeadID(state *flow.State) (uuid.UUID, bool) {
	if state.Data.LeadID == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(state.Data.LeadID)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
