package leads

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
	"github.com/m04kA/SMC-CleaningBooking/internal/integrations/pricing"
	leadRepo "github.com/m04kA/SMC-CleaningBooking/internal/infra/storage/lead"
	"github.com/m04kA/SMC-CleaningBooking/internal/service/leads/models"
	"github.com/m04kA/SMC-CleaningBooking/internal/usecase/confirm_booking"
	"github.com/m04kA/SMC-CleaningBooking/pkg/ptr"
)

// Операции для метрик сохранения
const (
	operationCreate = "create"
	operationUpdate = "update"
)

// returningLookupLimit сколько прошлых объектов показывать повторному клиенту
const returningLookupLimit = 5

// Service сервис жизненного цикла лида: черновик -> подтвержденное бронирование
type Service struct {
	leadRepo       LeadRepository
	confirmBooking ConfirmBookingUseCase
	calculator     PriceCalculator
	promotions     PromoValidator
	metrics        Metrics
	timeProvider   TimeProvider
	location       *time.Location
	logger         Logger
}

// NewService создает новый экземпляр сервиса лидов
func NewService(
	leadRepo LeadRepository,
	confirmBooking ConfirmBookingUseCase,
	calculator PriceCalculator,
	promotions PromoValidator,
	metrics Metrics,
	location *time.Location,
	logger Logger,
) *Service {
	if location == nil {
		location = time.UTC
	}
	return &Service{
		leadRepo:       leadRepo,
		confirmBooking: confirmBooking,
		calculator:     calculator,
		promotions:     promotions,
		metrics:        metrics,
		timeProvider:   &RealTimeProvider{},
		location:       location,
		logger:         logger,
	}
}

// Quote считает цену уборки с учетом промокода
// Пустой промокод не является ошибкой
func (s *Service) Quote(fields *domain.Lead) (*models.Quote, error) {
	subtotal := s.calculator.Quote(pricing.QuoteInput{
		ServiceType: fields.ServiceType,
		Intensity:   fields.Intensity,
		Frequency:   fields.Frequency,
		Bedrooms:    fields.Bedrooms,
		Bathrooms:   fields.Bathrooms,
		SquareFeet:  fields.SquareFeet,
		UnitCount:   fields.UnitCount,
		Extras:      fields.Extras,
	})

	quote := &models.Quote{Subtotal: subtotal, Total: subtotal}

	code := strings.TrimSpace(ptr.Value(fields.PromoCode))
	if code == "" {
		return quote, nil
	}

	discount, err := s.promotions.Validate(code, s.timeProvider.Now())
	if err != nil {
		s.logger.Warn("Quote: promo code=%s rejected: %v", code, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidPromoCode, err)
	}

	quote.Total = pricing.Round(discount.Apply(subtotal))
	quote.Discount = pricing.Round(subtotal - quote.Total)
	quote.PromoCode = &discount.Code
	return quote, nil
}

// CreateLead создает черновик лида и возвращает его идентификатор
func (s *Service) CreateLead(ctx context.Context, fields *domain.Lead) (uuid.UUID, error) {
	s.logger.Info("CreateLead: creating draft for email=%s", fields.Email)

	// 1. Валидируем обязательные поля
	if strings.TrimSpace(fields.Email) == "" {
		s.logger.Warn("CreateLead: email is empty")
		return uuid.Nil, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}

	// 2. Новый лид всегда начинается как черновик
	lead := *fields
	lead.ID = uuid.Nil
	lead.Status = domain.LeadStatusDraft
	lead.StaffID = nil
	lead.BookedAt = nil

	created, err := s.leadRepo.Create(ctx, &lead)
	s.metrics.ObserveLeadSave(operationCreate, err)
	if err != nil {
		s.logger.Error("CreateLead: failed to create lead: %v", err)
		return uuid.Nil, fmt.Errorf("%w: CreateLead - create: %v", ErrInternal, err)
	}

	s.logger.Info("CreateLead: lead id=%s created", created.ID)
	return created.ID, nil
}

// UpdateLead перезаписывает данные черновика (last write wins)
func (s *Service) UpdateLead(ctx context.Context, id uuid.UUID, fields *domain.Lead) error {
	s.logger.Info("UpdateLead: updating lead id=%s", id)

	lead := *fields
	lead.ID = id

	err := s.leadRepo.Update(ctx, &lead)
	s.metrics.ObserveLeadSave(operationUpdate, err)
	if err != nil {
		if errors.Is(err, leadRepo.ErrLeadNotDraft) {
			s.logger.Warn("UpdateLead: lead id=%s is not a draft", id)
			return ErrLeadNotDraft
		}
		s.logger.Error("UpdateLead: failed to update lead id=%s: %v", id, err)
		return fmt.Errorf("%w: UpdateLead - update: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateLead: lead id=%s updated", id)
	return nil
}

// Finalize подтверждает лид с финальным состоянием мастера
func (s *Service) Finalize(ctx context.Context, id uuid.UUID, fields *domain.Lead) (*domain.Lead, error) {
	s.logger.Info("Finalize: confirming lead id=%s", id)

	resp, err := s.confirmBooking.Execute(ctx, &confirm_booking.Request{LeadID: id, Fields: fields})
	if err != nil {
		switch {
		case errors.Is(err, confirm_booking.ErrLeadNotFound):
			return nil, ErrLeadNotFound
		case errors.Is(err, confirm_booking.ErrAlreadyBooked):
			return nil, ErrAlreadyBooked
		case errors.Is(err, confirm_booking.ErrDateUnavailable),
			errors.Is(err, confirm_booking.ErrInvalidTimeSlot),
			errors.Is(err, confirm_booking.ErrSlotTaken),
			errors.Is(err, confirm_booking.ErrIncomplete),
			errors.Is(err, confirm_booking.ErrLeadAbandoned):
			s.logger.Warn("Finalize: lead id=%s rejected: %v", id, err)
			return nil, fmt.Errorf("%w: %v", ErrBookingRejected, err)
		default:
			s.logger.Error("Finalize: failed to confirm lead id=%s: %v", id, err)
			return nil, fmt.Errorf("%w: Finalize - confirm: %v", ErrInternal, err)
		}
	}

	s.logger.Info("Finalize: lead id=%s booked", id)
	return resp.Lead, nil
}

// GetByID возвращает лид
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Lead, error) {
	lead, err := s.leadRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, leadRepo.ErrLeadNotFound) {
			s.logger.Warn("GetByID: lead id=%s not found", id)
			return nil, ErrLeadNotFound
		}
		s.logger.Error("GetByID: failed to get lead id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - get lead: %v", ErrInternal, err)
	}
	return lead, nil
}

// GetLead возвращает лид для администратора
func (s *Service) GetLead(ctx context.Context, id uuid.UUID) (*models.LeadResponse, error) {
	lead, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return models.FromDomainLead(lead, s.location), nil
}

// FindReturningCustomer возвращает последние подтвержденные заказы клиента по email
// Один объект (адрес) попадает в результат один раз, берется самый свежий заказ
func (s *Service) FindReturningCustomer(ctx context.Context, email string) ([]*domain.Lead, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}

	leads, err := s.leadRepo.List(ctx, domain.LeadsFilter{
		Email:    &email,
		Statuses: []domain.LeadStatus{domain.LeadStatusBooked},
		Limit:    returningLookupLimit * 4,
	})
	if err != nil {
		s.logger.Error("FindReturningCustomer: failed to list leads: %v", err)
		return nil, fmt.Errorf("%w: FindReturningCustomer - list: %v", ErrInternal, err)
	}

	seen := make(map[string]struct{}, len(leads))
	result := make([]*domain.Lead, 0, returningLookupLimit)
	for _, l := range leads {
		key := strings.ToLower(l.Street + "|" + l.City + "|" + l.ZipCode)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, l)
		if len(result) == returningLookupLimit {
			break
		}
	}

	s.logger.Info("FindReturningCustomer: found %d properties", len(result))
	return result, nil
}

// AssignStaff назначает сотрудника на лид
func (s *Service) AssignStaff(ctx context.Context, id uuid.UUID, req *models.AssignStaffRequest) error {
	if req.StaffID != nil && *req.StaffID <= 0 {
		return fmt.Errorf("%w: staffId must be positive", ErrInvalidInput)
	}

	if err := s.leadRepo.AssignStaff(ctx, id, req.StaffID); err != nil {
		if errors.Is(err, leadRepo.ErrLeadNotFound) {
			s.logger.Warn("AssignStaff: lead id=%s not found", id)
			return ErrLeadNotFound
		}
		s.logger.Error("AssignStaff: failed to assign staff to lead id=%s: %v", id, err)
		return fmt.Errorf("%w: AssignStaff - assign: %v", ErrInternal, err)
	}

	s.logger.Info("AssignStaff: lead id=%s staff=%v", id, ptr.Value(req.StaffID))
	return nil
}
