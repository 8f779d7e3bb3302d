package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
	calendarRepo "github.com/m04kA/SMC-CleaningBooking/internal/infra/storage/calendar"
	"github.com/m04kA/SMC-CleaningBooking/internal/service/calendar/models"
)

// Service сервис администрирования календаря: расписание недели,
// блокировки дат и глобальный лимит
type Service struct {
	calendarRepo CalendarRepository
	leadRepo     LeadRepository
	location     *time.Location
	logger       Logger
}

// NewService создает новый экземпляр сервиса календаря
func NewService(
	calendarRepo CalendarRepository,
	leadRepo LeadRepository,
	location *time.Location,
	logger Logger,
) *Service {
	if location == nil {
		location = time.UTC
	}
	return &Service{
		calendarRepo: calendarRepo,
		leadRepo:     leadRepo,
		location:     location,
		logger:       logger,
	}
}

// GetMonthEvents возвращает блокировки и подтвержденные лиды за месяц
func (s *Service) GetMonthEvents(ctx context.Context, month time.Time) (*models.MonthEventsResponse, error) {
	from, to := domain.MonthBounds(time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, s.location))
	s.logger.Info("GetMonthEvents: loading events from=%s to=%s", from.Format(domain.DateFormat), to.Format(domain.DateFormat))

	var (
		blocked []*domain.BlockedDate
		leads   []*domain.Lead
	)

	// 1. Загружаем блокировки и лиды параллельно
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		blocked, err = s.calendarRepo.ListBlockedDates(gctx, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		leads, err = s.leadRepo.List(gctx, domain.LeadsFilter{
			From:     &from,
			To:       &to,
			Statuses: []domain.LeadStatus{domain.LeadStatusBooked},
		})
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("GetMonthEvents: failed to load events: %v", err)
		return nil, fmt.Errorf("%w: GetMonthEvents - load events: %v", ErrInternal, err)
	}

	// 2. Собираем ответ
	resp := &models.MonthEventsResponse{
		Month:        from.Format(domain.MonthFormat),
		BlockedDates: make([]models.BlockedDateResponse, 0, len(blocked)),
		Bookings:     make([]models.BookingEvent, 0, len(leads)),
	}
	for _, b := range blocked {
		resp.BlockedDates = append(resp.BlockedDates, models.FromDomainBlockedDate(b))
	}
	for _, l := range leads {
		resp.Bookings = append(resp.Bookings, models.FromDomainLead(l, s.location))
	}

	s.logger.Info("GetMonthEvents: month=%s blocked=%d bookings=%d", resp.Month, len(blocked), len(leads))
	return resp, nil
}

// BlockDate закрывает дату для записи
func (s *Service) BlockDate(ctx context.Context, req *models.BlockDateRequest) (*models.BlockedDateResponse, error) {
	s.logger.Info("BlockDate: blocking date=%s", req.Date.Format(domain.DateFormat))

	// 1. Валидируем причину
	if len([]rune(req.Reason)) > domain.MaxBlockedReasonLength {
		s.logger.Warn("BlockDate: reason is too long: %d", len([]rune(req.Reason)))
		return nil, fmt.Errorf("%w: reason must be at most %d characters", ErrInvalidInput, domain.MaxBlockedReasonLength)
	}

	// 2. Сохраняем блокировку на календарный день в часовом поясе сервиса
	day := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, s.location)
	blocked, err := s.calendarRepo.AddBlockedDate(ctx, day, req.Reason)
	if err != nil {
		if errors.Is(err, calendarRepo.ErrBlockedDateExists) {
			s.logger.Warn("BlockDate: date=%s is already blocked", day.Format(domain.DateFormat))
			return nil, ErrDateAlreadyBlocked
		}
		s.logger.Error("BlockDate: failed to block date=%s: %v", day.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: BlockDate - add blocked date: %v", ErrInternal, err)
	}

	s.logger.Info("BlockDate: date=%s blocked with id=%d", day.Format(domain.DateFormat), blocked.ID)
	resp := models.FromDomainBlockedDate(blocked)
	return &resp, nil
}

// UnblockDate снимает блокировку по идентификатору
func (s *Service) UnblockDate(ctx context.Context, id int64) error {
	s.logger.Info("UnblockDate: removing blocked date id=%d", id)

	if err := s.calendarRepo.RemoveBlockedDate(ctx, id); err != nil {
		if errors.Is(err, calendarRepo.ErrBlockedDateNotFound) {
			s.logger.Warn("UnblockDate: blocked date id=%d not found", id)
			return ErrBlockedDateNotFound
		}
		s.logger.Error("UnblockDate: failed to remove id=%d: %v", id, err)
		return fmt.Errorf("%w: UnblockDate - remove blocked date: %v", ErrInternal, err)
	}

	s.logger.Info("UnblockDate: blocked date id=%d removed", id)
	return nil
}

// GetCalendarSettings возвращает расписание недели и глобальный лимит
// Пустая таблица политик заполняется стандартной неделей
func (s *Service) GetCalendarSettings(ctx context.Context) (*models.SettingsResponse, error) {
	// 1. Загружаем политики
	policies, err := s.calendarRepo.ListDayPolicies(ctx)
	if err != nil {
		s.logger.Error("GetCalendarSettings: failed to list policies: %v", err)
		return nil, fmt.Errorf("%w: GetCalendarSettings - list policies: %v", ErrInternal, err)
	}

	// 2. При пустой таблице засеваем стандартную неделю и перечитываем
	if len(policies) == 0 {
		if _, err := s.calendarRepo.SeedDefaultDayPolicies(ctx); err != nil {
			s.logger.Error("GetCalendarSettings: failed to seed defaults: %v", err)
			return nil, fmt.Errorf("%w: GetCalendarSettings - seed defaults: %v", ErrInternal, err)
		}
		policies, err = s.calendarRepo.ListDayPolicies(ctx)
		if err != nil {
			s.logger.Error("GetCalendarSettings: failed to list policies after seed: %v", err)
			return nil, fmt.Errorf("%w: GetCalendarSettings - list policies: %v", ErrInternal, err)
		}
	}

	// 3. Глобальный лимит
	override, err := s.calendarRepo.GetCapacityOverride(ctx)
	if err != nil {
		s.logger.Error("GetCalendarSettings: failed to get capacity override: %v", err)
		return nil, fmt.Errorf("%w: GetCalendarSettings - get override: %v", ErrInternal, err)
	}

	resp := &models.SettingsResponse{
		Days:             make([]models.DayPolicyResponse, 0, len(policies)),
		CapacityOverride: override,
	}
	for _, p := range policies {
		resp.Days = append(resp.Days, models.FromDomainDayPolicy(p))
	}
	return resp, nil
}

// UpdateCalendarSettings обновляет расписание переданных дней недели
func (s *Service) UpdateCalendarSettings(ctx context.Context, req *models.UpdateSettingsRequest) (*models.SettingsResponse, error) {
	s.logger.Info("UpdateCalendarSettings: updating %d days", len(req.Days))

	// 1. Валидируем входные данные
	policies, err := validateDayPolicies(req.Days)
	if err != nil {
		s.logger.Warn("UpdateCalendarSettings: validation failed: %v", err)
		return nil, err
	}

	// 2. Сохраняем
	if err := s.calendarRepo.UpsertDayPolicies(ctx, policies); err != nil {
		s.logger.Error("UpdateCalendarSettings: failed to upsert policies: %v", err)
		return nil, fmt.Errorf("%w: UpdateCalendarSettings - upsert: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateCalendarSettings: %d days updated", len(policies))

	// 3. Возвращаем актуальное расписание
	return s.GetCalendarSettings(ctx)
}

// InitializeDefaultSettings засевает стандартную неделю, если политик еще нет
// Возвращает true, если данные были созданы
func (s *Service) InitializeDefaultSettings(ctx context.Context) (bool, error) {
	seeded, err := s.calendarRepo.SeedDefaultDayPolicies(ctx)
	if err != nil {
		s.logger.Error("InitializeDefaultSettings: failed to seed defaults: %v", err)
		return false, fmt.Errorf("%w: InitializeDefaultSettings - seed: %v", ErrInternal, err)
	}

	if seeded {
		s.logger.Info("InitializeDefaultSettings: default week created")
	} else {
		s.logger.Info("InitializeDefaultSettings: policies already exist, nothing to do")
	}
	return seeded, nil
}

// SetCapacityOverride задает глобальный дневной лимит, nil сбрасывает его
func (s *Service) SetCapacityOverride(ctx context.Context, value *int) error {
	if value != nil && (*value < 0 || *value > domain.MaxDailyCapacity) {
		s.logger.Warn("SetCapacityOverride: value=%d out of range", *value)
		return fmt.Errorf("%w: capacity must be between 0 and %d", ErrInvalidInput, domain.MaxDailyCapacity)
	}

	if err := s.calendarRepo.SetCapacityOverride(ctx, value); err != nil {
		s.logger.Error("SetCapacityOverride: failed to save: %v", err)
		return fmt.Errorf("%w: SetCapacityOverride - save: %v", ErrInternal, err)
	}

	if value == nil {
		s.logger.Info("SetCapacityOverride: override cleared")
	} else {
		s.logger.Info("SetCapacityOverride: override set to %d", *value)
	}
	return nil
}
