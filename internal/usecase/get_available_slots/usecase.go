package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
	calendarRepo "github.com/m04kA/SMC-CleaningBooking/internal/infra/storage/calendar"
	"github.com/m04kA/SMC-CleaningBooking/pkg/types"
)

// Исходы расчета для метрик
const (
	outcomeBlocked = "blocked"
	outcomeClosed  = "closed"
	outcomeFull    = "full"
	outcomeOpen    = "open"
	outcomeError   = "error"
)

// UseCase use case для получения доступных слотов
type UseCase struct {
	calendarRepo CalendarRepository
	leadRepo     LeadRepository
	metrics      Metrics
	logger       Logger
	opts         Options
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	calendarRepo CalendarRepository,
	leadRepo LeadRepository,
	metrics Metrics,
	logger Logger,
	opts Options,
) *UseCase {
	if opts.FallbackCapacity <= 0 {
		opts.FallbackCapacity = domain.FallbackDailyCapacity
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}

	return &UseCase{
		calendarRepo: calendarRepo,
		leadRepo:     leadRepo,
		metrics:      metrics,
		logger:       logger,
		opts:         opts,
	}
}

// Execute рассчитывает доступность дня
//
// Порядок проверок (первое терминальное условие завершает расчет):
//  1. блокировка даты
//  2. политика дня недели (с ленивым засевом стандартной недели)
//  3. выходной день
//  4. эффективная вместимость и число занятых лидов
//  5. почасовая сетка без уже занятых слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req == nil || req.Date.IsZero() {
		uc.logger.Warn("GetAvailableSlots: empty date")
		return nil, ErrInvalidInput
	}

	day := uc.calendarDay(req.Date)
	dateStr := day.Format(domain.DateFormat)
	uc.logger.Info("GetAvailableSlots: date=%s, weekday=%s", dateStr, day.Weekday())

	resp, outcome, err := uc.resolve(ctx, day, req.ExcludeLeadID)
	if err != nil {
		uc.observe(outcomeError)
		uc.logger.Error("GetAvailableSlots: failed for date=%s: %v", dateStr, err)
		return nil, fmt.Errorf("%w: %v", ErrAvailabilityUnresolvable, err)
	}

	uc.observe(outcome)
	uc.logger.Info("GetAvailableSlots: date=%s, outcome=%s, slots=%d, booked=%d/%d",
		dateStr, outcome, len(resp.Slots), resp.BookedCount, resp.EffectiveCapacity)

	return resp, nil
}

func (uc *UseCase) resolve(ctx context.Context, day time.Time, excludeID *uuid.UUID) (*Response, string, error) {
	resp := &Response{
		Date:  day,
		Slots: []types.TimeString{},
	}

	// 1. Заблокированная дата закрыта независимо от политики
	blocked, err := uc.calendarRepo.GetBlockedDateByDay(ctx, day)
	if err != nil && !errors.Is(err, calendarRepo.ErrBlockedDateNotFound) {
		return nil, "", fmt.Errorf("get blocked date: %w", err)
	}
	if blocked != nil {
		resp.Reason = blocked.DisplayReason()
		return resp, outcomeBlocked, nil
	}

	// 2. Политика дня недели
	policy, err := uc.dayPolicy(ctx, day.Weekday())
	if err != nil {
		return nil, "", err
	}

	// 3. Выходной (или политику так и не удалось получить после засева)
	if policy == nil || !policy.IsOpen {
		resp.Reason = domain.ReasonClosed
		return resp, outcomeClosed, nil
	}
	resp.Open = true

	// 4. Вместимость
	override, err := uc.calendarRepo.GetCapacityOverride(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("get capacity override: %w", err)
	}
	resp.EffectiveCapacity = domain.ResolveEffectiveCapacity(
		policy, override, uc.opts.ZeroCapacityMeansUnset, uc.opts.FallbackCapacity,
	)

	start, end := domain.DayBounds(day)
	leads, err := uc.leadRepo.List(ctx, domain.LeadsFilter{
		From:      &start,
		To:        &end,
		Statuses:  domain.CountedStatuses,
		ExcludeID: excludeID,
	})
	if err != nil {
		return nil, "", fmt.Errorf("list leads: %w", err)
	}
	resp.BookedCount = len(leads)

	if resp.BookedCount >= resp.EffectiveCapacity {
		resp.Reason = domain.FullyBookedReason(resp.EffectiveCapacity)
		return resp, outcomeFull, nil
	}

	// 5. Сетка слотов без занятых
	grid, err := policy.HourlySlots()
	if err != nil {
		return nil, "", fmt.Errorf("build slot grid for weekday=%d: %w", policy.Weekday, err)
	}
	resp.Slots = domain.FreeSlots(grid, takenTimes(leads))

	return resp, outcomeOpen, nil
}

// dayPolicy получает политику дня недели, при отсутствии засевает стандартную неделю
// Возвращает nil, если политики нет даже после засева
func (uc *UseCase) dayPolicy(ctx context.Context, weekday time.Weekday) (*domain.DayPolicy, error) {
	policy, err := uc.calendarRepo.GetDayPolicy(ctx, weekday)
	if err == nil {
		return policy, nil
	}
	if !errors.Is(err, calendarRepo.ErrPolicyNotFound) {
		return nil, fmt.Errorf("get day policy: %w", err)
	}

	seeded, err := uc.calendarRepo.SeedDefaultDayPolicies(ctx)
	if err != nil {
		return nil, fmt.Errorf("seed default day policies: %w", err)
	}
	if seeded {
		uc.logger.Info("GetAvailableSlots: seeded default week policies")
	}

	policy, err = uc.calendarRepo.GetDayPolicy(ctx, weekday)
	if errors.Is(err, calendarRepo.ErrPolicyNotFound) {
		uc.logger.Warn("GetAvailableSlots: no policy for weekday=%d after seeding, treating as closed", weekday)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get day policy after seed: %w", err)
	}

	return policy, nil
}

// calendarDay переносит дату в часовой пояс календаря, сохраняя год, месяц и день
func (uc *UseCase) calendarDay(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, uc.opts.Location)
}

func (uc *UseCase) observe(outcome string) {
	if uc.metrics != nil {
		uc.metrics.ObserveAvailability(outcome)
	}
}

// takenTimes время уже занятых слотов
func takenTimes(leads []*domain.Lead) []types.TimeString {
	taken := make([]types.TimeString, 0, len(leads))
	for _, lead := range leads {
		if lead.ServiceTime != nil && !lead.ServiceTime.IsZero() {
			taken = append(taken, *lead.ServiceTime)
		}
	}
	return taken
}
