package confirm_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
	calendarRepo "github.com/m04kA/SMC-CleaningBooking/internal/infra/storage/calendar"
	leadRepo "github.com/m04kA/SMC-CleaningBooking/internal/infra/storage/lead"
)

// Исходы подтверждения для метрик
const (
	outcomeBooked        = "booked"
	outcomeAlreadyBooked = "already_booked"
	outcomeRejected      = "rejected"
	outcomeError         = "error"
)

// UseCase use case для подтверждения бронирования
type UseCase struct {
	leadRepo     LeadRepository
	calendarRepo CalendarRepository
	notifier     Notifier
	txManager    TransactionManager
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
	opts         Options
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	leadRepo LeadRepository,
	calendarRepo CalendarRepository,
	notifier Notifier,
	txManager TransactionManager,
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
		leadRepo:     leadRepo,
		calendarRepo: calendarRepo,
		notifier:     notifier,
		txManager:    txManager,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
		opts:         opts,
	}
}

// Execute переводит лид из draft в booked
// Повторная проверка дня и запись статуса выполняются в одной сериализуемой транзакции,
// строки лидов дня блокируются (FOR UPDATE)
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ConfirmBooking: lead=%s", req.LeadID)

	now := uc.timeProvider.Now()
	var confirmed *domain.Lead

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 1. Блокируем лид
		lead, err := uc.leadRepo.GetByID(txCtx, req.LeadID)
		if err != nil {
			if errors.Is(err, leadRepo.ErrLeadNotFound) {
				return ErrLeadNotFound
			}
			return fmt.Errorf("%w: get lead: %v", ErrInternal, err)
		}

		// 2. Допустим только переход draft -> booked
		if lead.IsBooked() {
			return ErrAlreadyBooked
		}
		if !lead.IsDraft() {
			return ErrLeadAbandoned
		}

		// 3. Финальное состояние мастера перезаписывает промежуточные сохранения
		if req.Fields != nil {
			lead.OverwriteWizardFields(req.Fields)
			if err := uc.leadRepo.Update(txCtx, lead); err != nil {
				if errors.Is(err, leadRepo.ErrLeadNotDraft) {
					return ErrAlreadyBooked
				}
				return fmt.Errorf("%w: update lead: %v", ErrInternal, err)
			}
		}

		if !lead.HasSchedule() {
			return ErrIncomplete
		}

		// 4. Повторная проверка дня с учетом остальных лидов
		if err := uc.checkDay(txCtx, lead); err != nil {
			return err
		}

		// 5. Фиксируем статус
		if err := uc.leadRepo.MarkBooked(txCtx, lead.ID, now); err != nil {
			if errors.Is(err, leadRepo.ErrLeadNotDraft) {
				return ErrAlreadyBooked
			}
			return fmt.Errorf("%w: mark booked: %v", ErrInternal, err)
		}

		lead.Status = domain.LeadStatusBooked
		lead.BookedAt = &now
		confirmed = lead
		return nil
	})

	if err != nil {
		uc.observe(err)
		switch {
		case errors.Is(err, ErrInternal):
			uc.logger.Error("ConfirmBooking: lead=%s failed: %v", req.LeadID, err)
		default:
			uc.logger.Warn("ConfirmBooking: lead=%s rejected: %v", req.LeadID, err)
		}
		return nil, err
	}

	uc.observe(nil)
	uc.logger.Info("ConfirmBooking: lead=%s booked for %s %s",
		confirmed.ID, confirmed.ServiceDate.In(uc.opts.Location).Format(domain.DateFormat), *confirmed.ServiceTime)

	// 6. Уведомление вне транзакции, ошибка не влияет на результат
	if uc.notifier != nil {
		if err := uc.notifier.EnqueueBookingConfirmed(ctx, confirmed); err != nil {
			uc.logger.Warn("ConfirmBooking: failed to enqueue notification for lead=%s: %v", confirmed.ID, err)
		}
	}

	return &Response{Lead: confirmed}, nil
}

// checkDay проверяет блокировку, политику, вместимость и занятость слота
func (uc *UseCase) checkDay(ctx context.Context, lead *domain.Lead) error {
	day := lead.ServiceDate.In(uc.opts.Location)

	blocked, err := uc.calendarRepo.GetBlockedDateByDay(ctx, day)
	if err != nil && !errors.Is(err, calendarRepo.ErrBlockedDateNotFound) {
		return fmt.Errorf("%w: get blocked date: %v", ErrInternal, err)
	}
	if blocked != nil {
		return fmt.Errorf("%w: %s", ErrDateUnavailable, blocked.DisplayReason())
	}

	policy, err := uc.calendarRepo.GetDayPolicy(ctx, day.Weekday())
	if err != nil {
		if errors.Is(err, calendarRepo.ErrPolicyNotFound) {
			return fmt.Errorf("%w: %s", ErrDateUnavailable, domain.ReasonClosed)
		}
		return fmt.Errorf("%w: get day policy: %v", ErrInternal, err)
	}
	if !policy.IsOpen {
		return fmt.Errorf("%w: %s", ErrDateUnavailable, domain.ReasonClosed)
	}

	grid, err := policy.HourlySlots()
	if err != nil {
		return fmt.Errorf("%w: build slot grid: %v", ErrInternal, err)
	}
	if !containsTime(grid, *lead.ServiceTime) {
		return ErrInvalidTimeSlot
	}

	override, err := uc.calendarRepo.GetCapacityOverride(ctx)
	if err != nil {
		return fmt.Errorf("%w: get capacity override: %v", ErrInternal, err)
	}
	capacity := domain.ResolveEffectiveCapacity(policy, override, uc.opts.ZeroCapacityMeansUnset, uc.opts.FallbackCapacity)

	start, end := domain.DayBounds(day)
	others, err := uc.leadRepo.List(ctx, domain.LeadsFilter{
		From:      &start,
		To:        &end,
		Statuses:  domain.CountedStatuses,
		ExcludeID: &lead.ID,
	})
	if err != nil {
		return fmt.Errorf("%w: list leads: %v", ErrInternal, err)
	}

	if len(others) >= capacity {
		return fmt.Errorf("%w: %s", ErrDateUnavailable, domain.FullyBookedReason(capacity))
	}

	for _, other := range others {
		if other.ServiceTime != nil && *other.ServiceTime == *lead.ServiceTime {
			return ErrSlotTaken
		}
	}

	return nil
}

func (uc *UseCase) observe(err error) {
	if uc.metrics == nil {
		return
	}
	switch {
	case err == nil:
		uc.metrics.ObserveFinalize(outcomeBooked)
	case errors.Is(err, ErrAlreadyBooked):
		uc.metrics.ObserveFinalize(outcomeAlreadyBooked)
	case errors.Is(err, ErrInternal):
		uc.metrics.ObserveFinalize(outcomeError)
	default:
		uc.metrics.ObserveFinalize(outcomeRejected)
	}
}
