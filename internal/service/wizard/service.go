package wizard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
	sessionStore "github.com/m04kA/SMC-CleaningBooking/internal/infra/cache/session"
	"github.com/m04kA/SMC-CleaningBooking/internal/service/wizard/models"
	flow "github.com/m04kA/SMC-CleaningBooking/internal/wizard"
)

// Service сервис сессий мастера бронирования
// Навигацию выполняет движок, сервис хранит сессии и выполняет побочные действия шагов
type Service struct {
	engine       *flow.Engine
	sessions     SessionStore
	leads        LeadService
	availability AvailabilityUseCase
	metrics      Metrics
	timeProvider TimeProvider
	location     *time.Location
	logger       Logger
}

// NewService создает новый экземпляр сервиса мастера
func NewService(
	engine *flow.Engine,
	sessions SessionStore,
	leads LeadService,
	availability AvailabilityUseCase,
	metrics Metrics,
	location *time.Location,
	logger Logger,
) *Service {
	if location == nil {
		location = time.UTC
	}
	return &Service{
		engine:       engine,
		sessions:     sessions,
		leads:        leads,
		availability: availability,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		location:     location,
		logger:       logger,
	}
}

// Start создает новую сессию мастера
func (s *Service) Start(ctx context.Context, req *models.StartRequest) (*models.SessionResponse, error) {
	mode := flow.Mode(req.Mode)
	if mode == "" {
		mode = flow.ModeNew
	}
	if !mode.IsValid() {
		s.logger.Warn("Start: invalid mode=%s", req.Mode)
		return nil, fmt.Errorf("%w: unknown mode %q", ErrInvalidInput, req.Mode)
	}

	state := s.engine.Start(mode)
	state.SessionID = uuid.NewString()
	state.Data.CustomerType = domain.CustomerTypeNew
	if mode == flow.ModeReturning {
		state.Data.CustomerType = domain.CustomerTypeReturning
	}
	state.CreatedAt = s.timeProvider.Now()

	if err := s.persist(ctx, state); err != nil {
		s.logger.Error("Start: failed to save session: %v", err)
		return nil, err
	}

	s.logger.Info("Start: session=%s mode=%s step=%s", state.SessionID, mode, state.CurrentStepID)
	return models.FromState(state), nil
}

// Get возвращает состояние сессии
func (s *Service) Get(ctx context.Context, sessionID string) (*models.SessionResponse, error) {
	state, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	from := state.CurrentStepID
	if err := s.engine.Resolve(state); err != nil {
		s.logger.Error("Get: session=%s resolve failed: %v", sessionID, err)
		return nil, s.mapEngineError(err)
	}
	if state.CurrentStepID != from {
		s.logger.Warn("Get: session=%s step=%s redirected to %s", sessionID, from, state.CurrentStepID)
		s.persistQuietly(ctx, state)
	}
	return models.FromState(state), nil
}

// Advance применяет данные текущего шага и переходит вперед
//
// Порядок:
//  1. данные накладываются на форму
//  2. повторная проверка guard текущего шага
//  3. проверка полей шага и пройденного пути
//  4. побочное действие при уходе с шага (сохранение лида, проверка слота, подтверждение)
//  5. переход по графу с учетом guard
//
// При ошибке проверки данные формы сохраняются, шаг не меняется
// Если после правки guard шага не выполнен, сессия переходит на fallback и переход отклоняется
func (s *Service) Advance(ctx context.Context, sessionID string, req *models.AdvanceRequest) (*models.SessionResponse, error) {
	state, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if state.Data.Booked {
		s.logger.Warn("Advance: session=%s is already completed", sessionID)
		return nil, fmt.Errorf("%w: booking is already confirmed", ErrInvalidTransition)
	}

	from := state.CurrentStepID
	s.logger.Info("Advance: session=%s step=%s", sessionID, from)

	// 1. Накладываем данные шага
	if err := state.Data.Apply(req.Data); err != nil {
		s.logger.Warn("Advance: session=%s invalid patch: %v", sessionID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 2. Правка данных могла снять guard текущего шага
	if err := s.engine.Resolve(state); err != nil {
		s.logger.Error("Advance: session=%s resolve failed: %v", sessionID, err)
		return nil, s.mapEngineError(err)
	}
	if state.CurrentStepID != from {
		s.logger.Warn("Advance: session=%s step=%s is no longer available, moved to %s", sessionID, from, state.CurrentStepID)
		s.persistQuietly(ctx, state)
		return nil, fmt.Errorf("%w: step %s is no longer available", ErrInvalidTransition, from)
	}

	// 3. Проверяем поля шага и ранее пройденных шагов
	if err := s.engine.Validate(state); err != nil {
		s.logger.Info("Advance: session=%s step=%s validation failed: %v", sessionID, from, err)
		s.persistQuietly(ctx, state)
		return nil, s.mapEngineError(err)
	}

	// 4. Побочное действие шага
	step, _ := s.engine.Step(from)
	if err := s.runEffect(ctx, state, step.OnLeave); err != nil {
		s.persistQuietly(ctx, state)
		return nil, err
	}

	// 5. Переход
	to, err := s.engine.Advance(state)
	if err != nil {
		s.logger.Warn("Advance: session=%s step=%s transition failed: %v", sessionID, from, err)
		s.persistQuietly(ctx, state)
		return nil, s.mapEngineError(err)
	}
	s.metrics.ObserveWizardTransition(string(from), string(to))

	if err := s.persist(ctx, state); err != nil {
		s.logger.Error("Advance: session=%s failed to save: %v", sessionID, err)
		return nil, err
	}

	s.logger.Info("Advance: session=%s %s -> %s", sessionID, from, to)
	return models.FromState(state), nil
}

// Back возвращает на предыдущий шаг, данные формы сохраняются
// На начальном шаге и после подтверждения состояние не меняется
func (s *Service) Back(ctx context.Context, sessionID string) (*models.SessionResponse, error) {
	state, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	from := state.CurrentStepID
	moved, err := s.engine.Retreat(state)
	if err != nil {
		s.logger.Error("Back: session=%s failed: %v", sessionID, err)
		return nil, s.mapEngineError(err)
	}
	if !moved {
		s.logger.Info("Back: session=%s nothing to go back to from step=%s", sessionID, from)
		return models.FromState(state), nil
	}
	s.metrics.ObserveWizardTransition(string(from), string(state.CurrentStepID))

	if err := s.persist(ctx, state); err != nil {
		s.logger.Error("Back: session=%s failed to save: %v", sessionID, err)
		return nil, err
	}

	s.logger.Info("Back: session=%s %s -> %s", sessionID, from, state.CurrentStepID)
	return models.FromState(state), nil
}

// Edit переходит к ранее пройденному шагу для исправления данных
func (s *Service) Edit(ctx context.Context, sessionID string, req *models.EditRequest) (*models.SessionResponse, error) {
	state, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	from := state.CurrentStepID
	if err := s.engine.Edit(state, flow.StepID(req.Step)); err != nil {
		s.logger.Warn("Edit: session=%s target=%s rejected: %v", sessionID, req.Step, err)
		return nil, s.mapEngineError(err)
	}
	s.metrics.ObserveWizardTransition(string(from), string(state.CurrentStepID))

	if err := s.persist(ctx, state); err != nil {
		s.logger.Error("Edit: session=%s failed to save: %v", sessionID, err)
		return nil, err
	}

	s.logger.Info("Edit: session=%s %s -> %s", sessionID, from, state.CurrentStepID)
	return models.FromState(state), nil
}

func (s *Service) load(ctx context.Context, sessionID string) (*flow.State, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session id is required", ErrInvalidInput)
	}

	state, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sessionStore.ErrSessionNotFound) {
			s.logger.Warn("load: session=%s not found", sessionID)
			return nil, ErrSessionNotFound
		}
		s.logger.Error("load: session=%s failed: %v", sessionID, err)
		return nil, fmt.Errorf("%w: load session: %v", ErrInternal, err)
	}
	return state, nil
}

func (s *Service) persist(ctx context.Context, state *flow.State) error {
	state.UpdatedAt = s.timeProvider.Now()
	if err := s.sessions.Save(ctx, state); err != nil {
		return fmt.Errorf("%w: save session: %v", ErrInternal, err)
	}
	return nil
}

// persistQuietly сохраняет введенные данные при отказе в переходе
func (s *Service) persistQuietly(ctx context.Context, state *flow.State) {
	if err := s.persist(ctx, state); err != nil {
		s.logger.Warn("persist: session=%s failed to save form data: %v", state.SessionID, err)
	}
}

func (s *Service) mapEngineError(err error) error {
	var validationErr *flow.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return validationErr
	case errors.Is(err, flow.ErrTerminalStep),
		errors.Is(err, flow.ErrStepNotEditable),
		errors.Is(err, flow.ErrUnknownStep):
		return fmt.Errorf("%w: %v", ErrInvalidTransition, err)
	default:
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}
