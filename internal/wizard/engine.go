package wizard

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Engine движок мастера: граф шагов, guard-переходы и история
// Не имеет побочных эффектов, состояние хранит вызывающий код
type Engine struct {
	steps    map[StepID]*Step
	validate *validator.Validate
}

// NewEngine создает движок со стандартным графом шагов
func NewEngine() *Engine {
	return &Engine{
		steps:    defaultGraph(),
		validate: newValidator(),
	}
}

// Step возвращает описание шага
func (e *Engine) Step(id StepID) (*Step, bool) {
	step, ok := e.steps[id]
	return step, ok
}

// Start создает состояние с начальным шагом режима
func (e *Engine) Start(mode Mode) *State {
	initial := StepZip
	if mode == ModeReturning {
		initial = StepReturningLookup
	}

	return &State{
		Mode:          mode,
		CurrentStepID: initial,
		History:       []StepID{},
	}
}

// Next чистая функция перехода: следующий шаг для данных формы
// false, если шаг терминальный
func (e *Engine) Next(id StepID, data *FormData) (StepID, bool, error) {
	step, ok := e.steps[id]
	if !ok {
		return "", false, fmt.Errorf("%w: %s", ErrUnknownStep, id)
	}
	next, ok := step.Next(data)
	return next, ok, nil
}

// Resolve переводит состояние на fallback, пока guard текущего шага не выполнен
// Цепочка переходов ограничена числом шагов графа
func (e *Engine) Resolve(state *State) error {
	for i := 0; i <= len(e.steps); i++ {
		step, ok := e.steps[state.CurrentStepID]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownStep, state.CurrentStepID)
		}
		if step.Guard == nil || step.Guard(&state.Data) {
			return nil
		}
		state.CurrentStepID = step.Fallback
	}
	return fmt.Errorf("%w: stopped at %s", ErrRedirectLoop, state.CurrentStepID)
}

// Validate проверяет поля текущего шага, затем поля пройденных шагов активного пути
// Патч может менять любые поля формы, поэтому ранее введенные данные проверяются повторно
func (e *Engine) Validate(state *State) error {
	step, ok := e.steps[state.CurrentStepID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownStep, state.CurrentStepID)
	}
	if err := validateFields(e.validate, &state.Data, step.Fields); err != nil {
		return err
	}
	return validateFields(e.validate, &state.Data, e.pathFields(state))
}

// pathFields поля шагов истории, чей guard сейчас выполнен
// Шаги другой ветки (например, детали после смены типа уборки) не учитываются
func (e *Engine) pathFields(state *State) []string {
	seen := make(map[string]struct{})
	var fields []string
	for _, id := range state.History {
		step, ok := e.steps[id]
		if !ok || (step.Guard != nil && !step.Guard(&state.Data)) {
			continue
		}
		for _, f := range step.Fields {
			if _, dup := seen[f]; dup {
				continue
			}
			seen[f] = struct{}{}
			fields = append(fields, f)
		}
	}
	return fields
}

// Advance проверяет поля, кладет текущий шаг в историю и переходит на следующий
func (e *Engine) Advance(state *State) (StepID, error) {
	if err := e.Validate(state); err != nil {
		return state.CurrentStepID, err
	}

	next, ok, err := e.Next(state.CurrentStepID, &state.Data)
	if err != nil {
		return state.CurrentStepID, err
	}
	if !ok {
		return state.CurrentStepID, ErrTerminalStep
	}

	state.push(state.CurrentStepID)
	state.CurrentStepID = next

	if err := e.Resolve(state); err != nil {
		return state.CurrentStepID, err
	}
	return state.CurrentStepID, nil
}

// Retreat возвращает на предыдущий шаг, данные формы сохраняются
// На начальном шаге и после подтверждения ничего не делает и возвращает false
func (e *Engine) Retreat(state *State) (bool, error) {
	if state.Data.Booked {
		return false, nil
	}
	prev, ok := state.pop()
	if !ok {
		return false, nil
	}

	state.CurrentStepID = prev
	if err := e.Resolve(state); err != nil {
		return true, err
	}
	return true, nil
}

// Edit переходит на ранее посещенный шаг в обход next()
// После правки мастер продолжает путь вперед от этого шага
func (e *Engine) Edit(state *State, target StepID) error {
	if _, ok := e.steps[target]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownStep, target)
	}
	if state.Data.Booked || target == StepSuccess || !state.Visited(target) {
		return fmt.Errorf("%w: %s", ErrStepNotEditable, target)
	}

	state.push(state.CurrentStepID)
	state.CurrentStepID = target
	return e.Resolve(state)
}
