package models

import (
	"encoding/json"
	"time"

	"github.com/m04kA/SMC-CleaningBooking/internal/wizard"
)

// Request модели

// StartRequest запрос на создание сессии
type StartRequest struct {
	Mode string `json:"mode"` // new | returning, по умолчанию new
}

// AdvanceRequest переход вперед с данными текущего шага
type AdvanceRequest struct {
	Data json.RawMessage `json:"data"`
}

// EditRequest переход к ранее пройденному шагу
type EditRequest struct {
	Step string `json:"step"`
}

// Response модели

// SessionResponse состояние сессии для клиента
type SessionResponse struct {
	SessionID   string          `json:"sessionId"`
	Mode        string          `json:"mode"`
	CurrentStep string          `json:"currentStep"`
	CanGoBack   bool            `json:"canGoBack"`
	Completed   bool            `json:"completed"`
	History     []string        `json:"history"`
	Data        wizard.FormData `json:"data"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// FromState конвертирует состояние мастера в ответ
func FromState(s *wizard.State) *SessionResponse {
	history := make([]string, 0, len(s.History))
	for _, h := range s.History {
		history = append(history, string(h))
	}

	return &SessionResponse{
		SessionID:   s.SessionID,
		Mode:        string(s.Mode),
		CurrentStep: string(s.CurrentStepID),
		CanGoBack:   s.CanRetreat() && !s.Data.Booked,
		Completed:   s.Data.Booked,
		History:     history,
		Data:        s.Data,
		UpdatedAt:   s.UpdatedAt,
	}
}
