package wizard

import "time"

// State состояние сессии мастера
// CurrentStepID всегда существует в графе и проходит свой guard
type State struct {
	SessionID     string    `json:"sessionId"`
	Mode          Mode      `json:"mode"`
	CurrentStepID StepID    `json:"currentStepId"`
	History       []StepID  `json:"history"`
	Data          FormData  `json:"data"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// CanRetreat есть ли куда вернуться
func (s *State) CanRetreat() bool {
	return len(s.History) > 0
}

// Visited посещался ли шаг ранее
func (s *State) Visited(id StepID) bool {
	for _, h := range s.History {
		if h == id {
			return true
		}
	}
	return false
}

func (s *State) push(id StepID) {
	s.History = append(s.History, id)
}

func (s *State) pop() (StepID, bool) {
	if len(s.History) == 0 {
		return "", false
	}
	last := s.History[len(s.History)-1]
	s.History = s.History[:len(s.History)-1]
	return last, true
}
