package initialize_calendar_settings

// InitializeResponse HTTP response model
type InitializeResponse struct {
	Initialized bool `json:"initialized"` // false, если расписание уже существовало
}
