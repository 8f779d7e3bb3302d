package update_capacity_override

// UpdateCapacityOverrideRequest HTTP request model
// null снимает глобальный лимит
type UpdateCapacityOverrideRequest struct {
	Capacity *int `json:"capacity"`
}

// UpdateCapacityOverrideResponse HTTP response model
type UpdateCapacityOverrideResponse struct {
	Capacity *int `json:"capacity"`
}
