package booking

import "time"

// ProposeRequest represents a booking proposal from frontend.
type ProposeRequest struct {
	ResourceID   string   `json:"resource_id" validate:"required,uuid"`
	Dates        []string `json:"dates" validate:"required,min=1,dive,caldate"`
	StartTime    string   `json:"start_time" validate:"required,hhmm"`
	EndTime      string   `json:"end_time" validate:"required,hhmm"`
	Notes        string   `json:"notes" validate:"max=500"`
	EquipmentIDs []string `json:"equipment_ids" validate:"dive,uuid"`
}

// ReasonRequest carries the reason for a cancel/reject transition.
type ReasonRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

// BookingResponse represents a booking to frontend.
type BookingResponse struct {
	ID           string   `json:"id"`
	ResourceID   string   `json:"resource_id"`
	RequesterID  string   `json:"requester_id"`
	Dates        []string `json:"dates"`
	StartTime    string   `json:"start_time"`
	EndTime      string   `json:"end_time"`
	Status       string   `json:"status"`
	EquipmentIDs []string `json:"equipment_ids"`
	Notes        string   `json:"notes,omitempty"`
	CancelReason string   `json:"cancel_reason,omitempty"`
	CreatedAt    string   `json:"created_at"`
	UpdatedAt    string   `json:"updated_at"`
}

// ToResponse converts an entity to its API shape.
func ToResponse(b *Booking) BookingResponse {
	dates := make([]string, len(b.Dates))
	for i, d := range b.Dates {
		dates[i] = d.String()
	}
	equipment := make([]string, len(b.EquipmentIDs))
	for i, id := range b.EquipmentIDs {
		equipment[i] = id.String()
	}
	return BookingResponse{
		ID:           b.ID.String(),
		ResourceID:   b.ResourceID.String(),
		RequesterID:  b.RequesterID.String(),
		Dates:        dates,
		StartTime:    b.StartTime.String(),
		EndTime:      b.EndTime.String(),
		Status:       string(b.Status),
		EquipmentIDs: equipment,
		Notes:        b.Notes.String,
		CancelReason: b.CancelReason.String,
		CreatedAt:    b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    b.UpdatedAt.Format(time.RFC3339),
	}
}
