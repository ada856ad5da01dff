package blockeddate

import "time"

// BlockRequest represents a date-block request.
type BlockRequest struct {
	Date   string `json:"date" validate:"required,caldate"`
	Reason string `json:"reason" validate:"max=200"`
}

// BlockedDateResponse represents a blocked date to frontend.
type BlockedDateResponse struct {
	Date      string `json:"date"`
	Reason    string `json:"reason"`
	CreatedAt string `json:"created_at"`
}

// ToResponse converts an entity to its API shape.
func ToResponse(bd *BlockedDate) BlockedDateResponse {
	return BlockedDateResponse{
		Date:      bd.Date.String(),
		Reason:    bd.Reason,
		CreatedAt: bd.CreatedAt.Format(time.RFC3339),
	}
}
