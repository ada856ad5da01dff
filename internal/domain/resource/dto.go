package resource

import "time"

// CreateRequest represents resource creation request.
type CreateRequest struct {
	Name         string   `json:"name" validate:"required,min=3,max=100"`
	Location     string   `json:"location" validate:"required,max=200"`
	Description  string   `json:"description" validate:"max=1000"`
	OpeningTime  string   `json:"opening_time" validate:"required,hhmm"`
	ClosingTime  string   `json:"closing_time" validate:"required,hhmm"`
	SlotMinutes  int      `json:"slot_minutes" validate:"required,min=1,max=1440"`
	OpenWeekdays []string `json:"open_weekdays" validate:"dive,weekday"`
}

// UpdateRequest represents a partial resource update.
type UpdateRequest struct {
	Name         *string   `json:"name" validate:"omitempty,min=3,max=100"`
	Location     *string   `json:"location" validate:"omitempty,max=200"`
	Description  *string   `json:"description" validate:"omitempty,max=1000"`
	OpeningTime  *string   `json:"opening_time" validate:"omitempty,hhmm"`
	ClosingTime  *string   `json:"closing_time" validate:"omitempty,hhmm"`
	SlotMinutes  *int      `json:"slot_minutes" validate:"omitempty,min=1,max=1440"`
	OpenWeekdays *[]string `json:"open_weekdays" validate:"omitempty,dive,weekday"`
	Active       *bool     `json:"active"`
}

// ResourceResponse represents a resource to frontend.
type ResourceResponse struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Location     string   `json:"location"`
	Description  string   `json:"description,omitempty"`
	OpeningTime  string   `json:"opening_time"`
	ClosingTime  string   `json:"closing_time"`
	SlotMinutes  int      `json:"slot_minutes"`
	OpenWeekdays []string `json:"open_weekdays"`
	Active       bool     `json:"active"`
	CreatedAt    string   `json:"created_at"`
}

// ToResponse converts an entity to its API shape.
func ToResponse(r *Resource) ResourceResponse {
	days := make([]string, len(r.OpenWeekdays))
	for i, d := range r.OpenWeekdays {
		days[i] = WeekdayName(d)
	}
	return ResourceResponse{
		ID:           r.ID.String(),
		Name:         r.Name,
		Location:     r.Location,
		Description:  r.Description.String,
		OpeningTime:  r.OpeningTime.String(),
		ClosingTime:  r.ClosingTime.String(),
		SlotMinutes:  r.SlotMinutes,
		OpenWeekdays: days,
		Active:       r.Active,
		CreatedAt:    r.CreatedAt.Format(time.RFC3339),
	}
}

// ParseWeekdays converts validated weekday names to the entity set.
func ParseWeekdays(names []string) (Weekdays, error) {
	days := make(Weekdays, 0, len(names))
	for _, name := range names {
		d, err := ParseWeekday(name)
		if err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, nil
}
