package salonservice

// SalonService is a bookable treatment offered by the studio.
type SalonService struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	DurationMinutes int     `json:"duration_minutes"`
	Active          bool    `json:"active"`
	Description     *string `json:"description,omitempty"`
}
