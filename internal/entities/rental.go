package entities

import "time"

type RentalRequest struct {
	VehicleID  int       `json:"vehicle_id"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	TotalPrice float64   `json:"total_price"`
}

type RentalResponse struct {
	ID         int       `json:"id"`
	Code       string    `json:"code"`
	VehicleID  int       `json:"vehicle_id"`
	RenterID   int       `json:"renter_id"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	TotalPrice float64   `json:"total_price"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type RentalsList struct {
	Total   int              `json:"total"`
	Rentals []RentalResponse `json:"rentals"`
}
