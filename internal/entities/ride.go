package entities

import "time"

type RideRequest struct {
	RentalID      int       `json:"rental_id"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	StartLocation string    `json:"start_location"`
	EndLocation   string    `json:"end_location"`
	Seats         int       `json:"seats"`
}

type RideResponse struct {
	ID             int       `json:"id"`
	Code           string    `json:"code"`
	RentalID       int       `json:"rental_id"`
	RenterID       int       `json:"renter_id"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	StartLocation  string    `json:"start_location"`
	EndLocation    string    `json:"end_location"`
	TotalSeats     int       `json:"total_seats"`
	AvailableSeats int       `json:"available_seats"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type RidesList struct {
	Total int            `json:"total"`
	Rides []RideResponse `json:"rides"`
}

type JoinRideRequest struct {
	PassengersCount int `json:"passengers_count"`
}

type JoinRideResponse struct {
	RideID         int    `json:"ride_id"`
	AvailableSeats int    `json:"available_seats"`
	Message        string `json:"message"`
}
