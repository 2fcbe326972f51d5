package db

import "time"

const (
	StatusPending  = "pending"
	StatusActive   = "active"
	StatusFinished = "finished"
	StatusCanceled = "canceled"
)

type User struct {
	ID           int
	Username     string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

type Vehicle struct {
	ID           int
	OwnerID      int
	Brand        string
	Model        string
	LicensePlate string
	Seats        int
	Luggage      int
	Available    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Rental struct {
	ID         int
	Code       string
	VehicleID  int
	RenterID   int
	StartTime  time.Time
	EndTime    time.Time
	TotalPrice float64
	Status     string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Ride struct {
	ID             int
	Code           string
	RentalID       int
	RenterID       int
	StartTime      time.Time
	EndTime        time.Time
	StartLocation  string
	EndLocation    string
	TotalSeats     int
	AvailableSeats int
	Status         string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type RideParticipant struct {
	ID              int
	RideID          int
	PassengerID     int
	PassengersCount int
	CreatedAt       time.Time
}

// Review target types. Exactly one of VehicleID/RideID/RenterID is set,
// matching Type.
const (
	ReviewTypeVehicle = "vehicle"
	ReviewTypeRide    = "ride"
	ReviewTypeRenter  = "renter"
)

type Review struct {
	ID             int
	Type           string
	AuthorID       int
	VehicleID      *int
	RideID         *int
	RenterID       *int
	Rating         int
	RatingCategory string
	Comment        string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
