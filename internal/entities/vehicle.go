package entities

import "time"

type VehicleRequest struct {
	Brand        string `json:"brand"`
	Model        string `json:"model"`
	LicensePlate string `json:"license_plate"`
	Seats        int    `json:"seats"`
	Luggage      int    `json:"luggage"`
	Available    bool   `json:"available"`
}

type VehicleResponse struct {
	ID           int       `json:"id"`
	OwnerID      int       `json:"owner_id"`
	Brand        string    `json:"brand"`
	Model        string    `json:"model"`
	LicensePlate string    `json:"license_plate"`
	Seats        int       `json:"seats"`
	Luggage      int       `json:"luggage"`
	Available    bool      `json:"available"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
