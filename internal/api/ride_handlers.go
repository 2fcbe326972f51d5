package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"carshare/internal/db"
	"carshare/internal/entities"
	"carshare/internal/service"
)

type RideHandler struct {
	Service *service.RideService
}

func NewRideHandler(svc *service.RideService) *RideHandler {
	return &RideHandler{Service: svc}
}

func toRideResponse(ride *db.Ride) entities.RideResponse {
	return entities.RideResponse{
		ID:             ride.ID,
		Code:           ride.Code,
		RentalID:       ride.RentalID,
		RenterID:       ride.RenterID,
		StartTime:      ride.StartTime,
		EndTime:        ride.EndTime,
		StartLocation:  ride.StartLocation,
		EndLocation:    ride.EndLocation,
		TotalSeats:     ride.TotalSeats,
		AvailableSeats: ride.AvailableSeats,
		Status:         ride.Status,
		CreatedAt:      ride.CreatedAt,
		UpdatedAt:      ride.UpdatedAt,
	}
}

func (h *RideHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := requestActor(w, r)
	if !ok {
		return
	}
	var req entities.RideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	ride, err := h.Service.Create(r.Context(), actor, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRideResponse(ride))
}

func (h *RideHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := requestActor(w, r)
	if !ok {
		return
	}
	id, err := strconv.Atoi(mux.Vars(r)["ride_id"])
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	ride, err := h.Service.Get(r.Context(), actor, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRideResponse(ride))
}

func (h *RideHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := requestActor(w, r)
	if !ok {
		return
	}
	rides, err := h.Service.ListFor(r.Context(), actor)
	if err != nil {
		writeError(w, err)
		return
	}
	out := entities.RidesList{Total: len(rides), Rides: make([]entities.RideResponse, 0, len(rides))}
	for i := range rides {
		out.Rides = append(out.Rides, toRideResponse(&rides[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

// Join seats the caller on the ride. The body is optional; it may carry a
// passengers_count.
func (h *RideHandler) Join(w http.ResponseWriter, r *http.Request) {
	actor, ok := requestActor(w, r)
	if !ok {
		return
	}
	id, err := strconv.Atoi(mux.Vars(r)["ride_id"])
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	var req entities.JoinRideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	ride, err := h.Service.Join(r.Context(), actor, id, req.PassengersCount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entities.JoinRideResponse{
		RideID:         ride.ID,
		AvailableSeats: ride.AvailableSeats,
		Message:        "Ride joined",
	})
}

func (h *RideHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := requestActor(w, r)
	if !ok {
		return
	}
	id, err := strconv.Atoi(mux.Vars(r)["ride_id"])
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	var req entities.RideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	ride, err := h.Service.Update(r.Context(), actor, id, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRideResponse(ride))
}

func (h *RideHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := requestActor(w, r)
	if !ok {
		return
	}
	id, err := strconv.Atoi(mux.Vars(r)["ride_id"])
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	if err := h.Service.Delete(r.Context(), actor, id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Ride deleted"})
}
