package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"carshare/internal/db"
	"carshare/internal/entities"
	"carshare/internal/service"
)

type RentalHandler struct {
	Service *service.RentalService
}

func NewRentalHandler(svc *service.RentalService) *RentalHandler {
	return &RentalHandler{Service: svc}
}

func toRentalResponse(rental *db.Rental) entities.RentalResponse {
	return entities.RentalResponse{
		ID:         rental.ID,
		Code:       rental.Code,
		VehicleID:  rental.VehicleID,
		RenterID:   rental.RenterID,
		StartTime:  rental.StartTime,
		EndTime:    rental.EndTime,
		TotalPrice: rental.TotalPrice,
		Status:     rental.Status,
		CreatedAt:  rental.CreatedAt,
		UpdatedAt:  rental.UpdatedAt,
	}
}

func (h *RentalHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := requestActor(w, r)
	if !ok {
		return
	}
	var req entities.RentalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	rental, err := h.Service.Create(r.Context(), actor, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRentalResponse(rental))
}

func (h *RentalHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := requestActor(w, r)
	if !ok {
		return
	}
	id, err := strconv.Atoi(mux.Vars(r)["rental_id"])
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	rental, err := h.Service.Get(r.Context(), actor, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRentalResponse(rental))
}

func (h *RentalHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := requestActor(w, r)
	if !ok {
		return
	}
	rentals, err := h.Service.ListFor(r.Context(), actor)
	if err != nil {
		writeError(w, err)
		return
	}
	out := entities.RentalsList{Total: len(rentals), Rentals: make([]entities.RentalResponse, 0, len(rentals))}
	for i := range rentals {
		out.Rentals = append(out.Rentals, toRentalResponse(&rentals[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *RentalHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := requestActor(w, r)
	if !ok {
		return
	}
	id, err := strconv.Atoi(mux.Vars(r)["rental_id"])
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	var req entities.RentalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	rental, err := h.Service.Update(r.Context(), actor, id, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRentalResponse(rental))
}

func (h *RentalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := requestActor(w, r)
	if !ok {
		return
	}
	id, err := strconv.Atoi(mux.Vars(r)["rental_id"])
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	if err := h.Service.Delete(r.Context(), actor, id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Rental deleted"})
}
