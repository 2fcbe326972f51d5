package main

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"carshare/internal/api"
	"carshare/internal/auth"
	"carshare/internal/config"
	"carshare/internal/repository"
	"carshare/internal/service"
)

func main() {
	cfg := config.New()
	log := zap.S()

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL not set")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET not set")
	}

	database, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	if err := database.Ping(); err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}

	userRepo := repository.NewUserRepository(database)
	vehicleRepo := repository.NewVehicleRepository(database)
	rentalRepo := repository.NewRentalRepository(database)
	rideRepo := repository.NewRideRepository(database)
	reviewRepo := repository.NewReviewRepository(database)
	jobRepo := repository.NewJobRepository(database)

	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret)
	vehicleSvc := service.NewVehicleService(vehicleRepo)
	rentalSvc := service.NewRentalService(rentalRepo, vehicleRepo)
	rideSvc := service.NewRideService(rideRepo, rentalRepo)
	reviewSvc := service.NewReviewService(reviewRepo, vehicleRepo, rideRepo, userRepo)
	jobSvc := service.NewJobService(jobRepo)

	authHandler := api.NewAuthHandler(authSvc)
	vehicleHandler := api.NewVehicleHandler(vehicleSvc)
	rentalHandler := api.NewRentalHandler(rentalSvc)
	rideHandler := api.NewRideHandler(rideSvc)
	reviewHandler := api.NewReviewHandler(reviewSvc)

	r := mux.NewRouter()

	// Public endpoints
	r.HandleFunc("/api/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/api/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/api/reviews/{review_type}/{target_id}", reviewHandler.ListByTarget).Methods("GET")

	// Authenticated endpoints
	protected := r.PathPrefix("/api").Subrouter()
	protected.Use(auth.Middleware(cfg.JWTSecret))

	protected.HandleFunc("/users/me", authHandler.UpdateMe).Methods("PUT")
	protected.HandleFunc("/users/me", authHandler.DeleteMe).Methods("DELETE")

	protected.HandleFunc("/vehicles", vehicleHandler.Create).Methods("POST")
	protected.HandleFunc("/vehicles", vehicleHandler.List).Methods("GET")
	protected.HandleFunc("/vehicles/{vehicle_id}", vehicleHandler.Get).Methods("GET")
	protected.HandleFunc("/vehicles/{vehicle_id}", vehicleHandler.Update).Methods("PUT")
	protected.HandleFunc("/vehicles/{vehicle_id}", vehicleHandler.Delete).Methods("DELETE")

	protected.HandleFunc("/rentals", rentalHandler.Create).Methods("POST")
	protected.HandleFunc("/rentals", rentalHandler.List).Methods("GET")
	protected.HandleFunc("/rentals/{rental_id}", rentalHandler.Get).Methods("GET")
	protected.HandleFunc("/rentals/{rental_id}", rentalHandler.Update).Methods("PUT")
	protected.HandleFunc("/rentals/{rental_id}", rentalHandler.Delete).Methods("DELETE")

	protected.HandleFunc("/rides", rideHandler.Create).Methods("POST")
	protected.HandleFunc("/rides", rideHandler.List).Methods("GET")
	protected.HandleFunc("/rides/{ride_id}", rideHandler.Get).Methods("GET")
	protected.HandleFunc("/rides/{ride_id}", rideHandler.Update).Methods("PUT")
	protected.HandleFunc("/rides/{ride_id}", rideHandler.Delete).Methods("DELETE")
	protected.HandleFunc("/rides/{ride_id}/join", rideHandler.Join).Methods("POST")

	protected.HandleFunc("/reviews", reviewHandler.Create).Methods("POST")
	protected.HandleFunc("/reviews/{review_id}", reviewHandler.Update).Methods("PUT")
	protected.HandleFunc("/reviews/{review_id}", reviewHandler.Delete).Methods("DELETE")

	c := cron.New()
	c.AddFunc("@every 5m", func() {
		if err := jobSvc.FinishExpiredBookings(context.Background()); err != nil {
			log.Errorf("expiry job failed: %v", err)
		}
	})
	c.Start()

	handler := handlers.RecoveryHandler()(handlers.CORS(
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
	)(r))

	log.Infof("Server running on port %s", cfg.Port)
	err = http.ListenAndServe(":"+cfg.Port, handler)
	c.Stop()
	zap.L().Sync()
	log.Fatal(err)
}
