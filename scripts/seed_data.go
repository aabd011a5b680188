//go:build ignore

package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/campuspool/campuspool/internal/config"
	"github.com/campuspool/campuspool/internal/database"
	"github.com/campuspool/campuspool/internal/models"
	"github.com/campuspool/campuspool/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

var (
	firstNames = []string{"Rahul", "Priya", "Amit", "Sneha", "Vikram", "Anita", "Raj", "Neha", "Suresh", "Kavita",
		"Arun", "Deepa", "Kiran", "Meera", "Sanjay", "Ritu", "Vijay", "Pooja", "Manoj", "Swati"}
	lastNames = []string{"Kumar", "Sharma", "Patel", "Singh", "Reddy", "Rao", "Gupta", "Joshi", "Nair", "Menon"}

	destinations = []string{"Majestic", "Indiranagar", "Koramangala", "Whitefield", "Electronic City",
		"Jayanagar", "Banashankari", "MG Road", "Hebbal", "Marathahalli"}
	vehicles = []string{"Maruti Swift", "Hyundai i20", "Honda Activa", "Tata Nexon", "Royal Enfield Classic"}
	colors   = []string{"White", "Black", "Silver", "Red", "Blue"}
)

func main() {
	rand.Seed(time.Now().UnixNano())

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewPostgres(cfg.DatabaseURL, cfg.DBMaxConnections, cfg.DBMaxIdleConnections)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer db.Close()

	ctx := context.Background()

	userRepo := repository.NewUserRepository(db.DB)
	rideRepo := repository.NewRideRepository(db.DB)

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	// Create verified drivers with vehicles
	log.Println("Creating 10 drivers...")
	driverIDs := make([]string, 0)
	for i := 0; i < 10; i++ {
		name := fmt.Sprintf("%s %s", firstNames[rand.Intn(len(firstNames))], lastNames[rand.Intn(len(lastNames))])
		model := vehicles[rand.Intn(len(vehicles))]
		number := fmt.Sprintf("KA%02d%s%04d", rand.Intn(99),
			string(rune('A'+rand.Intn(26)))+string(rune('A'+rand.Intn(26))), rand.Intn(10000))
		color := colors[rand.Intn(len(colors))]

		driver := &models.User{
			Email:              fmt.Sprintf("driver%d%s", i, cfg.CampusDomain),
			PasswordHash:       string(hash),
			Name:               name,
			Role:               models.RoleDriver,
			VerificationStatus: models.VerificationVerified,
			VehicleModel:       &model,
			VehicleNumber:      &number,
			VehicleColor:       &color,
		}
		if err := userRepo.Create(ctx, driver); err != nil {
			log.Printf("Failed to create driver: %v", err)
			continue
		}
		driverIDs = append(driverIDs, driver.ID)
	}
	log.Printf("Created %d drivers", len(driverIDs))

	// Create verified riders
	log.Println("Creating 30 riders...")
	riderIDs := make([]string, 0)
	for i := 0; i < 30; i++ {
		rider := &models.User{
			Email:              fmt.Sprintf("rider%d%s", i, cfg.CampusDomain),
			PasswordHash:       string(hash),
			Name:               fmt.Sprintf("%s %s", firstNames[rand.Intn(len(firstNames))], lastNames[rand.Intn(len(lastNames))]),
			Role:               models.RoleRider,
			VerificationStatus: models.VerificationVerified,
		}
		if err := userRepo.Create(ctx, rider); err != nil {
			log.Printf("Failed to create rider: %v", err)
			continue
		}
		riderIDs = append(riderIDs, rider.ID)
	}
	log.Printf("Created %d riders", len(riderIDs))

	// Post rides over the coming week
	log.Println("Posting 20 rides...")
	rideCount := 0
	for i := 0; i < 20; i++ {
		departure := time.Now().AddDate(0, 0, 1+rand.Intn(7))
		ride := &models.Ride{
			DriverID:      driverIDs[rand.Intn(len(driverIDs))],
			Source:        "RV College of Engineering",
			Destination:   destinations[rand.Intn(len(destinations))],
			DepartureDate: departure.Format("2006-01-02"),
			DepartureTime: fmt.Sprintf("%02d:%02d", 7+rand.Intn(12), []int{0, 15, 30, 45}[rand.Intn(4)]),
			TotalSeats:    1 + rand.Intn(4),
			EstimatedCost: float64(50 + rand.Intn(250)),
		}
		if err := rideRepo.Create(ctx, ride); err != nil {
			log.Printf("Failed to create ride: %v", err)
			continue
		}
		rideCount++
	}
	log.Printf("Posted %d rides", rideCount)

	log.Println("\n=== Seed Data Summary ===")
	log.Printf("Drivers created: %d", len(driverIDs))
	log.Printf("Riders created:  %d", len(riderIDs))
	log.Printf("Rides posted:    %d", rideCount)
	log.Printf("All seeded accounts use the password: password123")
}
