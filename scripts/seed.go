package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/carebridge/portal/backend/internal/adapters/database"
	"github.com/carebridge/portal/backend/internal/adapters/search"
	"github.com/carebridge/portal/backend/internal/domain/entities"
	"github.com/carebridge/portal/backend/internal/infrastructure/clients/postgres"
	"github.com/carebridge/portal/backend/internal/infrastructure/clients/typesense"
	"github.com/carebridge/portal/backend/migrations"
	"github.com/carebridge/portal/backend/pkg/config"
)

// Seeds the doctor directory. Each doctor works Monday through Thursday
// 09:00-17:00 and Friday 09:00-15:00.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	ctx := context.Background()

	if err := pgClient.Migrate(ctx, migrations.Files); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, truncating tables before seeding")
		_, err := pgClient.DB().ExecContext(ctx, `
			TRUNCATE TABLE
				appointment_negotiations,
				appointments,
				doctor_availability,
				doctors,
				documents,
				medical_records,
				users
			RESTART IDENTITY CASCADE
		`)
		if err != nil {
			log.Fatalf("Failed to truncate tables: %v", err)
		}
	}

	var searchRepo *search.TypesenseAdapter
	tsClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		log.Printf("Warning: Typesense unavailable, skipping search indexing: %v", err)
	} else {
		searchRepo = search.NewTypesenseAdapter(tsClient)
		if err := searchRepo.InitSchema(ctx); err != nil {
			log.Printf("Warning: failed to init search schema: %v", err)
		}
	}

	doctorRepo := database.NewDoctorAdapter(pgClient)

	seedDoctors := []struct {
		name      string
		specialty string
		bio       string
	}{
		{"Dr. Amara Okafor", "Cardiology", "Consultant cardiologist with a focus on preventive care."},
		{"Dr. Tunde Bakare", "Dermatology", "Specialist in chronic skin conditions and allergy care."},
		{"Dr. Ngozi Eze", "Pediatrics", "Pediatrician with 12 years in community health."},
		{"Dr. Kwame Mensah", "Orthopedics", "Orthopedic surgeon specializing in sports injuries."},
		{"Dr. Fatima Bello", "Neurology", "Neurologist focused on migraine and seizure disorders."},
		{"Dr. Chidi Nwosu", "General Medicine", "Family physician and primary care generalist."},
	}

	now := time.Now()
	created := 0

	for _, seed := range seedDoctors {
		doctor := &entities.Doctor{
			ID:          uuid.New().String(),
			Name:        seed.name,
			Specialty:   seed.specialty,
			Bio:         seed.bio,
			IsAvailable: true,
			CreatedAt:   now,
			UpdatedAt:   now,
			Availability: []*entities.AvailabilityWindow{
				weekdayWindow(time.Monday, "09:00", "17:00"),
				weekdayWindow(time.Tuesday, "09:00", "17:00"),
				weekdayWindow(time.Wednesday, "09:00", "17:00"),
				weekdayWindow(time.Thursday, "09:00", "17:00"),
				weekdayWindow(time.Friday, "09:00", "15:00"),
			},
		}

		if err := doctorRepo.Create(ctx, doctor); err != nil {
			log.Printf("Warning: failed to seed %s: %v", seed.name, err)
			continue
		}
		created++

		if searchRepo != nil {
			if err := searchRepo.Index(ctx, doctor); err != nil {
				log.Printf("Warning: failed to index %s: %v", seed.name, err)
			}
		}
	}

	log.Printf("Seeded %d/%d doctors", created, len(seedDoctors))
}

func weekdayWindow(day time.Weekday, start, end string) *entities.AvailabilityWindow {
	now := time.Now()
	return &entities.AvailabilityWindow{
		ID:        uuid.New().String(),
		DayOfWeek: int(day),
		StartTime: start,
		EndTime:   end,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
