package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/google/uuid"

	"github.com/carefinderfl/geodirectory/internal/domain/entities"
	"github.com/carefinderfl/geodirectory/internal/infrastructure/clients/postgres"
	"github.com/carefinderfl/geodirectory/pkg/config"
	"github.com/carefinderfl/geodirectory/pkg/geo"
)

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

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, truncating listings before seeding")
		if _, err := pgClient.DB().ExecContext(ctx, `TRUNCATE TABLE listings RESTART IDENTITY CASCADE`); err != nil {
			log.Fatalf("Failed to reset listings: %v", err)
		}
	}

	listings := sampleListings()
	db := goqu.New("postgres", pgClient.DB())

	for _, listing := range listings {
		tags, err := json.Marshal(listing.Tags)
		if err != nil {
			log.Printf("Failed to encode tags for %s: %v", listing.Name, err)
			continue
		}

		record := goqu.Record{
			"id":          listing.ID,
			"name":        listing.Name,
			"city":        listing.City,
			"county":      listing.County,
			"state":       listing.State,
			"tags":        tags,
			"record_kind": string(listing.RecordKind),
			"is_active":   true,
			"updated_at":  listing.UpdatedAt,
		}
		if listing.Coordinates != nil {
			record["latitude"] = listing.Coordinates.Latitude
			record["longitude"] = listing.Coordinates.Longitude
		}

		query, args, err := db.Insert("listings").Rows(record).ToSQL()
		if err != nil {
			log.Printf("Failed to build insert for %s: %v", listing.Name, err)
			continue
		}
		if _, err := pgClient.DB().ExecContext(ctx, query, args...); err != nil {
			log.Printf("Failed to insert %s: %v", listing.Name, err)
		}
	}

	log.Printf("Seeding completed with %d Florida listings", len(listings))
}

func sampleListings() []*entities.Listing {
	now := time.Now()
	return []*entities.Listing{
		{
			ID:          uuid.New().String(),
			Name:        "Sunshine Behavioral Services",
			City:        "Lakeland",
			County:      "Polk",
			State:       "FL",
			Coordinates: &geo.Coordinate{Latitude: 28.0395, Longitude: -81.9498},
			Tags: map[string][]string{
				entities.TagCategoryServices:   {"aba therapy", "speech therapy"},
				entities.TagCategoryInsurances: {"medicaid", "florida blue"},
			},
			RecordKind: entities.RecordKindProvider,
			UpdatedAt:  now,
		},
		{
			ID:          uuid.New().String(),
			Name:        "Little Explorers Daycare",
			City:        "Orlando",
			County:      "Orange",
			State:       "FL",
			Coordinates: &geo.Coordinate{Latitude: 28.5384, Longitude: -81.3789},
			Tags: map[string][]string{
				entities.TagCategoryServices:     {"special needs care"},
				entities.TagCategoryScholarships: {"step up for students"},
				entities.TagCategoryFeatures:     {"wheelchair accessible"},
			},
			RecordKind: entities.RecordKindDaycare,
			UpdatedAt:  now,
		},
		{
			ID:          uuid.New().String(),
			Name:        "Gulf Coast Pediatric Therapy",
			City:        "Tampa",
			County:      "Hillsborough",
			State:       "FL",
			Coordinates: &geo.Coordinate{Latitude: 27.9506, Longitude: -82.4572},
			Tags: map[string][]string{
				entities.TagCategoryServices:   {"occupational therapy", "physical therapy"},
				entities.TagCategoryInsurances: {"medicaid", "aetna"},
			},
			RecordKind: entities.RecordKindProvider,
			UpdatedAt:  now,
		},
		{
			ID:          uuid.New().String(),
			Name:        "Miami Children's PPEC Center",
			City:        "Miami",
			County:      "Miami-Dade",
			State:       "FL",
			Coordinates: &geo.Coordinate{Latitude: 25.7617, Longitude: -80.1918},
			Tags: map[string][]string{
				entities.TagCategoryServices:   {"skilled nursing", "respite care"},
				entities.TagCategoryInsurances: {"medicaid"},
				entities.TagCategoryFeatures:   {"transportation provided"},
			},
			RecordKind: entities.RecordKindPPEC,
			UpdatedAt:  now,
		},
		{
			ID:     uuid.New().String(),
			Name:   "First Step Learning Academy",
			City:   "Winter Haven",
			County: "Polk",
			State:  "FL",
			Tags: map[string][]string{
				entities.TagCategoryServices:     {"early intervention"},
				entities.TagCategoryScholarships: {"family empowerment"},
			},
			RecordKind: entities.RecordKindDaycare,
			UpdatedAt:  now,
		},
	}
}
