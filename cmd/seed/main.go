// seed loads reference cities and starter services for local development.
package main

import (
	"context"
	"log"
	"os"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/joho/godotenv/autoload"
)

type city struct {
	name   string
	region string
}

var nzCities = []city{
	{"Auckland", "Auckland"},
	{"Christchurch", "Canterbury"},
	{"Dunedin", "Otago"},
	{"Hamilton", "Waikato"},
	{"Hastings", "Hawke's Bay"},
	{"Invercargill", "Southland"},
	{"Napier", "Hawke's Bay"},
	{"Nelson", "Nelson"},
	{"New Plymouth", "Taranaki"},
	{"Palmerston North", "Manawatū-Whanganui"},
	{"Porirua", "Wellington"},
	{"Rotorua", "Bay of Plenty"},
	{"Tauranga", "Bay of Plenty"},
	{"Wellington", "Wellington"},
	{"Whangārei", "Northland"},
}

type service struct {
	title string
	slug  string
}

var starterServices = []service{
	{"House Washing", "house-washing"},
	{"Roof Treatment", "roof-treatment"},
	{"Gutter Cleaning", "gutter-cleaning"},
	{"Driveway & Path Cleaning", "driveway-path-cleaning"},
	{"Deck & Fence Washing", "deck-fence-washing"},
}

func main() {
	databaseURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		log.Fatalf("create pool: %v", err)
	}
	defer pool.Close()

	for _, c := range nzCities {
		if _, err := pool.Exec(ctx, `
			INSERT INTO cities (name, region)
			SELECT $1, $2
			WHERE NOT EXISTS (SELECT 1 FROM cities WHERE name = $1)`,
			c.name, c.region); err != nil {
			log.Fatalf("seed city %s: %v", c.name, err)
		}
	}
	log.Printf("seeded %d cities", len(nzCities))

	for i, s := range starterServices {
		if _, err := pool.Exec(ctx, `
			INSERT INTO services (title, slug, display_order)
			VALUES ($1, $2, $3)
			ON CONFLICT (slug) DO NOTHING`,
			s.title, s.slug, i); err != nil {
			log.Fatalf("seed service %s: %v", s.slug, err)
		}
	}
	log.Printf("seeded %d services", len(starterServices))
}
