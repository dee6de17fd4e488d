package main

import (
	"bufio"
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/foxxcyber/receipt-rewards/internal/config"
	"github.com/foxxcyber/receipt-rewards/internal/database"
	"github.com/foxxcyber/receipt-rewards/internal/matching"
	"github.com/foxxcyber/receipt-rewards/internal/models"
	"github.com/foxxcyber/receipt-rewards/internal/patterns"
)

// SeedProduct is one catalog product row
type SeedProduct struct {
	Name     string
	Brand    string
	Volume   float64
	Unit     models.VolumeUnit
	Points   int
	Keywords []string
}

var defaultStores = []string{
	"MERCURY DRUG",
	"SM HYPERMARKET",
	"ROBINSONS SUPERMARKET",
	"PUREGOLD",
	"SAVEMORE",
	"7-ELEVEN",
}

var defaultProducts = []SeedProduct{
	{Name: "Bear Brand Fortified", Brand: "Nestle", Volume: 320, Unit: models.VolumeUnitGram, Points: 5, Keywords: []string{"bear brand", "fortified"}},
	{Name: "Nestle Milo", Brand: "Nestle", Volume: 300, Unit: models.VolumeUnitGram, Points: 4, Keywords: []string{"milo"}},
	{Name: "Nescafe Gold", Brand: "Nestle", Volume: 29, Unit: models.VolumeUnitGram, Points: 6, Keywords: []string{"nescafe"}},
	{Name: "Nido 3+ Pre-S1.6kg", Brand: "Nestle", Volume: 1.6, Unit: models.VolumeUnitKilogram, Points: 20, Keywords: []string{"nido"}},
	{Name: "Nido 3+ Pre-S2.4kg", Brand: "Nestle", Volume: 2.4, Unit: models.VolumeUnitKilogram, Points: 28, Keywords: []string{"nido"}},
	{Name: "Coca-Cola 1.5L", Brand: "Coca-Cola", Volume: 1.5, Unit: models.VolumeUnitLiter, Points: 2, Keywords: []string{"coke", "coca cola"}},
}

func main() {
	dryRun := flag.Bool("dry-run", false, "Preview changes without writing to database")
	skipStores := flag.Bool("skip-stores", false, "Do not seed the default stores")
	localFile := flag.String("file", "", "Load products from a CSV file (name,brand,volume,unit,points,keywords) instead of the built-in list")
	flag.Parse()

	godotenv.Load()
	cfg := config.Load()

	products := defaultProducts
	if *localFile != "" {
		file, err := os.Open(*localFile)
		if err != nil {
			log.Fatalf("Failed to open local file: %v", err)
		}
		defer file.Close()
		log.Printf("Reading products from local file: %s", *localFile)

		products, err = parseProducts(file)
		if err != nil {
			log.Fatalf("Failed to parse product file: %v", err)
		}
	}

	if *dryRun {
		log.Println("DRY RUN - No changes will be made")
		printPreview(defaultStores, products, *skipStores)
		return
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := database.EnsureAdminUser(db, cfg); err != nil {
		log.Printf("Warning: Could not ensure admin user: %v", err)
	}

	ctx := context.Background()

	if !*skipStores {
		created, err := seedStores(ctx, db, defaultStores)
		if err != nil {
			log.Fatalf("Failed to seed stores: %v", err)
		}
		log.Printf("Stores: %d created", created)
	}

	created, err := seedProducts(ctx, db, products)
	if err != nil {
		log.Fatalf("Failed to seed products: %v", err)
	}
	log.Printf("Seed complete: %d products created", created)
}

// parseProducts reads product rows, skipping a header line if present
func parseProducts(reader io.Reader) ([]SeedProduct, error) {
	csvReader := csv.NewReader(bufio.NewReader(reader))
	csvReader.FieldsPerRecord = -1

	var products []SeedProduct
	line := 0
	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("Warning: skipping malformed row: %v", err)
			continue
		}
		line++

		if line == 1 && strings.EqualFold(strings.TrimSpace(record[0]), "name") {
			continue
		}
		if len(record) < 5 {
			log.Printf("Warning: row %d has %d columns, need at least 5", line, len(record))
			continue
		}

		volume, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid volume %q: %w", line, record[2], err)
		}
		points, err := strconv.Atoi(strings.TrimSpace(record[4]))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid points %q: %w", line, record[4], err)
		}

		p := SeedProduct{
			Name:   strings.TrimSpace(record[0]),
			Brand:  strings.TrimSpace(record[1]),
			Volume: volume,
			Unit:   models.VolumeUnit(strings.ToLower(strings.TrimSpace(record[3]))),
			Points: points,
		}
		if len(record) > 5 && record[5] != "" {
			for _, kw := range strings.Split(record[5], ";") {
				if kw = strings.TrimSpace(kw); kw != "" {
					p.Keywords = append(p.Keywords, kw)
				}
			}
		}
		if p.Name == "" {
			continue
		}
		products = append(products, p)
	}

	return products, nil
}

// seedStores creates stores whose normalized name is not yet active
func seedStores(ctx context.Context, db *database.DB, names []string) (int, error) {
	existing, err := db.ListActiveStores(ctx)
	if err != nil {
		return 0, err
	}
	seen := make(map[string]bool, len(existing))
	for _, s := range existing {
		seen[s.NormalizedName] = true
	}

	created := 0
	for _, name := range names {
		if seen[matching.NormalizeStoreName(name)] {
			continue
		}
		req := &models.CreateStoreRequest{Name: name, Type: models.StoreTypePhysical}
		if category, ok := patterns.StoreCategory(name); ok {
			req.Category = &category
		}
		if _, err := db.CreateStore(ctx, req); err != nil {
			return created, fmt.Errorf("failed to create store %s: %w", name, err)
		}
		created++
	}
	return created, nil
}

// seedProducts creates products whose normalized name is not yet active
func seedProducts(ctx context.Context, db *database.DB, products []SeedProduct) (int, error) {
	existing, err := db.ListActiveProducts(ctx)
	if err != nil {
		return 0, err
	}
	seen := make(map[string]bool, len(existing))
	for _, p := range existing {
		seen[p.NormalizedName] = true
	}

	brandIDs := make(map[string]int)
	created := 0
	for _, p := range products {
		if seen[matching.NormalizeProductName(p.Name)] {
			continue
		}

		req := &models.CreateProductRequest{
			Name:       p.Name,
			Keywords:   p.Keywords,
			Volume:     p.Volume,
			VolumeUnit: p.Unit,
			Points:     p.Points,
		}

		if p.Brand != "" {
			id, ok := brandIDs[p.Brand]
			if !ok {
				var category *string
				if c, found := patterns.ProductCategory(p.Name); found {
					category = &c
				}
				brand, err := db.UpsertBrand(ctx, p.Brand, category)
				if err != nil {
					return created, fmt.Errorf("failed to upsert brand %s: %w", p.Brand, err)
				}
				id = brand.ID
				brandIDs[p.Brand] = id
			}
			req.BrandID = &id
		}

		if _, err := db.CreateProduct(ctx, req); err != nil {
			return created, fmt.Errorf("failed to create product %s: %w", p.Name, err)
		}
		seen[matching.NormalizeProductName(p.Name)] = true
		created++
	}
	return created, nil
}

func printPreview(stores []string, products []SeedProduct, skipStores bool) {
	if !skipStores {
		fmt.Printf("\n=== Stores (%d) ===\n", len(stores))
		for _, s := range stores {
			category, _ := patterns.StoreCategory(s)
			fmt.Printf("  %-24s %s\n", s, category)
		}
	}

	fmt.Printf("\n=== Products (%d) ===\n", len(products))
	for _, p := range products {
		fmt.Printf("  %-28s %-10s %g%s  %d pts\n", p.Name, p.Brand, p.Volume, p.Unit, p.Points)
	}
}
