package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"regexp"

	"github.com/agrolink/farmgate/internal/config"
	"github.com/agrolink/farmgate/internal/database"
	"github.com/agrolink/farmgate/internal/models"
	"github.com/agrolink/farmgate/internal/repository"
	"github.com/spf13/cobra"
)

type FarmImport struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
}

type FarmerImport struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
}

type SeedFile struct {
	Farms   []FarmImport   `json:"farms"`
	Farmers []FarmerImport `json:"farmers"`
}

var (
	importFile    string
	skipInvalid   bool
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,50}$`)
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Seed farms and farmers from a JSON file",
	Long: `Seed farm and farmer records from a JSON file.

Expected JSON format:
{
  "farms":   [{"name": "Green Acres", "location": "Jos"}],
  "farmers": [{"username": "ada", "email": "ada@example.com", "phone_number": "+2348000000000"}]
}

IDs are optional; missing ones are generated. By default invalid
usernames are skipped.`,
	Example: `  farmgate import -f seed.json
  farmgate import --file seed.json --skip-invalid=false`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runImport(); err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	importCmd.Flags().StringVarP(&importFile, "file", "f", "", "JSON file to import (required)")
	importCmd.Flags().BoolVar(&skipInvalid, "skip-invalid", true, "Skip invalid farmer usernames")
	importCmd.MarkFlagRequired("file")
}

func runImport() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	db, err := database.Connect(cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	data, err := os.ReadFile(importFile)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", importFile, err)
	}

	var seed SeedFile
	if err := json.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("failed to parse %s: %w", importFile, err)
	}

	farmRepo := repository.NewFarmRepository(db)
	farmerRepo := repository.NewFarmerRepository(db)

	imported, skipped := 0, 0

	for _, f := range seed.Farms {
		if f.Name == "" {
			skipped++
			continue
		}
		farm := &models.Farm{ID: f.ID, Name: f.Name, Location: f.Location}
		if err := farmRepo.Create(farm); err != nil {
			return fmt.Errorf("failed to import farm %q: %w", f.Name, err)
		}
		imported++
	}

	for _, f := range seed.Farmers {
		if !usernameRegex.MatchString(f.Username) {
			if skipInvalid {
				log.Printf("Skipping invalid username %q", f.Username)
				skipped++
				continue
			}
			return fmt.Errorf("invalid username %q", f.Username)
		}
		farmer := &models.Farmer{
			ID:          f.ID,
			Username:    f.Username,
			Email:       f.Email,
			PhoneNumber: f.PhoneNumber,
		}
		if err := farmerRepo.Create(farmer); err != nil {
			return fmt.Errorf("failed to import farmer %q: %w", f.Username, err)
		}
		imported++
	}

	log.Printf("Import complete: %d records imported, %d skipped", imported, skipped)
	return nil
}
