package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/alextreichler/pcbuilder/internal/models"
	"github.com/alextreichler/pcbuilder/internal/store"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	addAdminCmd := flag.NewFlagSet("add-admin", flag.ExitOnError)
	username := addAdminCmd.String("username", "", "Username for the new admin")
	password := addAdminCmd.String("password", "", "Password for the new admin")

	if len(os.Args) < 2 {
		fmt.Println("expected 'add-admin' or 'seed-components' subcommand")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "add-admin":
		addAdminCmd.Parse(os.Args[2:])
		if *username == "" || *password == "" {
			fmt.Println("username and password are required")
			addAdminCmd.PrintDefaults()
			os.Exit(1)
		}
		createAdmin(*username, *password)
	case "seed-components":
		seedComponents()
	default:
		fmt.Println("expected 'add-admin' or 'seed-components' subcommand")
		os.Exit(1)
	}
}

func openStore() *store.Store {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./pcbuilder.db"
	}
	migrationsDir := os.Getenv("MIGRATIONS_DIR")
	if migrationsDir == "" {
		migrationsDir = "migrations"
	}

	db, err := store.NewStore(dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	// Ensure tables exist if running the cli before the server
	if err := db.Migrate(migrationsDir); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	return db
}

func createAdmin(username, password string) {
	db := openStore()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	if err := db.CreateAdmin(username, string(hashedPassword)); err != nil {
		log.Fatalf("Failed to create admin: %v", err)
	}

	fmt.Printf("Admin '%s' created successfully.\n", username)
}

// seedComponents loads a starter catalog so the builder page has
// something in every category.
func seedComponents() {
	db := openStore()

	seed := []models.Component{
		{Type: "CPU", Name: "Ryzen 7 7800X3D", PriceCents: 44900, Spec: "8 cores / 16 threads, 5.0 GHz boost, AM5"},
		{Type: "CPU", Name: "Core i5-14600K", PriceCents: 31900, Spec: "14 cores / 20 threads, 5.3 GHz boost, LGA1700"},
		{Type: "Motherboard", Name: "B650 Tomahawk WiFi", PriceCents: 21900, Spec: "AM5, DDR5, PCIe 5.0 M.2"},
		{Type: "RAM", Name: "32GB DDR5-6000 CL30", PriceCents: 10900, Spec: "2x16GB, EXPO"},
		{Type: "GPU", Name: "GeForce RTX 4070 Super", PriceCents: 59900, Spec: "12GB GDDR6X"},
		{Type: "GPU", Name: "Radeon RX 7800 XT", PriceCents: 49900, Spec: "16GB GDDR6"},
		{Type: "Storage", Name: "990 Pro 2TB NVMe", PriceCents: 16900, Spec: "PCIe 4.0, 7450 MB/s read"},
		{Type: "PSU", Name: "RM850x 850W Gold", PriceCents: 13900, Spec: "Fully modular, ATX 3.0"},
		{Type: "Case", Name: "Fractal North", PriceCents: 12900, Spec: "ATX mid tower, mesh front"},
	}

	for i := range seed {
		if err := db.CreateComponent(&seed[i]); err != nil {
			log.Fatalf("Failed to seed component %q: %v", seed[i].Name, err)
		}
	}
	fmt.Printf("Seeded %d components.\n", len(seed))
}
