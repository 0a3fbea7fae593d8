package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/oksasatya/student-onboarding-board/config"
	"github.com/oksasatya/student-onboarding-board/internal/seed"
)

// Prints the board the server would start with as YAML, or checks a seed
// file with -validate.
func main() {
	validate := flag.String("validate", "", "path of a seed file to validate")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	if *validate != "" {
		b, err := seed.LoadFile(*validate)
		if err != nil {
			log.Fatalf("invalid seed: %v", err)
		}
		fmt.Printf("seed ok: %d students in %d columns\n", len(b.Students), len(b.ColumnOrder))
		return
	}

	b, err := seed.Load(cfg.BoardSeedFile)
	if err != nil {
		log.Fatalf("failed to load seed: %v", err)
	}
	if err := seed.Write(os.Stdout, b); err != nil {
		log.Fatalf("failed to write seed: %v", err)
	}
}
