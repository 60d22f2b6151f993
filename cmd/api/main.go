package main

import (
	"fmt"
	"os"

	"github.com/angelchiav/cinema-booking-system/internal/app"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load() // Load .env if present, ignore error

	err := app.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
