package main

import (
	"fmt"
	"log"
	"os"

	"awardfinder/pkg/loyalty"

	"github.com/gin-gonic/gin"
)

// Mock award provider for local runs. Serves the partner search and trip
// endpoints with data derived from the route, date and program so repeated
// calls agree with each other.
func main() {
	// Default port
	port := "8081"

	// Check if port is provided as command line argument
	if len(os.Args) > 1 {
		port = os.Args[1]
	}

	tables, err := loyalty.Default()
	if err != nil {
		log.Fatal(err)
	}

	r := gin.Default()
	NewProvider(tables.Programs(), os.Getenv("PROVIDER_API_KEY"), true).RegisterRoutes(r)

	addr := fmt.Sprintf(":%s", port)
	fmt.Printf("Mock award provider running on port %s...\n", port)
	if err := r.Run(addr); err != nil {
		log.Fatal(err)
	}
}
