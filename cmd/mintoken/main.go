// Command mintoken prints a signed staff access token.  Staff identity
// lives in a separate service, so the API server only verifies tokens;
// this tool signs one locally for development and operational use.
package main

import (
	"flag"    // flag parses the token claims from the command line
	"fmt"     // fmt prints the signed token to stdout
	"log"     // log reports signing failures
	"os"      // os reads the signing secret from the environment
	"strconv" // strconv parses the optional TTL override
	"time"    // time formats the expiry for display

	"github.com/joho/godotenv" // godotenv loads a local .env if present

	"github.com/tablekeeper/floorplan/internal/utils"
)

func main() {
	// Load .env before reading defaults so ACCESS_TOKEN_TTL_MIN from the
	// file is picked up.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	userID := flag.Uint64("user", 1, "staff user id (sub claim)")
	venueID := flag.Uint64("venue", 1, "venue the token is scoped to")
	role := flag.String("role", "MANAGER", "staff role: OWNER, MANAGER or SERVER")
	ttl := flag.Int("ttl", defaultTTLMin(), "token lifetime in minutes")
	flag.Parse()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET must be set")
	}
	tok, err := utils.NewStaffToken(secret, *userID, *venueID, *role, *ttl)
	if err != nil {
		log.Fatalf("sign token: %v", err)
	}
	fmt.Println(tok.Token)
	fmt.Fprintf(os.Stderr, "expires %s\n", tok.Exp.Format(time.RFC3339))
}

// defaultTTLMin reads ACCESS_TOKEN_TTL_MIN, falling back to 30 minutes
// when unset or unparsable.
func defaultTTLMin() int {
	if s := os.Getenv("ACCESS_TOKEN_TTL_MIN"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 30
}
