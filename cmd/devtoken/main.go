// Command devtoken issues access tokens for local testing.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/gdugdh24/compatible-backend/internal/usecase/auth"
	"github.com/google/uuid"
	"github.com/spf13/pflag"
)

func main() {
	var (
		profile = pflag.StringP("profile", "p", "", "profile id to issue the token for (random when empty)")
		secret  = pflag.StringP("secret", "s", os.Getenv("JWT_ACCESS_SECRET"), "signing secret (defaults to $JWT_ACCESS_SECRET)")
		ttl     = pflag.DurationP("ttl", "t", time.Hour, "token lifetime")
	)
	pflag.Parse()

	if len(*secret) < 32 {
		fmt.Fprintln(os.Stderr, "secret must be at least 32 characters")
		os.Exit(2)
	}

	profileID := uuid.New()
	if *profile != "" {
		parsed, err := uuid.Parse(*profile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid profile id: %v\n", err)
			os.Exit(2)
		}
		profileID = parsed
	}

	token, expiresAt, err := auth.NewTokenService(*secret, *ttl).Issue(profileID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to issue token: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("profile_id: %s\nexpires_at: %s\ntoken: %s\n", profileID, expiresAt.Format(time.RFC3339), token)
}
