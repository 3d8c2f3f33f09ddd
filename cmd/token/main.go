package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/forgo/packlist/internal/config"
	"github.com/forgo/packlist/pkg/jwt"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error reading .env: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Flags for customization
	username := flag.String("username", "", "Username the token is issued to (required)")
	userID := flag.String("id", "", "User record id, e.g. user:3f2a... (required)")
	email := flag.String("email", "", "Email for the token")
	exp := flag.Duration("exp", cfg.JWT.Expiry, "Token lifetime")
	outputJSON := flag.Bool("json", false, "Output as JSON")

	flag.Parse()

	if *username == "" || *userID == "" {
		fmt.Fprintln(os.Stderr, "Both -username and -id are required")
		flag.Usage()
		os.Exit(2)
	}

	jwtService, err := jwt.NewService(jwt.Config{
		Secret:     cfg.JWT.Secret,
		Issuer:     cfg.JWT.Issuer,
		Expiration: *exp,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating JWT service: %v\n", err)
		os.Exit(1)
	}

	token, err := jwtService.Sign(jwt.Claims{
		UserID:   *userID,
		Username: *username,
		Email:    *email,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error signing token: %v\n", err)
		os.Exit(1)
	}

	if *outputJSON {
		output := map[string]any{
			"authToken":  token,
			"token_type": "Bearer",
			"expires_in": int(exp.Seconds()),
			"user_id":    *userID,
			"username":   *username,
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(output)
		return
	}

	fmt.Println("Token Generated")
	fmt.Println("===============")
	fmt.Printf("Username: %s\n", *username)
	fmt.Printf("User ID:  %s\n", *userID)
	fmt.Printf("Expires:  %s\n", time.Now().Add(*exp).Format(time.RFC3339))
	fmt.Println()
	fmt.Println("Token:")
	fmt.Println(token)
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Printf("  curl -H 'Authorization: Bearer %s...' http://localhost:%s/api/packList/db/%s\n", token[:min(len(token), 40)], cfg.Server.Port, *username)
}
