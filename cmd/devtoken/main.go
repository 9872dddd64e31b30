// Command devtoken prints a signed bearer token for calling the billing API
// locally.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"fitdesk/internal/config"
	"fitdesk/internal/models"
	"fitdesk/internal/utils"
)

func main() {
	userID := flag.String("user", "", "portal user id (required)")
	email := flag.String("email", "", "user email")
	role := flag.String("role", models.RoleClient, "admin, trainer or client")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	if *userID == "" {
		log.Fatal("-user must be set")
	}
	switch *role {
	case models.RoleAdmin, models.RoleTrainer, models.RoleClient:
	default:
		log.Fatalf("unknown role %q", *role)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	token, err := utils.GenerateToken(cfg.JWTSecret, &models.UserClaims{
		UserID: *userID,
		Email:  *email,
		Role:   *role,
	}, *ttl)
	if err != nil {
		log.Fatal("Failed to sign token:", err)
	}
	fmt.Println(token)
}
