package main

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func main() {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		fmt.Fprintln(os.Stderr, "Error: JWT_SECRET environment variable must be set")
		fmt.Fprintln(os.Stderr, "Usage: JWT_SECRET=secret [JWT_ISSUER=iss] [TOKEN_EMAIL=cook@example.com] [TOKEN_NAME=Cook] go run scripts/generate-jwt.go")
		os.Exit(1)
	}

	email := os.Getenv("TOKEN_EMAIL")
	if email == "" {
		email = "test@example.com"
	}
	name := os.Getenv("TOKEN_NAME")
	if name == "" {
		name = "Test User"
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   uuid.NewString(),
		"email": email,
		"name":  name,
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
	}
	if iss := os.Getenv("JWT_ISSUER"); iss != "" {
		claims["iss"] = iss
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error signing token: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(tokenString)
}
