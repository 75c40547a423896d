package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds everything the server reads from the environment.
type Config struct {
	MongoURI     string
	DatabaseName string
	JWTSecret    string
	MailHost     string
	MailPort     string
	MailUser     string
	MailPass     string
	FrontendURL  string
	Port         string
}

// Load reads the .env file (if present) and the process environment.
// The database URI and the token signing secret are required; starting
// without them would leave every protected route broken, so we fail fast.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	cfg := &Config{
		MongoURI:     os.Getenv("MONGODB_URI"),
		DatabaseName: os.Getenv("DATABASE_NAME"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		MailHost:     os.Getenv("MAIL_HOST"),
		MailPort:     os.Getenv("MAIL_PORT"),
		MailUser:     os.Getenv("MAIL_USER"),
		MailPass:     os.Getenv("MAIL_PASS"),
		FrontendURL:  os.Getenv("FRONTEND_URL"),
		Port:         os.Getenv("PORT"),
	}

	if cfg.MongoURI == "" {
		log.Fatal("MONGODB_URI is not set")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is not set")
	}
	if cfg.DatabaseName == "" {
		cfg.DatabaseName = "aranacare"
	}
	if cfg.MailHost == "" {
		cfg.MailHost = "smtp.gmail.com"
	}
	if cfg.MailPort == "" {
		cfg.MailPort = "587"
	}
	if cfg.FrontendURL == "" {
		cfg.FrontendURL = "http://localhost:5173"
	}
	if cfg.Port == "" {
		cfg.Port = "5000"
	}

	return cfg
}
