package models

import "os"

type EnvConfig struct {
	DatabaseURL string
	Port        string
	SessionKey  []byte
	Debug       bool
}

func ReadEnvConfig() EnvConfig {
	debug := os.Getenv("CIVITAS_DEBUG") == "true"
	port := os.Getenv("CIVITAS_PORT")
	if port == "" {
		port = "8080"
	}
	sessionKey := os.Getenv("CIVITAS_SESSION_KEY")
	return EnvConfig{
		DatabaseURL: os.Getenv("CIVITAS_DATABASE_URL"),
		Port:        port,
		SessionKey:  []byte(sessionKey),
		Debug:       debug,
	}
}
