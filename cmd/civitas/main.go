package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gitlab.com/civitas-pk/civitas/internal/db"
	"gitlab.com/civitas-pk/civitas/internal/models"
	"gitlab.com/civitas-pk/civitas/internal/routes"
)

const usage = `Usage:
	- start
	- migrate [up/down/drop]
`

func main() {
	if len(os.Args) == 1 {
		fmt.Print(usage)
		return
	}
	godotenv.Load()
	envConfig := models.ReadEnvConfig()
	switch os.Args[1] {
	case "start":
		server := CivitasServer{EnvConfig: envConfig}
		server.Setup()
		server.Run()
	case "migrate":
		if len(os.Args) < 3 {
			fmt.Print(usage)
			return
		}
		var err error
		switch os.Args[2] {
		case "up":
			err = db.MigrateUp(envConfig.DatabaseURL)
		case "down":
			err = db.MigrateDown(envConfig.DatabaseURL)
		case "drop":
			err = db.Drop(envConfig.DatabaseURL)
		default:
			fmt.Print(usage)
			return
		}
		if err != nil {
			fmt.Println(err)
			return
		}
		fmt.Println("Done")
	default:
		fmt.Print(usage)
	}
}

type CivitasServer struct {
	models.EnvConfig
	addr       string
	logger     zerolog.Logger
	router     chi.Router
	httpServer *http.Server
	database   db.SharedDB
}

func (server *CivitasServer) setupLogger() {
	var writer io.Writer
	if server.Debug {
		writer = zerolog.ConsoleWriter{Out: os.Stdout}
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		writer = os.Stdout
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	server.logger = zerolog.New(writer).With().Timestamp().Logger()
}
func (server *CivitasServer) setupRouter() {
	server.router = routes.NewRouter(&server.EnvConfig, &server.database, server.logger)
}
func (server *CivitasServer) setupDB() {
	err := db.MigrateUp(server.DatabaseURL)
	if err != nil {
		server.logger.Fatal().Err(err).Send()
	}
	database, err := db.Connect(&server.EnvConfig)
	if err != nil {
		server.logger.Fatal().AnErr("Connecting to db", err).Send()
	}
	server.database = database
}
func (server *CivitasServer) setupHttpServer() {
	server.addr = ":" + server.EnvConfig.Port
	server.httpServer = &http.Server{
		Addr:         server.addr,
		Handler:      server.router,
		ReadTimeout:  1 * time.Minute,
		WriteTimeout: 1 * time.Minute,
	}
}
func (server *CivitasServer) Setup() {
	server.setupLogger()
	server.setupRouter()
	server.setupDB()
	server.setupHttpServer()
}
func (server *CivitasServer) Shutdown() {
	if err := server.httpServer.Shutdown(context.Background()); err != nil {
		server.logger.Error().
			Err(err).
			Msg("Error shutting down")
	}
}
func (server *CivitasServer) Run() {
	server.logger.Info().Str("server_address", server.addr).Msg("Server is starting")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	go server.httpServer.ListenAndServe()
	server.logger.Info().Msg("Ready")

	<-ctx.Done()
	stop()
	server.logger.Info().Msg("Shutting down gracefully")
	server.Shutdown()
}
