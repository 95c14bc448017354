package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratep "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jessevdk/go-flags"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/gymblog/gymblog/internal/dotenv"
	"github.com/gymblog/gymblog/internal/overpass"
	"github.com/gymblog/gymblog/internal/service"
	"github.com/gymblog/gymblog/internal/service/impl"
	"github.com/gymblog/gymblog/internal/storage/postgres"
)

// nolint:lll,gochecknoglobals
var opts = struct {
	City   string  `long:"city" env:"CITY" required:"true" description:"city the gyms belong to"`
	Lat    float64 `long:"lat" env:"LAT" required:"true" description:"latitude of the city center"`
	Lng    float64 `long:"lng" env:"LNG" required:"true" description:"longitude of the city center"`
	Radius int     `long:"radius" env:"RADIUS" default:"10000" description:"search radius in meters"`

	OverpassURL     string        `long:"overpass.url" env:"OVERPASS_URL" default:"https://overpass-api.de/api/interpreter" description:"overpass api url"`
	OverpassTimeout time.Duration `long:"overpass.timeout" env:"OVERPASS_TIMEOUT" default:"60s" description:"timeout of overpass requests"`

	Postgres           string `long:"postgres" env:"POSTGRES" default:"host=localhost port=5432 user=postgres password=root sslmode=disable" description:"postgres dsn"`
	PostgresMigrations string `long:"postgres.migrations" env:"POSTGRES_MIGRATIONS" default:"scripts/migrations/postgres" description:"postgres migrations directory"`
}{}

func main() {
	dotenv.Load()

	parser := flags.NewParser(&opts, flags.Default)
	parser.ShortDescription = "gymimport"
	parser.LongDescription = "Imports gyms around the city from OpenStreetMap"

	_, err := parser.Parse()

	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			parser.WriteHelp(os.Stdout)
			os.Exit(0)
		}
		logrus.WithError(err).Fatal("error occurred while parsing flags")
	}

	logrus.Info("gymimport started")
	logrus.Infof("%+v", opts)

	db := mustGetDB()

	res, err := impl.ImportGyms(context.Background(), impl.Dependencies{
		Storage:  postgres.New(db),
		Overpass: overpass.New(opts.OverpassURL, &http.Client{Timeout: opts.OverpassTimeout}),
	}, service.ImportGymsParams{
		City:         opts.City,
		Lat:          opts.Lat,
		Lng:          opts.Lng,
		RadiusMeters: opts.Radius,
	})
	if err != nil {
		logrus.WithError(err).Fatal("failed to import gyms")
	}

	logrus.WithFields(logrus.Fields{
		"fetched":  res.Fetched,
		"inserted": res.Inserted,
		"skipped":  res.Skipped,
	}).Info("done")
}

func mustGetDB() *sql.DB {
	db, err := sql.Open("postgres", opts.Postgres)
	if err != nil {
		logrus.WithError(err).Fatal("failed to create postgres connection")
	}

	if err := db.PingContext(context.Background()); err != nil {
		logrus.WithError(err).Fatal("failed to ping postgres")
	}

	driver, err := migratep.WithInstance(db, &migratep.Config{})
	if err != nil {
		logrus.WithError(err).Fatal("failed to create database migrate driver")
	}

	migrator, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", opts.PostgresMigrations), "postgres", driver)
	if err != nil {
		logrus.WithError(err).Fatal("failed to create migrator")
	}

	switch err := migrator.Up(); err {
	case nil:
		logrus.Info("database was migrated")
	case migrate.ErrNoChange:
		logrus.Info("database is up-to-date")
	default:
		logrus.WithError(err).Fatal("failed to migrate db")
	}

	return db
}
