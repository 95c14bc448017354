package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratep "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jessevdk/go-flags"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/gymblog/gymblog/internal/dotenv"
	"github.com/gymblog/gymblog/internal/storage/postgres"
)

var opts = struct {
	Export             string `long:"export" env:"EXPORT" default:"export.json" description:"path to firebase json export"`
	Postgres           string `long:"postgres" env:"POSTGRES" default:"host=localhost port=5432 user=postgres password=root sslmode=disable" description:"postgres dsn"`
	PostgresMigrations string `long:"postgres.migrations" env:"POSTGRES_MIGRATIONS" default:"scripts/migrations/postgres" description:"postgres migrations directory"`
}{}

func main() {
	dotenv.Load()

	parser := flags.NewParser(&opts, flags.Default)
	parser.ShortDescription = "export2db"
	parser.LongDescription = "Firebase export to database importer"

	_, err := parser.Parse()

	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			parser.WriteHelp(os.Stdout)
			os.Exit(0)
		}
		logrus.WithError(err).Fatal("error occurred while parsing flags")
	}

	logrus.Info("export2db started")
	logrus.Infof("%+v", opts)

	b, err := os.ReadFile(opts.Export)
	if err != nil {
		logrus.WithError(err).Fatal("failed to read export")
	}

	var e export

	if err := json.Unmarshal(b, &e); err != nil {
		logrus.WithError(err).Fatal("failed to unmarshal export")
	}

	db := mustGetDB()
	s := postgres.New(db)

	res, err := importExport(context.Background(), s, &e, time.Now().UTC())
	if err != nil {
		logrus.WithError(err).Fatal("failed to import export")
	}

	logrus.WithFields(logrus.Fields{
		"users":    res.Users,
		"posts":    res.Posts,
		"comments": res.Comments,
		"ratings":  res.Ratings,
		"gyms":     res.Gyms,
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
