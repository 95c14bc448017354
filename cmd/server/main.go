package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/go-chi/chi"
	"github.com/golang-migrate/migrate/v4"
	migratep "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jessevdk/go-flags"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Decentr-net/logrus/sentry"

	"github.com/gymblog/gymblog/internal/auth"
	"github.com/gymblog/gymblog/internal/consumer"
	"github.com/gymblog/gymblog/internal/consumer/broker"
	"github.com/gymblog/gymblog/internal/dotenv"
	"github.com/gymblog/gymblog/internal/filestore"
	"github.com/gymblog/gymblog/internal/health"
	"github.com/gymblog/gymblog/internal/inference"
	mm "github.com/gymblog/gymblog/internal/middleware"
	"github.com/gymblog/gymblog/internal/overpass"
	"github.com/gymblog/gymblog/internal/publisher"
	"github.com/gymblog/gymblog/internal/realtime"
	"github.com/gymblog/gymblog/internal/server"
	"github.com/gymblog/gymblog/internal/service/impl"
	"github.com/gymblog/gymblog/internal/storage/postgres"
)

// nolint:lll,gochecknoglobals
var opts = struct {
	Host           string        `long:"http.host" env:"HTTP_HOST" default:"0.0.0.0" description:"IP to listen on"`
	Port           int           `long:"http.port" env:"HTTP_PORT" default:"8080" description:"port to listen on for insecure connections"`
	RequestTimeout time.Duration `long:"http.request-timeout" env:"HTTP_REQUEST_TIMEOUT" default:"45s" description:"request processing timeout"`

	Postgres                   string `long:"postgres" env:"POSTGRES" default:"host=localhost port=5432 user=postgres password=root sslmode=disable" description:"postgres dsn"`
	PostgresMaxOpenConnections int    `long:"postgres.max_open_connections" env:"POSTGRES_MAX_OPEN_CONNECTIONS" default:"0" description:"postgres maximal open connections count, 0 means unlimited"`
	PostgresMaxIdleConnections int    `long:"postgres.max_idle_connections" env:"POSTGRES_MAX_IDLE_CONNECTIONS" default:"5" description:"postgres maximal idle connections count"`
	PostgresMigrations         string `long:"postgres.migrations" env:"POSTGRES_MIGRATIONS" default:"scripts/migrations/postgres" description:"postgres migrations directory"`

	RedisAddr     string        `long:"redis.addr" env:"REDIS_ADDR" description:"redis address, cache is kept in memory and rate limit is disabled when empty"`
	RedisPassword string        `long:"redis.password" env:"REDIS_PASSWORD" description:"redis password"`
	RedisDB       int           `long:"redis.db" env:"REDIS_DB" default:"0" description:"redis database"`
	CacheTTL      time.Duration `long:"cache.ttl" env:"CACHE_TTL" default:"1m" description:"ttl of cached gyms responses"`

	RateLimitCapacity       int           `long:"ratelimit.capacity" env:"RATELIMIT_CAPACITY" default:"10" description:"auth requests burst per ip"`
	RateLimitRefillTokens   int           `long:"ratelimit.refill_tokens" env:"RATELIMIT_REFILL_TOKENS" default:"1" description:"tokens added every refill interval"`
	RateLimitRefillInterval time.Duration `long:"ratelimit.refill_interval" env:"RATELIMIT_REFILL_INTERVAL" default:"6s" description:"refill interval"`

	JWTSecret  string        `long:"jwt.secret" env:"JWT_SECRET" required:"true" description:"secret to sign access tokens"`
	JWTTTL     time.Duration `long:"jwt.ttl" env:"JWT_TTL" default:"24h" description:"access token lifetime"`
	BcryptCost int           `long:"bcrypt.cost" env:"BCRYPT_COST" default:"10" description:"bcrypt cost of password hashes"`

	FirebaseProject     string `long:"firebase.project" env:"FIREBASE_PROJECT" description:"firebase project id, firebase tokens are not accepted when empty"`
	FirebaseCredentials string `long:"firebase.credentials" env:"FIREBASE_CREDENTIALS" description:"path to firebase service account file"`

	AMQP string `long:"amqp" env:"AMQP" description:"amqp url, events are delivered in process when empty"`

	FileStore     string `long:"filestore" env:"FILESTORE" default:"local" choice:"local" choice:"s3" description:"attachments store"`
	FileStoreDir  string `long:"filestore.dir" env:"FILESTORE_DIR" default:"uploads" description:"directory of local store"`
	FileStoreURL  string `long:"filestore.url" env:"FILESTORE_URL" default:"http://localhost:8080/files" description:"public url of stored files"`
	S3Bucket      string `long:"s3.bucket" env:"S3_BUCKET" description:"s3 bucket"`
	S3Region      string `long:"s3.region" env:"S3_REGION" default:"us-east-1" description:"s3 region"`
	S3Endpoint    string `long:"s3.endpoint" env:"S3_ENDPOINT" description:"s3 compatible endpoint"`
	MaxUploadSize int64  `long:"upload.max_size" env:"UPLOAD_MAX_SIZE" default:"10485760" description:"maximal size of uploaded file in bytes"`

	OverpassURL     string        `long:"overpass.url" env:"OVERPASS_URL" default:"https://overpass-api.de/api/interpreter" description:"overpass api url"`
	OverpassTimeout time.Duration `long:"overpass.timeout" env:"OVERPASS_TIMEOUT" default:"30s" description:"timeout of overpass requests"`

	InferenceURL     string        `long:"inference.url" env:"INFERENCE_URL" description:"text generation endpoint, chat is disabled when empty"`
	InferenceToken   string        `long:"inference.token" env:"INFERENCE_TOKEN" description:"text generation api token"`
	InferenceTimeout time.Duration `long:"inference.timeout" env:"INFERENCE_TIMEOUT" default:"30s" description:"timeout of text generation requests"`

	LogLevel  string `long:"log.level" env:"LOG_LEVEL" default:"info" description:"Log level" choice:"debug" choice:"info" choice:"warning" choice:"error"`
	SentryDSN string `long:"sentry.dsn" env:"SENTRY_DSN" description:"sentry dsn"`
}{}

var errTerminated = errors.New("terminated")

func main() {
	dotenv.Load()

	parser := flags.NewParser(&opts, flags.Default)
	parser.ShortDescription = "Gymblog"
	parser.LongDescription = "Gymblog API server"

	_, err := parser.Parse()

	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			parser.WriteHelp(os.Stdout)
			os.Exit(0)
		}
		logrus.WithError(err).Fatal("error occurred while parsing flags")
	}

	lvl, _ := logrus.ParseLevel(opts.LogLevel) // err will always be nil
	logrus.SetLevel(lvl)

	if opts.SentryDSN != "" {
		hook, err := sentry.NewHook(sentry.Options{
			Dsn:              opts.SentryDSN,
			AttachStacktrace: true,
			Release:          health.GetVersion(),
			ServerName:       "gymblog",
		}, logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel)

		if err != nil {
			logrus.WithError(err).Fatal("failed to init sentry")
		}

		logrus.AddHook(hook)
	} else {
		logrus.Info("empty sentry dsn")
		logrus.Warn("skip sentry initialization")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db := mustGetDB()
	s := postgres.New(db)

	pingers := []health.Pinger{
		health.SubjectPinger("postgres", s.Ping),
	}

	hub := realtime.NewHub(32)

	var (
		pub publisher.Publisher = publisher.NewLocal(hub)
		c   consumer.Consumer
	)
	if opts.AMQP != "" {
		p, err := publisher.NewAMQP(opts.AMQP, publisher.Exchange)
		if err != nil {
			logrus.WithError(err).Fatal("failed to create amqp publisher")
		}
		defer p.Close() // nolint: errcheck

		pub = p
		c = broker.New(opts.AMQP, publisher.Exchange, hub)
		pingers = append(pingers, c)
	} else {
		logrus.Warn("empty amqp url, events are delivered in process")
	}

	cache, rdb := mustGetCache()
	if rdb != nil {
		pingers = append(pingers, health.SubjectPinger("redis", func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}))
	}

	issuer := auth.NewIssuer(opts.JWTSecret, opts.JWTTTL)

	svc := impl.New(impl.Dependencies{
		Storage:   s,
		Issuer:    issuer,
		Files:     mustGetFileStore(),
		Publisher: pub,
		Overpass:  overpass.New(opts.OverpassURL, &http.Client{Timeout: opts.OverpassTimeout}),
		Inference: getGenerator(),
	}, impl.Config{
		BcryptCost:    opts.BcryptCost,
		MaxUploadSize: opts.MaxUploadSize,
	})

	r := chi.NewMux()
	r.Get("/health", health.Handler(5*time.Second, pingers...))

	filesDir := ""
	if opts.FileStore == "local" {
		filesDir = opts.FileStoreDir
	}

	server.SetupRouter(svc, mustGetVerifier(ctx, issuer), hub, r, server.Options{
		Timeout:       opts.RequestTimeout,
		MaxUploadSize: opts.MaxUploadSize,
		Cache:         cache,
		CacheTTL:      opts.CacheTTL,
		Redis:         rdb,
		RateLimit: mm.RateLimitConfig{
			Capacity:       opts.RateLimitCapacity,
			RefillTokens:   opts.RateLimitRefillTokens,
			RefillInterval: opts.RateLimitRefillInterval,
			Prefix:         "gymblog:ratelimit:",
		},
		FilesDir: filesDir,
	})

	srv := http.Server{
		Addr:    fmt.Sprintf("%s:%d", opts.Host, opts.Port),
		Handler: r,
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	logrus.Info("service started")

	if err := run(ctx, &srv, c, sigs); err != nil && !errors.Is(err, errTerminated) {
		logrus.WithError(err).Fatal("service unexpectedly closed")
	}
}

// run serves srv and c until a signal is received or one of them fails.
func run(ctx context.Context, srv *http.Server, c consumer.Consumer, sigs <-chan os.Signal) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	gr, gctx := errgroup.WithContext(ctx)
	if c != nil {
		gr.Go(func() error {
			return c.Run(gctx)
		})
	}
	gr.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to serve: %w", err)
		}
		return nil
	})
	gr.Go(func() error {
		var err error
		select {
		case s := <-sigs:
			logrus.Infof("terminating by %s signal", s)
			err = errTerminated
		case <-gctx.Done():
			logrus.Info("terminating after failure")
		}

		cancel()

		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logrus.WithError(err).Error("failed to shutdown server gracefully")
		}

		return err
	})

	return gr.Wait()
}

func mustGetDB() *sql.DB {
	db, err := sql.Open("postgres", opts.Postgres)
	if err != nil {
		logrus.WithError(err).Fatal("failed to create postgres connection")
	}
	db.SetMaxOpenConns(opts.PostgresMaxOpenConnections)
	db.SetMaxIdleConns(opts.PostgresMaxIdleConnections)

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

	switch v, d, err := migrator.Version(); err {
	case nil:
		logrus.Infof("database version %d with dirty state %t", v, d)
	case migrate.ErrNilVersion:
		logrus.Info("database version: nil")
	default:
		logrus.WithError(err).Fatal("failed to get version")
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

// mustGetCache returns redis backed cache or in-memory one when redis is not configured.
func mustGetCache() (mm.Storage, *redis.Client) {
	if opts.RedisAddr == "" {
		logrus.Warn("empty redis address, cache is kept in memory and rate limit is disabled")
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.RedisAddr,
		Password: opts.RedisPassword,
		DB:       opts.RedisDB,
	})

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		logrus.WithError(err).Fatal("failed to ping redis")
	}

	return mm.NewRedisStorage(rdb, "gymblog:cache:"), rdb
}

func mustGetFileStore() filestore.Store {
	switch opts.FileStore {
	case "s3":
		cfg := aws.NewConfig().WithRegion(opts.S3Region)
		if opts.S3Endpoint != "" {
			cfg = cfg.WithEndpoint(opts.S3Endpoint).WithS3ForcePathStyle(true)
		}

		s, err := filestore.NewS3(cfg, opts.S3Bucket, opts.FileStoreURL)
		if err != nil {
			logrus.WithError(err).Fatal("failed to create s3 file store")
		}
		return s
	default:
		if err := os.MkdirAll(opts.FileStoreDir, 0755); err != nil {
			logrus.WithError(err).Fatal("failed to create files directory")
		}
		return filestore.NewLocal(opts.FileStoreDir, opts.FileStoreURL)
	}
}

func mustGetVerifier(ctx context.Context, issuer *auth.Issuer) auth.Verifier {
	if opts.FirebaseProject == "" {
		logrus.Info("empty firebase project, only own tokens are accepted")
		return issuer
	}

	c, err := auth.NewFirebaseAuthClient(ctx, opts.FirebaseProject, opts.FirebaseCredentials)
	if err != nil {
		logrus.WithError(err).Fatal("failed to create firebase auth client")
	}

	return auth.Chain(issuer, auth.NewFirebaseVerifier(c))
}

func getGenerator() inference.Generator {
	if opts.InferenceURL == "" {
		logrus.Warn("empty inference url, chat is disabled")
		return nil
	}

	return inference.New(opts.InferenceURL, opts.InferenceToken, &http.Client{Timeout: opts.InferenceTimeout})
}
