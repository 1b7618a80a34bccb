package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/baechuer/contacts-service/internal/application/auth"
	"github.com/baechuer/contacts-service/internal/application/contacts"
	"github.com/baechuer/contacts-service/internal/application/notes"
	"github.com/baechuer/contacts-service/internal/audit"
	"github.com/baechuer/contacts-service/internal/config"
	"github.com/baechuer/contacts-service/internal/infrastructure/db/postgres"
	"github.com/baechuer/contacts-service/internal/infrastructure/mail"
	"github.com/baechuer/contacts-service/internal/infrastructure/memory"
	"github.com/baechuer/contacts-service/internal/infrastructure/messaging/rabbitmq"
	"github.com/baechuer/contacts-service/internal/infrastructure/redis"
	"github.com/baechuer/contacts-service/internal/infrastructure/security"
	"github.com/baechuer/contacts-service/internal/infrastructure/storage"
	"github.com/baechuer/contacts-service/internal/logger"
	http_handlers "github.com/baechuer/contacts-service/internal/transport/http/handlers"
	"github.com/baechuer/contacts-service/internal/transport/http/middleware"
	"github.com/baechuer/contacts-service/internal/transport/http/response"
	"github.com/baechuer/contacts-service/internal/transport/http/router"
)

// mailDrainTimeout bounds how long shutdown waits for queued mail.
const mailDrainTimeout = 5 * time.Second

/*
========================
 Public entry (prod)
========================
*/

func NewServer() (*http.Server, func(), error) {
	return newServer(defaultDeps())
}

// NewServerWithDeps allows injecting dependencies for testing
func NewServerWithDeps(deps Deps) (*http.Server, func(), error) {
	return newServer(deps)
}

/*
========================
 Dependency injection
========================
*/

type Deps struct {
	LoadConfig func() (*config.Config, error)

	// InitLogger runs right after config is loaded; nil keeps the current logger.
	InitLogger func(cfg *config.Config)

	NewDB   func(addr string, debug bool) (*sql.DB, error)
	Migrate func(ctx context.Context, db *sql.DB) error

	NewRedis func(cfg redis.Config) *redis.Client

	// NewMailSender returns the delivery transport and its cleanup.
	NewMailSender func(cfg *config.Config) (mail.Sender, func(), error)

	NewAvatarStore func(ctx context.Context, cfg storage.S3Config) (auth.AvatarStore, error)

	NewRouter func(router.Deps) (http.Handler, error)
}

type stores struct {
	users    auth.UserRepo
	contacts contacts.Repo
	notes    notes.Repo

	// seeding needs the concrete repos
	seedUsers    postgres.SeederUsers
	seedContacts postgres.SeederContacts

	ready http_handlers.Pinger
}

/*
========================
 Core bootstrap logic
========================
*/

func newServer(deps Deps) (*http.Server, func(), error) {
	// 0) config
	cfg, err := deps.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	if deps.InitLogger != nil {
		deps.InitLogger(cfg)
	}

	var cleanupFns []func()
	fail := func(err error) (*http.Server, func(), error) {
		runCleanup(cleanupFns)
		return nil, nil, err
	}

	// 1) storage
	st, closeDB, err := openStores(deps, cfg)
	if err != nil {
		return nil, nil, err
	}
	if closeDB != nil {
		cleanupFns = append(cleanupFns, closeDB)
	}

	// 2) redis (best-effort)
	var redisCli *redis.Client
	if cfg.RedisAddr != "" && deps.NewRedis != nil {
		c := deps.NewRedis(redis.Config{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		if err := c.Ping(context.Background()); err != nil {
			logger.Logger.Warn().Err(err).Msg("redis unavailable; using in-process rate limits")
			_ = c.Close()
		} else {
			logger.Logger.Info().Msg("redis connected")
			redisCli = c
			cleanupFns = append(cleanupFns, func() { _ = c.Close() })
		}
	}

	// 3) mail: sender -> bounded queue -> dispatcher
	sender, closeSender, err := deps.NewMailSender(cfg)
	if err != nil {
		return fail(err)
	}
	if closeSender != nil {
		cleanupFns = append(cleanupFns, closeSender)
	}
	queue := mail.NewQueue(sender, mail.QueueConfig{
		Size:        cfg.MailQueueSize,
		Workers:     cfg.MailWorkers,
		SendTimeout: cfg.MailSendTimeout,
	}, logger.Logger)
	// registered after the sender so it drains before the sender closes
	cleanupFns = append(cleanupFns, func() {
		ctx, cancel := context.WithTimeout(context.Background(), mailDrainTimeout)
		defer cancel()
		_ = queue.Close(ctx)
	})
	dispatcher := mail.NewDispatcher(queue)

	// 4) security
	logger.Logger.Info().Str("issuer", cfg.JWTIssuer).Msg("initializing jwt signer")
	hasher := security.NewBcryptHasher(cfg.BcryptCost)
	tokens := security.NewJWTTokens(cfg.JWTSecret, cfg.JWTIssuer)

	// seed (opt-in)
	if cfg.SeedDemo {
		postgres.SeedDemo(context.Background(), st.seedUsers, st.seedContacts, hasher, logger.Logger)
	}

	// 5) services
	auditLog := audit.New(logger.Logger)

	authSvc := auth.NewService(st.users, hasher, tokens, dispatcher, auth.Config{
		AccessTTL:     cfg.AccessTokenTTL,
		RefreshTTL:    cfg.RefreshTokenTTL,
		PublicBaseURL: cfg.PublicBaseURL,
	}).WithAudit(auditLog.Record)

	if cfg.S3Bucket != "" && deps.NewAvatarStore != nil {
		avatars, err := deps.NewAvatarStore(context.Background(), storage.S3Config{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			Bucket:          cfg.S3Bucket,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			UsePathStyle:    cfg.S3UsePathStyle,
			PublicBaseURL:   cfg.S3PublicBaseURL,
		})
		if err != nil {
			if cfg.Env != "dev" {
				return fail(fmt.Errorf("avatar storage: %w", err))
			}
			logger.Logger.Warn().Err(err).Msg("avatar storage unavailable; uploads disabled")
		} else {
			authSvc = authSvc.WithAvatarStore(avatars)
		}
	}

	contactSvc := contacts.NewService(st.contacts).WithAudit(auditLog.Record)
	noteSvc := notes.NewService(st.notes).WithAudit(auditLog.Record)

	// 6) handlers + middleware
	authH := http_handlers.NewAuthHandler(authSvc, cfg.AvatarMaxBytes)
	contactsH := http_handlers.NewContactsHandler(contactSvc)
	notesH := http_handlers.NewNotesHandler(noteSvc)
	healthH := http_handlers.NewHealthHandler(st.ready)

	authMW := middleware.Auth(authSvc, response.WriteError)

	// rate limit: shared counters when redis is up, in-process otherwise
	var fwLimiter *redis.FixedWindowLimiter
	if redisCli != nil {
		fwLimiter = redis.NewFixedWindowLimiter(redisCli)
	}
	rl := func(scope string, perMin int) func(http.Handler) http.Handler {
		if perMin <= 0 {
			return nil
		}
		fw := middleware.FixedWindowConfig{Scope: scope, Limit: perMin, Window: time.Minute}
		if fwLimiter == nil {
			return middleware.RateLimitLocal(fw, response.WriteError)
		}
		return middleware.RateLimitFixedWindow(fwLimiter, fw, response.WriteError)
	}

	// 7) router
	mux, err := deps.NewRouter(router.Deps{
		Health:   healthH,
		Auth:     authH,
		Contacts: contactsH,
		Notes:    notesH,
		Metrics:  promhttp.Handler(),

		RequestIDMW:    middleware.RequestID,
		AuthMW:         authMW,
		InternalAuthMW: middleware.InternalAuth(cfg.MetricsToken),
		Middlewares: []func(http.Handler) http.Handler{
			middleware.CORS(cfg.CORSOrigins),
			middleware.SecurityHeaders,
			chimw.RealIP,
			middleware.Metrics,
			middleware.AccessLog,
		},

		RLRegister:       rl("register", cfg.RLRegisterPerMin),
		RLContactsCreate: rl("contacts", cfg.RLContactsPerMin),
	})
	if err != nil {
		return fail(err)
	}

	// 8) server
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	cleanup := func() {
		runCleanup(cleanupFns)
	}

	return srv, cleanup, nil
}

// openStores selects in-memory or Postgres repositories. The returned func
// closes the database, if one was opened.
func openStores(deps Deps, cfg *config.Config) (stores, func(), error) {
	if cfg.DBAddr == config.MemoryDB {
		logger.Logger.Warn().Msg("using in-memory stores; data is lost on restart")
		users, cs := memory.NewUserRepo(), memory.NewContactRepo()
		return stores{
			users:        users,
			contacts:     cs,
			notes:        memory.NewNoteRepo(),
			seedUsers:    users,
			seedContacts: cs,
		}, nil, nil
	}

	db, err := deps.NewDB(cfg.DBAddr, cfg.DBDebug)
	if err != nil {
		return stores{}, nil, fmt.Errorf("open db: %w", err)
	}
	closeDB := func() { _ = db.Close() }

	if cfg.DBAutoMigrate && deps.Migrate != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := deps.Migrate(ctx, db); err != nil {
			closeDB()
			return stores{}, nil, fmt.Errorf("migrate: %w", err)
		}
	}

	users, cs := postgres.NewUserRepo(db), postgres.NewContactRepo(db)
	return stores{
		users:        users,
		contacts:     cs,
		notes:        postgres.NewNoteRepo(db),
		seedUsers:    users,
		seedContacts: cs,
		ready:        db,
	}, closeDB, nil
}

/*
========================
 Default deps (prod)
========================
*/

func defaultDeps() Deps {
	return Deps{
		LoadConfig: config.Load,
		InitLogger: func(cfg *config.Config) {
			logger.Init(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
		},
		NewDB:         config.NewDB,
		Migrate:       postgres.Migrate,
		NewRedis:      redis.New,
		NewMailSender: newMailSender,
		NewAvatarStore: func(ctx context.Context, c storage.S3Config) (auth.AvatarStore, error) {
			st, err := storage.NewS3AvatarStore(ctx, c, logger.Logger)
			if err != nil {
				return nil, err
			}
			if err := st.EnsureBucket(ctx); err != nil {
				logger.Logger.Warn().Err(err).Str("bucket", c.Bucket).Msg("avatar bucket check failed")
			}
			return st, nil
		},
		NewRouter: router.New,
	}
}

func newMailSender(cfg *config.Config) (mail.Sender, func(), error) {
	switch cfg.MailTransport {
	case config.MailSMTP:
		s, err := mail.NewSMTPSender(mail.SMTPConfig{
			Host:     cfg.MailServer,
			Port:     cfg.MailPort,
			Username: cfg.MailUsername,
			Password: cfg.MailPassword,
			From:     cfg.MailFrom,
			FromName: cfg.MailFromName,
		}, logger.Logger)
		if err != nil {
			return nil, nil, err
		}
		return s, nil, nil

	case config.MailRabbitMQ:
		p, err := rabbitmq.NewPublisher(cfg.RabbitURL, cfg.RabbitExchange)
		if err != nil {
			if cfg.Env == "dev" {
				logger.Logger.Warn().Err(err).Msg("rabbitmq unavailable; logging mail instead")
				return mail.NewLogSender(logger.Logger), nil, nil
			}
			return nil, nil, err
		}
		return p, func() { _ = p.Close() }, nil

	default:
		return mail.NewLogSender(logger.Logger), nil, nil
	}
}

/*
========================
 helpers
========================
*/

func runCleanup(fns []func()) {
	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}
