package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"jobboard/internal/config"
	"jobboard/internal/database"
	"jobboard/internal/database/migration"
	dbpostgres "jobboard/internal/database/postgres"
	"jobboard/internal/database/seeder"
	"jobboard/internal/delivery/http/handler"
	"jobboard/internal/domain/job"
	"jobboard/internal/domain/user"
	"jobboard/internal/infrastructure/cache"
	"jobboard/internal/infrastructure/persistence/memory"
	pgpersistence "jobboard/internal/infrastructure/persistence/postgres"
	"jobboard/internal/infrastructure/storage"
	"jobboard/internal/pkg/jwt"
	"jobboard/internal/repository"
	"jobboard/internal/usecase"
	ucauth "jobboard/internal/usecase/auth"
	ucjob "jobboard/internal/usecase/job"
	"jobboard/internal/usecase/session"
	"jobboard/internal/usecase/upload"
	ucuser "jobboard/internal/usecase/user"
	"jobboard/internal/ws"
)

// Container owns every long-lived dependency of the server.
type Container struct {
	Config config.Config
	Logger *log.Logger

	DB    database.DB
	Redis *cache.Redis

	Users        user.Repository
	Jobs         job.Repository
	Applications job.ApplicationRepository

	Sessions *session.Manager
	Signer   jwt.Signer
	Storage  upload.Storage
	Disk     *storage.Disk
	Hub      *ws.Hub

	Auth        usecase.AuthUsecase
	Credentials *ucauth.Service
	Uploads     *upload.Service
	JobService  *ucjob.Service
	UserService *ucuser.Service

	passwordCost int
}

// Option adjusts a container before its services are built.
type Option func(*Container)

func WithLogger(logger *log.Logger) Option {
	return func(c *Container) { c.Logger = logger }
}

// WithPasswordCost lowers the bcrypt cost; tests use bcrypt.MinCost.
func WithPasswordCost(cost int) Option {
	return func(c *Container) { c.passwordCost = cost }
}

// NewContainer connects the configured backends and builds the services on
// top of them. A database or Redis that cannot be reached is fatal.
func NewContainer(cfg config.Config, opts ...Option) (*Container, error) {
	c := &Container{Config: cfg}
	for _, opt := range opts {
		opt(c)
	}
	if c.Logger == nil {
		c.Logger = log.New(os.Stdout, "", log.LstdFlags)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := c.initPersistence(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}
	if err := c.initSessions(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}
	if err := c.initStorage(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}
	c.initServices()

	if cfg.App.SeedDemoData {
		r := seeder.Runner{Seeders: seeder.Defaults(), Logger: c.Logger}
		if err := r.Run(ctx, seeder.Store{Users: c.Users, Jobs: c.Jobs}); err != nil {
			_ = c.Close()
			return nil, err
		}
	}

	return c, nil
}

func (c *Container) initPersistence(ctx context.Context) error {
	switch c.Config.App.StorageDriver {
	case config.DriverMemory:
		c.Users = memory.NewUserRepository()
		c.Jobs = memory.NewJobRepository()
		c.Applications = memory.NewApplicationRepository()
		c.Logger.Printf("[App] storage driver=memory")
		return nil
	case config.DriverPostgres:
		pool, err := dbpostgres.Connect(ctx, c.Config.Database)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		c.DB = pool
		if err := (migration.Runner{}).Run(ctx, pool.SQLDB()); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
		c.Users = pgpersistence.NewUserRepository(pool)
		c.Jobs = repository.NewPostgresJobRepository(pool)
		c.Applications = repository.NewPostgresApplicationRepository(pool)
		c.Logger.Printf("[App] storage driver=postgres host=%s db=%s", c.Config.Database.DBHost, c.Config.Database.DBName)
		return nil
	default:
		return fmt.Errorf("unknown storage driver %q", c.Config.App.StorageDriver)
	}
}

func (c *Container) initSessions(ctx context.Context) error {
	var store session.Store
	switch c.Config.Session.Store {
	case config.DriverMemory:
		store = session.NewMemoryStore()
	case config.DriverRedis:
		r, err := cache.Connect(ctx, c.Config.Redis, c.Logger)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		c.Redis = r
		store = cache.NewSessionStore(r)
	default:
		return fmt.Errorf("unknown session store %q", c.Config.Session.Store)
	}
	c.Logger.Printf("[App] session store=%s ttl=%s", c.Config.Session.Store, c.Config.Session.TTL)

	c.Signer = jwt.NewHMACSigner(c.Config.Session.Secret)
	c.Sessions = session.NewManager(store, c.Users, c.Config.Session.TTL, c.Logger)
	return nil
}

func (c *Container) initStorage(ctx context.Context) error {
	switch c.Config.Upload.Backend {
	case config.UploadDisk:
		c.Disk = storage.NewDisk(c.Config.Upload.Dir, "")
		c.Storage = c.Disk
	case config.UploadS3:
		s3, err := storage.NewS3(ctx, c.Config.Upload)
		if err != nil {
			return fmt.Errorf("init s3 storage: %w", err)
		}
		c.Storage = s3
	default:
		return fmt.Errorf("unknown upload backend %q", c.Config.Upload.Backend)
	}
	c.Logger.Printf("[App] upload backend=%s max_bytes=%d", c.Config.Upload.Backend, c.Config.Upload.MaxBytes)
	return nil
}

func (c *Container) initServices() {
	c.Hub = ws.NewHub(c.Logger)

	c.Credentials = ucauth.NewService(c.Users)
	if c.passwordCost > 0 {
		c.Credentials = c.Credentials.WithCost(c.passwordCost)
	}
	c.Uploads = upload.NewService(c.Storage, c.Config.Upload.MaxBytes, c.Logger)
	c.Auth = usecase.NewAuthUsecase(c.Credentials, c.Sessions, c.Uploads, c.Logger)

	jobOpts := []ucjob.Option{ucjob.WithNotifier(c.Hub)}
	if c.Redis != nil {
		jobOpts = append(jobOpts, ucjob.WithCache(c.Redis))
	}
	c.JobService = ucjob.NewService(c.Jobs, c.Applications, c.Users, c.Logger, jobOpts...)
	c.UserService = ucuser.NewService(c.Users, c.JobService)
}

// HealthChecks lists the backends /health probes.
func (c *Container) HealthChecks() map[string]handler.Check {
	checks := map[string]handler.Check{}
	if c.DB != nil {
		checks["database"] = c.DB.Ping
	}
	if c.Redis != nil {
		checks["redis"] = c.Redis.Ping
	}
	return checks
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.Redis != nil {
		errs = append(errs, c.Redis.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	return errors.Join(errs...)
}
