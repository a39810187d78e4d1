package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/pressly/goose/v3"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	migrations "github.com/frahmantamala/roster-management/db"
	"github.com/frahmantamala/roster-management/internal"
	"github.com/frahmantamala/roster-management/internal/analytics"
	"github.com/frahmantamala/roster-management/internal/catalog"
	"github.com/frahmantamala/roster-management/internal/core/calendar"
	"github.com/frahmantamala/roster-management/internal/core/events"
	"github.com/frahmantamala/roster-management/internal/employee"
	"github.com/frahmantamala/roster-management/internal/kvstore"
	kvPostgres "github.com/frahmantamala/roster-management/internal/kvstore/postgres"
	kvRedis "github.com/frahmantamala/roster-management/internal/kvstore/redis"
	"github.com/frahmantamala/roster-management/internal/report"
	"github.com/frahmantamala/roster-management/internal/salary"
	"github.com/frahmantamala/roster-management/internal/schedule"
	"github.com/frahmantamala/roster-management/internal/transport"
	"github.com/frahmantamala/roster-management/internal/transport/rest"
	"github.com/frahmantamala/roster-management/internal/transport/swagger"
)

type Dependencies struct {
	Config    *internal.Config
	Store     kvstore.Store
	Bus       *events.EventBus
	Employees *employee.Service
	Schedules *schedule.Service
	Salaries  *salary.Service
	Analytics *analytics.Service
	Reports   *report.Service
	Catalog   *catalog.Service
	Router    *chi.Mux
	Logger    *slog.Logger
}

// BuildDependencies wires every service on top of store, hydrates them and
// mounts the HTTP routes. A nil clock uses the configured timezone.
func BuildDependencies(ctx context.Context, cfg *internal.Config, store kvstore.Store, clock calendar.Clock, lg *slog.Logger) (*Dependencies, error) {
	layout, err := cfg.Roster.Layout()
	if err != nil {
		return nil, fmt.Errorf("invalid roster layout: %w", err)
	}
	if clock == nil {
		loc, err := cfg.Roster.Location()
		if err != nil {
			return nil, err
		}
		clock = calendar.SystemClock(loc)
	}
	shifts := cfg.Roster.Shifts()

	bus := events.NewEventBus(lg)
	employees := employee.NewService(employee.NewRepository(store), bus, lg)
	schedules := schedule.NewService(schedule.NewRepository(store), employees, schedule.Settings{
		Layout: layout,
		Shifts: shifts,
		Clock:  clock,
	}, lg)
	salaries := salary.NewService(salary.NewRepository(store), employees, lg)

	bus.SubscribeCompensating(events.EventTypeEmployeeRemoved, "schedule", schedules.HandleEmployeeRemoved)
	bus.SubscribeCompensating(events.EventTypeEmployeeRemoved, "salary", salaries.HandleEmployeeRemoved)

	if err := employees.Load(ctx); err != nil {
		return nil, fmt.Errorf("failed to load employees: %w", err)
	}
	if err := schedules.Load(ctx); err != nil {
		return nil, fmt.Errorf("failed to load schedules: %w", err)
	}
	if err := salaries.Load(ctx); err != nil {
		return nil, fmt.Errorf("failed to load salaries: %w", err)
	}

	stats := analytics.NewService(employees, schedules, clock, lg)
	deps := &Dependencies{
		Config:    cfg,
		Store:     store,
		Bus:       bus,
		Employees: employees,
		Schedules: schedules,
		Salaries:  salaries,
		Analytics: stats,
		Reports:   report.NewService(employees, schedules, salaries, stats, clock, lg),
		Catalog:   catalog.NewService(layout, shifts, lg),
		Router:    chi.NewRouter(),
		Logger:    lg,
	}
	setupRoutes(ctx, deps)
	return deps, nil
}

func setupRoutes(ctx context.Context, deps *Dependencies) {
	cfg := deps.Config
	base := transport.NewBaseHandler(deps.Logger)

	opts := rest.Options{AllowedOrigins: cfg.Server.Origins()}
	if cfg.Observability.Metrics.Enabled {
		opts.MetricsPath = cfg.Observability.Metrics.Path
	}
	if cfg.Server.OpenAPIPath != "" {
		spec, err := swagger.LoadSpec(ctx, cfg.Server.OpenAPIPath)
		if err != nil {
			deps.Logger.Warn("openapi spec not served", "path", cfg.Server.OpenAPIPath, "error", err)
		} else {
			opts.Spec = spec
		}
	}

	rest.RegisterAllRoutes(deps.Router, rest.Handlers{
		Health: rest.NewHealthHandler(deps.Store, cfg.Storage.Driver, map[string]rest.LoadState{
			"employees": deps.Employees,
			"schedules": deps.Schedules,
			"salaries":  deps.Salaries,
		}),
		Catalog:   catalog.NewHandler(base, deps.Catalog),
		Employees: employee.NewHandler(base, deps.Employees),
		Schedule:  schedule.NewHandler(base, deps.Schedules),
		Salaries:  salary.NewHandler(base, deps.Salaries),
		Analytics: analytics.NewHandler(base, deps.Analytics),
		Export:    report.NewHandler(base, deps.Reports),
	}, opts, deps.Logger)
}

// openStore connects the configured key-value driver. SQL drivers are
// migrated first when auto_migrate is set.
func openStore(ctx context.Context, cfg internal.StorageConfig, lg *slog.Logger) (kvstore.Store, error) {
	switch cfg.Driver {
	case "memory":
		lg.Warn("using in-memory store; data is lost on exit")
		return kvstore.NewMemoryStore(), nil
	case "redis":
		store := kvRedis.New(kvRedis.Options{
			Addr:     cfg.Source,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.KeyPrefix,
		})
		pingCtx, cancel := internal.WithStoreTimeout(ctx, cfg.Timeout)
		defer cancel()
		if err := store.Ping(pingCtx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to ping redis: %w", err)
		}
		return store, nil
	case "postgres", "sqlite":
		db, err := initDB(cfg)
		if err != nil {
			return nil, err
		}
		if cfg.AutoMigrate {
			sqlDB, err := db.DB()
			if err != nil {
				return nil, err
			}
			if err := runMigrations(ctx, sqlDB, gooseDialect(cfg.Driver), false); err != nil {
				_ = sqlDB.Close()
				return nil, err
			}
		}
		return kvPostgres.NewKVRepository(db), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// initDB opens the gorm connection for the SQL drivers.
func initDB(cfg internal.StorageConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if cfg.Driver == "postgres" {
		dialector = postgres.Open(cfg.Source)
	} else {
		dialector = sqlite.Open(cfg.Source)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	if cfg.Driver == "sqlite" {
		// one writer keeps sqlite from reporting "database is locked"
		sqlDB.SetMaxOpenConns(1)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

func gooseDialect(driver string) string {
	if driver == "sqlite" {
		return "sqlite3"
	}
	return "postgres"
}

// runMigrations applies, or with rollback reverts one of, the embedded migrations.
func runMigrations(ctx context.Context, sqlDB *sql.DB, dialect string, rollback bool) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetTableName("schema_migrations")
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("goose: %w", err)
	}
	if rollback {
		if err := goose.DownContext(ctx, sqlDB, migrations.MigrationsDir); err != nil {
			return fmt.Errorf("goose down: %w", err)
		}
		return nil
	}
	if err := goose.UpContext(ctx, sqlDB, migrations.MigrationsDir); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}
