package database

import (
	"context"
	"fmt"
	stdlog "log"
	"time"

	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

const (
	DBTypePostgres = "postgres"
	DBTypeSQLite   = "sqlite"
)

// Open connects to the database selected by DB_TYPE and verifies the connection.
// When DB_REPLICA_DSN is set on postgres, reads are routed to the replica.
func Open(ctx context.Context, cfg map[string]string) (*gorm.DB, error) {
	dbType := config.GetString(cfg, "DB_TYPE", DBTypePostgres)

	var dialector gorm.Dialector
	switch dbType {
	case DBTypePostgres:
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			config.GetString(cfg, "DB_HOST", "localhost"),
			config.GetString(cfg, "DB_USER", "postgres"),
			config.GetString(cfg, "DB_PASSWORD", ""),
			config.GetString(cfg, "DB_NAME", "portfolio"),
			config.GetString(cfg, "DB_PORT", "5432"),
			config.GetString(cfg, "DB_SSLMODE", "require"),
		)
		dialector = postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		})
	case DBTypeSQLite:
		path := config.GetString(cfg, "SQLITE_PATH", "portfolio.db")
		dialector = sqlite.Open(fmt.Sprintf("file:%s?_fk=1", path))
	default:
		return nil, fmt.Errorf("unsupported DB_TYPE %q", dbType)
	}

	log.Info().Str("dbType", dbType).Msg("Connecting to database")

	db, err := gorm.Open(dialector, &gorm.Config{
		PrepareStmt:    false,
		TranslateError: true,
		Logger:         newGormLogger(),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", dbType, err)
	}

	if dbType == DBTypeSQLite {
		// sqlite allows one writer; a single connection keeps transactions serialized
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if replicaDSN := config.GetString(cfg, "DB_REPLICA_DSN", ""); replicaDSN != "" && dbType == DBTypePostgres {
		err := db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: []gorm.Dialector{postgres.New(postgres.Config{
				DSN:                  replicaDSN,
				PreferSimpleProtocol: true,
			})},
			Policy: dbresolver.RandomPolicy{},
		}))
		if err != nil {
			return nil, fmt.Errorf("register read replica: %w", err)
		}
		log.Info().Msg("Read replica registered")
	}

	if err := New(db).Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping %s: %w", dbType, err)
	}

	return db, nil
}

func newGormLogger() logger.Interface {
	gormLog := log.With().Str("component", "gorm").Logger()
	return logger.New(
		stdlog.New(gormLog, "", 0),
		logger.Config{
			SlowThreshold:             2 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

// OpenMemory opens a private in-memory sqlite database with the schema migrated.
// Each distinct name is a separate database.
func OpenMemory(name string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared&_fk=1", name)), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := models.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}
