package models

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gen"
	"gorm.io/gorm"
)

/*
Query helper generation:

Set GENERATE_MODELS=true and start the binary. Tables are migrated, typed query
helpers are written to ./generated, and the process exits. A column report lists
database columns that no model field maps to, which usually means a column was
added by hand in production.
*/

// All returns every persisted model in migration order (parents before children).
func All() []any {
	return []any{
		&Moderator{},
		&Project{},
		&Technology{},
		&GalleryImage{},
	}
}

// Migrate creates or updates the schema for every model.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func GenerateModels(db *gorm.DB, outPath string) error {
	if err := db.Exec("SELECT 1").Error; err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	migrateDB := db.Session(&gorm.Session{
		SkipDefaultTransaction: true,
		PrepareStmt:            false,
	})
	if err := Migrate(migrateDB); err != nil {
		return err
	}
	log.Info().Msg("Database migration completed successfully")

	mismatches, err := ColumnMismatchReport(db)
	if err != nil {
		return err
	}
	for table, columns := range mismatches {
		log.Warn().Str("table", table).Strs("columns", columns).Msg("Columns not accounted for in model")
	}

	g := gen.NewGenerator(gen.Config{
		OutPath:           outPath,
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface,
		FieldNullable:     true,
		FieldCoverable:    true,
		FieldWithIndexTag: true,
		FieldWithTypeTag:  true,
	})
	g.UseDB(db)
	g.ApplyBasic(All()...)
	g.Execute()

	log.Info().Str("outPath", outPath).Msg("Model generation complete")
	return nil
}

// ColumnMismatchReport maps table name to the database columns no model field covers.
func ColumnMismatchReport(db *gorm.DB) (map[string][]string, error) {
	report := make(map[string][]string)

	for _, model := range All() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return nil, fmt.Errorf("parse %s: %w", reflect.TypeOf(model).Elem().Name(), err)
		}
		table := stmt.Schema.Table

		columnTypes, err := db.Migrator().ColumnTypes(model)
		if err != nil {
			if strings.Contains(strings.ToLower(err.Error()), "no such table") {
				continue
			}
			return nil, fmt.Errorf("read columns of %s: %w", table, err)
		}

		modelColumns := make(map[string]bool, len(stmt.Schema.DBNames))
		for _, name := range stmt.Schema.DBNames {
			modelColumns[name] = true
		}

		for _, ct := range columnTypes {
			if !modelColumns[ct.Name()] {
				report[table] = append(report[table], ct.Name())
			}
		}
	}

	return report, nil
}
