package database

import (
	"fmt"
	"log"
	"strings"

	"github.com/yukikurage/priority-matrix-api/internal/models"
	"gorm.io/gorm"
)

type compositeIndex struct {
	model   interface{}
	name    string
	columns []string
}

// byOwnerIndexes back the owner-scoped list queries
var byOwnerIndexes = []compositeIndex{
	// Matrix rendering reads a quadrant in position order
	{&models.Task{}, "idx_tasks_user_quadrant_position", []string{"user_id", "quadrant", "position"}},
	{&models.Task{}, "idx_tasks_user_created_at", []string{"user_id", "created_at"}},
	{&models.Category{}, "idx_categories_user_name", []string{"user_id", "name"}},
}

// AddIndexes adds the composite indexes that gorm tags cannot express portably
func AddIndexes(db *gorm.DB) error {
	migrator := db.Migrator()

	for _, idx := range byOwnerIndexes {
		if migrator.HasIndex(idx.model, idx.name) {
			log.Printf("Index %s already exists, skipping", idx.name)
			continue
		}

		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(idx.model); err != nil {
			return fmt.Errorf("failed to parse model for index %s: %w", idx.name, err)
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, stmt.Schema.Table, strings.Join(idx.columns, ", "))
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Printf("Created index %s on %s(%s)", idx.name, stmt.Schema.Table, strings.Join(idx.columns, ", "))
	}

	return nil
}
