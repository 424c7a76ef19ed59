package database

import (
	"fmt"

	"gorm.io/gorm"

	"zhipin-server/internal/infrastructure/database/entities"
)

// Migrate applies the schema for every persisted entity, including the
// background task table owned by the queue.
func Migrate(db *gorm.DB, extra ...any) error {
	models := []any{
		&entities.User{},
		&entities.CandidateProfile{},
		&entities.Company{},
		&entities.Job{},
		&entities.Match{},
		&entities.InterviewConversation{},
		&entities.InterviewTask{},
	}
	models = append(models, extra...)

	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
