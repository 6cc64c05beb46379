package models

import "gorm.io/gorm"

// AutoMigrate creates or updates every table the survival service owns or reads.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Tournament{},
		&Participant{},
		&ScoreSubmission{},
		&EliminationRecord{},
		&EliminationRun{},
	)
}
