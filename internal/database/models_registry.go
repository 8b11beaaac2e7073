package database

import "newsdesk/internal/models"

// AllModels returns every model covered by automigration. Order matters:
// referenced tables migrate before the tables holding their foreign keys.
func AllModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Category{},
		&models.City{},
		&models.Source{},
		&models.News{},
		&models.Comment{},
	}
}
