package seed

import (
	"fmt"
	"log"

	"newsdesk/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var categoryNames = []string{
	"Politics", "Business", "Technology", "Science", "Health",
	"Sports", "Culture", "World", "Local", "Opinion",
}

var cityNames = []string{
	"Springfield", "Riverton", "Lakeview", "Fairmont", "Oakdale",
	"Millbrook", "Ashford", "Brookside",
}

var sourceNames = []string{
	"City Wire", "Daily Dispatch", "Metro Press", "The Ledger", "Evening Post",
}

// newsStatuses weights the seeded lifecycle mix towards published articles.
var newsStatuses = []models.NewsStatus{
	models.NewsStatusPublished, models.NewsStatusPublished, models.NewsStatusPublished,
	models.NewsStatusDraft, models.NewsStatusReview, models.NewsStatusScheduled,
}

var commentStatuses = []models.CommentStatus{
	models.CommentStatusPending, models.CommentStatusApproved, models.CommentStatusApproved,
	models.CommentStatusRejected,
}

// Seed populates the database with demo data: a fixed admin and editor, a
// pool of writers, the taxonomies, and news with comments spread across
// every lifecycle and moderation state.
func Seed(db *gorm.DB, opts Options) error {
	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			return fmt.Errorf("clearing data: %w", err)
		}
	}
	if opts.NumUsers <= 0 {
		opts.NumUsers = 10
	}
	if opts.NumNews <= 0 {
		opts.NumNews = 50
	}
	if opts.NumComments <= 0 {
		opts.NumComments = 200
	}

	f := NewFactory(db, opts)

	// Fixed staff logins for local development.
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if _, err := f.CreateUser(models.RoleAdmin, func(u *models.User) {
		u.Username = "admin"
		u.Email = "admin@newsdesk.local"
		u.Password = string(hash)
	}); err != nil {
		return fmt.Errorf("creating admin: %w", err)
	}
	if _, err := f.CreateUser(models.RoleEditor, func(u *models.User) {
		u.Username = "editor"
		u.Email = "editor@newsdesk.local"
		u.Password = string(hash)
	}); err != nil {
		return fmt.Errorf("creating editor: %w", err)
	}

	writers := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		writer, err := f.CreateUser(models.RoleWriter)
		if err != nil {
			return fmt.Errorf("creating writer: %w", err)
		}
		writers = append(writers, writer)
	}

	categories := make([]*models.Category, 0, len(categoryNames))
	for _, name := range categoryNames {
		cat, err := f.CreateCategory(name)
		if err != nil {
			return fmt.Errorf("creating category %q: %w", name, err)
		}
		categories = append(categories, cat)
	}
	for _, name := range cityNames {
		if _, err := f.CreateCity(name); err != nil {
			return fmt.Errorf("creating city %q: %w", name, err)
		}
	}
	for _, name := range sourceNames {
		if _, err := f.CreateSource(name); err != nil {
			return fmt.Errorf("creating source %q: %w", name, err)
		}
	}

	news := make([]*models.News, 0, opts.NumNews)
	for i := 0; i < opts.NumNews; i++ {
		author := writers[f.rand.Intn(len(writers))]
		category := categories[f.rand.Intn(len(categories))]
		status := newsStatuses[f.rand.Intn(len(newsStatuses))]
		n, err := f.CreateNews(author, category, status)
		if err != nil {
			return fmt.Errorf("creating news: %w", err)
		}
		news = append(news, n)
	}

	for i := 0; i < opts.NumComments; i++ {
		target := news[f.rand.Intn(len(news))]
		status := commentStatuses[f.rand.Intn(len(commentStatuses))]
		if _, err := f.CreateComment(target, status); err != nil {
			return fmt.Errorf("creating comment: %w", err)
		}
	}

	log.Printf("Seeded %d users, %d categories, %d news, %d comments",
		opts.NumUsers+2, len(categories), len(news), opts.NumComments)
	return nil
}

func clearData(db *gorm.DB) error {
	// Children before parents.
	for _, model := range []interface{}{
		&models.Comment{}, &models.News{},
		&models.Source{}, &models.City{}, &models.Category{},
		&models.User{},
	} {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}
