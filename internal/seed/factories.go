// Package seed provides helpers to create demo and test data for the
// application database. Development and testing only.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"newsdesk/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	rand *rand.Rand
	opts Options
}

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumNews     int
	NumComments int
	ShouldClean bool
	// SkipBcrypt stores a plaintext password for dev fast mode.
	SkipBcrypt bool
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:   db,
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
		opts: opts,
	}
}

// CreateUser constructs and persists a sample user. Override functions may
// modify the generated user before saving.
func (f *Factory) CreateUser(role models.Role, overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username: gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:    gofakeit.Email(),
		Role:     role,
		IsActive: true,
	}

	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateCategory persists a category with a slug derived from its name.
func (f *Factory) CreateCategory(name string) (*models.Category, error) {
	cat := &models.Category{
		Name:        name,
		Slug:        slugify(name),
		Description: gofakeit.Sentence(8),
	}
	if err := f.db.Create(cat).Error; err != nil {
		return nil, err
	}
	return cat, nil
}

// CreateCity persists a city.
func (f *Factory) CreateCity(name string) (*models.City, error) {
	city := &models.City{Name: name, Slug: slugify(name)}
	if err := f.db.Create(city).Error; err != nil {
		return nil, err
	}
	return city, nil
}

// CreateSource persists an external news source.
func (f *Factory) CreateSource(name string) (*models.Source, error) {
	source := &models.Source{
		Name:     name,
		Slug:     slugify(name),
		Homepage: gofakeit.URL(),
	}
	if err := f.db.Create(source).Error; err != nil {
		return nil, err
	}
	return source, nil
}

// CreateNews constructs and persists an article in the given lifecycle
// state, with a created_at spread over the past 90 days.
func (f *Factory) CreateNews(author *models.User, category *models.Category, status models.NewsStatus, overrides ...func(*models.News)) (*models.News, error) {
	news := &models.News{
		Title:         gofakeit.Sentence(6),
		Summary:       gofakeit.Sentence(12),
		Content:       gofakeit.Paragraph(3, 4, 8, "\n\n"),
		FeaturedImage: fmt.Sprintf("https://picsum.photos/seed/%s/1200/630", gofakeit.UUID()),
		Status:        status,
		AuthorID:      author.ID,
		CategoryID:    category.ID,
		Version:       1,
	}

	daysBack := f.rand.Intn(90)
	hoursBack := f.rand.Intn(24)
	news.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)

	switch status {
	case models.NewsStatusPublished:
		at := news.CreatedAt.Add(time.Duration(f.rand.Intn(48)) * time.Hour)
		// A recent created_at plus the offset can overshoot; published
		// rows must have an elapsed publish time.
		if now := time.Now(); at.After(now) {
			at = now.Add(-time.Minute)
		}
		news.PublishAt = &at
		news.ViewCount = int64(f.rand.Intn(5000))
	case models.NewsStatusScheduled:
		at := time.Now().Add(time.Duration(1+f.rand.Intn(72)) * time.Hour)
		news.PublishAt = &at
	}

	for _, override := range overrides {
		override(news)
	}

	if err := f.db.Create(news).Error; err != nil {
		return nil, err
	}
	return news, nil
}

// CreateComment persists a reader comment in the given moderation state.
func (f *Factory) CreateComment(news *models.News, status models.CommentStatus, overrides ...func(*models.Comment)) (*models.Comment, error) {
	comment := &models.Comment{
		AuthorName: gofakeit.Name(),
		Content:    gofakeit.Sentence(14),
		NewsID:     news.ID,
		Status:     status,
		Version:    1,
		CreatedAt:  news.CreatedAt.Add(time.Duration(f.rand.Intn(96)) * time.Hour),
	}

	for _, override := range overrides {
		override(comment)
	}

	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

func slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.ReplaceAll(s, " ", "-")
	return s
}
