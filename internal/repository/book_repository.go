package repository

import (
	"context"
	"errors"
	"fmt"

	"kaiz1_core/internal/middleware"
	"kaiz1_core/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookRepository interface {
	FindByID(ctx context.Context, db *gorm.DB, bookID uuid.UUID) (*model.Book, error)
	List(ctx context.Context, db *gorm.DB, category string) ([]model.Book, error)
	// UpsertByTitle はタイトルが一致する書籍を更新し、無ければ作成する (インポート用)
	UpsertByTitle(ctx context.Context, db *gorm.DB, book *model.Book) error

	// SaveForUser は既に保存済みなら何もしない
	SaveForUser(ctx context.Context, db *gorm.DB, userID, bookID uuid.UUID) error
	UnsaveForUser(ctx context.Context, db *gorm.DB, userID, bookID uuid.UUID) error
	ListSaved(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]model.Book, error)

	// CreateIdempotencyKey は同じキーが既にあれば ErrConflict を返す
	CreateIdempotencyKey(ctx context.Context, tx *gorm.DB, key *model.IdempotencyKey) error
}

type gormBookRepository struct{}

func NewGormBookRepository() BookRepository {
	return &gormBookRepository{}
}

func (r *gormBookRepository) FindByID(ctx context.Context, db *gorm.DB, bookID uuid.UUID) (*model.Book, error) {
	var book model.Book
	if err := db.WithContext(ctx).Where("book_id = ?", bookID).First(&book).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		middleware.GetLogger(ctx).Error("Error finding book by ID", "error", err, "book_id", bookID.String())
		return nil, fmt.Errorf("gormBookRepository.FindByID: %w", err)
	}
	return &book, nil
}

func (r *gormBookRepository) List(ctx context.Context, db *gorm.DB, category string) ([]model.Book, error) {
	var books []model.Book
	q := db.WithContext(ctx).Order("title ASC")
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if err := q.Find(&books).Error; err != nil {
		middleware.GetLogger(ctx).Error("Error listing books", "error", err, "category", category)
		return nil, fmt.Errorf("gormBookRepository.List: %w", err)
	}
	return books, nil
}

func (r *gormBookRepository) UpsertByTitle(ctx context.Context, db *gorm.DB, book *model.Book) error {
	err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "title"}},
		DoUpdates: clause.AssignmentColumns([]string{"author", "category", "read_time_minutes", "summary", "updated_at"}),
	}).Create(book).Error
	if err != nil {
		middleware.GetLogger(ctx).Error("Error upserting book", "error", err, "title", book.Title)
		return fmt.Errorf("gormBookRepository.UpsertByTitle: %w", err)
	}
	return nil
}

func (r *gormBookRepository) SaveForUser(ctx context.Context, db *gorm.DB, userID, bookID uuid.UUID) error {
	saved := model.SavedBook{UserID: userID, BookID: bookID}
	err := db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&saved).Error
	if err != nil {
		middleware.GetLogger(ctx).Error("Error saving book", "error", err, "user_id", userID.String(), "book_id", bookID.String())
		return fmt.Errorf("gormBookRepository.SaveForUser: %w", err)
	}
	return nil
}

func (r *gormBookRepository) UnsaveForUser(ctx context.Context, db *gorm.DB, userID, bookID uuid.UUID) error {
	result := db.WithContext(ctx).Where("user_id = ? AND book_id = ?", userID, bookID).Delete(&model.SavedBook{})
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error unsaving book", "error", result.Error, "user_id", userID.String(), "book_id", bookID.String())
		return fmt.Errorf("gormBookRepository.UnsaveForUser: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormBookRepository) ListSaved(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]model.Book, error) {
	var saved []model.SavedBook
	err := db.WithContext(ctx).Preload("Book").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&saved).Error
	if err != nil {
		middleware.GetLogger(ctx).Error("Error listing saved books", "error", err, "user_id", userID.String())
		return nil, fmt.Errorf("gormBookRepository.ListSaved: %w", err)
	}
	books := make([]model.Book, 0, len(saved))
	for _, s := range saved {
		if s.Book != nil {
			books = append(books, *s.Book)
		}
	}
	return books, nil
}

func (r *gormBookRepository) CreateIdempotencyKey(ctx context.Context, tx *gorm.DB, key *model.IdempotencyKey) error {
	if err := tx.WithContext(ctx).Create(key).Error; err != nil {
		if isDuplicateKey(err) {
			middleware.GetLogger(ctx).Warn("Idempotency key replayed", "user_id", key.UserID.String(), "action", key.Action)
			return model.ErrConflict
		}
		return fmt.Errorf("gormBookRepository.CreateIdempotencyKey: %w", err)
	}
	return nil
}
