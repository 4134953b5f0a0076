package importer

import (
	"context"
	"fmt"
	"strings"

	"kaiz1_core/internal/middleware"
	"kaiz1_core/internal/model"
	"kaiz1_core/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Result はインポート結果。不正なレコードは Errors に記録してスキップする。
type Result struct {
	Books   int
	Content int
	Skipped int
	Errors  []string
}

type Importer struct {
	db          *gorm.DB
	bookRepo    repository.BookRepository
	contentRepo repository.ContentRepository
}

func New(db *gorm.DB, bookRepo repository.BookRepository, contentRepo repository.ContentRepository) *Importer {
	return &Importer{db: db, bookRepo: bookRepo, contentRepo: contentRepo}
}

// Import はカタログを1トランザクションで反映する。書籍はタイトル、コンテンツは本文で既存レコードを更新する。
func (im *Importer) Import(ctx context.Context, cat *Catalog) (*Result, error) {
	logger := middleware.GetLogger(ctx)
	res := &Result{Errors: []string{}}

	err := im.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, rec := range cat.Books {
			book, err := rec.toModel()
			if err != nil {
				res.Skipped++
				res.Errors = append(res.Errors, fmt.Sprintf("books[%d]: %v", i, err))
				continue
			}
			if err := im.bookRepo.UpsertByTitle(ctx, tx, book); err != nil {
				return err
			}
			res.Books++
		}
		for i, rec := range cat.Content {
			item, err := rec.toModel()
			if err != nil {
				res.Skipped++
				res.Errors = append(res.Errors, fmt.Sprintf("content[%d]: %v", i, err))
				continue
			}
			if err := im.contentRepo.UpsertByText(ctx, tx, item); err != nil {
				return err
			}
			res.Content++
		}
		return nil
	})
	if err != nil {
		logger.Error("Import failed", "error", err)
		return nil, fmt.Errorf("importer.Import: %w", err)
	}

	logger.Info("Import finished", "books", res.Books, "content", res.Content, "skipped", res.Skipped)
	return res, nil
}

func (r BookRecord) toModel() (*model.Book, error) {
	title := strings.TrimSpace(r.Title)
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}
	if r.ReadTimeMinutes < 0 {
		return nil, fmt.Errorf("read_time_minutes must not be negative: %d", r.ReadTimeMinutes)
	}
	return &model.Book{
		BookID:          uuid.New(),
		Title:           title,
		Author:          strings.TrimSpace(r.Author),
		Category:        strings.ToLower(strings.TrimSpace(r.Category)),
		ReadTimeMinutes: r.ReadTimeMinutes,
		Summary:         strings.TrimSpace(r.Summary),
	}, nil
}

func (r ContentRecord) toModel() (*model.ContentItem, error) {
	text := strings.TrimSpace(r.Text)
	if text == "" {
		return nil, fmt.Errorf("text is required")
	}
	tag := model.DimensionTag(strings.ToLower(strings.TrimSpace(r.DimensionTag)))
	if tag == "" {
		tag = model.DimensionGeneric
	}
	if !model.IsValidDimension(tag) {
		return nil, fmt.Errorf("unknown dimension_tag %q", r.DimensionTag)
	}
	if r.InterventionWeight < 0 || r.InterventionWeight > 100 {
		return nil, fmt.Errorf("intervention_weight must be within [0,100]: %d", r.InterventionWeight)
	}
	return &model.ContentItem{
		ContentID:          uuid.New(),
		DimensionTag:       tag,
		InterventionWeight: r.InterventionWeight,
		Text:               text,
		Author:             strings.TrimSpace(r.Author),
	}, nil
}
