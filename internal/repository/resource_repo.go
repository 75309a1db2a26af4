package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/TanuSree02/prodex/internal/model"
)

type ResourceRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewResourceRepository(db *pgxpool.Pool, logger *zap.Logger) *ResourceRepository {
	return &ResourceRepository{db: db, logger: logger}
}

func (r *ResourceRepository) ListCategories(ctx context.Context) ([]model.ResourceCategoryCard, error) {
	query := `
        SELECT c.id, c.name, c.slug, c.description, COUNT(res.id)
        FROM resource_categories c
        LEFT JOIN resources res ON res.category_id = c.id
        GROUP BY c.id, c.name, c.slug, c.description, c.display_order
        ORDER BY c.display_order ASC, c.name ASC
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to query resource categories", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	cards := []model.ResourceCategoryCard{}
	for rows.Next() {
		var (
			card        model.ResourceCategoryCard
			description *string
		)
		if err := rows.Scan(&card.ID, &card.Name, &card.Slug, &description, &card.ResourceCount); err != nil {
			return nil, err
		}
		card.Description = textOrEmpty(description)
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return cards, nil
}

// GetBySlug returns a category and its resources. A missing slug
// surfaces as pgx.ErrNoRows.
func (r *ResourceRepository) GetBySlug(ctx context.Context, slug string) (*model.CategoryResources, error) {
	var (
		category    model.ResourceCategory
		description *string
	)
	err := r.db.QueryRow(ctx, `
        SELECT id, name, slug, description
        FROM resource_categories
        WHERE slug = $1
    `, slug).Scan(&category.ID, &category.Name, &category.Slug, &description)
	if err != nil {
		return nil, err
	}
	category.Description = textOrEmpty(description)

	rows, err := r.db.Query(ctx, `
        SELECT id, title, description, url, tags
        FROM resources
        WHERE category_id = $1
        ORDER BY created_at DESC, title ASC
    `, category.ID)
	if err != nil {
		r.logger.Error("Failed to query resources",
			zap.Error(err),
			zap.String("slug", slug),
		)
		return nil, err
	}
	defer rows.Close()

	resources := []model.ResourcePayload{}
	for rows.Next() {
		var (
			res         model.ResourcePayload
			description *string
		)
		if err := rows.Scan(&res.ID, &res.Title, &description, &res.URL, &res.Tags); err != nil {
			return nil, err
		}
		res.Description = textOrEmpty(description)
		if res.Tags == nil {
			res.Tags = []string{}
		}
		resources = append(resources, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &model.CategoryResources{Category: category, Resources: resources}, nil
}
