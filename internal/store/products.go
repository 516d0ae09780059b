package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"catalog/internal/models"
)

// ErrNotFound is returned when no product has the requested id.
var ErrNotFound = errors.New("product not found")

// Products is the persistence contract the HTTP layers depend on.
type Products interface {
	List(ctx context.Context, query string) ([]models.Product, error)
	Create(ctx context.Context, f models.Fields) (*models.Product, error)
	Get(ctx context.Context, id uint) (*models.Product, error)
	Update(ctx context.Context, id uint, f models.Fields) (*models.Product, error)
	Delete(ctx context.Context, id uint) error
}

// ProductStore implements Products on top of GORM.
type ProductStore struct {
	db *gorm.DB
}

func NewProductStore(db *gorm.DB) *ProductStore {
	return &ProductStore{db: db}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// List returns products whose name or description contains query,
// ignoring case, newest first. An empty query matches everything.
func (s *ProductStore) List(ctx context.Context, query string) ([]models.Product, error) {
	q := s.db.WithContext(ctx).Model(&models.Product{})
	if query = strings.TrimSpace(query); query != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"
		q = q.Where(`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\'`, pattern, pattern)
	}

	items := []models.Product{}
	if err := q.Order("created_at desc").Order("id desc").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return items, nil
}

func (s *ProductStore) Create(ctx context.Context, f models.Fields) (*models.Product, error) {
	var p models.Product
	p.Apply(f)
	if err := s.db.WithContext(ctx).Create(&p).Error; err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return &p, nil
}

func (s *ProductStore) Get(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	err := s.db.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}
	return &p, nil
}

// Update replaces the editable fields of an existing product.
func (s *ProductStore) Update(ctx context.Context, id uint, f models.Fields) (*models.Product, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Apply(f)
	// Updates, unlike Save, never inserts: a row deleted since Get stays gone.
	res := s.db.WithContext(ctx).Model(p).Select("*").Omit("id", "created_at").Updates(p)
	if res.Error != nil {
		return nil, fmt.Errorf("update product %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return p, nil
}

func (s *ProductStore) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete product %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
