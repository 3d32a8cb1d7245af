package product

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/mlnhquxc/ChuyenDeWeb-sub000/internal/api"
	"github.com/mlnhquxc/ChuyenDeWeb-sub000/internal/model"

	"github.com/rs/zerolog"
)

// Service queries the product catalog.
type Service struct {
	client *api.Client
	logger zerolog.Logger
}

// NewService creates a product service.
func NewService(client *api.Client, logger zerolog.Logger) *Service {
	return &Service{
		client: client,
		logger: logger.With().Str("service", "product").Logger(),
	}
}

// ListParams controls catalog paging and sorting.
type ListParams struct {
	Page    int
	Size    int
	SortBy  string
	SortDir string
}

func (p ListParams) query() string {
	q := url.Values{}
	q.Set("page", strconv.Itoa(p.Page))
	size := p.Size
	if size <= 0 {
		size = 10
	}
	q.Set("size", strconv.Itoa(size))
	if p.SortBy != "" {
		q.Set("sortBy", p.SortBy)
	}
	if p.SortDir != "" {
		q.Set("sortDir", p.SortDir)
	}
	return q.Encode()
}

// List returns a catalog page.
func (s *Service) List(ctx context.Context, params ListParams) (*model.Page[model.Product], error) {
	return api.Get[*model.Page[model.Product]](ctx, s.client, "/products?"+params.query())
}

// Get returns one product's detail.
func (s *Service) Get(ctx context.Context, id int64) (*model.Product, error) {
	return api.Get[*model.Product](ctx, s.client, fmt.Sprintf("/products/%d", id))
}

// ByCategory returns a page of products in a category.
func (s *Service) ByCategory(ctx context.Context, category string, params ListParams) (*model.Page[model.Product], error) {
	path := "/products/category/" + url.PathEscape(category) + "?" + params.query()
	return api.Get[*model.Page[model.Product]](ctx, s.client, path)
}

// Search returns products matching the keyword.
func (s *Service) Search(ctx context.Context, keyword string, params ListParams) (*model.Page[model.Product], error) {
	q := params.query() + "&keyword=" + url.QueryEscape(keyword)
	return api.Get[*model.Page[model.Product]](ctx, s.client, "/products/search?"+q)
}
