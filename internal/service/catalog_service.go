package service

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/booking_platform/internal/model"
	"github.com/google/uuid"
)

// CatalogEntry — активная услуга вместе с рейтингом её специалиста.
type CatalogEntry struct {
	Service *model.Service
	Rating  float64
	Reviews int
}

// CatalogService отвечает за поиск по каталогу услуг.
type CatalogService struct {
	services ServiceStore
	reviews  ReviewStore
}

func NewCatalogService(services ServiceStore, reviews ReviewStore) *CatalogService {
	return &CatalogService{
		services: services,
		reviews:  reviews,
	}
}

// Search возвращает активные услуги, подходящие под фильтр, в порядке GetActive.
func (c *CatalogService) Search(ctx context.Context, f model.ServiceFilter) ([]CatalogEntry, error) {
	if f.MinPrice < 0 || f.MaxPrice < 0 || f.MaxDuration < 0 {
		return nil, fmt.Errorf("%w: negative bound", ErrInvalidFilter)
	}
	if f.MaxPrice > 0 && f.MinPrice > f.MaxPrice {
		return nil, fmt.Errorf("%w: min price %d above max price %d", ErrInvalidFilter, f.MinPrice, f.MaxPrice)
	}
	if f.MinRating < 0 || f.MinRating > model.MaxRating {
		return nil, fmt.Errorf("%w: rating %.1f", ErrInvalidFilter, f.MinRating)
	}

	active, err := c.services.GetActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("get active services: %w", err)
	}

	type rating struct {
		avg   float64
		count int
	}
	ratings := make(map[uuid.UUID]rating)

	entries := make([]CatalogEntry, 0, len(active))
	for _, svc := range active {
		if !f.Matches(svc) {
			continue
		}

		r, ok := ratings[svc.ProfessionalID]
		if !ok {
			r.avg, r.count, err = c.reviews.AverageForProfessional(ctx, svc.ProfessionalID)
			if err != nil {
				return nil, fmt.Errorf("professional rating: %w", err)
			}
			ratings[svc.ProfessionalID] = r
		}
		if f.MinRating > 0 && (r.count == 0 || r.avg < f.MinRating) {
			continue
		}

		entries = append(entries, CatalogEntry{Service: svc, Rating: r.avg, Reviews: r.count})
	}
	return entries, nil
}
