package product

import (
	"context"
	"errors"
	"time"

	"CookShare-Backend/domain"
	"CookShare-Backend/pkg/stats"
)

type (
	ProductService interface {
		GetByBarcode(ctx context.Context, barcode string) domain.Result[domain.Product]
	}

	productService struct {
		client          ProductClient
		statsRepository stats.StatsRepository
	}
)

func NewProductService(client ProductClient, statsRepository stats.StatsRepository) ProductService {
	return &productService{
		client:          client,
		statsRepository: statsRepository,
	}
}

func (s *productService) GetByBarcode(ctx context.Context, barcode string) domain.Result[domain.Product] {
	product, err := s.client.GetProduct(ctx, barcode)
	if err != nil {
		var pe domain.ProductError
		if errors.As(err, &pe) {
			return domain.Err[domain.Product](pe)
		}
		return domain.Err[domain.Product](domain.UnknownProductError(err.Error()))
	}

	// Scans are counted on success only; a lost event never fails the
	// lookup.
	_ = s.statsRepository.RecordEvent(ctx, domain.StatsKindScan, time.Now())

	return domain.Ok(product)
}
