package scheduler

import (
	"github.com/jattu8602/ek-sub000/internal/app/service"
	"github.com/jattu8602/ek-sub000/pkg/logger"
	"github.com/robfig/cron/v3"
)

// CatalogScheduler keeps the denormalized product status fields honest.
// Unit writes and checkout stock decrements recompute statuses inline;
// this sweep catches direct database edits and threshold changes.
type CatalogScheduler struct {
	cron           *cron.Cron
	productService service.ProductService
	refreshCron    string
}

func NewCatalogScheduler(productService service.ProductService, refreshCron string) *CatalogScheduler {
	return &CatalogScheduler{
		cron:           cron.New(),
		productService: productService,
		refreshCron:    refreshCron,
	}
}

func (s *CatalogScheduler) Start() error {
	_, err := s.cron.AddFunc(s.refreshCron, s.refreshStatuses)
	if err != nil {
		logger.Error("Failed to add cron job for catalog status refresh", err, nil)
		return err
	}

	s.cron.Start()
	logger.Info("Catalog scheduler started", map[string]interface{}{
		"schedule": s.refreshCron,
	})
	return nil
}

func (s *CatalogScheduler) Stop() {
	logger.Info("Stopping catalog scheduler...", nil)
	s.cron.Stop()
	logger.Info("Catalog scheduler stopped", nil)
}

func (s *CatalogScheduler) refreshStatuses() {
	logger.Info("Starting scheduled catalog status refresh", nil)

	refreshed := 0
	failed := 0
	page := 1
	for {
		products, err := s.productService.ListProducts(service.ProductListOptions{
			Page:    page,
			PerPage: 100,
		})
		if err != nil {
			logger.Error("Failed to page through products for status refresh", err, map[string]interface{}{
				"page": page,
			})
			return
		}
		if len(products.Products) == 0 {
			break
		}

		for _, product := range products.Products {
			if err := s.productService.RecomputeStatus(product.ID); err != nil {
				failed++
				continue
			}
			refreshed++
		}

		if int64(page*100) >= products.Total {
			break
		}
		page++
	}

	logger.Info("Catalog status refresh finished", map[string]interface{}{
		"refreshed": refreshed,
		"failed":    failed,
	})
}
