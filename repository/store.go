package repository

import "gorm.io/gorm"

// NewPostgresStore wires the gorm repositories over one connection pool
func NewPostgresStore(db *gorm.DB) *Store {
	return &Store{
		Links:      NewAffiliateLinkRepository(db),
		Products:   NewProductRepository(db),
		Clicks:     NewClickRepository(db),
		Sales:      NewSaleRepository(db),
		Brands:     NewBrandRepository(db),
		Affiliates: NewAffiliateRepository(db),
		Reports:    NewReportRepository(db),
	}
}
