package datasvc

import "github.com/amirphl/affiliate-rhonat/repository"

// NewStore wires the REST repositories over one client
func NewStore(c *Client) *repository.Store {
	return &repository.Store{
		Links:      NewAffiliateLinkRepository(c),
		Products:   NewProductRepository(c),
		Clicks:     NewClickRepository(c),
		Sales:      NewSaleRepository(c),
		Brands:     NewBrandRepository(c),
		Affiliates: NewAffiliateRepository(c),
		Reports:    NewReportRepository(c),
	}
}
