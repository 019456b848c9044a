package datasvc

import (
	"context"
	"time"

	"github.com/amirphl/affiliate-rhonat/models"
	"github.com/amirphl/affiliate-rhonat/repository"
	"github.com/google/uuid"
)

func formatTime(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func createdRange(after, before *time.Time) []Filter {
	var fs []Filter
	if after != nil {
		fs = append(fs, Gte("created_at", formatTime(*after)))
	}
	if before != nil {
		fs = append(fs, Lt("created_at", formatTime(*before)))
	}
	return fs
}

// AffiliateLinkRepository reads affiliate_links over REST
type AffiliateLinkRepository struct {
	tableRepository[models.AffiliateLink, models.AffiliateLinkFilter]
}

func NewAffiliateLinkRepository(c *Client) repository.AffiliateLinkRepository {
	return &AffiliateLinkRepository{tableRepository[models.AffiliateLink, models.AffiliateLinkFilter]{
		client: c, table: "affiliate_links", filters: linkFilters,
	}}
}

func (r *AffiliateLinkRepository) ByCode(ctx context.Context, code string) (*models.AffiliateLink, error) {
	return r.first(ctx, Query{Filters: []Filter{Eq("code", code)}, Limit: 1})
}

func linkFilters(f models.AffiliateLinkFilter) []Filter {
	var fs []Filter
	if f.ID != nil {
		fs = append(fs, Eq("id", f.ID.String()))
	}
	if f.Code != nil {
		fs = append(fs, Eq("code", *f.Code))
	}
	if f.ProductID != nil {
		fs = append(fs, Eq("product_id", f.ProductID.String()))
	}
	if f.AffiliateID != nil {
		fs = append(fs, Eq("affiliate_id", f.AffiliateID.String()))
	}
	return append(fs, createdRange(f.CreatedAfter, f.CreatedBefore)...)
}

func NewProductRepository(c *Client) repository.ProductRepository {
	return &tableRepository[models.Product, models.ProductFilter]{
		client: c, table: "products", filters: productFilters,
	}
}

func productFilters(f models.ProductFilter) []Filter {
	var fs []Filter
	if f.ID != nil {
		fs = append(fs, Eq("id", f.ID.String()))
	}
	if f.BrandID != nil {
		fs = append(fs, Eq("brand_id", f.BrandID.String()))
	}
	if f.Name != nil {
		fs = append(fs, Eq("name", *f.Name))
	}
	return append(fs, createdRange(f.CreatedAfter, f.CreatedBefore)...)
}

func NewClickRepository(c *Client) repository.ClickRepository {
	return &tableRepository[models.Click, models.ClickFilter]{
		client: c, table: "clicks", filters: clickFilters,
	}
}

func clickFilters(f models.ClickFilter) []Filter {
	var fs []Filter
	if f.ID != nil {
		fs = append(fs, Eq("id", f.ID.String()))
	}
	if f.LinkID != nil {
		fs = append(fs, Eq("link_id", f.LinkID.String()))
	}
	if len(f.LinkIDs) > 0 {
		fs = append(fs, In("link_id", uuidStrings(f.LinkIDs)))
	}
	if f.IP != nil {
		fs = append(fs, Eq("ip", *f.IP))
	}
	if f.Fingerprint != nil {
		fs = append(fs, Eq("fingerprint", *f.Fingerprint))
	}
	return append(fs, createdRange(f.CreatedAfter, f.CreatedBefore)...)
}

func NewSaleRepository(c *Client) repository.SaleRepository {
	return &tableRepository[models.Sale, models.SaleFilter]{
		client: c, table: "sales", filters: saleFilters,
	}
}

func saleFilters(f models.SaleFilter) []Filter {
	var fs []Filter
	if f.ID != nil {
		fs = append(fs, Eq("id", f.ID.String()))
	}
	if f.LinkID != nil {
		fs = append(fs, Eq("link_id", f.LinkID.String()))
	}
	if len(f.LinkIDs) > 0 {
		fs = append(fs, In("link_id", uuidStrings(f.LinkIDs)))
	}
	if f.OrderID != nil {
		fs = append(fs, Eq("order_id", *f.OrderID))
	}
	return append(fs, createdRange(f.CreatedAfter, f.CreatedBefore)...)
}

func NewBrandRepository(c *Client) repository.BrandRepository {
	return &tableRepository[models.Brand, models.BrandFilter]{
		client: c, table: "brands", filters: brandFilters,
	}
}

func brandFilters(f models.BrandFilter) []Filter {
	var fs []Filter
	if f.ID != nil {
		fs = append(fs, Eq("id", f.ID.String()))
	}
	if len(f.IDs) > 0 {
		fs = append(fs, In("id", uuidStrings(f.IDs)))
	}
	if f.Name != nil {
		fs = append(fs, Eq("name", *f.Name))
	}
	if f.OwnerID != nil {
		fs = append(fs, Eq("owner_id", f.OwnerID.String()))
	}
	return fs
}

// AffiliateRepository reads affiliates over REST
type AffiliateRepository struct {
	tableRepository[models.Affiliate, models.AffiliateFilter]
}

func NewAffiliateRepository(c *Client) repository.AffiliateRepository {
	return &AffiliateRepository{tableRepository[models.Affiliate, models.AffiliateFilter]{
		client: c, table: "affiliates", filters: affiliateFilters,
	}}
}

func (r *AffiliateRepository) ByUserID(ctx context.Context, userID uuid.UUID) (*models.Affiliate, error) {
	return r.first(ctx, Query{Filters: []Filter{Eq("user_id", userID.String())}, Limit: 1})
}

func affiliateFilters(f models.AffiliateFilter) []Filter {
	var fs []Filter
	if f.ID != nil {
		fs = append(fs, Eq("id", f.ID.String()))
	}
	if f.UserID != nil {
		fs = append(fs, Eq("user_id", f.UserID.String()))
	}
	if f.DisplayName != nil {
		fs = append(fs, Eq("display_name", *f.DisplayName))
	}
	return fs
}
