package testing

import (
	"context"
	"fmt"
	"time"

	"github.com/amirphl/affiliate-rhonat/models"
	"github.com/amirphl/affiliate-rhonat/utils"
	"github.com/google/uuid"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// Attribution is a brand, an affiliate, a product and one link to it
type Attribution struct {
	Brand     *models.Brand
	Affiliate *models.Affiliate
	Product   *models.Product
	Link      *models.AffiliateLink
}

func (tf *TestFixtures) CreateBrand(ctx context.Context, name string) (*models.Brand, error) {
	b := &models.Brand{ID: uuid.New(), Name: name, Domain: utils.ToPtr("shop.example.com"), CreatedAt: utils.UTCNow()}
	if err := tf.DB.DB.WithContext(ctx).Create(b).Error; err != nil {
		return nil, fmt.Errorf("failed to create brand: %w", err)
	}
	return b, nil
}

func (tf *TestFixtures) CreateAffiliate(ctx context.Context, displayName string) (*models.Affiliate, error) {
	a := &models.Affiliate{ID: uuid.New(), UserID: uuid.New(), DisplayName: displayName, CreatedAt: utils.UTCNow()}
	if err := tf.DB.DB.WithContext(ctx).Create(a).Error; err != nil {
		return nil, fmt.Errorf("failed to create affiliate: %w", err)
	}
	return a, nil
}

func (tf *TestFixtures) CreateProduct(ctx context.Context, brandID uuid.UUID, name string, commissionPercent float64, landingURL *string) (*models.Product, error) {
	p := &models.Product{
		ID:                uuid.New(),
		BrandID:           brandID,
		Name:              name,
		Price:             49.9,
		CommissionPercent: commissionPercent,
		LandingURL:        landingURL,
		CreatedAt:         utils.UTCNow(),
	}
	if err := tf.DB.DB.WithContext(ctx).Create(p).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return p, nil
}

func (tf *TestFixtures) CreateLink(ctx context.Context, code string, productID, affiliateID uuid.UUID) (*models.AffiliateLink, error) {
	l := &models.AffiliateLink{ID: uuid.New(), Code: code, ProductID: productID, AffiliateID: affiliateID, CreatedAt: utils.UTCNow()}
	if err := tf.DB.DB.WithContext(ctx).Create(l).Error; err != nil {
		return nil, fmt.Errorf("failed to create link: %w", err)
	}
	return l, nil
}

func (tf *TestFixtures) CreateClick(ctx context.Context, linkID uuid.UUID, at time.Time) (*models.Click, error) {
	c := &models.Click{ID: uuid.New(), LinkID: linkID, IP: "203.0.113.7", UserAgent: "fixture", CreatedAt: at}
	if err := tf.DB.DB.WithContext(ctx).Create(c).Error; err != nil {
		return nil, fmt.Errorf("failed to create click: %w", err)
	}
	return c, nil
}

func (tf *TestFixtures) CreateSale(ctx context.Context, linkID uuid.UUID, orderID string, amount, commission float64, at time.Time) (*models.Sale, error) {
	s := &models.Sale{ID: uuid.New(), LinkID: linkID, OrderID: orderID, Amount: amount, Commission: commission, CreatedAt: at}
	if err := tf.DB.DB.WithContext(ctx).Create(s).Error; err != nil {
		return nil, fmt.Errorf("failed to create sale: %w", err)
	}
	return s, nil
}

// CreateAttribution creates a full chain whose product pays commissionPercent
// and lands on landingURL
func (tf *TestFixtures) CreateAttribution(ctx context.Context, code string, commissionPercent float64, landingURL string) (*Attribution, error) {
	brand, err := tf.CreateBrand(ctx, "Brand "+code)
	if err != nil {
		return nil, err
	}
	affiliate, err := tf.CreateAffiliate(ctx, "Affiliate "+code)
	if err != nil {
		return nil, err
	}
	product, err := tf.CreateProduct(ctx, brand.ID, "Product "+code, commissionPercent, utils.NonEmptyPtr(landingURL))
	if err != nil {
		return nil, err
	}
	link, err := tf.CreateLink(ctx, code, product.ID, affiliate.ID)
	if err != nil {
		return nil, err
	}
	return &Attribution{Brand: brand, Affiliate: affiliate, Product: product, Link: link}, nil
}
