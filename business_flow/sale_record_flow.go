package businessflow

import (
	"context"
	"strings"
	"time"

	"github.com/amirphl/affiliate-rhonat/logging"
	"github.com/amirphl/affiliate-rhonat/models"
	"github.com/amirphl/affiliate-rhonat/repository"
	"github.com/amirphl/affiliate-rhonat/utils"
	"github.com/google/uuid"
)

// SaleRecordFlow attributes a sale to an affiliate link and stores it with
// its commission. Sales are not deduplicated by order id.
// Public flow, no authentication required
type SaleRecordFlow interface {
	Record(ctx context.Context, input SaleInput) (*models.Sale, error)
}

// SaleInput is a sale notification after link id resolution.
// Nil OrderID or Amount means the caller did not send one.
type SaleInput struct {
	Mode    string
	LinkID  string
	OrderID *string
	Amount  *float64
}

type SaleRecordFlowImpl struct {
	links        repository.AffiliateLinkRepository
	products     repository.ProductRepository
	sales        repository.SaleRepository
	writeTimeout time.Duration
}

func NewSaleRecordFlow(
	links repository.AffiliateLinkRepository,
	products repository.ProductRepository,
	sales repository.SaleRepository,
	writeTimeout time.Duration,
) SaleRecordFlow {
	return &SaleRecordFlowImpl{
		links:        links,
		products:     products,
		sales:        sales,
		writeTimeout: writeTimeout,
	}
}

func (f *SaleRecordFlowImpl) Record(ctx context.Context, input SaleInput) (*models.Sale, error) {
	rawLinkID := strings.TrimSpace(input.LinkID)
	if rawLinkID == "" {
		return nil, ErrMissingLinkID
	}
	if input.OrderID == nil {
		return nil, ErrMissingOrderID
	}
	if input.Amount == nil {
		return nil, ErrMissingAmount
	}

	linkID, err := uuid.Parse(rawLinkID)
	if err != nil {
		return nil, ErrInvalidLink
	}

	link, err := f.links.ByID(ctx, linkID)
	if err != nil {
		return nil, NewBusinessError("AFFILIATE_LINK_LOOKUP_FAILED", "Failed to lookup affiliate link", err)
	}
	if link == nil {
		return nil, ErrInvalidLink
	}

	product, err := f.products.ByID(ctx, link.ProductID)
	if err != nil {
		return nil, NewBusinessError("PRODUCT_LOOKUP_FAILED", "Failed to lookup product", err)
	}
	if product == nil {
		return nil, ErrInvalidProduct
	}

	sale := &models.Sale{
		ID:         uuid.New(),
		LinkID:     link.ID,
		OrderID:    *input.OrderID,
		Amount:     *input.Amount,
		Commission: ComputeCommission(*input.Amount, product.CommissionPercent),
		CreatedAt:  utils.UTCNow(),
	}

	writeCtx := ctx
	if f.writeTimeout > 0 {
		var cancel context.CancelFunc
		writeCtx, cancel = context.WithTimeout(ctx, f.writeTimeout)
		defer cancel()
	}
	if err := f.sales.Save(writeCtx, sale); err != nil {
		return nil, NewBusinessError("SALE_RECORD_FAILED", "Failed to record sale", err)
	}

	observeSale(input.Mode, sale.Commission)
	logging.Ctx(ctx).Info().
		Str("sale_id", sale.ID.String()).
		Str("link_id", sale.LinkID.String()).
		Str("order_id", sale.OrderID).
		Float64("amount", sale.Amount).
		Float64("commission", sale.Commission).
		Str("mode", input.Mode).
		Msg("sale recorded")
	return sale, nil
}
