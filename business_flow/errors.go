// Package businessflow contains the attribution and reporting use cases
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Redirect errors
	ErrInvalidAffiliateCode  = errors.New("invalid affiliate code")
	ErrAffiliateLinkNotFound = errors.New("affiliate link not found")
	ErrProductNotFound       = errors.New("product not found")
	ErrInvalidLandingURL     = errors.New("invalid product landing URL")

	// Sale errors
	ErrMissingLinkID  = errors.New("missing link_id")
	ErrMissingOrderID = errors.New("missing order_id")
	ErrMissingAmount  = errors.New("missing amount")
	ErrInvalidLink    = errors.New("invalid link")
	ErrInvalidProduct = errors.New("invalid product")

	// Reporting errors
	ErrAffiliateNotFound = errors.New("affiliate not found")
	ErrInvalidDateRange  = errors.New("from must be before to")
	ErrInvalidMetric     = errors.New("metric must be one of clicks, sales, revenue")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func IsInvalidAffiliateCode(err error) bool {
	return errors.Is(err, ErrInvalidAffiliateCode)
}

func IsAffiliateLinkNotFound(err error) bool {
	return errors.Is(err, ErrAffiliateLinkNotFound)
}

func IsProductNotFound(err error) bool {
	return errors.Is(err, ErrProductNotFound)
}

func IsInvalidLandingURL(err error) bool {
	return errors.Is(err, ErrInvalidLandingURL)
}

func IsMissingLinkID(err error) bool {
	return errors.Is(err, ErrMissingLinkID)
}

func IsMissingOrderID(err error) bool {
	return errors.Is(err, ErrMissingOrderID)
}

func IsMissingAmount(err error) bool {
	return errors.Is(err, ErrMissingAmount)
}

func IsInvalidLink(err error) bool {
	return errors.Is(err, ErrInvalidLink)
}

func IsInvalidProduct(err error) bool {
	return errors.Is(err, ErrInvalidProduct)
}

func IsAffiliateNotFound(err error) bool {
	return errors.Is(err, ErrAffiliateNotFound)
}

func IsInvalidDateRange(err error) bool {
	return errors.Is(err, ErrInvalidDateRange)
}

func IsInvalidMetric(err error) bool {
	return errors.Is(err, ErrInvalidMetric)
}
