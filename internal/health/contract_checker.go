package health

import (
	"context"

	"github.com/felixgeelhaar/newsdesk/internal/contract"
)

// ContractChecker verifies the embedded backend contract loads and validates.
type ContractChecker struct {
	baseURL string
}

// NewContractChecker creates a checker for the contract bound to baseURL.
func NewContractChecker(baseURL string) *ContractChecker {
	return &ContractChecker{baseURL: baseURL}
}

// Name returns the name of this health check.
func (c *ContractChecker) Name() string {
	return "api-contract"
}

// Check builds the request validator the client would use.
func (c *ContractChecker) Check(ctx context.Context) *Result {
	v, err := contract.NewValidator(ctx, c.baseURL)
	if err != nil {
		return Unhealthy("embedded API contract is invalid").
			WithDetail("error", err.Error())
	}
	return Healthy("API contract loaded").
		WithDetail("operations", len(v.Operations()))
}
