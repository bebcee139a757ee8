package checkout

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// HostedLinkProvider builds redirect URLs for the hosted payment page. The
// page itself collects card details and reports back out of band, so the
// session here is just the pre-filled link.
type HostedLinkProvider struct {
	baseURL string
}

func NewHostedLinkProvider(baseURL string) (*HostedLinkProvider, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, fmt.Errorf("payment base url required")
	}
	if _, err := url.ParseRequestURI(trimmed); err != nil {
		return nil, fmt.Errorf("invalid payment base url: %w", err)
	}
	return &HostedLinkProvider{baseURL: trimmed}, nil
}

func (p *HostedLinkProvider) CreateSession(_ context.Context, input SessionInput) (string, error) {
	params := url.Values{}
	params.Set("order", input.OrderID.String())
	params.Set("reference", input.OrderNumber)
	params.Set("amount_cents", strconv.FormatInt(input.TotalCents, 10))
	return p.baseURL + "?" + params.Encode(), nil
}
