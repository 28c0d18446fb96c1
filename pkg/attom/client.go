// Package attom provides a client for the ATTOM property data API.
//
// ATTOM exposes the same logical property record through several endpoint
// "views" (expanded profile, owner detail, mortgage+owner detail, sale
// snapshot, ...), each populating a different subset of the record tree.
// Callers that need a complete record fetch more than one view and reconcile
// them; see internal/prospect.
package attom

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://api.gateway.attomdata.com/propertyapi/v1.0.0"

// Endpoint selects which view of the property record to fetch.
type Endpoint string

const (
	EndpointDetail              Endpoint = "detail"
	EndpointDetailOwner         Endpoint = "detailowner"
	EndpointDetailMortgage      Endpoint = "detailmortgage"
	EndpointDetailMortgageOwner Endpoint = "detailmortgageowner"
	EndpointBasicProfile        Endpoint = "basicprofile"
	EndpointExpandedProfile     Endpoint = "expandedprofile"
	EndpointSnapshot            Endpoint = "snapshot"
	EndpointSaleSnapshot        Endpoint = "salesnapshot"
	EndpointSaleDetail          Endpoint = "saledetail"
	EndpointAssessmentDetail    Endpoint = "assessmentdetail"
	EndpointAVMDetail           Endpoint = "avmdetail"
)

// path returns the API path for the endpoint.
func (e Endpoint) path() string {
	switch e {
	case EndpointDetail:
		return "/property/detail"
	case EndpointDetailOwner:
		return "/property/detailowner"
	case EndpointDetailMortgage:
		return "/property/detailmortgage"
	case EndpointDetailMortgageOwner:
		return "/property/detailmortgageowner"
	case EndpointBasicProfile:
		return "/property/basicprofile"
	case EndpointExpandedProfile:
		return "/property/expandedprofile"
	case EndpointSnapshot:
		return "/property/snapshot"
	case EndpointSaleSnapshot:
		return "/sale/snapshot"
	case EndpointSaleDetail:
		return "/sale/detail"
	case EndpointAssessmentDetail:
		return "/assessment/detail"
	case EndpointAVMDetail:
		return "/avm/detail"
	default:
		return "/property/expandedprofile"
	}
}

// SearchParams are the area-search filters the property endpoints accept.
// Zero values are omitted from the request.
type SearchParams struct {
	PostalCode   string
	Latitude     float64
	Longitude    float64
	Radius       float64
	PropertyType string
	AttomID      int64

	StartSaleSearchDate string
	EndSaleSearchDate   string

	Page     int
	PageSize int
}

// values encodes the params as a query string.
func (p SearchParams) values() url.Values {
	v := url.Values{}
	if p.PostalCode != "" {
		v.Set("postalcode", p.PostalCode)
	}
	if p.Latitude != 0 || p.Longitude != 0 {
		v.Set("latitude", strconv.FormatFloat(p.Latitude, 'f', -1, 64))
		v.Set("longitude", strconv.FormatFloat(p.Longitude, 'f', -1, 64))
	}
	if p.Radius > 0 {
		v.Set("radius", strconv.FormatFloat(p.Radius, 'f', -1, 64))
	}
	if p.PropertyType != "" {
		v.Set("propertytype", p.PropertyType)
	}
	if p.AttomID != 0 {
		v.Set("attomid", strconv.FormatInt(p.AttomID, 10))
	}
	if p.StartSaleSearchDate != "" {
		v.Set("startSaleSearchDate", p.StartSaleSearchDate)
	}
	if p.EndSaleSearchDate != "" {
		v.Set("endSaleSearchDate", p.EndSaleSearchDate)
	}
	if p.Page > 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.PageSize > 0 {
		v.Set("pagesize", strconv.Itoa(p.PageSize))
	}
	return v
}

// Option configures the client.
type Option func(*Client)

// WithBaseURL overrides the API base URL (used in tests).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRateLimit sets the requests-per-second limit for API calls.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), int(rps)+1)
	}
}

// Client calls the ATTOM property API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates an ATTOM client with the given API key.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(5, 5),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search fetches one page of property records from the given endpoint view.
// A 400 response whose body still carries the SuccessWithoutResult status is
// returned as an empty page, not an error: ATTOM answers that way when a page
// past the end of the result set is requested.
func (c *Client) Search(ctx context.Context, endpoint Endpoint, params SearchParams) (*SearchResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "attom: rate limit")
	}

	reqURL := c.baseURL + endpoint.path() + "?" + params.values().Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "attom: build request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrapf(err, "attom: %s request", endpoint)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrapf(err, "attom: %s read body", endpoint)
	}

	var result SearchResult
	if unmarshalErr := json.Unmarshal(body, &result); unmarshalErr != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, eris.Errorf("attom: %s returned status %d", endpoint, resp.StatusCode)
		}
		return nil, eris.Wrapf(unmarshalErr, "attom: %s parse response", endpoint)
	}

	if resp.StatusCode == http.StatusBadRequest && result.Status.Msg == "SuccessWithoutResult" {
		zap.L().Debug("attom: empty page",
			zap.String("endpoint", string(endpoint)),
			zap.Int("page", params.Page),
		)
		result.Property = nil
		return &result, nil
	}

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("attom: %s returned status %d: %s", endpoint, resp.StatusCode, result.Status.Msg)
	}

	return &result, nil
}

// ExpandedProfile fetches the expanded profile view (assessment, sale, AVM,
// concurrent mortgage nesting; owner data is sparse for area searches).
func (c *Client) ExpandedProfile(ctx context.Context, params SearchParams) (*SearchResult, error) {
	return c.Search(ctx, EndpointExpandedProfile, params)
}

// DetailOwner fetches the owner detail view (owner names, mailing addresses,
// corporate indicators).
func (c *Client) DetailOwner(ctx context.Context, params SearchParams) (*SearchResult, error) {
	return c.Search(ctx, EndpointDetailOwner, params)
}

// DetailMortgageOwner fetches the combined mortgage + owner view, the richest
// supplement for area searches.
func (c *Client) DetailMortgageOwner(ctx context.Context, params SearchParams) (*SearchResult, error) {
	return c.Search(ctx, EndpointDetailMortgageOwner, params)
}

// SaleSnapshot fetches recent sales within an area and date range.
func (c *Client) SaleSnapshot(ctx context.Context, params SearchParams) (*SearchResult, error) {
	return c.Search(ctx, EndpointSaleSnapshot, params)
}
