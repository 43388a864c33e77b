package settlement

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/valetnat/e-commerce/internal/domain"
)

// GatewayReply carries the gateway's decision plus the raw body, which is
// stored into the payment record verbatim.
type GatewayReply struct {
	StatusCode   int
	Body         json.RawMessage
	Successfully bool
	Error        string
}

// Client speaks the payment gateway wire protocol: a form-encoded POST with
// identify_number, cart_number and price (two decimal places).
type Client struct {
	httpClient *http.Client
	payPath    string
}

func NewClient(httpClient *http.Client, payPath string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{httpClient: httpClient, payPath: payPath}
}

// Pay submits the settlement request to the gateway reachable via host.
// Any status other than 200 or 401, or a non-JSON body, is ErrGateway.
func (c *Client) Pay(ctx context.Context, host string, orderID, cardNumber int64, price decimal.Decimal) (*GatewayReply, error) {
	form := url.Values{}
	form.Set("identify_number", strconv.FormatInt(orderID, 10))
	form.Set("cart_number", strconv.FormatInt(cardNumber, 10))
	form.Set("price", price.StringFixed(2))

	payURL := "http://" + host + c.payPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, payURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGateway, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", domain.ErrGateway, err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusUnauthorized {
		return nil, fmt.Errorf("%w: unexpected status %d", domain.ErrGateway, resp.StatusCode)
	}

	var parsed struct {
		Successfully bool   `json:"successfully"`
		Error        string `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: decode body: %v", domain.ErrGateway, err)
	}

	return &GatewayReply{
		StatusCode:   resp.StatusCode,
		Body:         body,
		Successfully: parsed.Successfully,
		Error:        parsed.Error,
	}, nil
}
