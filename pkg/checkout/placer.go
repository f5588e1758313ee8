package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	"shopfront/pkg/models"
)

// ErrOrderPlacementFailed wraps every failure on the final checkout step.
// The cart is preserved and the flow stays on the payment step so the user
// can retry.
var ErrOrderPlacementFailed = errors.New("order placement failed")

// Order is the payload submitted to the order service.
type Order struct {
	Shipping models.ShippingInfo   `json:"shipping"`
	Payment  models.PaymentDetails `json:"payment"`
	Items    []models.LineItem     `json:"items"`
	Pricing  models.Pricing        `json:"pricing"`
}

// OrderPlacer submits a finished order and returns its order id.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, order Order) (string, error)
}

// HTTPPlacer posts orders to the order service.
type HTTPPlacer struct {
	baseURL string
	http    *http.Client
}

func NewHTTPPlacer(baseURL string) *HTTPPlacer {
	return &HTTPPlacer{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (p *HTTPPlacer) PlaceOrder(ctx context.Context, order Order) (string, error) {
	body, err := json.Marshal(order)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrOrderPlacementFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrOrderPlacementFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := p.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrOrderPlacementFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		var payload struct {
			Message string `json:"message"`
		}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err := json.Unmarshal(raw, &payload); err == nil && payload.Message != "" {
			return "", fmt.Errorf("%w: %s", ErrOrderPlacementFailed, payload.Message)
		}
		return "", fmt.Errorf("%w: order api returned status %d", ErrOrderPlacementFailed, resp.StatusCode)
	}

	var out struct {
		OrderID string `json:"order_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrOrderPlacementFailed, err)
	}
	if out.OrderID == "" {
		return "", fmt.Errorf("%w: response missing order id", ErrOrderPlacementFailed)
	}
	return out.OrderID, nil
}

// SimulatedPlacer mimics the order service with a short delay and a
// six-digit order number. Used when no order API is configured.
type SimulatedPlacer struct {
	Delay time.Duration
}

func (p *SimulatedPlacer) PlaceOrder(ctx context.Context, _ Order) (string, error) {
	delay := p.Delay
	if delay == 0 {
		delay = 1500 * time.Millisecond
	}
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %v", ErrOrderPlacementFailed, ctx.Err())
	case <-time.After(delay):
	}
	return strconv.Itoa(100000 + rand.Intn(900000)), nil
}
