package services

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/letsgo-transit/booking-backend/internal/config"
	"github.com/letsgo-transit/booking-backend/internal/models"
)

// StripeService is a thin client for the Stripe payment-intents API. Amounts
// cross the wire in minor units (cents).
type StripeService struct {
	config     config.PaymentConfig
	httpClient *http.Client
	logger     *logrus.Logger
}

// PaymentIntent is the subset of the gateway's payment-intent object the
// booking flow needs
type PaymentIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
}

// stripeError is the gateway's error envelope
type stripeError struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// NewStripeService creates a new Stripe client
func NewStripeService(cfg config.PaymentConfig, logger *logrus.Logger) *StripeService {
	return &StripeService{
		config: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// IsConfigured reports whether gateway credentials are present
func (s *StripeService) IsConfigured() bool {
	return s.config.SecretKey != ""
}

// PublishableKey returns the client-side key
func (s *StripeService) PublishableKey() string {
	return s.config.PublishableKey
}

// Currency returns the configured payment currency
func (s *StripeService) Currency() string {
	return s.config.Currency
}

// ToMinorUnits converts a major-unit amount to the gateway's integer minor
// units
func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// CreateIntent creates a payment intent for the given amount
func (s *StripeService) CreateIntent(amount float64, currency, bookingID string) (*PaymentIntent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(ToMinorUnits(amount), 10))
	form.Set("currency", currency)
	form.Set("metadata[booking_id]", bookingID)
	form.Set("automatic_payment_methods[enabled]", "true")

	intent, err := s.do(http.MethodPost, "/v1/payment_intents", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"payment_intent_id": intent.ID,
		"booking_id":        bookingID,
		"amount":            intent.Amount,
		"currency":          intent.Currency,
	}).Info("Payment intent created")

	return intent, nil
}

// RetrieveIntent fetches the current state of a payment intent from the
// gateway. Confirmation trusts this, not the client's claim.
func (s *StripeService) RetrieveIntent(intentID string) (*PaymentIntent, error) {
	return s.do(http.MethodGet, "/v1/payment_intents/"+url.PathEscape(intentID), nil)
}

// do performs one gateway request and decodes the intent or error envelope
func (s *StripeService) do(method, path string, body io.Reader) (*PaymentIntent, error) {
	if !s.IsConfigured() {
		return nil, fmt.Errorf("%w: gateway credentials not configured", ErrPaymentGateway)
	}

	req, err := http.NewRequest(method, s.config.APIBaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentGateway, err)
	}

	req.Header.Set("Authorization", "Bearer "+s.config.SecretKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.WithError(err).Error("Payment gateway request failed")
		return nil, fmt.Errorf("%w: %v", ErrPaymentGateway, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrPaymentGateway, err)
	}

	if resp.StatusCode >= 400 {
		var gwErr stripeError
		if err := json.Unmarshal(respBody, &gwErr); err == nil && gwErr.Error.Message != "" {
			s.logger.WithFields(logrus.Fields{
				"status": resp.StatusCode,
				"type":   gwErr.Error.Type,
				"code":   gwErr.Error.Code,
			}).Error("Payment gateway returned error")
			return nil, fmt.Errorf("%w: %s", ErrPaymentGateway, gwErr.Error.Message)
		}
		return nil, fmt.Errorf("%w: gateway returned status %d", ErrPaymentGateway, resp.StatusCode)
	}

	var intent PaymentIntent
	if err := json.Unmarshal(respBody, &intent); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrPaymentGateway, err)
	}

	return &intent, nil
}

// HasSucceeded reports whether the gateway considers the intent paid
func (p *PaymentIntent) HasSucceeded() bool {
	return models.PaymentIntentStatus(p.Status) == models.PaymentIntentStatusSucceeded
}
