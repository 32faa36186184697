package service

import (
	"context"
	"encoding/json"
	stderrors "errors"

	"go.uber.org/zap"

	"github.com/jafarshop/paymentrelay/internal/config"
	"github.com/jafarshop/paymentrelay/internal/domain"
	"github.com/jafarshop/paymentrelay/internal/paypal"
	"github.com/jafarshop/paymentrelay/pkg/errors"
)

const payPalNotConfigured = "PayPal secret not configured. Please set PAYPAL_SECRET in .env file."

// PayPalService runs the wallet flows. Every operation re-authenticates;
// nothing is kept between calls.
type PayPalService struct {
	cfg     config.PayPalConfig
	client  *paypal.Client
	catalog *domain.Catalog
	logger  *zap.Logger
}

// NewPayPalService creates a new PayPal service
func NewPayPalService(cfg config.PayPalConfig, client *paypal.Client, catalog *domain.Catalog, logger *zap.Logger) *PayPalService {
	return &PayPalService{
		cfg:     cfg,
		client:  client,
		catalog: catalog,
		logger:  logger,
	}
}

func (s *PayPalService) ensureConfigured() error {
	if s.cfg.Secret == "" {
		return &errors.ErrConfiguration{Setting: "PAYPAL_SECRET", Message: payPalNotConfigured}
	}
	if s.cfg.ClientID == "" {
		return &errors.ErrConfiguration{Setting: "PAYPAL_CLIENT_ID", Message: "PayPal client ID not configured. Please set PAYPAL_CLIENT_ID in .env file."}
	}
	return nil
}

// ClientToken exchanges the server credential for a browser client token.
func (s *PayPalService) ClientToken(ctx context.Context) (string, error) {
	if err := s.ensureConfigured(); err != nil {
		return "", err
	}

	accessToken, err := s.accessToken(ctx)
	if err != nil {
		return "", err
	}

	clientToken, err := s.client.GenerateClientToken(ctx, accessToken)
	if err != nil {
		s.logUpstream("Failed to generate PayPal client token", err)
		return "", err
	}

	s.logger.Info("PayPal client token generated")
	return clientToken, nil
}

// CreateOrderFromCart prices the cart against the catalog and creates a
// capture order for it.
func (s *PayPalService) CreateOrderFromCart(ctx context.Context, lines []domain.CartLine) (*paypal.Response, error) {
	if err := s.ensureConfigured(); err != nil {
		return nil, err
	}

	order, err := BuildOrder(s.catalog, lines, s.logger)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("Order payload built",
		zap.String("total", order.PurchaseUnits[0].Amount.Value),
		zap.Int("items", len(order.PurchaseUnits[0].Items)),
	)

	return s.createOrder(ctx, order)
}

// CreateOrder forwards a caller-built order payload unchanged.
func (s *PayPalService) CreateOrder(ctx context.Context, payload json.RawMessage) (*paypal.Response, error) {
	if err := s.ensureConfigured(); err != nil {
		return nil, err
	}
	if len(payload) == 0 || !json.Valid(payload) {
		return nil, &errors.ErrInvalidInput{
			Field:   "body",
			Summary: "Invalid order payload",
			Message: "Request body must be a JSON order payload",
		}
	}
	return s.createOrder(ctx, payload)
}

func (s *PayPalService) createOrder(ctx context.Context, payload interface{}) (*paypal.Response, error) {
	accessToken, err := s.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.CreateOrder(ctx, accessToken, payload)
	if err != nil {
		s.logUpstream("Failed to create PayPal order", err)
		return nil, err
	}

	s.logger.Info("PayPal order created", zap.String("order_id", orderID(resp.Body)))
	return resp, nil
}

// CaptureOrder captures orderID. Whether the order exists is for PayPal
// to decide.
func (s *PayPalService) CaptureOrder(ctx context.Context, id string) (*paypal.Response, error) {
	if err := s.ensureConfigured(); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, &errors.ErrInvalidInput{Field: "orderID", Summary: "Order ID is required", Message: "Order ID is required"}
	}

	accessToken, err := s.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.CaptureOrder(ctx, accessToken, id)
	if err != nil {
		s.logUpstream("Failed to capture PayPal order", err, zap.String("order_id", id))
		return nil, err
	}

	s.logger.Info("PayPal order captured", zap.String("order_id", id))
	return resp, nil
}

func (s *PayPalService) accessToken(ctx context.Context) (string, error) {
	token, err := s.client.AccessToken(ctx)
	if err != nil {
		s.logUpstream("Failed to get PayPal access token", err)
		return "", err
	}
	return token, nil
}

func (s *PayPalService) logUpstream(msg string, err error, fields ...zap.Field) {
	var (
		violation   *errors.ErrProtocolViolation
		upstreamErr *errors.ErrUpstream
	)
	switch {
	case stderrors.As(err, &violation):
		s.logger.Error(msg+": protocol violation", append(fields,
			zap.String("operation", violation.Operation),
			zap.String("detail", violation.Detail),
		)...)
	case stderrors.As(err, &upstreamErr) && upstreamErr.StatusCode != 0:
		s.logger.Error(msg, append(fields,
			zap.String("operation", upstreamErr.Operation),
			zap.Int("status", upstreamErr.StatusCode),
			zap.ByteString("response", upstreamErr.Body),
		)...)
	case stderrors.As(err, &upstreamErr):
		s.logger.Error(msg+": no response received", append(fields,
			zap.String("operation", upstreamErr.Operation),
			zap.Error(upstreamErr.Err),
		)...)
	default:
		s.logger.Error(msg, append(fields, zap.Error(err))...)
	}
}

func orderID(body json.RawMessage) string {
	var order struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &order)
	return order.ID
}
