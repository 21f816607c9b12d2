package payment

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bazaarhq/storefront-client/internal/session"
	"github.com/bazaarhq/storefront-client/pkg/logger"
)

const (
	// DefaultProcessingDelay models payment-gateway latency.
	DefaultProcessingDelay = 2 * time.Second

	referenceKeyPrefix = "demo_txn_"
)

// Session is the per-order demo transaction store plus the artificial
// processing delay. Storage failures are logged and swallowed: a session
// storage outage must never abort checkout.
type Session struct {
	store session.Store
	logg  *logger.Logger
	delay time.Duration
}

// NewSession builds the demo payment session. A zero delay falls back to the
// default.
func NewSession(store session.Store, logg *logger.Logger, delay time.Duration) *Session {
	if delay <= 0 {
		delay = DefaultProcessingDelay
	}
	return &Session{store: store, logg: logg, delay: delay}
}

// SimulateProcessing suspends the caller for the configured duration. No
// cancellation is exposed; callers wanting one must race this against their
// own timeout.
func (s *Session) SimulateProcessing() {
	time.Sleep(s.delay)
}

// GenerateTransactionID produces a pseudo-unique uppercase reference from a
// time-derived component and a random component. Demo-grade, not
// security-grade.
func GenerateTransactionID() string {
	timestamp := strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36))
	random := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return "TXN" + timestamp + random
}

// StoreReference associates a transaction id with an order id.
func (s *Session) StoreReference(ctx context.Context, orderID uint64, transactionID string) {
	if err := s.store.Set(ctx, referenceKey(orderID), transactionID); err != nil {
		s.warn(ctx, "failed to store transaction reference", err)
	}
}

// Reference returns the stored transaction id for the order, empty when
// absent. Absence is a normal state.
func (s *Session) Reference(ctx context.Context, orderID uint64) string {
	value, ok, err := s.store.Get(ctx, referenceKey(orderID))
	if err != nil {
		s.warn(ctx, "failed to read transaction reference", err)
		return ""
	}
	if !ok {
		return ""
	}
	return value
}

// ClearReference removes the stored transaction id for the order.
func (s *Session) ClearReference(ctx context.Context, orderID uint64) {
	if err := s.store.Delete(ctx, referenceKey(orderID)); err != nil {
		s.warn(ctx, "failed to clear transaction reference", err)
	}
}

func (s *Session) warn(ctx context.Context, msg string, err error) {
	if s.logg == nil {
		return
	}
	s.logg.Error(ctx, msg, err)
}

func referenceKey(orderID uint64) string {
	return referenceKeyPrefix + strconv.FormatUint(orderID, 10)
}
