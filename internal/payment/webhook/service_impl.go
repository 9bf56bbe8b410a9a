package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/giftcert/internal/clock"
	"github.com/smallbiznis/giftcert/internal/config"
	issuancedomain "github.com/smallbiznis/giftcert/internal/issuance/domain"
	obsmetrics "github.com/smallbiznis/giftcert/internal/observability/metrics"
	paymentdomain "github.com/smallbiznis/giftcert/internal/payment/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	providerName      = "prodamus"
	statusSuccess     = "success"
	testOrderSentinel = "test"
)

// The provider names the order reference differently depending on how the
// payment form was configured; first non-empty wins.
var orderRefFields = []string{"order_num", "order_id", "customer_extra"}

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Clock       clock.Clock
	Cfg         config.Config
	IssuanceSvc issuancedomain.Service
	Repo        paymentdomain.Repository
	Renderer    paymentdomain.ArtifactRenderer
	Deliverer   paymentdomain.Deliverer
	ObsMetrics  *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	clock       clock.Clock
	cfg         config.Config
	issuanceSvc issuancedomain.Service
	repo        paymentdomain.Repository
	renderer    paymentdomain.ArtifactRenderer
	deliverer   paymentdomain.Deliverer
	obsMetrics  *obsmetrics.Metrics
}

func NewService(p Params) paymentdomain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("payment.webhook"),
		genID:       p.GenID,
		clock:       p.Clock,
		cfg:         p.Cfg,
		issuanceSvc: p.IssuanceSvc,
		repo:        p.Repo,
		renderer:    p.Renderer,
		deliverer:   p.Deliverer,
		obsMetrics:  p.ObsMetrics,
	}
}

func (s *Service) HandleEvent(ctx context.Context, payload []byte, contentType string, headers http.Header) paymentdomain.Ack {
	fields := ParsePayload(contentType, payload)
	orderRef := firstNonEmpty(fields, orderRefFields)
	status := strings.TrimSpace(fields["payment_status"])

	record := s.recordEvent(ctx, fields, orderRef, status)
	ack := s.reconcile(ctx, payload, headers, orderRef, status)
	s.finishEvent(ctx, record, ack)

	s.obsMetrics.RecordWebhookEvent(string(ack))
	return ack
}

// reconcile runs the per-event state machine. Every terminal path returns
// an Ack; panics in rendering or delivery are absorbed here because a
// serial may already be committed by the time they fire.
func (s *Service) reconcile(ctx context.Context, payload []byte, headers http.Header, orderRef, status string) (ack paymentdomain.Ack) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("panic while handling payment event", zap.Any("panic", r))
			ack = paymentdomain.AckRetry
		}
	}()

	if !s.checkSignature(payload, headers) {
		return paymentdomain.AckError
	}

	if orderRef == "" || strings.EqualFold(orderRef, testOrderSentinel) {
		s.log.Info("acknowledging provider connectivity event")
		return paymentdomain.AckOK
	}

	if status != "" && status != statusSuccess {
		s.log.Info("ignoring non-success payment status",
			zap.String("order_ref", orderRef),
			zap.String("payment_status", status),
		)
		return paymentdomain.AckOK
	}

	id, err := strconv.ParseInt(orderRef, 10, 64)
	if err != nil || id <= 0 {
		s.log.Warn("unparseable order reference", zap.String("order_ref", orderRef))
		return paymentdomain.AckError
	}

	issued, err := s.issuanceSvc.IssueFor(ctx, id)
	if err != nil {
		if errors.Is(err, issuancedomain.ErrAlreadyHandled) {
			return paymentdomain.AckOK
		}
		s.log.Error("issuance failed", zap.Int64("request_id", id), zap.Error(err))
		return paymentdomain.AckRetry
	}

	s.obsMetrics.RecordIssued()

	artifact, err := s.renderer.Render(issued.RecipientName, issued.Serial)
	if err != nil {
		s.log.Error("certificate render failed after issuance",
			zap.Int64("request_id", id),
			zap.String("serial", issued.Serial),
			zap.Error(err),
		)
		s.obsMetrics.RecordDeliveryFailure()
		return paymentdomain.AckRetry
	}

	filename := fmt.Sprintf("cert_%s.pdf", issued.Serial)
	if err := s.deliverer.Send(ctx, issued.OwnerRef, artifact, filename); err != nil {
		s.log.Error("certificate delivery failed after issuance",
			zap.Int64("request_id", id),
			zap.String("serial", issued.Serial),
			zap.Error(err),
		)
		s.obsMetrics.RecordDeliveryFailure()
		return paymentdomain.AckRetry
	}

	s.log.Info("certificate delivered",
		zap.Int64("request_id", id),
		zap.String("serial", issued.Serial),
		zap.String("owner_ref", issued.OwnerRef),
	)
	return paymentdomain.AckOK
}

// checkSignature returns false only when enforcement is on and the
// signature does not verify. With enforcement off a mismatch is logged and
// the event proceeds, matching the provider's advisory trust model.
func (s *Service) checkSignature(payload []byte, headers http.Header) bool {
	secret := s.cfg.Payment.Secret
	if secret == "" {
		return true
	}
	if VerifySignature(secret, payload, headers.Get(SignatureHeader)) {
		return true
	}
	s.log.Warn("payment signature mismatch",
		zap.Bool("enforced", s.cfg.Payment.EnforceSignature),
	)
	return !s.cfg.Payment.EnforceSignature
}

// recordEvent appends the inbound event to the audit table. Best effort:
// the acknowledgment must not depend on audit storage.
func (s *Service) recordEvent(ctx context.Context, fields map[string]string, orderRef, status string) *paymentdomain.EventRecord {
	payload, err := json.Marshal(fields)
	if err != nil {
		payload = []byte("{}")
	}

	record := &paymentdomain.EventRecord{
		ID:         s.genID.Generate(),
		Provider:   providerName,
		OrderRef:   orderRef,
		Status:     status,
		Outcome:    "received",
		Payload:    datatypes.JSON(payload),
		ReceivedAt: s.clock.Now(),
	}
	if err := s.repo.InsertEvent(ctx, s.db, record); err != nil {
		s.log.Warn("payment event audit insert failed", zap.Error(err))
		return nil
	}
	return record
}

func (s *Service) finishEvent(ctx context.Context, record *paymentdomain.EventRecord, ack paymentdomain.Ack) {
	if record == nil {
		return
	}
	if err := s.repo.MarkProcessed(ctx, s.db, record.ID, string(ack), s.clock.Now()); err != nil {
		s.log.Warn("payment event audit update failed", zap.Error(err))
	}
}

func firstNonEmpty(fields map[string]string, keys []string) string {
	for _, key := range keys {
		if v := strings.TrimSpace(fields[key]); v != "" {
			return v
		}
	}
	return ""
}
