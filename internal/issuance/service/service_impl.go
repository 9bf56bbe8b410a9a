package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/smallbiznis/giftcert/internal/clock"
	"github.com/smallbiznis/giftcert/internal/issuance/domain"
	ledgerdomain "github.com/smallbiznis/giftcert/internal/ledger/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
	Repo  ledgerdomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
	repo  ledgerdomain.Repository
}

func NewService(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("issuance.service"),
		clock: p.Clock,
		repo:  p.Repo,
	}
}

// CreateRequest validates the recipient name and appends an unpaid row to
// the ledger, returning its store-assigned id.
func (s *Service) CreateRequest(ctx context.Context, ownerRef, recipientName string, amount int64) (int64, error) {
	name := strings.TrimSpace(recipientName)
	if utf8.RuneCountInString(name) < 2 {
		return 0, domain.ErrNameTooShort
	}
	if amount <= 0 {
		return 0, domain.ErrInvalidAmount
	}

	id, err := s.repo.InsertRequest(ctx, s.db, &ledgerdomain.CertificateRequest{
		OwnerRef:      strings.TrimSpace(ownerRef),
		RecipientName: name,
		Amount:        amount,
		CreatedAt:     s.clock.Now(),
	})
	if err != nil {
		return 0, err
	}

	s.log.Info("certificate request created",
		zap.Int64("request_id", id),
		zap.String("owner_ref", ownerRef),
	)
	return id, nil
}

// IssueFor binds the next sequential serial to the request. It is safe to
// call repeatedly with the same id: the first call issues, every later call
// returns ErrAlreadyHandled without touching the counter.
func (s *Service) IssueFor(ctx context.Context, requestID int64) (*domain.Issued, error) {
	req, err := s.repo.FindUnissued(ctx, s.db, requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		s.logAlreadyHandled(ctx, requestID)
		return nil, domain.ErrAlreadyHandled
	}

	serial, err := s.repo.Issue(ctx, s.db, requestID)
	if err != nil {
		if errors.Is(err, ledgerdomain.ErrAlreadyIssued) {
			// Lost the race to a concurrent delivery of the same event.
			return nil, domain.ErrAlreadyHandled
		}
		return nil, err
	}

	s.log.Info("certificate issued",
		zap.Int64("request_id", requestID),
		zap.String("serial", serial),
	)

	return &domain.Issued{
		RequestID:     requestID,
		Serial:        serial,
		RecipientName: req.RecipientName,
		OwnerRef:      req.OwnerRef,
		Amount:        req.Amount,
	}, nil
}

func (s *Service) ListRequests(ctx context.Context) ([]ledgerdomain.CertificateRequest, error) {
	return s.repo.List(ctx, s.db)
}

// logAlreadyHandled distinguishes an unknown id from a duplicate delivery
// in logs. Externally both remain the same no-op.
func (s *Service) logAlreadyHandled(ctx context.Context, requestID int64) {
	existing, err := s.repo.Find(ctx, s.db, requestID)
	if err != nil || existing == nil {
		s.log.Warn("issuance requested for unknown request id",
			zap.Int64("request_id", requestID),
		)
		return
	}
	serial := ""
	if existing.Serial != nil {
		serial = *existing.Serial
	}
	s.log.Info("issuance requested for already issued request",
		zap.Int64("request_id", requestID),
		zap.String("serial", serial),
	)
}
