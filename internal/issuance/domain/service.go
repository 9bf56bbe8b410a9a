package domain

import (
	"context"
	"errors"

	ledgerdomain "github.com/smallbiznis/giftcert/internal/ledger/domain"
)

// Issued carries the bound serial plus the denormalized fields the caller
// needs to render and deliver the certificate.
type Issued struct {
	RequestID     int64
	Serial        string
	RecipientName string
	OwnerRef      string
	Amount        int64
}

var (
	ErrNameTooShort  = errors.New("recipient_name_too_short")
	ErrInvalidAmount = errors.New("invalid_amount")

	// ErrAlreadyHandled reports that IssueFor had nothing to do: the
	// request id is unknown or the request is already issued. Both cases
	// are safe no-ops for retrying callers.
	ErrAlreadyHandled = errors.New("request_already_handled")
)

type Service interface {
	CreateRequest(ctx context.Context, ownerRef, recipientName string, amount int64) (int64, error)
	IssueFor(ctx context.Context, requestID int64) (*Issued, error)
	ListRequests(ctx context.Context) ([]ledgerdomain.CertificateRequest, error)
}
