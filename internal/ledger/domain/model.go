package domain

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// CertificateRequest is one row of the issuance ledger. A row is created
// unpaid by the chat intake and mutated exactly once, when a payment
// notification binds a serial to it.
type CertificateRequest struct {
	ID            int64     `json:"id" gorm:"primaryKey"`
	OwnerRef      string    `json:"owner_ref" gorm:"type:text;not null"`
	RecipientName string    `json:"recipient_name" gorm:"type:text;not null"`
	Amount        int64     `json:"amount" gorm:"not null"`
	Serial        *string   `json:"serial"`
	Issued        bool      `json:"issued" gorm:"not null"`
	CreatedAt     time.Time `json:"created_at" gorm:"not null"`
}

func (CertificateRequest) TableName() string { return "certificate_requests" }

// SerialCounter is the singleton row holding the last issued sequence value.
// Invariant: last_serial equals the count of issued requests.
type SerialCounter struct {
	ID         int64 `gorm:"primaryKey"`
	LastSerial int64 `gorm:"not null"`
}

func (SerialCounter) TableName() string { return "serial_counters" }

var (
	// ErrAlreadyIssued reports that the target row was not issuable: it is
	// either already issued or does not exist. Callers treat both the same
	// way; the repository cannot tell them apart inside the update guard.
	ErrAlreadyIssued = errors.New("certificate_already_issued")
)

type Repository interface {
	InsertRequest(ctx context.Context, db *gorm.DB, req *CertificateRequest) (int64, error)
	FindUnissued(ctx context.Context, db *gorm.DB, id int64) (*CertificateRequest, error)
	Find(ctx context.Context, db *gorm.DB, id int64) (*CertificateRequest, error)
	List(ctx context.Context, db *gorm.DB) ([]CertificateRequest, error)
	Issue(ctx context.Context, db *gorm.DB, id int64) (string, error)
}
