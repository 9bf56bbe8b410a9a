package domain

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Ack is the terminal acknowledgment of one inbound payment event. Every
// path through the reconciler ends in exactly one of these; nothing is
// allowed to escape the webhook boundary as an error or panic.
type Ack string

const (
	// AckOK acknowledges the event with no further action expected:
	// successful issuance, benign redelivery, connectivity pings and
	// filtered statuses all land here.
	AckOK Ack = "ok"
	// AckError rejects a malformed event. The provider is not asked to
	// retry; redelivering the same bytes cannot succeed.
	AckError Ack = "error"
	// AckRetry reports a transient failure so the provider's own
	// redelivery becomes the recovery path.
	AckRetry Ack = "retry"
)

// EventRecord is the audit row written for every inbound event. It carries
// no decision weight; idempotency is enforced by the issuance ledger alone.
type EventRecord struct {
	ID          snowflake.ID   `json:"id" gorm:"primaryKey"`
	Provider    string         `json:"provider" gorm:"type:text;not null"`
	OrderRef    string         `json:"order_ref" gorm:"type:text;not null"`
	Status      string         `json:"status" gorm:"type:text;not null"`
	Outcome     string         `json:"outcome" gorm:"type:text;not null"`
	Payload     datatypes.JSON `json:"payload" gorm:"not null"`
	ReceivedAt  time.Time      `json:"received_at" gorm:"not null"`
	ProcessedAt *time.Time     `json:"processed_at"`
}

func (EventRecord) TableName() string { return "payment_events" }

type Repository interface {
	InsertEvent(ctx context.Context, db *gorm.DB, event *EventRecord) error
	MarkProcessed(ctx context.Context, db *gorm.DB, id snowflake.ID, outcome string, processedAt time.Time) error
}

// Service interprets one untrusted payment notification against ledger
// state and returns the acknowledgment for the transport to relay.
type Service interface {
	HandleEvent(ctx context.Context, payload []byte, contentType string, headers http.Header) Ack
}

// ArtifactRenderer produces the certificate artifact. Pure: no ledger
// access, deterministic layout for a given name and serial.
type ArtifactRenderer interface {
	Render(recipientName, serial string) ([]byte, error)
}

// Deliverer sends the rendered artifact back to the requesting chat user.
// Failure is logged by the caller and never rolls back issuance.
type Deliverer interface {
	Send(ctx context.Context, ownerRef string, artifact []byte, filename string) error
}
