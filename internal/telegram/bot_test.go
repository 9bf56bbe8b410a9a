package telegram

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
)

func TestSendHonorsCancelledContext(t *testing.T) {
	b := &Bot{log: zap.NewNop()}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := b.Send(ctx, "100500", []byte("data"), "cert_0001.pdf"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestSendRejectsInvalidOwnerRef(t *testing.T) {
	b := &Bot{log: zap.NewNop()}

	if err := b.Send(context.Background(), "not-a-chat-id", []byte("data"), "cert_0001.pdf"); err == nil {
		t.Fatalf("expected error for invalid owner ref")
	}
}
