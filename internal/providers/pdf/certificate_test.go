package pdf_test

import (
	"bytes"
	"testing"

	"github.com/smallbiznis/giftcert/internal/providers/pdf"
	"go.uber.org/zap"
)

func TestRenderProducesPDF(t *testing.T) {
	r := pdf.NewCertificateRenderer(zap.NewNop())

	data, err := r.Render("Alice Smith", "0001")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(data) == 0 {
		t.Fatalf("expected non-empty document")
	}
	// Generation timestamps make the bytes non-reproducible; assert the
	// container format instead.
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("expected PDF header, got %q", data[:min(len(data), 8)])
	}
}

func TestRenderHandlesLongNames(t *testing.T) {
	r := pdf.NewCertificateRenderer(zap.NewNop())

	if _, err := r.Render("Anna-Maria Alexandra von Habsburg-Lothringen", "10001"); err != nil {
		t.Fatalf("render long name: %v", err)
	}
}
