package pdf

import (
	"strings"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"go.uber.org/zap"
)

// CertificateRenderer lays out the gift certificate document. It reads
// nothing but its arguments; the layout is fully determined by the
// recipient name and serial.
type CertificateRenderer struct {
	log *zap.Logger
}

func NewCertificateRenderer(log *zap.Logger) *CertificateRenderer {
	return &CertificateRenderer{log: log.Named("providers.pdf")}
}

func (r *CertificateRenderer) Render(recipientName, serial string) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Horizontal).
		WithPageSize(pagesize.A5).
		WithLeftMargin(15).
		WithTopMargin(20).
		WithRightMargin(15).
		Build()

	m := maroto.New(cfg)

	m.AddRow(24, text.NewCol(12, "GIFT CERTIFICATE", props.Text{
		Size:  26,
		Style: fontstyle.Bold,
		Align: align.Center,
	}))
	m.AddRow(10, text.NewCol(12, "awarded to", props.Text{
		Size:  12,
		Style: fontstyle.Italic,
		Align: align.Center,
	}))
	m.AddRow(18, text.NewCol(12, strings.TrimSpace(recipientName), props.Text{
		Size:  20,
		Align: align.Center,
	}))
	m.AddRow(12, text.NewCol(12, "No "+serial, props.Text{
		Size:  14,
		Style: fontstyle.Bold,
		Align: align.Center,
	}))

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return doc.GetBytes(), nil
}
