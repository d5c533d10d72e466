package document

import (
	"fmt"

	"github.com/acadops/programme-finance/internal/layout"
	"github.com/acadops/programme-finance/internal/models"
	"go.uber.org/zap"
)

// Kind identifies a generated document type.
type Kind string

const (
	KindProposalNote Kind = "proposal-note"
	KindBudgetAnnex  Kind = "budget-annex"
	KindClaimBill    Kind = "claim-bill"
	KindFundTransfer Kind = "fund-transfer"
	KindBrochure     Kind = "brochure"
)

// Artifact is a fully buffered generated document plus its delivery
// metadata. It only exists after a successful render; a failed render
// produces an error and no artifact.
type Artifact struct {
	Bytes       []byte
	ContentType string
	FileName    string
}

// Config carries the institutional boilerplate printed on every document.
type Config struct {
	InstitutionName    string
	InstitutionAddress string
}

// Renderer produces every document from the same layout pipeline: one
// engine, one resolver, one set of shared sections. Renderers read the event
// record and never mutate it.
type Renderer struct {
	cfg    Config
	layout layout.Config
	logger *zap.Logger
}

// NewRenderer creates a renderer with A4 geometry.
func NewRenderer(cfg Config, logger *zap.Logger) *Renderer {
	return &Renderer{cfg: cfg, layout: layout.A4, logger: logger}
}

// Render builds the requested document for the event and returns the
// buffered artifact. All pages are assembled before any byte is produced;
// an error at any point aborts the whole document.
func (r *Renderer) Render(event *models.Event, kind Kind) (*Artifact, error) {
	canvas := layout.NewPDFCanvas(r.layout)
	engine := layout.NewEngine(canvas, r.layout, r.logger)
	engine.StartDocument()

	var build func(*layout.Engine, *models.Event) error
	switch kind {
	case KindProposalNote:
		build = r.buildProposalNote
	case KindBudgetAnnex:
		build = r.buildBudgetAnnex
	case KindClaimBill:
		build = r.buildClaimBill
	case KindFundTransfer:
		build = r.buildFundTransfer
	case KindBrochure:
		build = r.buildBrochure
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	if err := build(engine, event); err != nil {
		r.logger.Error("Document render aborted",
			zap.String("event_id", event.ID),
			zap.String("kind", string(kind)),
			zap.Error(err))
		return nil, fmt.Errorf("render %s: %w", kind, err)
	}

	bytes, err := canvas.Output()
	if err != nil {
		r.logger.Error("Document output failed",
			zap.String("event_id", event.ID),
			zap.String("kind", string(kind)),
			zap.Error(err))
		return nil, fmt.Errorf("render %s: %w", kind, err)
	}

	artifact := &Artifact{
		Bytes:       bytes,
		ContentType: "application/pdf",
		FileName:    fmt.Sprintf("%s-%s.pdf", event.ID, kind),
	}
	r.logger.Info("Document rendered",
		zap.String("event_id", event.ID),
		zap.String("kind", string(kind)),
		zap.Int("pages", engine.PageCount()),
		zap.Int("size_bytes", len(bytes)))
	return artifact, nil
}
