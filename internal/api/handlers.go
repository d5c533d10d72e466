package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/acadops/programme-finance/internal/document"
	"github.com/acadops/programme-finance/internal/export"
	"github.com/acadops/programme-finance/internal/finance"
	"github.com/acadops/programme-finance/internal/models"
	"github.com/acadops/programme-finance/internal/repository"
	"github.com/acadops/programme-finance/internal/storage"
	"github.com/acadops/programme-finance/pkg/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler wires the reconciliation core and the document pipeline to HTTP.
// Each request runs synchronously to completion against one event record;
// concurrent writes to the same event are last-writer-wins, which the
// low-contention administrative domain tolerates.
type Handler struct {
	events       *repository.EventRepository
	synchronizer *finance.ExpenseSynchronizer
	machine      *finance.ApprovalStateMachine
	renderer     *document.Renderer
	exporter     *export.BudgetAnnexExporter
	archive      *storage.Archive
	logger       *zap.Logger
}

// NewHandler creates a new API handler
func NewHandler(
	events *repository.EventRepository,
	synchronizer *finance.ExpenseSynchronizer,
	machine *finance.ApprovalStateMachine,
	renderer *document.Renderer,
	exporter *export.BudgetAnnexExporter,
	archive *storage.Archive,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		events:       events,
		synchronizer: synchronizer,
		machine:      machine,
		renderer:     renderer,
		exporter:     exporter,
		archive:      archive,
		logger:       logger,
	}
}

// CreateEvent creates an event with its initial planned budget.
func (h *Handler) CreateEvent(c *gin.Context) {
	var req models.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := utils.ValidateDateRange(req.StartDate, req.EndDate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	for _, coord := range req.Coordinators {
		if coord.Email == "" {
			continue
		}
		if err := utils.ValidateEmail(coord.Email); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	now := time.Now()
	event := &models.Event{
		ID:                    fmt.Sprintf("evt-%d", now.UnixNano()),
		Title:                 utils.SanitizeString(req.Title),
		Venue:                 utils.SanitizeString(req.Venue),
		Mode:                  req.Mode,
		StartDate:             req.StartDate,
		EndDate:               req.EndDate,
		Coordinators:          req.Coordinators,
		OrganizingDepartments: req.OrganizingDepartments,
		RegistrationFees:      req.RegistrationFees,
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	income := models.ToIncomeLines(req.Income)
	finance.DeriveIncome(income)
	expenses := models.ToExpenseItems(req.Expenses)
	finance.EnsureLineIDs(expenses)
	event.BudgetBreakdown = &models.BudgetBreakdown{
		Income:             income,
		Expenses:           expenses,
		UniversityOverhead: req.UniversityOverhead,
		TotalExpenditure:   finance.PlannedTotal(expenses),
	}
	if req.UniversityOverhead != nil {
		event.BudgetBreakdown.TotalExpenditure += *req.UniversityOverhead
	}

	if err := h.events.Create(event); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create event"})
		return
	}
	c.JSON(http.StatusCreated, event)
}

// GetEvent returns the aggregate reconciled for editing: one consistent
// expense list no matter which view changed last.
func (h *Handler) GetEvent(c *gin.Context) {
	event, ok := h.loadEvent(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.synchronizer.ReconcileForEditing(event))
}

// ListEvents returns recent events.
func (h *Handler) ListEvents(c *gin.Context) {
	events, err := h.events.List(50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list events"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events, "total": len(events)})
}

// UpdateBudget replaces the planned expense list and keeps the claim view in
// step.
func (h *Handler) UpdateBudget(c *gin.Context) {
	var req models.BudgetUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	event, ok := h.loadEvent(c)
	if !ok {
		return
	}

	if event.BudgetBreakdown == nil {
		event.BudgetBreakdown = &models.BudgetBreakdown{}
	}
	if req.Income != nil {
		income := models.ToIncomeLines(req.Income)
		finance.DeriveIncome(income)
		event.BudgetBreakdown.Income = income
	}
	if req.UniversityOverhead != nil {
		event.BudgetBreakdown.UniversityOverhead = req.UniversityOverhead
	}

	if err := h.synchronizer.OnBudgetUpdate(event, models.ToExpenseItems(req.Expenses)); err != nil {
		h.respondDomainError(c, err)
		return
	}
	h.persistAndRespond(c, event)
}

// SubmitClaim records post-event actuals, auto-approving every line.
func (h *Handler) SubmitClaim(c *gin.Context) {
	var req models.ClaimSubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	event, ok := h.loadEvent(c)
	if !ok {
		return
	}

	if err := h.synchronizer.OnClaimSubmit(event, models.ToExpenseItems(req.Expenses), req.SubmittedBy); err != nil {
		h.respondDomainError(c, err)
		return
	}
	h.persistAndRespond(c, event)
}

// ApproveItem approves one claim line.
func (h *Handler) ApproveItem(c *gin.Context) {
	var req models.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.reviewItem(c, req.ReviewedBy, "", true)
}

// RejectItem rejects one claim line with a mandatory reason.
func (h *Handler) RejectItem(c *gin.Context) {
	var req models.RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.reviewItem(c, req.ReviewedBy, req.Reason, false)
}

func (h *Handler) reviewItem(c *gin.Context, reviewer, reason string, approve bool) {
	event, ok := h.loadEvent(c)
	if !ok {
		return
	}
	if err := h.synchronizer.ReviewItem(event, c.Param("lineID"), reviewer, reason, approve); err != nil {
		h.respondDomainError(c, err)
		return
	}
	h.persistAndRespond(c, event)
}

// PurgeRejected permanently removes rejected claim lines. This is the one
// destructive operation in the API and it is only reachable here, never
// through document generation.
func (h *Handler) PurgeRejected(c *gin.Context) {
	event, ok := h.loadEvent(c)
	if !ok {
		return
	}
	if event.ClaimBill == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": finance.ErrNoClaim.Error()})
		return
	}

	removed := h.machine.PurgeRejected(event)
	if len(removed) == 0 {
		c.JSON(http.StatusOK, gin.H{"removed_line_ids": []string{}, "event": event})
		return
	}
	if err := h.events.Update(event); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to persist event"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed_line_ids": removed, "event": event})
}

// GenerateDocument renders one of the document kinds and streams the PDF.
// Generation is read-only: the stored record is identical before and after.
func (h *Handler) GenerateDocument(c *gin.Context) {
	event, ok := h.loadEvent(c)
	if !ok {
		return
	}

	artifact, err := h.renderer.Render(event, document.Kind(c.Param("kind")))
	if err != nil {
		switch {
		case errors.Is(err, document.ErrUnknownKind):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, document.ErrNoBudget), errors.Is(err, document.ErrClaimNotSubmitted):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	// archiving is best-effort; the response carries the artifact regardless
	if _, err := h.archive.Save(event.ID, artifact.FileName, artifact.Bytes); err != nil {
		h.logger.Warn("Failed to archive document",
			zap.String("event_id", event.ID),
			zap.String("file", artifact.FileName),
			zap.Error(err))
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.FileName))
	c.Data(http.StatusOK, artifact.ContentType, artifact.Bytes)
}

// ListDocuments returns the artifact file names archived for an event.
func (h *Handler) ListDocuments(c *gin.Context) {
	event, ok := h.loadEvent(c)
	if !ok {
		return
	}

	names, err := h.archive.List(event.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list documents"})
		return
	}
	if names == nil {
		names = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"documents": names})
}

// ExportBudgetAnnex streams the budget annexure workbook.
func (h *Handler) ExportBudgetAnnex(c *gin.Context) {
	event, ok := h.loadEvent(c)
	if !ok {
		return
	}

	data, fileName, err := h.exporter.Export(event)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.archive.Save(event.ID, fileName, data); err != nil {
		h.logger.Warn("Failed to archive workbook",
			zap.String("event_id", event.ID),
			zap.String("file", fileName),
			zap.Error(err))
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func (h *Handler) loadEvent(c *gin.Context) (*models.Event, bool) {
	event, err := h.events.GetByID(c.Param("id"))
	if errors.Is(err, repository.ErrEventNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return nil, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load event"})
		return nil, false
	}
	return event, true
}

func (h *Handler) persistAndRespond(c *gin.Context, event *models.Event) {
	if err := h.events.Update(event); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to persist event"})
		return
	}
	c.JSON(http.StatusOK, event)
}

// respondDomainError maps core errors onto HTTP statuses. Validation
// failures happen before any mutation, so a 400 here means the stored
// record is untouched.
func (h *Handler) respondDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, finance.ErrNoExpenses),
		errors.Is(err, finance.ErrEmptyRejectionReason):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, finance.ErrLineNotFound),
		errors.Is(err, finance.ErrNoClaim):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.logger.Error("Unhandled domain error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
