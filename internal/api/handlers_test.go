package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/acadops/programme-finance/internal/document"
	"github.com/acadops/programme-finance/internal/export"
	"github.com/acadops/programme-finance/internal/finance"
	"github.com/acadops/programme-finance/internal/models"
	"github.com/acadops/programme-finance/internal/repository"
	"github.com/acadops/programme-finance/internal/storage"
	"github.com/acadops/programme-finance/pkg/database"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	db, err := database.New(database.Config{Path: ":memory:", MaxOpenConns: 1, MaxIdleConns: 1}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.NewMigrator(db, logger).Run())

	machine := finance.NewApprovalStateMachine(logger)
	handler := NewHandler(
		repository.NewEventRepository(db.DB, logger),
		finance.NewExpenseSynchronizer(machine, logger),
		machine,
		document.NewRenderer(document.Config{InstitutionName: "STU"}, logger),
		export.NewBudgetAnnexExporter("STU", logger),
		storage.NewArchive(t.TempDir(), logger),
		logger,
	)
	return NewRouter(handler, logger)
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func createEvent(t *testing.T, router *gin.Engine) models.Event {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/api/v1/events", gin.H{
		"title":                  "Bridge Inspection Workshop",
		"start_date":             time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC),
		"end_date":               time.Date(2026, 5, 8, 0, 0, 0, 0, time.UTC),
		"organizing_departments": []string{"Civil Engineering"},
		"income": []gin.H{
			{"category": "Registration Fee", "expected_participants": 40, "per_participant_amount": 2500, "gst_percentage": 18},
		},
		"expenses": []gin.H{
			{"category": "Honorarium", "budget_amount": 20000},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var event models.Event
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &event))
	return event
}

func TestClaimSubmission_AutoApprovesAndTotals(t *testing.T) {
	router := setupRouter(t)
	event := createEvent(t, router)

	w := doJSON(t, router, http.MethodPost, "/api/v1/events/"+event.ID+"/claim", gin.H{
		"submitted_by": "coordinator-1",
		"expenses": []gin.H{
			{"category": "Travel", "amount": 5000},
			{"category": "Stationery", "amount": 1200},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated models.Event
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	require.NotNil(t, updated.ClaimBill)
	assert.True(t, updated.ClaimBill.ClaimSubmitted)
	assert.Equal(t, 6200.0, updated.ClaimBill.TotalExpenditure)
	for _, item := range updated.ClaimBill.Expenses {
		assert.Equal(t, models.ItemStatusApproved, item.ItemStatus)
	}
}

func TestClaimSubmission_EmptyExpensesRejected(t *testing.T) {
	router := setupRouter(t)
	event := createEvent(t, router)

	w := doJSON(t, router, http.MethodPost, "/api/v1/events/"+event.ID+"/claim", gin.H{
		"submitted_by": "coordinator-1",
		"expenses":     []gin.H{},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBudgetEditAfterClaim_OverwritesClaimExpenses(t *testing.T) {
	router := setupRouter(t)
	event := createEvent(t, router)

	w := doJSON(t, router, http.MethodPost, "/api/v1/events/"+event.ID+"/claim", gin.H{
		"submitted_by": "coordinator-1",
		"expenses":     []gin.H{{"category": "Travel", "amount": 5000}},
	})
	require.Equal(t, http.StatusOK, w.Code)
	var afterClaim models.Event
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &afterClaim))
	claimCreatedAt := afterClaim.ClaimBill.CreatedAt

	w = doJSON(t, router, http.MethodPut, "/api/v1/events/"+event.ID+"/budget", gin.H{
		"expenses": []gin.H{{"category": "Travel", "amount": 7000}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var afterEdit models.Event
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &afterEdit))
	require.Len(t, afterEdit.ClaimBill.Expenses, 1)
	assert.Equal(t, 7000.0, finance.Resolve(afterEdit.ClaimBill.Expenses[0]))
	assert.True(t, afterEdit.ClaimBill.ClaimSubmitted)
	assert.WithinDuration(t, claimCreatedAt, afterEdit.ClaimBill.CreatedAt, time.Second)
}

func TestRejectThenPurge_LineDisappearsOnlyAfterExplicitPurge(t *testing.T) {
	router := setupRouter(t)
	event := createEvent(t, router)

	w := doJSON(t, router, http.MethodPost, "/api/v1/events/"+event.ID+"/claim", gin.H{
		"submitted_by": "coordinator-1",
		"expenses": []gin.H{
			{"category": "Travel", "amount": 5000},
			{"category": "Catering", "amount": 900},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)
	var submitted models.Event
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &submitted))

	var cateringID string
	for _, item := range submitted.ClaimBill.Expenses {
		if item.Category == "Catering" {
			cateringID = item.LineID
		}
	}
	require.NotEmpty(t, cateringID)

	// rejection without a reason fails validation at binding time
	w = doJSON(t, router, http.MethodPost,
		fmt.Sprintf("/api/v1/events/%s/claim/items/%s/reject", event.ID, cateringID),
		gin.H{"reviewed_by": "reviewer-7"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPost,
		fmt.Sprintf("/api/v1/events/%s/claim/items/%s/reject", event.ID, cateringID),
		gin.H{"reviewed_by": "reviewer-7", "reason": "duplicate"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var rejected models.Event
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rejected))
	assert.Equal(t, 5000.0, rejected.ClaimBill.TotalExpenditure)

	// generating the claim document does not remove the rejected line
	w = doJSON(t, router, http.MethodGet, "/api/v1/events/"+event.ID+"/documents/claim-bill", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))

	w = doJSON(t, router, http.MethodGet, "/api/v1/events/"+event.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var afterRender models.Event
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &afterRender))
	assert.Len(t, afterRender.ClaimBill.Expenses, 2)

	// the explicit purge removes it
	w = doJSON(t, router, http.MethodPost, "/api/v1/events/"+event.ID+"/claim/purge-rejected", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var purgeResp struct {
		RemovedLineIDs []string     `json:"removed_line_ids"`
		Event          models.Event `json:"event"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &purgeResp))
	assert.Equal(t, []string{cateringID}, purgeResp.RemovedLineIDs)
	assert.Len(t, purgeResp.Event.ClaimBill.Expenses, 1)
	assert.Equal(t, 5000.0, purgeResp.Event.ClaimBill.TotalExpenditure)
}

func TestGenerateDocument_ArchivesArtifact(t *testing.T) {
	router := setupRouter(t)
	event := createEvent(t, router)

	w := doJSON(t, router, http.MethodGet, "/api/v1/events/"+event.ID+"/documents/proposal-note", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/events/"+event.ID+"/documents", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var listing struct {
		Documents []string `json:"documents"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listing))
	assert.Equal(t, []string{event.ID + "-proposal-note.pdf"}, listing.Documents)
}

func TestGenerateDocument_UnknownKind(t *testing.T) {
	router := setupRouter(t)
	event := createEvent(t, router)

	w := doJSON(t, router, http.MethodGet, "/api/v1/events/"+event.ID+"/documents/minutes", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateDocument_EventNotFound(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/events/evt-missing/documents/proposal-note", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGenerateDocument_ClaimBillBeforeSubmission(t *testing.T) {
	router := setupRouter(t)
	event := createEvent(t, router)

	w := doJSON(t, router, http.MethodGet, "/api/v1/events/"+event.ID+"/documents/claim-bill", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExportBudgetAnnex(t *testing.T) {
	router := setupRouter(t)
	event := createEvent(t, router)

	w := doJSON(t, router, http.MethodGet, "/api/v1/events/"+event.ID+"/exports/budget-annex.xlsx", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "spreadsheetml")
	assert.NotEmpty(t, w.Body.Bytes())
}

func TestCreateEvent_InvalidDateRange(t *testing.T) {
	router := setupRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/events", gin.H{
		"title":      "Backwards Workshop",
		"start_date": time.Date(2026, 5, 8, 0, 0, 0, 0, time.UTC),
		"end_date":   time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetEvent_ReconciledView(t *testing.T) {
	router := setupRouter(t)
	event := createEvent(t, router)

	w := doJSON(t, router, http.MethodPost, "/api/v1/events/"+event.ID+"/claim", gin.H{
		"submitted_by": "coordinator-1",
		"expenses":     []gin.H{{"category": "Travel", "amount": 5000}},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/events/"+event.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var view models.Event
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	require.NotNil(t, view.BudgetBreakdown)
	require.NotNil(t, view.ClaimBill)
	require.Len(t, view.BudgetBreakdown.Expenses, 1)
	assert.Equal(t, view.BudgetBreakdown.Expenses[0].LineID, view.ClaimBill.Expenses[0].LineID)
}
