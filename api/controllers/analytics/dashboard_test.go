package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/angelmondragon/creatordash-billing/api/middleware"
	pkgerrors "github.com/angelmondragon/creatordash-billing/pkg/errors"
	"github.com/google/uuid"
)

func TestCreatorDashboardReturnsResultVerbatim(t *testing.T) {
	doc := `{"revenue":{"total":"25.99","last_30_days":"25.99","currency":"usd"},"subscribers":{"active":1}}`
	svc := &stubAnalytics{result: json.RawMessage(doc)}
	userID := uuid.New()

	rec := serveDashboard(CreatorDashboard(svc, nil), &userID)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if rec.Body.String() != doc {
		t.Fatalf("expected body passed through, got %s", rec.Body.String())
	}
	if svc.userID != userID {
		t.Fatalf("expected query for %s, got %s", userID, svc.userID)
	}
}

func TestCreatorDashboardQueryFailure(t *testing.T) {
	svc := &stubAnalytics{err: pkgerrors.Wrap(pkgerrors.CodeDependency, errors.New("function does not exist"), "query analytics")}
	userID := uuid.New()

	rec := serveDashboard(CreatorDashboard(svc, nil), &userID)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"error":"query analytics: function does not exist"}` {
		t.Fatalf("unexpected body %s", got)
	}
}

func TestCreatorDashboardRequiresUser(t *testing.T) {
	svc := &stubAnalytics{}
	rec := serveDashboard(CreatorDashboard(svc, nil), nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if svc.calls != 0 {
		t.Fatalf("service must not be called")
	}
}

func serveDashboard(handler http.Handler, userID *uuid.UUID) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics", nil)
	if userID != nil {
		req = req.WithContext(middleware.WithUserID(req.Context(), *userID))
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

type stubAnalytics struct {
	calls  int
	userID uuid.UUID
	result json.RawMessage
	err    error
}

func (s *stubAnalytics) Dashboard(_ context.Context, userID uuid.UUID) (json.RawMessage, error) {
	s.calls++
	s.userID = userID
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}
