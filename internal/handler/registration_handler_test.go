package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-registration-api/internal/dto"
	"github.com/noah-isme/sma-registration-api/internal/models"
	appErrors "github.com/noah-isme/sma-registration-api/pkg/errors"
	"github.com/noah-isme/sma-registration-api/pkg/response"
)

type submissionServiceMock struct {
	result   *models.SubmissionResult
	err      error
	calls    int
	received models.RegistrationPayload
}

func (m *submissionServiceMock) Ingest(ctx context.Context, payload models.RegistrationPayload) (*models.SubmissionResult, error) {
	m.calls++
	m.received = payload
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

type provisionerMock struct {
	err   error
	calls int
}

func (m *provisionerMock) Provision(ctx context.Context, sheetName string) (*models.ProvisionResult, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return &models.ProvisionResult{SheetTitle: "Registrations"}, nil
}

func newJSONContext(method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, target, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body response.ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error
}

func TestRegistrationHandlerSubmitSuccess(t *testing.T) {
	svc := &submissionServiceMock{result: &models.SubmissionResult{StudentID: "SABC123", RowsAppended: 2}}
	handler := NewRegistrationHandler(svc, &provisionerMock{})
	c, w := newJSONContext(http.MethodPost, "/api/submit", `{"full_name":"Sara Ali","phone":"0100","subjects":[{"subject":"Math"},{"subject":"Physics"}]}`)

	handler.Submit(c)

	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.SubmitResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
	assert.Equal(t, "SABC123", resp.StudentID)
	assert.Equal(t, 2, resp.RowsAppended)
	assert.Equal(t, "Sara Ali", svc.received.FullName)
	assert.Len(t, svc.received.Subjects, 2)
}

func TestRegistrationHandlerMethodNotAllowed(t *testing.T) {
	handler := NewRegistrationHandler(&submissionServiceMock{}, &provisionerMock{})
	c, w := newJSONContext(http.MethodGet, "/api/submit", "")

	handler.MethodNotAllowed(c)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, "Method not allowed", decodeError(t, w))
	assert.Equal(t, "METHOD_NOT_ALLOWED", w.Header().Get("X-Error-Code"))
}

func TestRegistrationHandlerSubmitInvalidBody(t *testing.T) {
	svc := &submissionServiceMock{}
	handler := NewRegistrationHandler(svc, &provisionerMock{})
	c, w := newJSONContext(http.MethodPost, "/api/submit", `invalid`)

	handler.Submit(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", w.Header().Get("X-Error-Code"))
	assert.Zero(t, svc.calls)
}

func TestRegistrationHandlerSubmitPropagatesServiceErrors(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"validation", appErrors.Clone(appErrors.ErrValidation, "الاسم ورقم التليفون مطلوبان"), http.StatusBadRequest, "الاسم ورقم التليفون مطلوبان"},
		{"configuration", appErrors.Clone(appErrors.ErrConfiguration, "SHEET_ID not configured"), http.StatusInternalServerError, "SHEET_ID not configured"},
		{"store", appErrors.Store(errors.New("quota exceeded")), http.StatusInternalServerError, "quota exceeded"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := NewRegistrationHandler(&submissionServiceMock{err: tc.err}, &provisionerMock{})
			c, w := newJSONContext(http.MethodPost, "/api/submit", `{"full_name":"x","phone":"y"}`)

			handler.Submit(c)

			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.message, decodeError(t, w))
		})
	}
}

func TestRegistrationHandlerSetupSheet(t *testing.T) {
	prov := &provisionerMock{}
	handler := NewRegistrationHandler(&submissionServiceMock{}, prov)
	c, w := newJSONContext(http.MethodGet, "/api/setup-sheet", "")

	handler.SetupSheet(c)

	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.SetupSheetResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
	assert.Equal(t, dto.SetupSheetMessage, resp.Message)
	assert.Equal(t, 1, prov.calls)
}

func TestRegistrationHandlerSetupSheetNoSheets(t *testing.T) {
	handler := NewRegistrationHandler(&submissionServiceMock{}, &provisionerMock{err: appErrors.ErrNoSheets})
	c, w := newJSONContext(http.MethodPost, "/api/setup-sheet", "")

	handler.SetupSheet(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Spreadsheet has no sheets", decodeError(t, w))
}
