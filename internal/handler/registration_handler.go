package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-registration-api/internal/dto"
	"github.com/noah-isme/sma-registration-api/internal/models"
	appErrors "github.com/noah-isme/sma-registration-api/pkg/errors"
	"github.com/noah-isme/sma-registration-api/pkg/response"
)

type submissionIngestor interface {
	Ingest(ctx context.Context, payload models.RegistrationPayload) (*models.SubmissionResult, error)
}

type sheetProvisioner interface {
	Provision(ctx context.Context, sheetName string) (*models.ProvisionResult, error)
}

// RegistrationHandler exposes the form submission and sheet setup endpoints.
type RegistrationHandler struct {
	submissions submissionIngestor
	provisioner sheetProvisioner
}

// NewRegistrationHandler constructs RegistrationHandler.
func NewRegistrationHandler(submissions submissionIngestor, provisioner sheetProvisioner) *RegistrationHandler {
	return &RegistrationHandler{submissions: submissions, provisioner: provisioner}
}

// Submit godoc
// @Summary Submit a student registration
// @Description Appends one row per chosen subject to the registration sheet.
// @Tags Registrations
// @Accept json
// @Produce json
// @Param payload body models.RegistrationPayload true "Registration payload"
// @Success 200 {object} dto.SubmitResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 405 {object} response.ErrorBody
// @Failure 500 {object} response.ErrorBody
// @Router /submit [post]
func (h *RegistrationHandler) Submit(c *gin.Context) {
	var payload models.RegistrationPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	result, err := h.submissions.Ingest(c.Request.Context(), payload)
	if err != nil {
		_ = c.Error(err)
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.SubmitResponse{
		OK:           true,
		StudentID:    result.StudentID,
		RowsAppended: result.RowsAppended,
	})
}

// SetupSheet godoc
// @Summary Provision the registration sheet
// @Description Sets the configured sheet right-to-left and overwrites its header row.
// @Tags Registrations
// @Produce json
// @Success 200 {object} dto.SetupSheetResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 500 {object} response.ErrorBody
// @Router /setup-sheet [get]
// @Router /setup-sheet [post]
func (h *RegistrationHandler) SetupSheet(c *gin.Context) {
	if _, err := h.provisioner.Provision(c.Request.Context(), ""); err != nil {
		_ = c.Error(err)
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.SetupSheetResponse{OK: true, Message: dto.SetupSheetMessage})
}

// MethodNotAllowed answers requests using an unsupported method on a known
// path. RegisterRoutes installs it as the engine's NoMethod handler.
func (h *RegistrationHandler) MethodNotAllowed(c *gin.Context) {
	response.Error(c, appErrors.ErrMethodNotAllowed)
}
