package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"healthcare-org-admin/internal/logger"
	"healthcare-org-admin/internal/middleware"
	"healthcare-org-admin/internal/organization/model"
	"healthcare-org-admin/internal/organization/service"
	appErrors "healthcare-org-admin/pkg/errors"
	"healthcare-org-admin/pkg/utils"
)

type OrganizationHandler struct {
	service *service.OrganizationService
}

func NewHandler(service *service.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{service: service}
}

// RegisterPublicRoutes mounts the unauthenticated registration endpoint.
func (h *OrganizationHandler) RegisterPublicRoutes(router *gin.RouterGroup) {
	org := router.Group("/organizations")
	{
		org.POST("/register", h.Register)
	}
}

// RegisterAdminRoutes mounts the review queue endpoints. The caller is
// expected to guard the group with system-admin authorization.
func (h *OrganizationHandler) RegisterAdminRoutes(router *gin.RouterGroup) {
	org := router.Group("/organizations")
	{
		org.GET("/pending", h.ListPending)
		org.PATCH("/:orgId/approve", h.Approve)
		org.PATCH("/:orgId/reject", h.Reject)
	}
}

func (h *OrganizationHandler) Register(c *gin.Context) {
	var request model.RegisterOrganizationRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	orgResponse, err := h.service.Register(c.Request.Context(), &request)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Organization registered successfully. It will be reviewed by an administrator.", orgResponse)
}

func (h *OrganizationHandler) ListPending(c *gin.Context) {
	page, limit := utils.PaginationParams(c)

	orgs, total, err := h.service.ListPending(c.Request.Context(), page, limit)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.PaginatedResponse(c, http.StatusOK, "", orgs, utils.NewPaginationMeta(total, page, limit))
}

func (h *OrganizationHandler) Approve(c *gin.Context) {
	orgID, err := uuid.Parse(c.Param("orgId"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid organization ID")
		return
	}

	approverID, ok := middleware.GetUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	orgResponse, tempPassword, err := h.service.Approve(c.Request.Context(), orgID, approverID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if orgResponse == nil {
		utils.ErrorResponse(c, http.StatusNotFound, "Organization not found or already processed")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Organization approved successfully", model.ApprovalResponse{
		Organization:      orgResponse,
		TemporaryPassword: tempPassword,
	})
}

func (h *OrganizationHandler) Reject(c *gin.Context) {
	orgID, err := uuid.Parse(c.Param("orgId"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid organization ID")
		return
	}

	approverID, ok := middleware.GetUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var request model.RejectOrganizationRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&request); err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	orgResponse, err := h.service.Reject(c.Request.Context(), orgID, approverID, request.Reason)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if orgResponse == nil {
		utils.ErrorResponse(c, http.StatusNotFound, "Organization not found or already processed")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Organization rejected", orgResponse)
}

func respondWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	switch {
	case errors.Is(err, appErrors.ErrOrganizationExists),
		errors.Is(err, appErrors.ErrAdminEmailTaken):
		utils.ErrorResponse(c, http.StatusConflict, err.Error())
	case errors.Is(err, appErrors.ErrOrganizationNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, err.Error())
	case errors.Is(err, appErrors.ErrUnauthorized):
		utils.ErrorResponse(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, appErrors.ErrInsufficientPermissions):
		utils.ErrorResponse(c, http.StatusForbidden, err.Error())
	default:
		var appErr *appErrors.AppError
		if errors.As(err, &appErr) {
			utils.ErrorResponse(c, http.StatusBadRequest, appErr.Message)
			return
		}

		requestID := middleware.GetRequestID(c)
		logger.Error("Internal server error",
			zap.String("request_id", requestID),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
			zap.Error(err),
		)
		utils.ErrorResponse(c, http.StatusInternalServerError, "Internal server error")
	}
}
