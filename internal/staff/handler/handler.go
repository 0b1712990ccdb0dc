package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"healthcare-org-admin/internal/logger"
	"healthcare-org-admin/internal/middleware"
	staffmodel "healthcare-org-admin/internal/staff/model"
	"healthcare-org-admin/internal/staff/service"
	usermodel "healthcare-org-admin/internal/user/model"
	appErrors "healthcare-org-admin/pkg/errors"
	"healthcare-org-admin/pkg/utils"
)

type StaffHandler struct {
	service *service.StaffService
}

func NewHandler(service *service.StaffService) *StaffHandler {
	return &StaffHandler{service: service}
}

// RegisterRoutes mounts the staff endpoints under the given group. The caller
// is expected to guard the group with the matching admin-role authorization.
func (h *StaffHandler) RegisterRoutes(router *gin.RouterGroup) {
	staff := router.Group("/staff")
	{
		staff.POST("", h.CreateStaff)
		staff.GET("", h.ListStaff)
		staff.GET("/:staffUserId", h.GetStaff)
		staff.PATCH("/:staffUserId/status", h.UpdateStaffStatus)
	}
}

// StaffCreationResponse carries the one-time credentials alongside the
// created account.
type StaffCreationResponse struct {
	Staff             *usermodel.UserResponse `json:"staff"`
	TemporaryPassword string                  `json:"temporary_password,omitempty"`
}

func (h *StaffHandler) CreateStaff(c *gin.Context) {
	orgID, ok := middleware.GetOrganizationID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusForbidden, "No organization associated with this account")
		return
	}

	var request staffmodel.CreateStaffRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	staff, tempPassword, err := h.service.CreateStaff(c.Request.Context(), orgID, &request)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Staff member created successfully", StaffCreationResponse{
		Staff:             staff,
		TemporaryPassword: tempPassword,
	})
}

func (h *StaffHandler) ListStaff(c *gin.Context) {
	orgID, ok := middleware.GetOrganizationID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusForbidden, "No organization associated with this account")
		return
	}

	page, limit := utils.PaginationParams(c)

	staff, total, err := h.service.ListStaff(c.Request.Context(), orgID, page, limit)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.PaginatedResponse(c, http.StatusOK, "", staff, utils.NewPaginationMeta(total, page, limit))
}

func (h *StaffHandler) GetStaff(c *gin.Context) {
	orgID, ok := middleware.GetOrganizationID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusForbidden, "No organization associated with this account")
		return
	}

	staffID, err := uuid.Parse(c.Param("staffUserId"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid staff ID")
		return
	}

	staff, err := h.service.GetStaff(c.Request.Context(), staffID, orgID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", staff)
}

func (h *StaffHandler) UpdateStaffStatus(c *gin.Context) {
	orgID, ok := middleware.GetOrganizationID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusForbidden, "No organization associated with this account")
		return
	}

	staffID, err := uuid.Parse(c.Param("staffUserId"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid staff ID")
		return
	}

	var request staffmodel.UpdateStaffStatusRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(&request); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "isActive is required")
		return
	}

	staff, err := h.service.UpdateStaffStatus(c.Request.Context(), staffID, orgID, *request.IsActive)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Staff status updated", staff)
}

func respondWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	switch {
	case errors.Is(err, appErrors.ErrUserAlreadyExists):
		utils.ErrorResponse(c, http.StatusConflict, err.Error())
	case errors.Is(err, appErrors.ErrRoleNotAssignable),
		errors.Is(err, appErrors.ErrInvalidUserRole):
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, appErrors.ErrUserNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, err.Error())
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
