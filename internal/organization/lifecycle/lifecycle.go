package lifecycle

import (
	"fmt"

	"healthcare-org-admin/internal/organization/model"
	appErrors "healthcare-org-admin/pkg/errors"
)

// State machine for organization status transitions. Approval and rejection
// only ever leave PENDING_VERIFICATION; SUSPENDED is reachable from ACTIVE
// through direct administrative updates.
var validTransitions = map[model.OrganizationStatus][]model.OrganizationStatus{
	model.StatusPendingVerification: {
		model.StatusActive,
		model.StatusRejected,
	},
	model.StatusActive: {
		model.StatusSuspended,
	},
	model.StatusSuspended: {
		model.StatusActive,
	},
	model.StatusRejected: {
		// Terminal state - no transitions
	},
}

// ValidateStatusTransition checks if a status transition is allowed.
func ValidateStatusTransition(currentStatus, newStatus model.OrganizationStatus) error {
	allowedStatuses, exists := validTransitions[currentStatus]
	if !exists {
		return appErrors.NewAppError(
			"INVALID_STATUS",
			fmt.Sprintf("Unknown current status: %s", currentStatus),
			nil,
		)
	}

	for _, allowed := range allowedStatuses {
		if newStatus == allowed {
			return nil
		}
	}

	return appErrors.NewAppError(
		"INVALID_TRANSITION",
		fmt.Sprintf("Cannot transition from %s to %s", currentStatus, newStatus),
		nil,
	)
}

// GetAllowedTransitions returns the allowed next statuses.
func GetAllowedTransitions(currentStatus model.OrganizationStatus) []model.OrganizationStatus {
	return validTransitions[currentStatus]
}
