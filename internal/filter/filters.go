package filter

import (
	"github.com/bokjinews/blog/internal/validator"
	"github.com/bokjinews/blog/models"
)

// Filter narrows the admin account listing. An empty status means all
// accounts.
type Filter struct {
	Status string
}

func NewFilter(status string) Filter {
	return Filter{
		Status: status,
	}
}

func ValidateFilters(filters Filter) *validator.Validator {
	v := validator.New()
	if filters.Status != "" {
		v.Check(
			validator.In(filters.Status, models.ApprovalPending, models.ApprovalApproved, models.ApprovalRejected),
			"status", "must be one of pending, approved or rejected",
		)
	}

	return v
}
