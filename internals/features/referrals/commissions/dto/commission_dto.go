package dto

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// BulkIDsRequest: approve / pay banyak komisi sekaligus.
type BulkIDsRequest struct {
	IDs []string `json:"ids" form:"ids" validate:"required,min=1,dive,uuid"`
}

func (r BulkIDsRequest) UUIDs() ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(r.IDs))
	for _, raw := range r.IDs {
		id, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "ids berisi UUID tidak valid")
		}
		out = append(out, id)
	}
	return out, nil
}
