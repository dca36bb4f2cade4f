package contract

import (
	"context"

	"canon-be/internal/model"
)

// SystemLogRepository records consumed events for audit and analytics.
type SystemLogRepository interface {
	Create(ctx context.Context, log *model.SystemLog) error
}
