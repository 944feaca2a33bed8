package models

import (
	"time"

	"go.opentelemetry.io/otel"
)

const name string = "github.com/psytestlab/results-api/cmd/server/internal/models"

var tracer = otel.Tracer(name)

// Derived from gorm.Model. IDs are integer identity columns owned by the
// migrations, not uuids, because the submitting clients key on them.
type Model struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	ID        int64 `gorm:"primaryKey"`
}
