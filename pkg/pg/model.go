package pg

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Model carries the uuid key and creation stamp shared by append-only tables.
type Model struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// BeforeCreate assigns the key client-side so inserts work on any dialect.
func (m *Model) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
