package models

import (
	"time"

	"github.com/PLAYZONE-UA/zlota-raczka/internal/domain/shared"
	"github.com/google/uuid"
)

// Record holds the columns every table shares
type Record struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func recordOf(e shared.BaseEntity) Record {
	return Record{ID: e.ID, CreatedAt: e.CreatedAt, UpdatedAt: e.UpdatedAt}
}

func (r Record) entity() shared.BaseEntity {
	return shared.BaseEntity{ID: r.ID, CreatedAt: r.CreatedAt.UTC(), UpdatedAt: r.UpdatedAt.UTC()}
}

// VersionedRecord adds the optimistic lock column of aggregate tables
type VersionedRecord struct {
	Record
	Version int `gorm:"not null;default:1"`
}

func versionedRecordOf(a shared.BaseAggregateRoot) VersionedRecord {
	return VersionedRecord{Record: recordOf(a.BaseEntity), Version: a.Version}
}

// aggregate rebuilds the root without pending events
func (r VersionedRecord) aggregate() shared.BaseAggregateRoot {
	return shared.BaseAggregateRoot{BaseEntity: r.entity(), Version: r.Version}
}
