package database

import (
	"gorm.io/gorm"
)

// OwnedBy restricts a query to rows owned by ownerID.
// An empty ownerID matches nothing rather than everything.
func OwnedBy(ownerID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if ownerID == "" {
			return db.Where("1 = 0")
		}
		return db.Where("user_id = ?", ownerID)
	}
}

// ByID restricts a query to a single primary key.
func ByID(id string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("id = ?", id)
	}
}
