package db

import (
	"gorm.io/gorm"
)

// Paginate is a GORM scope applying 1-based page/pageSize limits. A non-positive
// pageSize leaves the query unbounded.
func Paginate(page, pageSize int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if pageSize <= 0 {
			return db
		}
		if page < 1 {
			page = 1
		}
		return db.Offset((page - 1) * pageSize).Limit(pageSize)
	}
}

// Between is a GORM scope for an inclusive range on a unix-millis column. Zero
// bounds are ignored.
func Between(column string, fromMillis, toMillis int64) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if fromMillis > 0 {
			db = db.Where(column+" >= ?", fromMillis)
		}
		if toMillis > 0 {
			db = db.Where(column+" <= ?", toMillis)
		}
		return db
	}
}
