// Package models contains database model definitions.
package models

// Setting represents a configuration setting stored in the database.
type Setting struct {
	ID    uint64 `gorm:"primaryKey"`
	Name  string `gorm:"size:100;uniqueIndex"`
	Value []byte
}

// All returns every model in migration order.
// Referenced tables come before the association tables pointing at them.
func All() []any {
	return []any{
		&Setting{},
		&Permission{},
		&Group{},
		&User{},
		&UserGroup{},
		&GroupPermission{},
	}
}
