package models

// Setting is a named blob, used for the runtime tunable system parameters.
// Value maps onto longblob, bytea or blob depending on the engine.
type Setting struct {
	ID    uint64 `gorm:"primaryKey"`
	Name  string `gorm:"unique;size:100;not null"`
	Value []byte
}

// TableName specifies the database table name for the Setting model.
func (Setting) TableName() string {
	return "settings"
}
