// Package models contains database model definitions.
package models

import "github.com/google/uuid"

// ensureID assigns a fresh UUID when id is still empty.
func ensureID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

// All lists every model for auto migration, in dependency order.
func All() []any {
	return []any{
		&Setting{},
		&Role{},
		&Permission{},
		&Menu{},
		&User{},
		&RolePermission{},
		&RoleMenu{},
		&Customer{},
		&SubscriptionPlan{},
		&SubscriptionOrder{},
		&ScenarioCategory{},
		&Scenario{},
		&CustomerDevice{},
		&Practice{},
		&AuditLog{},
		&LoginLog{},
	}
}
