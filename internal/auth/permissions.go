package auth

// Permission codes checked by the admin routes. Codes follow the module.type format
// of the permissions table.
const (
	PermUsersRead   = "users.read"
	PermUsersWrite  = "users.write"
	PermUsersDelete = "users.delete"

	PermCustomersRead = "customers.read"

	PermScenariosRead   = "scenarios.read"
	PermScenariosWrite  = "scenarios.write"
	PermScenariosDelete = "scenarios.delete"

	PermSubscriptionsRead  = "subscriptions.read"
	PermSubscriptionsWrite = "subscriptions.write"

	PermSettingsRead  = "settings.read"
	PermSettingsWrite = "settings.write"

	PermAuditRead = "audit.read"

	PermRolesRead   = "roles.read"
	PermRolesWrite  = "roles.write"
	PermRolesDelete = "roles.delete"

	PermPermissionsRead   = "permissions.read"
	PermPermissionsWrite  = "permissions.write"
	PermPermissionsDelete = "permissions.delete"

	PermMenusRead   = "menus.read"
	PermMenusWrite  = "menus.write"
	PermMenusDelete = "menus.delete"
)
