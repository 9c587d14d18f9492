// Package main is the entry point of NiceSpeak Admin, the back office API of NiceSpeak.
// It serves admin accounts, roles with their permissions and menus, the menu tree, customers,
// scenarios, subscriptions, system parameters and audit logs under /api/admin, backed by gorm
// on MySQL, PostgreSQL or SQLite.
package main
