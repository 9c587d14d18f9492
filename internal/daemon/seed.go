package daemon

import (
	"errors"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/NiceSpeak/nicespeak-admin/internal/apperr"
	"github.com/NiceSpeak/nicespeak-admin/internal/auth"
	"github.com/NiceSpeak/nicespeak-admin/internal/config"
	permctrl "github.com/NiceSpeak/nicespeak-admin/internal/db/controller/permission"
	rolectrl "github.com/NiceSpeak/nicespeak-admin/internal/db/controller/role"
	"github.com/NiceSpeak/nicespeak-admin/internal/db/models"
)

const (
	// RoleSuperAdmin holds every permission and menu. It is refreshed on every start.
	RoleSuperAdmin = "super_admin"
	// RoleAdmin may read and write everything but delete nothing.
	RoleAdmin = "admin"

	bootstrapUsername = "admin"
	superAdminLevel   = 100
	adminLevel        = 50
)

// modules are the permission modules in display order.
var modules = []string{ //nolint:gochecknoglobals
	"users", "customers", "scenarios", "subscriptions", "settings", "audit", "roles", "permissions", "menus",
}

var permissionTypes = []models.PermissionType{ //nolint:gochecknoglobals
	models.PermissionTypeRead, models.PermissionTypeWrite, models.PermissionTypeDelete,
}

type menuSeed struct {
	name     string
	icon     string
	path     string
	children []menuSeed
}

var defaultMenus = []menuSeed{ //nolint:gochecknoglobals
	{name: "Dashboard", icon: "DashboardOutlined", path: "/dashboard"},
	{name: "Customers", icon: "UserOutlined", path: "/customers", children: []menuSeed{
		{name: "Customer List", icon: "TeamOutlined", path: "/customers"},
	}},
	{name: "Scenarios", icon: "FileTextOutlined", path: "/scenarios", children: []menuSeed{
		{name: "Scenario List", icon: "UnorderedListOutlined", path: "/scenarios"},
		{name: "New Scenario", icon: "PlusOutlined", path: "/scenarios/create"},
	}},
	{name: "Billing", icon: "DollarOutlined", path: "/subscriptions", children: []menuSeed{
		{name: "Plans", icon: "TagsOutlined", path: "/subscriptions/plans"},
		{name: "Subscriptions", icon: "OrderedListOutlined", path: "/subscriptions/orders"},
	}},
	{name: "Analytics", icon: "BarChartOutlined", path: "/analytics", children: []menuSeed{
		{name: "Overview", icon: "PieChartOutlined", path: "/analytics/overview"},
		{name: "Revenue", icon: "RiseOutlined", path: "/analytics/revenue"},
	}},
	{name: "System Settings", icon: "SettingOutlined", path: "/settings", children: []menuSeed{
		{name: "Roles", icon: "TeamOutlined", path: "/settings/roles"},
		{name: "Menus", icon: "MenuOutlined", path: "/settings/menus"},
		{name: "Parameters", icon: "SlidersOutlined", path: "/settings/parameters"},
	}},
	{name: "Audit Logs", icon: "AuditOutlined", path: "/audit", children: []menuSeed{
		{name: "Operation Log", icon: "FileSearchOutlined", path: "/audit/logs"},
		{name: "Login Log", icon: "LoginOutlined", path: "/audit/logins"},
	}},
}

// Seed creates the default menus, permissions, system roles and the bootstrap account.
// Running it again only fills in what is missing.
func Seed(cfg *config.Config, db *gorm.DB) error {
	if err := seedMenus(db); err != nil {
		return pkgerrors.Wrap(err, "seed menus")
	}

	if err := seedPermissions(db); err != nil {
		return pkgerrors.Wrap(err, "seed permissions")
	}

	superAdmin, err := seedRoles(db)
	if err != nil {
		return pkgerrors.Wrap(err, "seed roles")
	}

	if err = seedBootstrapUser(cfg, db, superAdmin); err != nil {
		return pkgerrors.Wrap(err, "seed bootstrap user")
	}

	return nil
}

// seedMenus creates the default tree into an empty menus table.
func seedMenus(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Menu{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		return createMenus(tx, nil, defaultMenus)
	})
}

func createMenus(tx *gorm.DB, parentID *string, seeds []menuSeed) error {
	for i, s := range seeds {
		menu := models.Menu{
			Name:     s.name,
			Icon:     &seeds[i].icon,
			Path:     &seeds[i].path,
			ParentID: parentID,
			Order:    i + 1,
			Status:   true,
		}

		if err := tx.Create(&menu).Error; err != nil {
			return err
		}

		if err := createMenus(tx, &menu.ID, s.children); err != nil {
			return err
		}
	}

	return nil
}

// seedPermissions creates every module and type combination that does not exist yet.
func seedPermissions(db *gorm.DB) error {
	for _, module := range modules {
		for _, typ := range permissionTypes {
			code := module + "." + string(typ)

			perm := models.Permission{
				Code:   code,
				Name:   permctrl.ModuleName(module) + " " + permctrl.TypeName(typ),
				Module: module,
				Type:   typ,
				Status: true,
			}

			if err := db.Where("code = ?", code).FirstOrCreate(&perm).Error; err != nil {
				return err
			}
		}
	}

	return nil
}

// seedRoles creates the system roles. super_admin is granted every permission and menu each time.
func seedRoles(db *gorm.DB) (*models.Role, error) {
	var permissions []models.Permission
	if err := db.Find(&permissions).Error; err != nil {
		return nil, err
	}

	var menuIDs []string
	if err := db.Model(&models.Menu{}).Pluck("id", &menuIDs).Error; err != nil {
		return nil, err
	}

	allIDs := make([]string, 0, len(permissions))
	adminIDs := make([]string, 0, len(permissions))

	for _, p := range permissions {
		allIDs = append(allIDs, p.ID)

		if p.Type != models.PermissionTypeDelete {
			adminIDs = append(adminIDs, p.ID)
		}
	}

	superAdmin, err := ensureRole(db, rolectrl.Input{
		Code:        RoleSuperAdmin,
		Name:        "Super Administrator",
		Description: "Full access to every module",
		Level:       superAdminLevel,
	}, allIDs, menuIDs)
	if err != nil {
		return nil, err
	}

	if _, err = rolectrl.ReplacePermissions(db, superAdmin.ID, allIDs); err != nil {
		return nil, err
	}

	if _, err = rolectrl.ReplaceMenus(db, superAdmin.ID, menuIDs); err != nil {
		return nil, err
	}

	if _, err = ensureRole(db, rolectrl.Input{
		Code:        RoleAdmin,
		Name:        "Administrator",
		Description: "Reads and edits every module without deleting",
		Level:       adminLevel,
	}, adminIDs, menuIDs); err != nil {
		return nil, err
	}

	return superAdmin, nil
}

// ensureRole returns the role with the input code, creating it as a system role with the grants when missing.
func ensureRole(db *gorm.DB, in rolectrl.Input, permissionIDs, menuIDs []string) (*models.Role, error) {
	existing, err := rolectrl.GetByCode(db, in.Code)
	if err == nil {
		return existing, nil
	}

	if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	created, err := rolectrl.Create(db, in, permissionIDs)
	if err != nil {
		return nil, err
	}

	if err = db.Model(&models.Role{}).Where("id = ?", created.ID).Update("is_system", true).Error; err != nil {
		return nil, err
	}

	if _, err = rolectrl.ReplaceMenus(db, created.ID, menuIDs); err != nil {
		return nil, err
	}

	log.Info().Str("role", in.Code).Msg("seeded system role")

	created.IsSystem = true

	return &created.Role, nil
}

// seedBootstrapUser creates the configured super admin account into an empty users table.
func seedBootstrapUser(cfg *config.Config, db *gorm.DB, superAdmin *models.Role) error {
	if cfg.Auth.BootstrapEmail == "" || cfg.Auth.BootstrapPassword == "" {
		return nil
	}

	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		return nil
	}

	user, err := auth.NewLocalProvider(db).CreateUser(auth.UserInput{
		Username:    bootstrapUsername,
		Email:       cfg.Auth.BootstrapEmail,
		DisplayName: "Administrator",
		RoleID:      superAdmin.ID,
		Password:    cfg.Auth.BootstrapPassword,
	})
	if err != nil {
		return err
	}

	log.Warn().Str("email", user.Email).Msg("created bootstrap admin account, change its password")

	return nil
}
