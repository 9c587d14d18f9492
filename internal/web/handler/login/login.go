// Package login issues bearer tokens for admin accounts.
package login

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/NiceSpeak/nicespeak-admin/internal/auth"
	"github.com/NiceSpeak/nicespeak-admin/internal/config"
	"github.com/NiceSpeak/nicespeak-admin/internal/db/controller/audit"
	rolectrl "github.com/NiceSpeak/nicespeak-admin/internal/db/controller/role"
	"github.com/NiceSpeak/nicespeak-admin/internal/db/models"
	"github.com/NiceSpeak/nicespeak-admin/internal/web/handler"
	"github.com/NiceSpeak/nicespeak-admin/internal/web/response"
)

const (
	// Path is the path of the login endpoint.
	Path = "/auth/login"

	// TokenType is the scheme of the issued token.
	TokenType = "Bearer"

	maxUserAgent = 255
)

// Service is the login handler service.
type Service struct {
	cfg      *config.Config
	db       *gorm.DB
	tokens   *auth.TokenIssuer
	provider *auth.LocalProvider
}

// Handler is the login handler.
var Handler = Service{}

// Request is the login body.
type Request struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserInfo is the account summary returned with a token.
type UserInfo struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	DisplayName string     `json:"display_name"`
	RoleID      string     `json:"role_id"`
	RoleCode    string     `json:"role_code"`
	RoleName    string     `json:"role_name"`
	LastLoginAt *time.Time `json:"last_login_at"`
	Permissions []string   `json:"permissions"`
}

// Response is the login result.
type Response struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        UserInfo  `json:"user"`
}

// Init registers the login route on a router without authentication.
func (s *Service) Init(router fiber.Router, cfg *config.Config, db *gorm.DB, tokens *auth.TokenIssuer) error {
	if router == nil || cfg == nil || db == nil || tokens == nil {
		return handler.ErrNilACD
	}

	s.cfg = cfg
	s.db = db
	s.tokens = tokens
	s.provider = auth.NewLocalProvider(db)

	router.Post(Path, s.Post)

	return nil
}

// Post verifies the credentials and issues a token. Every attempt lands in the login log.
func (s *Service) Post(c *fiber.Ctx) error {
	var req Request
	if err := response.Bind(c, &req); err != nil {
		return err
	}

	entry := &models.LoginLog{
		Email:     req.Email,
		IP:        c.IP(),
		UserAgent: truncate(c.Get(fiber.HeaderUserAgent), maxUserAgent),
	}

	user, err := s.provider.Authenticate(req.Email, req.Password)
	if err != nil {
		reason, clientErr := classify(err)
		entry.Reason = reason
		s.record(entry)

		log.Info().Str("email", req.Email).Str("reason", reason).Msg("login rejected")

		return clientErr
	}

	entry.UserID = user.ID

	permissions, err := rolectrl.PermissionCodes(s.db, user.RoleID)
	if err != nil {
		return err
	}

	token, claims, err := s.tokens.Issue(user.ID, user.Role.Code)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("failed to issue token")
		return err
	}

	entry.Success = true
	s.record(entry)

	log.Info().Str("user_id", user.ID).Str("role", user.Role.Code).Msg("login succeeded")

	return c.JSON(Response{
		AccessToken: token,
		TokenType:   TokenType,
		ExpiresAt:   claims.ExpiresAt.Time,
		User: UserInfo{
			ID:          user.ID,
			Username:    user.Username,
			Email:       user.Email,
			DisplayName: user.DisplayName,
			RoleID:      user.RoleID,
			RoleCode:    user.Role.Code,
			RoleName:    user.Role.Name,
			LastLoginAt: user.LastLoginAt,
			Permissions: permissions,
		},
	})
}

// record stores a login log entry. A failing log write does not change the login outcome.
func (s *Service) record(entry *models.LoginLog) {
	if err := audit.RecordLogin(s.db, entry); err != nil {
		log.Warn().Err(err).Str("email", entry.Email).Msg("failed to record login attempt")
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}

	return s[:n]
}
