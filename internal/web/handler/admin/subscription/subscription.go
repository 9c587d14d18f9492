// Package subscription provides the subscription plan and order endpoints.
package subscription

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/NiceSpeak/nicespeak-admin/internal/auth"
	"github.com/NiceSpeak/nicespeak-admin/internal/config"
	subctrl "github.com/NiceSpeak/nicespeak-admin/internal/db/controller/subscription"
	"github.com/NiceSpeak/nicespeak-admin/internal/web/handler"
	"github.com/NiceSpeak/nicespeak-admin/internal/web/response"
)

const (
	// Path is the base path for subscriptions.
	Path = "/subscriptions"

	// PlansPath lists and edits plans.
	PlansPath = "/plans"

	// OrdersPath lists orders.
	OrdersPath = "/orders"
)

// Service manages plans and reads orders.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the exported instance.
var Handler = Service{}

type planBody struct {
	Code         string `json:"code"          validate:"required,max=50"`
	Name         string `json:"name"          validate:"required,max=100"`
	Tier         string `json:"tier"          validate:"required,max=20"`
	PriceCents   int64  `json:"price_cents"   validate:"gte=0"`
	Currency     string `json:"currency"      validate:"required,len=3,uppercase"`
	DurationDays int    `json:"duration_days" validate:"gte=1"`
	Active       *bool  `json:"active"`
}

func (b *planBody) input() subctrl.PlanInput {
	return subctrl.PlanInput{
		Code:         b.Code,
		Name:         b.Name,
		Tier:         b.Tier,
		PriceCents:   b.PriceCents,
		Currency:     b.Currency,
		DurationDays: b.DurationDays,
		Active:       b.Active,
	}
}

// Init registers routes.
func (s *Service) Init(router fiber.Router, cfg *config.Config, db *gorm.DB, authService *auth.Service) error {
	if router == nil || cfg == nil || db == nil {
		return handler.ErrNilACD
	}

	s.cfg = cfg
	s.db = db

	read := auth.RequirePermission(authService, auth.PermSubscriptionsRead)
	write := auth.RequirePermission(authService, auth.PermSubscriptionsWrite)

	router.Route(Path, func(r fiber.Router) {
		r.Get(PlansPath, read, s.ListPlans)
		r.Post(PlansPath, write, s.CreatePlan)
		r.Put(PlansPath+handler.PathID, write, s.UpdatePlan)
		r.Get(OrdersPath, read, s.ListOrders)
		r.Get(OrdersPath+handler.PathID, read, s.GetOrder)
	})

	return nil
}

// ListPlans returns every plan, or only the active ones with ?active=true.
func (s *Service) ListPlans(c *fiber.Ctx) error {
	activeOnly := response.QueryBool(c, "active")

	plans, err := subctrl.ListPlans(s.db, activeOnly != nil && *activeOnly)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"plans": plans, "total": len(plans)})
}

// CreatePlan adds a plan.
func (s *Service) CreatePlan(c *fiber.Ctx) error {
	var b planBody
	if err := response.Bind(c, &b); err != nil {
		return err
	}

	plan, err := subctrl.CreatePlan(s.db, b.input())
	if err != nil {
		return err
	}

	return response.Success(c, fiber.StatusCreated, "", fiber.Map{"plan": plan})
}

// UpdatePlan overwrites a plan.
func (s *Service) UpdatePlan(c *fiber.Ctx) error {
	var b planBody
	if err := response.Bind(c, &b); err != nil {
		return err
	}

	plan, err := subctrl.UpdatePlan(s.db, c.Params(handler.ParamID), b.input())
	if err != nil {
		return err
	}

	return response.Success(c, fiber.StatusOK, "plan updated", fiber.Map{"plan": plan})
}

// ListOrders shows orders filtered by customer, status and tier.
func (s *Service) ListOrders(c *fiber.Ctx) error {
	page, err := subctrl.ListOrders(s.db, response.PageQuery(c), subctrl.OrderFilter{
		CustomerID: c.Query("customer_id"),
		Status:     c.Query("status"),
		Tier:       c.Query("tier"),
	})
	if err != nil {
		return err
	}

	return response.Page(c, "orders", page)
}

// GetOrder returns one order.
func (s *Service) GetOrder(c *fiber.Ctx) error {
	order, err := subctrl.GetOrder(s.db, c.Params(handler.ParamID))
	if err != nil {
		return err
	}

	return c.JSON(order)
}
