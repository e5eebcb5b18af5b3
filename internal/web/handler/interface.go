package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/usermgmt-go/usermgmt/internal/config"
	"github.com/usermgmt-go/usermgmt/internal/service"
)

// Services bundles the business services a handler may use.
type Services struct {
	Users  *service.UserService
	Groups *service.GroupService
}

// Service is the interface for a web handler service.
type Service interface {
	Init(app *fiber.App, cfg *config.Config, svc *Services)
}
