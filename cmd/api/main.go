package main

import (
	"os"
	"os/signal"
	"syscall"

	"go-retail-pos/internal/handler"
	"go-retail-pos/internal/middleware"
	"go-retail-pos/internal/model"
	"go-retail-pos/internal/repository"
	"go-retail-pos/internal/service"
	"go-retail-pos/internal/ws"
	"go-retail-pos/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Warn(".env file not found")
	}

	db := database.ConnectDB()
	if err := db.AutoMigrate(
		&model.Product{},
		&model.StockMovement{},
		&model.Invoice{},
		&model.InvoiceItem{},
		&model.RegisterSession{},
		&model.User{},
		&model.Privilege{},
		&model.Role{},
	); err != nil {
		logrus.WithError(err).Fatal("auto-migration failed")
	}

	seedDefaults(db)

	wsHub := ws.NewHub()
	go wsHub.Run()

	store := repository.NewStore(db)
	userRepo := repository.NewUserRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	ledgerService := service.NewLedgerService(store, wsHub)
	catalogService := service.NewCatalogService(store)
	checkoutService := service.NewCheckoutService(store, wsHub)
	registerService := service.NewRegisterService(store)
	dashboardService := service.NewDashboardService(store)
	authService := service.NewAuthService(userRepo)
	userService := service.NewUserService(userRepo, privilegeRepo)

	catalogHandler := handler.NewCatalogHandler(catalogService)
	ledgerHandler := handler.NewLedgerHandler(ledgerService)
	checkoutHandler := handler.NewCheckoutHandler(checkoutService)
	registerHandler := handler.NewRegisterHandler(registerService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(roleRepo, privilegeRepo)

	app := fiber.New(fiber.Config{
		AppName: "Retail POS v1.0",
	})

	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	api := app.Group("/api/v1")

	// Public routes
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/validate-token", authHandler.ValidateToken)

	// Everything below requires a valid session
	protected := api.Group("", middleware.RequireAuth(userRepo))

	// Catalog
	protected.Get("/products", catalogHandler.ListProducts)
	protected.Get("/products/:id", catalogHandler.GetProduct)
	protected.Post("/products", middleware.RequirePrivilege("product:create"), catalogHandler.CreateProduct)
	protected.Put("/products/:id", middleware.RequirePrivilege("product:update"), catalogHandler.UpdateProduct)
	protected.Delete("/products/:id", middleware.RequirePrivilege("product:delete"), catalogHandler.DeleteProduct)

	// Stock ledger
	protected.Get("/products/:id/balance", ledgerHandler.GetBalance)
	protected.Get("/products/:id/reconcile", middleware.RequirePrivilege("movement:view"), ledgerHandler.Reconcile)
	protected.Get("/movements", middleware.RequirePrivilege("movement:view"), ledgerHandler.ListMovements)
	protected.Get("/movements/:id", middleware.RequirePrivilege("movement:view"), ledgerHandler.GetMovement)
	protected.Post("/movements", middleware.RequirePrivilege("movement:create"), ledgerHandler.RecordMovement)
	protected.Post("/movements/:id/reverse", middleware.RequirePrivilege("movement:create"), ledgerHandler.ReverseMovement)
	protected.Delete("/movements/:id", middleware.RequirePrivilege("movement:delete"), ledgerHandler.DeleteMovement)

	// Point of sale
	protected.Post("/checkout/quote", middleware.RequirePrivilege("checkout:create"), checkoutHandler.Quote)
	protected.Post("/checkout", middleware.RequirePrivilege("checkout:create"), checkoutHandler.Checkout)
	protected.Get("/invoices", middleware.RequirePrivilege("invoice:view"), checkoutHandler.ListInvoices)
	protected.Get("/invoices/:id", middleware.RequirePrivilege("invoice:view"), checkoutHandler.GetInvoice)
	protected.Post("/invoices/:id/void", middleware.RequirePrivilege("invoice:void"), checkoutHandler.VoidInvoice)

	// Register sessions
	protected.Post("/register/open", middleware.RequirePrivilege("register:open"), registerHandler.OpenSession)
	protected.Post("/register/close", middleware.RequirePrivilege("register:close"), registerHandler.CloseSession)
	protected.Get("/register/current", registerHandler.CurrentSession)
	protected.Get("/register/sessions", middleware.RequireAnyPrivilege("register:open", "dashboard:view"), registerHandler.ListSessions)

	// Dashboard
	protected.Get("/dashboard/stats", middleware.RequirePrivilege("dashboard:view"), dashboardHandler.GetStats)
	protected.Get("/dashboard/stock-flow", middleware.RequirePrivilege("dashboard:view"), dashboardHandler.GetStockFlow)
	protected.Get("/dashboard/sales", middleware.RequirePrivilege("dashboard:view"), dashboardHandler.GetSalesSummary)

	// User management
	protected.Get("/users", userHandler.ListUsers)
	protected.Get("/users/:id", userHandler.GetUser)
	protected.Post("/users", middleware.RequirePrivilege("user:create"), userHandler.CreateUser)
	protected.Put("/users/:id", middleware.RequirePrivilege("user:update"), userHandler.UpdateUser)
	protected.Delete("/users/:id", middleware.RequirePrivilege("user:delete"), userHandler.DeleteUser)
	protected.Put("/users/:id/privileges", middleware.RequirePrivilege("user:update_privilege"), userHandler.UpdateUserPrivileges)

	// Roles and privileges
	protected.Get("/roles", roleHandler.GetRoles)
	protected.Get("/privileges", roleHandler.GetPrivileges)

	// WebSocket: live stock and sale events
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			logrus.WithError(err).Panic("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		logrus.WithError(err).Fatal("server forced to shutdown")
	}
	logrus.Info("server exited")
}

// seedDefaults creates default privileges, roles, and the admin user if they
// don't exist yet.
func seedDefaults(db *gorm.DB) {
	privilegeRepo := repository.NewPrivilegeRepo(db)
	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	if err := privilegeRepo.SeedDefaults(); err != nil {
		logrus.WithError(err).Warn("failed to seed privileges")
	}
	if err := roleRepo.SeedDefaults(); err != nil {
		logrus.WithError(err).Warn("failed to seed roles")
	}

	allPrivileges, _ := privilegeRepo.FindAll()

	// MASTER_ADMIN gets everything.
	masterRole, err := roleRepo.FindByCode(model.RoleMasterAdmin)
	if err == nil && len(masterRole.Privileges) == 0 {
		db.Model(&masterRole).Association("Privileges").Replace(allPrivileges)
		logrus.Info("MASTER_ADMIN role assigned all privileges")
	}

	// ADMIN gets everything except user management.
	adminRole, err := roleRepo.FindByCode(model.RoleAdmin)
	if err == nil && len(adminRole.Privileges) == 0 {
		adminPrivileges := []model.Privilege{}
		for _, p := range allPrivileges {
			switch p.Code {
			case "user:create", "user:update", "user:delete", "user:update_privilege":
			default:
				adminPrivileges = append(adminPrivileges, p)
			}
		}
		db.Model(&adminRole).Association("Privileges").Replace(adminPrivileges)
		logrus.Info("ADMIN role assigned limited privileges")
	}

	// CASHIER gets the point-of-sale subset.
	cashierRole, err := roleRepo.FindByCode(model.RoleCashier)
	if err == nil && len(cashierRole.Privileges) == 0 {
		cashierPrivileges, err := privilegeRepo.FindByCodes(model.CashierPrivilegeCodes)
		if err == nil {
			db.Model(&cashierRole).Association("Privileges").Replace(cashierPrivileges)
			logrus.Info("CASHIER role assigned point-of-sale privileges")
		}
	}

	if _, err := userRepo.FindByEmail("admin@example.com"); err != nil {
		masterRole, _ := roleRepo.FindByCode(model.RoleMasterAdmin)

		admin := &model.User{
			Email:      "admin@example.com",
			FullName:   "Master Administrator",
			RoleID:     &masterRole.ID,
			IsActive:   true,
			Privileges: masterRole.Privileges,
		}
		admin.CreatedBy = "system"
		admin.UpdatedBy = "system"

		if err := admin.SetPassword("admin123"); err != nil {
			logrus.WithError(err).Warn("failed to hash admin password")
			return
		}
		if err := userRepo.Create(admin); err != nil {
			logrus.WithError(err).Warn("failed to create admin user")
		} else {
			logrus.Info("admin user created: admin@example.com (MASTER_ADMIN)")
		}
	}
}
