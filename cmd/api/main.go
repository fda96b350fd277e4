package main

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	httpadp "biblioteca-backend/internal/adapter/http"
	mw "biblioteca-backend/internal/adapter/middleware"
	"biblioteca-backend/internal/adapter/repository/mysql"
	"biblioteca-backend/internal/config"
	"biblioteca-backend/internal/domain/access"
	infraauth "biblioteca-backend/internal/infrastructure/auth"
	"biblioteca-backend/internal/infrastructure/cache"
	"biblioteca-backend/internal/infrastructure/db"
	"biblioteca-backend/internal/infrastructure/google"
	"biblioteca-backend/internal/notify"
	usecaseAuth "biblioteca-backend/internal/usecase/auth"
	usecaseCatalog "biblioteca-backend/internal/usecase/catalog"
	usecaseClient "biblioteca-backend/internal/usecase/client"
	usecaseDashboard "biblioteca-backend/internal/usecase/dashboard"
	usecaseEmail "biblioteca-backend/internal/usecase/emailaccount"
	usecaseLoan "biblioteca-backend/internal/usecase/loan"
	usecasePolicy "biblioteca-backend/internal/usecase/policy"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	gormDB, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Fatal(err)
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatal(err)
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatal(err)
	}

	tokens, err := infraauth.NewTokenService(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		log.Fatal(err)
	}

	// repositories
	users := mysql.NewUserRepository(gormDB)
	clients := mysql.NewClientRepository(gormDB)
	books := mysql.NewBookRepository(gormDB)
	categories := mysql.NewCategoryRepository(gormDB)
	copies := mysql.NewCopyRepository(gormDB)
	loans := mysql.NewLoanRepository(gormDB)
	libraries := mysql.NewLibraryRepository(gormDB)
	dashboards := mysql.NewDashboardRepository(gormDB)
	unit := mysql.NewGormUoW(gormDB)

	// gmail integration + notifier
	gmail := google.NewClient(google.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURI:  cfg.GoogleRedirectURI,
	})
	emailUC := usecaseEmail.NewUsecase(libraries, gmail, usecaseEmail.NewRedisStateStore(rdb), nil)
	notifier := notify.NewEmailNotifier(emailUC, libraries, nil)

	// usecases
	authUC := usecaseAuth.NewUsecase(users, clients, tokens, rdb, notifier)
	catalogUC := usecaseCatalog.NewUsecase(books, categories, copies, loans)
	clientUC := usecaseClient.NewUsecase(clients, notifier)
	loanUC := usecaseLoan.NewUsecase(loans, clients, libraries, unit, notifier)
	policyUC := usecasePolicy.NewUsecase(libraries)
	dashboardUC := usecaseDashboard.NewUsecase(dashboards, libraries)

	// handlers
	h := httpadp.NewHandler()
	authH := httpadp.NewAuthHandler(authUC)
	catalogH := httpadp.NewCatalogHandler(catalogUC)
	clientH := httpadp.NewClientHandler(clientUC, loanUC)
	loanH := httpadp.NewLoanHandler(loanUC, users)
	libraryH := httpadp.NewLibraryHandler(policyUC, emailUC)
	dashboardH := httpadp.NewDashboardHandler(dashboardUC)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())

	authn := mw.Authenticate(tokens)
	idemp := mw.Idempotency(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second)

	// public
	e.GET("/health", h.Health)
	e.POST("/auth/login", authH.LoginUser)
	e.POST("/clients/login", authH.LoginClient)
	e.POST("/password/forgot", authH.ForgotPassword)
	e.POST("/password/reset", authH.ResetPassword)
	e.GET("/books", catalogH.ListBooks)
	e.GET("/books/:book_id", catalogH.GetBook)

	// catalog (staff)
	e.POST("/books", catalogH.CreateBook, authn, mw.Require(access.ActionCatalogWrite))
	e.PUT("/books/:book_id", catalogH.UpdateBook, authn, mw.Require(access.ActionCatalogWrite))
	e.DELETE("/books/:book_id", catalogH.DeleteBook, authn, mw.Require(access.ActionCatalogWrite))
	e.GET("/categories", catalogH.ListCategories, authn, mw.Require(access.ActionCatalogRead))
	e.POST("/categories", catalogH.CreateCategory, authn, mw.Require(access.ActionCatalogWrite))
	e.PUT("/categories/:id", catalogH.UpdateCategory, authn, mw.Require(access.ActionCatalogWrite))
	e.DELETE("/categories/:id", catalogH.DeleteCategory, authn, mw.Require(access.ActionCatalogWrite))
	e.GET("/copies", catalogH.ListCopies, authn, mw.Require(access.ActionCatalogRead))
	e.POST("/copies", catalogH.CreateCopy, authn, mw.Require(access.ActionCatalogWrite))
	e.GET("/copies/:copy_id", catalogH.GetCopy, authn, mw.Require(access.ActionCatalogRead))
	e.PUT("/copies/:copy_id", catalogH.UpdateCopy, authn, mw.Require(access.ActionCatalogWrite))
	e.DELETE("/copies/:copy_id", catalogH.DeleteCopy, authn, mw.Require(access.ActionCatalogWrite))

	// membership (staff)
	e.GET("/clients", clientH.List, authn, mw.Require(access.ActionClientRead))
	e.POST("/clients", clientH.Create, authn, mw.Require(access.ActionClientWrite))
	e.GET("/clients/:client_id", clientH.Get, authn, mw.Require(access.ActionClientRead))
	e.PUT("/clients/:client_id", clientH.Update, authn, mw.Require(access.ActionClientWrite))
	e.DELETE("/clients/:client_id", clientH.Delete, authn, mw.Require(access.ActionClientWrite))
	e.GET("/clients/:client_id/loans", clientH.LoanHistory, authn, mw.Require(access.ActionLoanRead))

	// loan lifecycle (staff; delete admin-only; mutations idempotency-guarded)
	e.GET("/loans", loanH.List, authn, mw.Require(access.ActionLoanRead))
	e.POST("/loans", loanH.Create, authn, mw.Require(access.ActionLoanWrite), idemp)
	e.GET("/loans/:loan_id", loanH.Get, authn, mw.Require(access.ActionLoanRead))
	e.POST("/loans/:loan_id/return", loanH.Return, authn, mw.Require(access.ActionLoanWrite), idemp)
	e.POST("/loans/:loan_id/renew", loanH.Renew, authn, mw.Require(access.ActionLoanWrite), idemp)
	e.DELETE("/loans/:loan_id", loanH.Delete, authn, mw.Require(access.ActionLoanDelete))

	// per-library configuration
	e.GET("/libraries/:id/loan_policy", libraryH.GetLoanPolicy, authn, mw.Require(access.ActionPolicyRead))
	e.PUT("/libraries/:id/loan_policy", libraryH.PutLoanPolicy, authn, mw.Require(access.ActionPolicyWrite))
	e.GET("/libraries/:id/fine_policy", libraryH.GetFinePolicy, authn, mw.Require(access.ActionPolicyRead))
	e.PUT("/libraries/:id/fine_policy", libraryH.PutFinePolicy, authn, mw.Require(access.ActionPolicyWrite))
	e.GET("/libraries/:id/notification_setting", libraryH.GetNotificationSetting, authn, mw.Require(access.ActionPolicyRead))
	e.PUT("/libraries/:id/notification_setting", libraryH.PutNotificationSetting, authn, mw.Require(access.ActionPolicyWrite))
	e.GET("/libraries/:id/email_account", libraryH.GetEmailAccount, authn, mw.Require(access.ActionPolicyRead))
	e.PUT("/libraries/:id/email_account", libraryH.PutEmailAccount, authn, mw.Require(access.ActionPolicyWrite))
	e.GET("/libraries/:id/email_account/authorize_google", libraryH.AuthorizeGoogle, authn, mw.Require(access.ActionEmailAuthorize))
	e.POST("/libraries/:id/email_account/callback", libraryH.OAuthCallback, authn, mw.Require(access.ActionEmailAuthorize))
	e.POST("/libraries/:id/email_account/refresh", libraryH.RefreshEmailToken, authn, mw.Require(access.ActionEmailAuthorize))
	e.POST("/libraries/:id/email_account/revoke", libraryH.RevokeEmailAuthorization, authn, mw.Require(access.ActionEmailAuthorize))

	// dashboard (staff)
	e.GET("/dashboard", dashboardH.Stats, authn, mw.Require(access.ActionDashboardRead))
	e.GET("/dashboard/overdue", dashboardH.Overdue, authn, mw.Require(access.ActionDashboardRead))
	e.GET("/dashboard/loans_per_month", dashboardH.LoansPerMonth, authn, mw.Require(access.ActionDashboardRead))

	addr := ":" + cfg.AppPort
	log.Printf("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
