package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"payportal.backend/internal/config"
	"payportal.backend/internal/interfaces/http/handlers"
	"payportal.backend/internal/interfaces/http/middleware"
)

type routeDeps struct {
	authHandler    *handlers.AuthHandler
	paymentHandler *handlers.PaymentHandler
	adminHandler   *handlers.AdminHandler
	authMiddleware gin.HandlerFunc
	rateLimiter    *middleware.RateLimiter
	rateLimits     config.RateLimitConfig
}

func registerAPIRoutes(r *gin.Engine, d routeDeps) {
	api := r.Group("/api")
	{
		// Auth routes (public, rate-limited)
		auth := api.Group("/auth")
		{
			auth.POST("/register",
				middleware.RateLimit(d.rateLimiter, "register", d.rateLimits.RegisterMax, d.rateLimits.RegisterWindow),
				d.authHandler.Register)
			auth.POST("/login",
				middleware.RateLimit(d.rateLimiter, "login", d.rateLimits.LoginMax, d.rateLimits.LoginWindow),
				d.authHandler.Login)
			auth.POST("/logout", d.authMiddleware, d.authHandler.Logout)
		}

		// Profile (protected)
		user := api.Group("/user")
		user.Use(d.authMiddleware)
		{
			user.GET("/profile", d.authHandler.Profile)
		}

		// Payment routes (protected)
		payments := api.Group("/payments")
		payments.Use(d.authMiddleware)
		{
			payments.POST("/create",
				middleware.RateLimit(d.rateLimiter, "payment", d.rateLimits.PaymentMax, d.rateLimits.PaymentWindow),
				middleware.Idempotency(),
				d.paymentHandler.Create)
			payments.GET("/history", d.paymentHandler.History)
			payments.GET("/:id", d.paymentHandler.Get)
		}

		// Staff review routes (protected, staff only)
		admin := api.Group("/admin")
		admin.Use(d.authMiddleware, middleware.RequireStaff())
		{
			admin.GET("/transactions", d.adminHandler.ListTransactions)
			admin.POST("/transactions/:id/verify", d.adminHandler.VerifyTransaction)
			admin.POST("/transactions/:id/reject", d.adminHandler.RejectTransaction)
		}
	}
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"status": "ok"}})
	})
}

func registerMetricsRoute(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
