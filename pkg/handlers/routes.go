package handlers

import (
	"product-console/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// NewRouter builds the gin engine with middleware and all routes registered
func NewRouter(h *Handlers, log logrus.FieldLogger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), logger.RequestLogger(log))
	h.Register(r)
	return r
}

// Register maps URL paths to the login and products screens. Every
// /products route passes through the session guard; anything unknown goes to /login.
func (h *Handlers) Register(r *gin.Engine) {
	r.GET("/healthz", h.Health)

	r.GET("/login", h.LoginPage)
	r.POST("/login", h.Login)
	r.GET("/logout", h.Logout)
	r.POST("/logout", h.Logout)

	protected := r.Group("/products", h.auth.Guard())
	{
		protected.GET("", h.ListProducts)
		protected.GET("/new", h.NewProduct)
		protected.GET("/:id/edit", h.EditProduct)
		protected.POST("/dialog", h.SubmitProduct)
		protected.POST("/dialog/dismiss", h.DismissDialog)
		protected.POST("/refresh", h.RefreshProducts)
		protected.POST("/:id/delete", h.DeleteProduct)
	}

	r.NoRoute(func(c *gin.Context) {
		redirect(c, "/login")
	})
}
