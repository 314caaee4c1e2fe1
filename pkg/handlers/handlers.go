package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"product-console/pkg/api"
	"product-console/pkg/auth"
	"product-console/pkg/models"
	"product-console/pkg/products"
	"product-console/pkg/store"
	"product-console/pkg/validation"
	"product-console/templates"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	auth     *auth.Auth
	client   *api.Client
	registry *products.Registry
	log      logrus.FieldLogger
}

// New creates a new Handlers instance. Logging out resets the session's product workspace.
func New(authService *auth.Auth, client *api.Client, registry *products.Registry, log logrus.FieldLogger) *Handlers {
	authService.OnLogout(registry.Reset)
	return &Handlers{
		auth:     authService,
		client:   client,
		registry: registry,
		log:      log,
	}
}

// render renders a templ component
func render(c *gin.Context, status int, component templ.Component) {
	c.Status(status)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := component.Render(c.Request.Context(), c.Writer); err != nil {
		_ = c.Error(err)
	}
}

// remote is the context for calls to the product API. A browser that navigates
// away does not abort them; the client timeout still applies.
func remote(c *gin.Context) context.Context {
	return context.WithoutCancel(c.Request.Context())
}

func redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusSeeOther, location)
}

// Health reports liveness
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ============== Login Screen ==============

const (
	loginFailedSummary = "Login Failed"
	loginFailedDetail  = "Invalid username or password"
)

// LoginPage renders the login form, or sends an authenticated browser to /products
func (h *Handlers) LoginPage(c *gin.Context) {
	if h.auth.IsAuthenticated(c) {
		redirect(c, "/products")
		return
	}
	render(c, http.StatusOK, templates.LoginPage(templates.LoginData{}))
}

// Login handles the login form submission. A browser that already holds a
// live session keeps it and goes to /products.
func (h *Handlers) Login(c *gin.Context) {
	if h.auth.IsAuthenticated(c) {
		redirect(c, "/products")
		return
	}

	var form validation.LoginForm
	if err := c.ShouldBind(&form); err != nil {
		c.String(http.StatusBadRequest, "invalid request")
		return
	}

	creds, fieldErrs := validation.ValidateLogin(form)
	if fieldErrs != nil {
		render(c, http.StatusUnprocessableEntity, templates.LoginPage(templates.LoginData{
			Username: form.Username,
			Errors:   fieldErrs,
		}))
		return
	}

	sess, err := h.auth.Login(remote(c), creds.Username, creds.Password)
	if err == nil && !h.auth.HasSession(sess.ID) {
		err = errors.New("session not persisted after login")
	}
	if err == nil {
		err = h.auth.SetCookie(c, sess)
	}
	if err != nil {
		h.log.WithError(err).Debug("login failed")
		render(c, http.StatusUnauthorized, templates.LoginPage(templates.LoginData{
			Username: form.Username,
			Notices: []models.Notice{{
				Severity: models.SeverityError,
				Summary:  loginFailedSummary,
				Detail:   loginFailedDetail,
			}},
		}))
		return
	}

	h.workspace(sess).Notify(models.SeveritySuccess, "Success", "Login successful")
	redirect(c, "/products")
}

// Logout ends the session and returns to the login screen
func (h *Handlers) Logout(c *gin.Context) {
	h.auth.Logout(c)
	redirect(c, "/login")
}

// ============== Products Screen ==============

func (h *Handlers) workspace(sess *store.Session) *products.Workspace {
	token := sess.Token
	return h.registry.Workspace(sess.ID, func() products.Service {
		return h.client.WithToken(token)
	})
}

// mounted returns the guarded session's workspace, fetching the list on first use
func (h *Handlers) mounted(c *gin.Context) (*products.Workspace, string) {
	sess, _ := auth.SessionFrom(c)
	ws := h.workspace(&sess)
	if !ws.Mounted() {
		// The error state is rendered from the workspace.
		_ = ws.Mount(remote(c))
	}
	return ws, sess.Username
}

func (h *Handlers) renderProducts(c *gin.Context, status int, ws *products.Workspace, username string) {
	view := ws.View()
	if view.State == products.StateError && status == http.StatusOK {
		status = http.StatusBadGateway
	}
	render(c, status, templates.ProductsPage(templates.ProductsData{
		Username: username,
		View:     view,
		Notices:  ws.TakeNotices(),
	}))
}

func productID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	return id, err == nil
}

// ListProducts renders the products screen
func (h *Handlers) ListProducts(c *gin.Context) {
	ws, username := h.mounted(c)
	h.renderProducts(c, http.StatusOK, ws, username)
}

// RefreshProducts refetches the list, leaving the error state if it succeeds
func (h *Handlers) RefreshProducts(c *gin.Context) {
	sess, _ := auth.SessionFrom(c)
	_ = h.workspace(&sess).Mount(remote(c))
	redirect(c, "/products")
}

// NewProduct opens the add dialog with a blank draft
func (h *Handlers) NewProduct(c *gin.Context) {
	ws, username := h.mounted(c)
	ws.OpenAdd()
	h.renderProducts(c, http.StatusOK, ws, username)
}

// EditProduct opens the edit dialog pre-populated from the local copy
func (h *Handlers) EditProduct(c *gin.Context) {
	ws, username := h.mounted(c)

	id, ok := productID(c)
	if !ok || ws.OpenEdit(id) != nil {
		ws.Notify(models.SeverityError, "Error", "Product not found")
		h.renderProducts(c, http.StatusNotFound, ws, username)
		return
	}
	h.renderProducts(c, http.StatusOK, ws, username)
}

// DismissDialog closes the dialog and discards the draft
func (h *Handlers) DismissDialog(c *gin.Context) {
	ws, _ := h.mounted(c)
	ws.Dismiss()
	redirect(c, "/products")
}

// SubmitProduct creates or updates a product from the open dialog
func (h *Handlers) SubmitProduct(c *gin.Context) {
	ws, username := h.mounted(c)

	var form validation.ProductForm
	if err := c.ShouldBind(&form); err != nil {
		c.String(http.StatusBadRequest, "invalid request")
		return
	}

	_, err := ws.Submit(remote(c), form)
	switch {
	case err == nil, errors.Is(err, products.ErrNoDialog), errors.Is(err, products.ErrStale):
		redirect(c, "/products")
	case errors.Is(err, products.ErrValidation):
		h.renderProducts(c, http.StatusUnprocessableEntity, ws, username)
	default:
		status := http.StatusBadGateway
		if code := api.StatusCode(err); code >= 400 && code < 500 {
			status = http.StatusUnprocessableEntity
		}
		h.renderProducts(c, status, ws, username)
	}
}

// DeleteProduct deletes a product without confirmation
func (h *Handlers) DeleteProduct(c *gin.Context) {
	ws, _ := h.mounted(c)

	id, ok := productID(c)
	if !ok {
		ws.Notify(models.SeverityError, "Error", "Delete failed")
		redirect(c, "/products")
		return
	}

	// The outcome is reported through the workspace notices.
	_ = ws.Delete(remote(c), id)
	redirect(c, "/products")
}
