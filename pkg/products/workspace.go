// Package products implements the products screen: the per-session product
// collection, the add/edit dialog and the notifications they raise.
package products

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"product-console/pkg/models"
	"product-console/pkg/validation"

	"github.com/sirupsen/logrus"
)

var (
	ErrNotFound   = errors.New("product not found")
	ErrNoDialog   = errors.New("no product dialog open")
	ErrStale      = errors.New("screen was reset while the request was in flight")
	ErrValidation = errors.New("product form is invalid")
)

// Service is the remote product API as seen by one session
type Service interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	CreateProduct(ctx context.Context, draft models.ProductDraft) (models.Product, error)
	UpdateProduct(ctx context.Context, id int, draft models.ProductDraft) (models.Product, error)
	DeleteProduct(ctx context.Context, id int) error
}

// State is the screen's fetch state
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateError   State = "error"
)

// FetchError is the message shown in place of the list when fetching fails
const FetchError = "Failed to fetch products"

// DialogMode distinguishes the add and edit dialogs
type DialogMode string

const (
	DialogAdd  DialogMode = "add"
	DialogEdit DialogMode = "edit"
)

// Dialog is the open add/edit modal and its draft
type Dialog struct {
	Mode      DialogMode
	ProductID int
	Form      validation.ProductForm
	Errors    validation.FieldErrors
}

// Title returns the dialog header
func (d *Dialog) Title() string {
	if d.Mode == DialogEdit {
		return "Edit Product"
	}
	return "Add product"
}

// View is a snapshot of the workspace for rendering
type View struct {
	State    State
	Error    string
	Products []models.Product
	Dialog   *Dialog
}

// Workspace owns one session's product collection. The remote API is the
// source of truth; the collection is refreshed only by Mount.
//
// Network calls run without the lock held. Each call records the generation
// it started under, and Mount and Reset bump the generation, so a completion
// that outlived its screen is dropped instead of applied.
type Workspace struct {
	svc Service
	log logrus.FieldLogger

	mu       sync.Mutex
	gen      uint64
	state    State
	err      string
	products []models.Product
	dialog   *Dialog
	notices  []models.Notice
}

// NewWorkspace creates an unmounted workspace
func NewWorkspace(svc Service, log logrus.FieldLogger) *Workspace {
	return &Workspace{
		svc:   svc,
		log:   log,
		state: StateIdle,
	}
}

// Mounted reports whether the workspace has fetched at least once
func (w *Workspace) Mounted() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state != StateIdle
}

// Mount (re)fetches the product list: loading, then ready or error.
func (w *Workspace) Mount(ctx context.Context) error {
	w.mu.Lock()
	w.gen++
	gen := w.gen
	w.state = StateLoading
	w.err = ""
	w.mu.Unlock()

	list, err := w.svc.ListProducts(ctx)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.gen != gen {
		return ErrStale
	}
	if errors.Is(err, context.Canceled) {
		// The next request mounts again.
		w.state = StateIdle
		return err
	}
	if err != nil {
		w.log.WithError(err).Warn("failed to fetch products")
		w.state = StateError
		w.err = FetchError
		return fmt.Errorf("fetch products: %w", err)
	}

	w.products = dedupe(list)
	w.state = StateReady
	return nil
}

// Reset drops all state and cancels the effect of in-flight calls
func (w *Workspace) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.gen++
	w.state = StateIdle
	w.err = ""
	w.products = nil
	w.dialog = nil
	w.notices = nil
}

// OpenAdd opens the dialog with a blank draft
func (w *Workspace) OpenAdd() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.dialog = &Dialog{Mode: DialogAdd}
}

// OpenEdit opens the dialog pre-populated from the product's local values
func (w *Workspace) OpenEdit(id int) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	i := w.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	w.dialog = &Dialog{
		Mode:      DialogEdit,
		ProductID: id,
		Form:      validation.ProductFormFrom(w.products[i]),
	}
	return nil
}

// Dismiss closes the dialog and discards its draft
func (w *Workspace) Dismiss() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.dialog = nil
}

// Submit validates the form and creates or updates the product depending on
// the open dialog. Field errors abort before any network call. On API failure
// the dialog stays open with the draft intact.
func (w *Workspace) Submit(ctx context.Context, form validation.ProductForm) (validation.FieldErrors, error) {
	w.mu.Lock()
	if w.dialog == nil {
		w.mu.Unlock()
		return nil, ErrNoDialog
	}
	w.dialog.Form = form
	draft, fieldErrs := validation.ValidateProduct(form)
	w.dialog.Errors = fieldErrs
	if fieldErrs != nil {
		w.mu.Unlock()
		return fieldErrs, ErrValidation
	}
	dialog := *w.dialog
	gen := w.gen
	w.mu.Unlock()

	var (
		product models.Product
		err     error
	)
	if dialog.Mode == DialogEdit {
		product, err = w.svc.UpdateProduct(ctx, dialog.ProductID, draft)
	} else {
		product, err = w.svc.CreateProduct(ctx, draft)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.gen != gen {
		return nil, ErrStale
	}
	if err != nil {
		w.log.WithError(err).WithField("mode", dialog.Mode).Warn("product submit failed")
		w.notify(models.SeverityError, "Error", "Invalid data")
		return nil, err
	}

	if dialog.Mode == DialogEdit {
		// The collection is keyed by the identifier the update was sent for.
		product.ID = dialog.ProductID
		w.upsert(product)
		w.notify(models.SeveritySuccess, "Success", "Product updated successfully")
	} else {
		w.upsert(product)
		w.notify(models.SeveritySuccess, "Success", "Product added successfully")
	}

	w.dialog = nil
	return nil, nil
}

// Delete removes the product remotely, then locally. Local state is left
// untouched on failure.
func (w *Workspace) Delete(ctx context.Context, id int) error {
	w.mu.Lock()
	gen := w.gen
	w.mu.Unlock()

	err := w.svc.DeleteProduct(ctx, id)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.gen != gen {
		return ErrStale
	}
	if err != nil {
		w.log.WithError(err).WithField("id", id).Warn("product delete failed")
		w.notify(models.SeverityError, "Error", "Delete failed")
		return err
	}

	kept := w.products[:0]
	for _, p := range w.products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	w.products = kept
	w.notify(models.SeveritySuccess, "Deleted", "Product deleted successfully")
	return nil
}

// View returns a copy of the current state
func (w *Workspace) View() View {
	w.mu.Lock()
	defer w.mu.Unlock()

	v := View{
		State:    w.state,
		Error:    w.err,
		Products: append([]models.Product(nil), w.products...),
	}
	if w.dialog != nil {
		d := *w.dialog
		v.Dialog = &d
	}
	return v
}

// TakeNotices returns and clears pending notifications
func (w *Workspace) TakeNotices() []models.Notice {
	w.mu.Lock()
	defer w.mu.Unlock()
	notices := w.notices
	w.notices = nil
	return notices
}

// Notify queues a notification for the next render
func (w *Workspace) Notify(sev models.Severity, summary, detail string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.notify(sev, summary, detail)
}

func (w *Workspace) notify(sev models.Severity, summary, detail string) {
	w.notices = append(w.notices, models.Notice{Severity: sev, Summary: summary, Detail: detail})
}

// upsert replaces the entry with p's identifier, or appends p
func (w *Workspace) upsert(p models.Product) {
	if i := w.indexOf(p.ID); i >= 0 {
		w.products[i] = p
		return
	}
	w.products = append(w.products, p)
}

// indexOf must be called with the lock held
func (w *Workspace) indexOf(id int) int {
	for i, p := range w.products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// dedupe keeps the last entry for each identifier, in first-seen order
func dedupe(list []models.Product) []models.Product {
	out := make([]models.Product, 0, len(list))
	pos := make(map[int]int, len(list))
	for _, p := range list {
		if i, ok := pos[p.ID]; ok {
			out[i] = p
			continue
		}
		pos[p.ID] = len(out)
		out = append(out, p)
	}
	return out
}
