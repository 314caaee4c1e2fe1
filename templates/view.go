package templates

import (
	"product-console/pkg/models"
	"product-console/pkg/products"
	"product-console/pkg/validation"
)

// LoginData is what the login screen renders. The password is never echoed back.
type LoginData struct {
	Username string
	Errors   validation.FieldErrors
	Notices  []models.Notice
}

// ProductsData is what the products screen renders
type ProductsData struct {
	Username string
	View     products.View
	Notices  []models.Notice
}

const styles = `
body{margin:0;font-family:system-ui,sans-serif;background:#f3f4f6;color:#111827}
.center{min-height:100vh;display:flex;flex-direction:column;align-items:center;justify-content:center}
.login{display:flex;flex-direction:column;gap:1rem;width:400px}
input,textarea{width:100%;box-sizing:border-box;padding:.5rem;border:1px solid #d1d5db;border-radius:4px}
button,.button{padding:.5rem 1rem;border:0;border-radius:4px;background:#3b82f6;color:#fff;cursor:pointer;text-decoration:none;font-size:1rem}
button.success,.button.success{background:#22c55e}
button.danger{background:#ef4444}
button[disabled]{opacity:.6}
.field-error{color:#ef4444}
.toasts{position:fixed;top:1rem;right:1rem;display:flex;flex-direction:column;gap:.5rem}
.toast{padding:.75rem 1rem;border-radius:4px;min-width:16rem}
.toast.success{background:#dcfce7}
.toast.error{background:#fee2e2}
.header{display:flex;justify-content:space-between;align-items:center;margin-bottom:1.5rem}
.actions{display:flex;gap:.5rem}
.grid{display:grid;grid-template-columns:repeat(3,1fr);gap:2.5rem}
.card{background:#f9fafb;border:1px solid #e5e7eb;border-radius:4px;padding:1rem;box-shadow:0 4px 6px rgba(0,0,0,.1)}
.card img{height:10rem;width:100%;object-fit:contain;margin-bottom:.75rem}
.card-body{display:flex;justify-content:space-between;align-items:center;padding:0 .75rem}
.price{font-size:1.125rem;font-weight:600}
.overlay{position:fixed;inset:0;background:rgba(0,0,0,.4);display:flex;align-items:center;justify-content:center}
.dialog{background:#fff;border-radius:6px;padding:1.5rem;width:40vw}
.dialog form{display:flex;flex-direction:column;gap:1rem}
.row{display:flex;gap:1rem}.row>div{width:50%}
.fetch-error{text-align:center;margin-top:5rem;color:#ef4444}
`

// disableOnSubmit disables a form's submit button while the request is in flight
const disableOnSubmit = `this.querySelectorAll('button[type=submit]').forEach(function(b){b.disabled=true})`
