package templates

import (
	"context"
	"io"
	"strconv"

	"product-console/pkg/models"
	"product-console/pkg/products"

	"github.com/a-h/templ"
)

// ProductsPage renders the product grid, or the fetch error in its place,
// plus the add/edit dialog when one is open.
func ProductsPage(data ProductsData) templ.Component {
	return Layout("Products", data.Notices, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &page{w: w}

		if data.View.State == products.StateError {
			p.raw("<p class=\"fetch-error\">")
			p.text(data.View.Error)
			p.raw("</p><form class=\"fetch-error\" method=\"post\" action=\"/products/refresh\"><button type=\"submit\">Reload</button></form>")
			return p.err
		}

		p.raw("<div style=\"padding:2.5rem\"><div class=\"header\"><h1>Products</h1><div class=\"actions\">")
		p.raw("<a class=\"button success\" href=\"/products/new\">Add Product</a>")
		p.raw("<form method=\"post\" action=\"/logout\"><button type=\"submit\" title=\"Signed in as ")
		p.text(data.Username)
		p.raw("\">Logout</button></form></div></div><div class=\"grid\">")

		for _, prod := range data.View.Products {
			productCard(p, prod)
		}
		p.raw("</div></div>")

		if data.View.Dialog != nil {
			productDialog(p, data.View.Dialog)
		}
		return p.err
	}))
}

func productCard(p *page, prod models.Product) {
	id := strconv.Itoa(prod.ID)
	p.raw("<div class=\"card\"")
	p.attr("data-product-id", id)
	p.raw("><img")
	p.attr("src", string(templ.URL(prod.Image)))
	p.attr("alt", prod.Title)
	p.raw("><div class=\"card-body\"><div><h3>")
	p.text(prod.Title)
	p.raw("</h3><p class=\"price\">")
	p.text(models.FormatPrice(prod.Price))
	p.raw("</p></div><div class=\"actions\"><a class=\"button\"")
	p.attr("href", "/products/"+id+"/edit")
	p.raw(">Edit</a><form method=\"post\"")
	p.attr("action", "/products/"+id+"/delete")
	p.raw("><button class=\"danger\" type=\"submit\">Delete</button></form></div></div></div>")
}

func productDialog(p *page, d *products.Dialog) {
	p.raw("<div class=\"overlay\"><div class=\"dialog\" role=\"dialog\" aria-modal=\"true\"><h2>")
	p.text(d.Title())
	p.raw("</h2><form method=\"post\" action=\"/products/dialog\" novalidate")
	p.attr("onsubmit", disableOnSubmit)
	p.raw("><div class=\"row\"><div><label>Title</label><input type=\"text\" name=\"title\"")
	p.attr("value", d.Form.Title)
	p.raw(">")
	fieldError(p, d.Errors.Get("title"))
	p.raw("</div><div><label>Price</label><input type=\"text\" inputmode=\"decimal\" name=\"price\"")
	p.attr("value", d.Form.Price)
	p.raw(">")
	fieldError(p, d.Errors.Get("price"))
	p.raw("</div></div><div><label>Description</label><textarea name=\"description\" rows=\"3\">")
	p.text(d.Form.Description)
	p.raw("</textarea>")
	fieldError(p, d.Errors.Get("description"))
	p.raw("</div><div><label>Category</label><input type=\"text\" name=\"category\"")
	p.attr("value", d.Form.Category)
	p.raw(">")
	fieldError(p, d.Errors.Get("category"))
	p.raw("</div><div><label>Image URL</label><input type=\"text\" name=\"image\"")
	p.attr("value", d.Form.Image)
	p.raw(">")
	fieldError(p, d.Errors.Get("image"))
	p.raw("</div><button type=\"submit\">Submit</button></form>")
	p.raw("<form method=\"post\" action=\"/products/dialog/dismiss\"><button type=\"submit\">Cancel</button></form>")
	p.raw("</div></div>")
}
