package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// LoginPage renders the login form
func LoginPage(data LoginData) templ.Component {
	return Layout("Login", data.Notices, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &page{w: w}
		p.raw("<div class=\"center\"><h1>Product Management App</h1>")
		p.raw("<form class=\"login\" method=\"post\" action=\"/login\" novalidate")
		p.attr("onsubmit", disableOnSubmit)
		p.raw("><div><input type=\"text\" name=\"username\" placeholder=\"Username\" autocomplete=\"username\"")
		p.attr("value", data.Username)
		p.raw(">")
		fieldError(p, data.Errors.Get("username"))
		p.raw("</div><div><input type=\"password\" name=\"password\" placeholder=\"Password\" autocomplete=\"current-password\">")
		fieldError(p, data.Errors.Get("password"))
		p.raw("</div><button type=\"submit\">Login</button></form></div>")
		return p.err
	}))
}
