package templates

import (
	"context"
	"io"

	"product-console/pkg/models"

	"github.com/a-h/templ"
)

// page accumulates the first write error so components can be written as a
// straight sequence of raw and escaped fragments.
type page struct {
	w   io.Writer
	err error
}

func (p *page) raw(s string) {
	if p.err == nil {
		_, p.err = io.WriteString(p.w, s)
	}
}

func (p *page) text(s string) {
	p.raw(templ.EscapeString(s))
}

func (p *page) attr(name, value string) {
	p.raw(" " + name + "=\"")
	p.text(value)
	p.raw("\"")
}

func (p *page) render(ctx context.Context, c templ.Component) {
	if p.err == nil && c != nil {
		p.err = c.Render(ctx, p.w)
	}
}

// Layout wraps body in the HTML document and renders pending notices as toasts
func Layout(title string, notices []models.Notice, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &page{w: w}
		p.raw("<!DOCTYPE html><html lang=\"en\"><head><meta charset=\"utf-8\">")
		p.raw("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\"><title>")
		p.text(title)
		p.raw("</title><style>" + styles + "</style></head><body>")
		if len(notices) > 0 {
			p.raw("<div class=\"toasts\" role=\"status\">")
			for _, n := range notices {
				p.raw("<div")
				p.attr("class", "toast "+string(n.Severity))
				p.raw("><strong>")
				p.text(n.Summary)
				p.raw("</strong> ")
				p.text(n.Detail)
				p.raw("</div>")
			}
			p.raw("</div>")
		}
		p.render(ctx, body)
		p.raw("</body></html>")
		return p.err
	})
}

func fieldError(p *page, msg string) {
	if msg == "" {
		return
	}
	p.raw("<small class=\"field-error\">")
	p.text(msg)
	p.raw("</small>")
}
