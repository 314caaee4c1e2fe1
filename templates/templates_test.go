package templates

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"product-console/pkg/models"
	"product-console/pkg/products"
	"product-console/pkg/validation"
)

func renderString(t *testing.T, data ProductsData) string {
	t.Helper()
	var buf bytes.Buffer
	if err := ProductsPage(data).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	return buf.String()
}

func TestProductsPage_Card(t *testing.T) {
	body := renderString(t, ProductsData{
		Username: "bob",
		View: products.View{
			State:    products.StateReady,
			Products: []models.Product{{ID: 1, Title: "A", Price: 10, Image: "https://img/a.png"}},
		},
	})

	for _, want := range []string{"<h3>A</h3>", "$10", `data-product-id="1"`, `href="/products/1/edit"`, `src="https://img/a.png"`} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %q in output", want)
		}
	}
	if strings.Contains(body, `role="dialog"`) {
		t.Error("no dialog expected")
	}
}

func TestProductsPage_EscapesAndSanitizes(t *testing.T) {
	body := renderString(t, ProductsData{
		View: products.View{
			State:    products.StateReady,
			Products: []models.Product{{ID: 1, Title: "<script>x</script>", Image: "javascript:alert(1)"}},
		},
	})

	if strings.Contains(body, "<script>x</script>") {
		t.Error("title not escaped")
	}
	if strings.Contains(body, "javascript:alert") {
		t.Error("image URL not sanitized")
	}
}

func TestProductsPage_ErrorState(t *testing.T) {
	body := renderString(t, ProductsData{
		View: products.View{State: products.StateError, Error: products.FetchError},
	})
	if !strings.Contains(body, products.FetchError) {
		t.Error("expected fetch error message")
	}
	if strings.Contains(body, `class="grid"`) {
		t.Error("list should not render in the error state")
	}
}

func TestProductsPage_DialogWithErrors(t *testing.T) {
	body := renderString(t, ProductsData{
		View: products.View{
			State: products.StateReady,
			Dialog: &products.Dialog{
				Mode:   products.DialogAdd,
				Form:   validation.ProductForm{Title: "", Price: "abc", Description: "keep"},
				Errors: validation.FieldErrors{"title": "Title is required"},
			},
		},
		Notices: []models.Notice{{Severity: models.SeverityError, Summary: "Error", Detail: "Invalid data"}},
	})

	for _, want := range []string{"Add product", "Title is required", `value="abc"`, ">keep</textarea>", "Invalid data", `class="toast error"`} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %q in output", want)
		}
	}
}

func TestLoginPage(t *testing.T) {
	var buf bytes.Buffer
	err := LoginPage(LoginData{
		Username: "bob",
		Errors:   validation.FieldErrors{"password": "Password should be minimum 6 letters"},
	}).Render(context.Background(), &buf)
	if err != nil {
		t.Fatal(err)
	}
	body := buf.String()
	for _, want := range []string{"Product Management App", `value="bob"`, "Password should be minimum 6 letters"} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %q in output", want)
		}
	}
}
