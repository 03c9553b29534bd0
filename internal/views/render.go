package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/Lixing-Zhang/eshopper/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page names accepted by Renderer.Render
const (
	PageProducts = "products.html"
	PageProduct  = "product.html"
	PageCart     = "cart.html"
	PageCheckout = "checkout.html"
	PageError    = "error.html"
)

// Nav is the data the navigation shell needs on every page
type Nav struct {
	ActivePath string
	CartCount  int
}

// IsActive reports whether path is the current route
func (n Nav) IsActive(path string) bool {
	return n.ActivePath == path
}

type ProductsPage struct {
	Nav
	Products []models.Product
	Error    string
}

type ProductPage struct {
	Nav
	Product  *models.Product
	Carousel Carousel
	Quantity int
	Error    string
}

type CartPage struct {
	Nav
	Summary models.CartSummary
	Error   string
}

type CheckoutPage struct {
	Nav
	Order *models.Order
	Error string
}

type ErrorPage struct {
	Nav
	Title   string
	Message string
}

var funcs = template.FuncMap{
	"price": FormatPrice,
	"add":   func(a, b int) int { return a + b },
	"step":  StepQuantity,
}

// Renderer executes the storefront templates. Each page is parsed together
// with the shared layout.
type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template)}

	for _, page := range []string{PageProducts, PageProduct, PageCart, PageCheckout, PageError} {
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		r.pages[page] = t
	}

	return r, nil
}

// Render executes page into w. Output is buffered, so nothing is written
// when execution fails.
func (r *Renderer) Render(w io.Writer, page string, data any) error {
	t, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}

	_, err := buf.WriteTo(w)
	return err
}
