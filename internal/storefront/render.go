package storefront

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"FoodCart/internal/checkout"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html"))

func staticFiles() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

type Notice struct {
	Kind string
	Text string
}

type page struct {
	Title         string
	Currency      string
	DarkMode      bool
	CartCount     int
	Back          string
	EmptyCartText string
	Notice        *Notice
	Receipt       *checkout.Receipt
	Menu          *MenuView
	Cart          *CartView
}

// render executes into a buffer first so a template failure never leaves a
// half-written page behind a 200.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, p page) {
	p.Currency = s.Currency
	p.EmptyCartText = MsgEmptyCart
	if p.Back == "" {
		p.Back = r.URL.RequestURI()
	}

	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, "layout", p); err != nil {
		s.pageError(w, r, "render page failed", err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// backTarget returns the local path a form asked to return to, or fallback.
func backTarget(r *http.Request, fallback string) string {
	back := r.PostFormValue("back")
	if !strings.HasPrefix(back, "/") || strings.HasPrefix(back, "//") || strings.HasPrefix(back, "/\\") {
		return fallback
	}
	return back
}
