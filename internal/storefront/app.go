package storefront

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"FoodCart/internal/cart"
	"FoodCart/internal/catalog"
	"FoodCart/internal/checkout"
	"FoodCart/internal/session"
	"FoodCart/internal/storage"
)

// DarkModeKey stores the display preference next to the cart.
const DarkModeKey = "darkModeEnabled"

var errNoSession = errors.New("no session in request context")

type Server struct {
	Catalog     catalog.Store
	Storage     storage.Store
	Checkout    *checkout.Service
	CartMetrics *cart.Metrics
	Log         *zap.Logger
	Currency    string

	locks sessionLocks
}

// shopper is one session's state, restored for the duration of a request.
type shopper struct {
	id     string
	bucket storage.Bucket
	cart   *cart.Store
	dark   bool
}

// open locks the request's session and restores its cart. The caller must
// call the returned release func.
func (s *Server) open(ctx context.Context) (*shopper, func(), error) {
	id, ok := session.IDFromContext(ctx)
	if !ok {
		return nil, nil, errNoSession
	}

	unlock := s.locks.lock(id)
	bucket := storage.Scope(s.Storage, id)

	c, err := cart.Restore(ctx, bucket, s.Catalog, cart.Options{Log: s.Log, Metrics: s.CartMetrics})
	if err != nil {
		unlock()
		return nil, nil, err
	}

	return &shopper{
		id:     id,
		bucket: bucket,
		cart:   c,
		dark:   s.darkMode(ctx, bucket),
	}, unlock, nil
}

func (s *Server) darkMode(ctx context.Context, b storage.Bucket) bool {
	v, _, err := b.Get(ctx, DarkModeKey)
	if err != nil {
		s.Log.Warn("load display preference failed", zap.Error(err))
		return false
	}
	return v == "true"
}

func (s *Server) setDarkMode(ctx context.Context, b storage.Bucket, on bool) error {
	return b.Set(ctx, DarkModeKey, strconv.FormatBool(on))
}

func (s *Server) menu(w http.ResponseWriter, r *http.Request) {
	sh, release, err := s.open(r.Context())
	if err != nil {
		s.pageError(w, r, "open session failed", err)
		return
	}
	defer release()

	all, err := s.Catalog.List(r.Context())
	if err != nil {
		s.pageError(w, r, "list products failed", err)
		return
	}

	q := r.URL.Query()
	search, category := q.Get("q"), q.Get("category")
	mv := NewMenuView(all, catalog.Filter(all, search, category), search, category)

	s.render(w, r, http.StatusOK, page{
		Title:     "Menu",
		DarkMode:  sh.dark,
		CartCount: sh.cart.TotalQuantity(),
		Menu:      &mv,
	})
}

func (s *Server) cartPage(w http.ResponseWriter, r *http.Request) {
	sh, release, err := s.open(r.Context())
	if err != nil {
		s.pageError(w, r, "open session failed", err)
		return
	}
	defer release()

	s.renderCart(w, r, sh, nil, nil)
}

func (s *Server) renderCart(w http.ResponseWriter, r *http.Request, sh *shopper, n *Notice, rc *checkout.Receipt) {
	cv := NewCartView(sh.cart.Lines())
	s.render(w, r, http.StatusOK, page{
		Title:     "Cart",
		DarkMode:  sh.dark,
		CartCount: sh.cart.TotalQuantity(),
		Back:      "/cart",
		Notice:    n,
		Receipt:   rc,
		Cart:      &cv,
	})
}

func (s *Server) addItem(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(r)
	if !ok {
		http.Error(w, "bad product id", http.StatusBadRequest)
		return
	}

	s.mutatePage(w, r, backTarget(r, "/"), func(ctx context.Context, c *cart.Store) error {
		return c.AddItem(ctx, id)
	})
}

func (s *Server) setQuantity(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(r)
	if !ok {
		http.Error(w, "bad product id", http.StatusBadRequest)
		return
	}
	qty, err := strconv.Atoi(r.PostFormValue("quantity"))
	if err != nil {
		http.Error(w, "bad quantity", http.StatusBadRequest)
		return
	}

	s.mutatePage(w, r, "/cart", func(ctx context.Context, c *cart.Store) error {
		return c.SetQuantity(ctx, id, qty)
	})
}

func (s *Server) removeItem(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(r)
	if !ok {
		http.Error(w, "bad product id", http.StatusBadRequest)
		return
	}

	s.mutatePage(w, r, "/cart", func(ctx context.Context, c *cart.Store) error {
		return c.RemoveItem(ctx, id)
	})
}

func (s *Server) mutatePage(w http.ResponseWriter, r *http.Request, next string, fn func(context.Context, *cart.Store) error) {
	sh, release, err := s.open(r.Context())
	if err != nil {
		s.pageError(w, r, "open session failed", err)
		return
	}
	defer release()

	if err := fn(r.Context(), sh.cart); err != nil {
		if errors.Is(err, cart.ErrQuantityLimit) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.pageError(w, r, "update cart failed", err)
		return
	}
	http.Redirect(w, r, next, http.StatusSeeOther)
}

func (s *Server) checkoutPage(w http.ResponseWriter, r *http.Request) {
	sh, release, err := s.open(r.Context())
	if err != nil {
		s.pageError(w, r, "open session failed", err)
		return
	}
	defer release()

	rc, err := s.Checkout.Checkout(r.Context(), sh.cart)
	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		s.renderCart(w, r, sh, &Notice{Kind: "warning", Text: MsgCheckoutEmpty}, nil)
	case err != nil:
		s.pageError(w, r, "checkout failed", err)
	default:
		text := "Thank you for your order! Your total amount is " + s.Currency + rc.Summary.Total + "."
		s.renderCart(w, r, sh, &Notice{Kind: "success", Text: text}, &rc)
	}
}

func (s *Server) toggleDarkMode(w http.ResponseWriter, r *http.Request) {
	sh, release, err := s.open(r.Context())
	if err != nil {
		s.pageError(w, r, "open session failed", err)
		return
	}
	defer release()

	if err := s.setDarkMode(r.Context(), sh.bucket, !sh.dark); err != nil {
		s.pageError(w, r, "save display preference failed", err)
		return
	}
	http.Redirect(w, r, backTarget(r, "/"), http.StatusSeeOther)
}

func (s *Server) pageError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	s.Log.Error(msg, zap.Error(err), zap.String("path", r.URL.Path))
	http.Error(w, "Something went wrong. Please try again.", http.StatusInternalServerError)
}

func productID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	return id, err == nil
}
