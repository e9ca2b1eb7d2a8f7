package storefront

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"FoodCart/internal/cart"
	"FoodCart/internal/checkout"
	"FoodCart/pkg/kit"
)

type cartResponse struct {
	Items         []cart.Line   `json:"items"`
	TotalQuantity int           `json:"total_quantity"`
	Summary       *cart.Figures `json:"summary"`
}

func newCartResponse(c *cart.Store) cartResponse {
	resp := cartResponse{
		Items:         c.Lines(),
		TotalQuantity: c.TotalQuantity(),
	}
	if !c.IsEmpty() {
		f := c.Summary().Format()
		resp.Summary = &f
	}
	return resp
}

type addItemReq struct {
	ProductID int `json:"product_id"`
}

type setQuantityReq struct {
	Quantity *int `json:"quantity"`
}

type preferencesDTO struct {
	DarkMode *bool `json:"dark_mode"`
}

func (s *Server) apiGetCart(w http.ResponseWriter, r *http.Request) {
	s.apiMutate(w, r, nil)
}

func (s *Server) apiAddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemReq
	if err := kit.DecodeJSON(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
		return
	}

	s.apiMutate(w, r, func(ctx context.Context, c *cart.Store) error {
		return c.AddItem(ctx, req.ProductID)
	})
}

func (s *Server) apiSetQuantity(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(r)
	if !ok {
		kit.WriteError(w, r, http.StatusBadRequest, "bad product id", nil)
		return
	}

	var req setQuantityReq
	if err := kit.DecodeJSON(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
		return
	}
	if req.Quantity == nil {
		kit.WriteError(w, r, http.StatusBadRequest, "quantity required", nil)
		return
	}

	s.apiMutate(w, r, func(ctx context.Context, c *cart.Store) error {
		return c.SetQuantity(ctx, id, *req.Quantity)
	})
}

func (s *Server) apiRemoveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(r)
	if !ok {
		kit.WriteError(w, r, http.StatusBadRequest, "bad product id", nil)
		return
	}

	s.apiMutate(w, r, func(ctx context.Context, c *cart.Store) error {
		return c.RemoveItem(ctx, id)
	})
}

func (s *Server) apiClear(w http.ResponseWriter, r *http.Request) {
	s.apiMutate(w, r, func(ctx context.Context, c *cart.Store) error {
		return c.Clear(ctx)
	})
}

// apiMutate applies fn (if any) to the session cart and answers with the
// resulting cart.
func (s *Server) apiMutate(w http.ResponseWriter, r *http.Request, fn func(context.Context, *cart.Store) error) {
	sh, release, err := s.open(r.Context())
	if err != nil {
		s.apiError(w, r, "open session failed", err)
		return
	}
	defer release()

	if fn != nil {
		if err := fn(r.Context(), sh.cart); err != nil {
			if errors.Is(err, cart.ErrQuantityLimit) {
				kit.WriteError(w, r, http.StatusBadRequest, "quantity too large", map[string]any{"max": cart.MaxQuantity})
				return
			}
			s.apiError(w, r, "update cart failed", err)
			return
		}
	}
	kit.WriteJSON(w, http.StatusOK, newCartResponse(sh.cart))
}

func (s *Server) apiCheckout(w http.ResponseWriter, r *http.Request) {
	sh, release, err := s.open(r.Context())
	if err != nil {
		s.apiError(w, r, "open session failed", err)
		return
	}
	defer release()

	rc, err := s.Checkout.Checkout(r.Context(), sh.cart)
	if errors.Is(err, checkout.ErrEmptyCart) {
		kit.WriteError(w, r, http.StatusConflict, "cart is empty", nil)
		return
	}
	if err != nil {
		s.apiError(w, r, "checkout failed", err)
		return
	}
	kit.WriteJSON(w, http.StatusCreated, rc)
}

func (s *Server) apiGetPreferences(w http.ResponseWriter, r *http.Request) {
	sh, release, err := s.open(r.Context())
	if err != nil {
		s.apiError(w, r, "open session failed", err)
		return
	}
	defer release()

	kit.WriteJSON(w, http.StatusOK, preferencesDTO{DarkMode: &sh.dark})
}

func (s *Server) apiPutPreferences(w http.ResponseWriter, r *http.Request) {
	var req preferencesDTO
	if err := kit.DecodeJSON(w, r, &req); err != nil || req.DarkMode == nil {
		kit.WriteError(w, r, http.StatusBadRequest, "dark_mode required", nil)
		return
	}

	sh, release, err := s.open(r.Context())
	if err != nil {
		s.apiError(w, r, "open session failed", err)
		return
	}
	defer release()

	if err := s.setDarkMode(r.Context(), sh.bucket, *req.DarkMode); err != nil {
		s.apiError(w, r, "save display preference failed", err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, req)
}

func (s *Server) apiError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	s.Log.Error(msg, zap.Error(err), zap.String("path", r.URL.Path))
	kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
}
