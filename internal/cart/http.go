package cart

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"ShopBot/pkg/kit"
)

type Server struct {
	Store *Store
	Log   *zap.Logger
}

type ctxKey string

const userKey ctxKey = "user"

func UserFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userKey).(string)
	return id, ok
}

// RequireUser pulls the platform-supplied user identifier from X-User-Id.
// There is no further authentication by design.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get("X-User-Id"))
		if id == "" {
			kit.WriteError(w, r, http.StatusUnauthorized, "missing user id", nil)
			return
		}

		ctx := context.WithValue(r.Context(), userKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type addItemReq struct {
	OptionID string `json:"option_id"`
}

const maxAddBody = 1 << 20

func (s *Server) SummaryHandler() http.HandlerFunc  { return s.summary }
func (s *Server) AddItemHandler() http.HandlerFunc  { return s.addItem }
func (s *Server) ClearHandler() http.HandlerFunc    { return s.clear }
func (s *Server) CheckoutHandler() http.HandlerFunc { return s.checkout }

func (s *Server) summary(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFromContext(r.Context())
	if !ok {
		kit.WriteError(w, r, http.StatusUnauthorized, "no user", nil)
		return
	}

	kit.WriteJSON(w, http.StatusOK, s.Store.Summary(u))
}

func (s *Server) addItem(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFromContext(r.Context())
	if !ok {
		kit.WriteError(w, r, http.StatusUnauthorized, "no user", nil)
		return
	}

	req, err := decodeAddRequest(w, r)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
		return
	}
	if strings.TrimSpace(req.OptionID) == "" {
		kit.WriteError(w, r, http.StatusBadRequest, "option_id required", nil)
		return
	}

	c, err := s.Store.AddItem(r.Context(), u, req.OptionID)
	if err != nil {
		if errors.Is(err, ErrOptionNotFound) {
			kit.WriteError(w, r, http.StatusBadRequest, "invalid option_id",
				map[string]any{"option_id": req.OptionID})
			return
		}
		s.logErr("add item failed", err, u)
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	kit.WriteJSON(w, http.StatusCreated, c)
}

func (s *Server) clear(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFromContext(r.Context())
	if !ok {
		kit.WriteError(w, r, http.StatusUnauthorized, "no user", nil)
		return
	}

	if err := s.Store.Clear(r.Context(), u); err != nil {
		s.logErr("clear cart failed", err, u)
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	kit.NoContent(w)
}

func (s *Server) checkout(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFromContext(r.Context())
	if !ok {
		kit.WriteError(w, r, http.StatusUnauthorized, "no user", nil)
		return
	}

	rcpt, err := s.Store.Checkout(r.Context(), u)
	if err != nil {
		if errors.Is(err, ErrEmptyCart) {
			kit.WriteError(w, r, http.StatusConflict, "cart is empty", nil)
			return
		}
		s.logErr("checkout failed", err, u)
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	kit.WriteJSON(w, http.StatusCreated, rcpt)
}

func (s *Server) logErr(msg string, err error, userID string) {
	if s.Log != nil {
		s.Log.Error(msg, zap.Error(err), zap.String("user_id", userID))
	}
}

func decodeAddRequest(w http.ResponseWriter, r *http.Request) (addItemReq, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxAddBody)
	defer func() { _ = r.Body.Close() }()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req addItemReq
	if err := dec.Decode(&req); err != nil {
		return addItemReq{}, err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return addItemReq{}, errors.New("extra data after json object")
	}

	return req, nil
}
