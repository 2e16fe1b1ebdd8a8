package web

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"store-manager/internal/frontend/client"
	"store-manager/internal/frontend/session"
	"store-manager/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	cookieName = "store_session"
	testToken  = "header.payload.signature"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newTestServer() (*Server, *MockBackend, *memoryStore) {
	backend := new(MockBackend)
	store := newMemoryStore()
	srv := New(backend, store, Options{
		CookieName: cookieName,
		SessionTTL: 10 * time.Hour,
	}, zerolog.Nop())
	return srv, backend, store
}

// loggedIn stores a session and returns its cookie.
func loggedIn(t *testing.T, store *memoryStore) *http.Cookie {
	t.Helper()
	id, err := store.Create(context.Background(), session.Session{Username: "alice", Token: testToken}, time.Hour)
	require.NoError(t, err)
	return &http.Cookie{Name: cookieName, Value: id}
}

func do(srv *Server, method, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func responseCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestLoginPage(t *testing.T) {
	srv, _, _ := newTestServer()

	rec := do(srv, http.MethodGet, "/login", nil, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `action="/login"`)
	assert.NotContains(t, rec.Body.String(), `class="error"`)
}

func TestProtectedPages_RequireSession(t *testing.T) {
	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/dashboard/main_dashboard"},
		{http.MethodGet, "/dashboard/product_dashboard"},
		{http.MethodGet, "/dashboard/order_dashboard"},
		{http.MethodGet, "/products/list"},
		{http.MethodGet, "/products/add"},
		{http.MethodPost, "/products/delete/1"},
		{http.MethodGet, "/orders/list"},
		{http.MethodPost, "/orders/add"},
		{http.MethodGet, "/orders/statistics"},
	}

	for _, p := range paths {
		t.Run(p.method+" "+p.path, func(t *testing.T) {
			srv, backend, _ := newTestServer()

			rec := do(srv, p.method, p.path, url.Values{}, nil)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), "login required")
			backend.AssertExpectations(t)
		})
	}
}

func TestDashboards(t *testing.T) {
	tests := []struct {
		path  string
		links []string
	}{
		{"/dashboard/main_dashboard", []string{`href="/dashboard/product_dashboard"`, `href="/dashboard/order_dashboard"`}},
		{"/dashboard/product_dashboard", []string{`href="/products/list"`, `href="/products/add"`}},
		{"/dashboard/order_dashboard", []string{`href="/orders/list"`, `href="/orders/add"`, `href="/orders/statistics"`}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			srv, backend, store := newTestServer()
			cookie := loggedIn(t, store)

			rec := do(srv, http.MethodGet, tt.path, nil, cookie)

			assert.Equal(t, http.StatusOK, rec.Code)
			for _, link := range tt.links {
				assert.Contains(t, rec.Body.String(), link)
			}
			backend.AssertExpectations(t)
		})
	}
}

func TestRequireSession_UnknownSession(t *testing.T) {
	srv, _, _ := newTestServer()

	rec := do(srv, http.MethodGet, "/products/list", nil, &http.Cookie{Name: cookieName, Value: "stale"})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "login required")
	cleared := responseCookie(rec, cookieName)
	require.NotNil(t, cleared)
	assert.True(t, cleared.MaxAge < 0)
}

func TestRequireSession_StoreDown(t *testing.T) {
	srv, _, store := newTestServer()
	cookie := loggedIn(t, store)
	store.err = errors.New("redis: connection refused")

	rec := do(srv, http.MethodGet, "/products/list", nil, cookie)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name           string
		backendErr     error
		expectedStatus int
		expectedBody   string
		expectSession  bool
	}{
		{
			name:           "Success",
			expectedStatus: http.StatusSeeOther,
			expectSession:  true,
		},
		{
			name:           "Invalid credentials",
			backendErr:     &client.APIError{Status: http.StatusUnauthorized, Message: "invalid username or password"},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "Invalid username or password.",
		},
		{
			name:           "Backend unreachable",
			backendErr:     errors.New("dial tcp: connection refused"),
			expectedStatus: http.StatusBadGateway,
			expectedBody:   "backend unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, backend, store := newTestServer()
			token := ""
			if tt.backendErr == nil {
				token = testToken
			}
			backend.On("Login", mock.Anything, "alice", "secret").Return(token, tt.backendErr)

			rec := do(srv, http.MethodPost, "/login", url.Values{"username": {"alice"}, "password": {"secret"}}, nil)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedBody != "" {
				assert.Contains(t, rec.Body.String(), tt.expectedBody)
			}

			cookie := responseCookie(rec, cookieName)
			if !tt.expectSession {
				assert.Nil(t, cookie)
				assert.Zero(t, store.len())
				return
			}

			assert.Equal(t, "/dashboard/main_dashboard", rec.Header().Get("Location"))
			require.NotNil(t, cookie)
			assert.True(t, cookie.HttpOnly)
			assert.Equal(t, int((10 * time.Hour).Seconds()), cookie.MaxAge)

			sess, err := store.Get(context.Background(), cookie.Value)
			require.NoError(t, err)
			require.NotNil(t, sess)
			assert.Equal(t, testToken, sess.Token)
			assert.Equal(t, "alice", sess.Username)
		})
	}
}

func TestLogout(t *testing.T) {
	srv, _, store := newTestServer()
	cookie := loggedIn(t, store)

	rec := do(srv, http.MethodPost, "/logout", nil, cookie)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	assert.Zero(t, store.len())
}

func TestRegister(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		srv, backend, _ := newTestServer()
		backend.On("Register", mock.Anything, model.RegisterRequest{
			Username: "bob",
			FullName: "Bob B",
			Password: "pw",
			Roles:    []model.Role{model.RoleCustomer},
		}).Return(nil)

		rec := do(srv, http.MethodPost, "/register", url.Values{
			"username": {"bob"},
			"fullName": {"Bob B"},
			"password": {"pw"},
			"role":     {"customer"},
		}, nil)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("Location"))
		backend.AssertExpectations(t)
	})

	t.Run("Username taken", func(t *testing.T) {
		srv, backend, _ := newTestServer()
		backend.On("Register", mock.Anything, mock.Anything).
			Return(&client.APIError{Status: http.StatusBadRequest, Code: model.ErrCodeUsernameTaken, Message: "username already exists"})

		rec := do(srv, http.MethodPost, "/register", url.Values{
			"username": {"bob"},
			"fullName": {"Bob B"},
			"password": {"pw"},
			"role":     {"CUSTOMER"},
		}, nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Registration failed: username already exists")
		assert.Contains(t, rec.Body.String(), `value="bob"`)
	})
}

func TestListProducts(t *testing.T) {
	srv, backend, store := newTestServer()
	cookie := loggedIn(t, store)
	backend.On("ListProducts", mock.Anything, testToken).Return([]model.Product{
		{ID: 1, Name: "Widget", Price: decimal.RequireFromString("9.9"), Quantity: 100, Category: "Tools"},
	}, nil)

	rec := do(srv, http.MethodGet, "/products/list", nil, cookie)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Widget")
	assert.Contains(t, body, "9.90")
	assert.Contains(t, body, "Log out (alice)")
	assert.Contains(t, body, `action="/products/delete/1"`)
}

func TestListProducts_ExpiredToken(t *testing.T) {
	srv, backend, store := newTestServer()
	cookie := loggedIn(t, store)
	backend.On("ListProducts", mock.Anything, testToken).
		Return(nil, &client.APIError{Status: http.StatusUnauthorized, Code: model.ErrCodeInvalidToken, Message: "invalid or expired token"})

	rec := do(srv, http.MethodGet, "/products/list", nil, cookie)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "session expired")
	assert.Zero(t, store.len())
}

func TestAddProduct(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		srv, backend, store := newTestServer()
		cookie := loggedIn(t, store)
		backend.On("AddProduct", mock.Anything, testToken, mock.MatchedBy(func(req model.ProductRequest) bool {
			return req.Name == "Widget" && req.Price.Equal(decimal.RequireFromString("9.99")) && req.Quantity == 3 && req.Category == "Tools"
		})).Return(&model.Product{ID: 1, Name: "Widget"}, nil)

		rec := do(srv, http.MethodPost, "/products/add", url.Values{
			"name": {"Widget"}, "price": {"9.99"}, "quantity": {"3"}, "category": {"Tools"},
		}, cookie)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Product &#34;Widget&#34; added.")
		backend.AssertExpectations(t)
	})

	t.Run("Unparseable price is rejected locally", func(t *testing.T) {
		srv, backend, store := newTestServer()
		cookie := loggedIn(t, store)

		rec := do(srv, http.MethodPost, "/products/add", url.Values{
			"name": {"Widget"}, "price": {"cheap"}, "quantity": {"3"}, "category": {"Tools"},
		}, cookie)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "price must be a number")
		backend.AssertNotCalled(t, "AddProduct", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Forbidden for customers", func(t *testing.T) {
		srv, backend, store := newTestServer()
		cookie := loggedIn(t, store)
		backend.On("AddProduct", mock.Anything, testToken, mock.Anything).
			Return(nil, &client.APIError{Status: http.StatusForbidden, Code: model.ErrCodeForbidden, Message: "insufficient role for this operation"})

		rec := do(srv, http.MethodPost, "/products/add", url.Values{
			"name": {"Widget"}, "price": {"9.99"}, "quantity": {"3"}, "category": {"Tools"},
		}, cookie)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), "Failed to add product: insufficient role for this operation")
	})
}

func TestEditProduct(t *testing.T) {
	srv, backend, store := newTestServer()
	cookie := loggedIn(t, store)
	backend.On("ListProducts", mock.Anything, testToken).Return([]model.Product{
		{ID: 4, Name: "Widget", Price: decimal.RequireFromString("9.99"), Quantity: 10, Category: "Tools"},
	}, nil)

	rec := do(srv, http.MethodGet, "/products/edit/4", nil, cookie)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="9.99"`)
	assert.Contains(t, rec.Body.String(), `action="/products/edit/4"`)

	rec = do(srv, http.MethodGet, "/products/edit/99", nil, cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	backend.On("UpdateProduct", mock.Anything, testToken, int64(4), mock.MatchedBy(func(req model.ProductRequest) bool {
		return req.Price.Equal(decimal.RequireFromString("19.99"))
	})).Return(&model.Product{ID: 4}, nil)

	rec = do(srv, http.MethodPost, "/products/edit/4", url.Values{
		"name": {"Widget"}, "price": {"19.99"}, "quantity": {"10"}, "category": {"Tools"},
	}, cookie)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/products/list", rec.Header().Get("Location"))
}

func TestDeleteProduct(t *testing.T) {
	t.Run("Success redirects to list", func(t *testing.T) {
		srv, backend, store := newTestServer()
		cookie := loggedIn(t, store)
		backend.On("DeleteProduct", mock.Anything, testToken, int64(3)).Return(nil)

		rec := do(srv, http.MethodPost, "/products/delete/3", nil, cookie)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/products/list", rec.Header().Get("Location"))
	})

	t.Run("Product in use", func(t *testing.T) {
		srv, backend, store := newTestServer()
		cookie := loggedIn(t, store)
		backend.On("DeleteProduct", mock.Anything, testToken, int64(3)).
			Return(&client.APIError{Status: http.StatusConflict, Code: model.ErrCodeProductInUse, Message: "product is referenced by existing orders"})

		rec := do(srv, http.MethodPost, "/products/delete/3", nil, cookie)

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), "product is referenced by existing orders")
	})

	t.Run("Invalid id", func(t *testing.T) {
		srv, backend, store := newTestServer()
		cookie := loggedIn(t, store)

		rec := do(srv, http.MethodPost, "/products/delete/abc", nil, cookie)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		backend.AssertNotCalled(t, "DeleteProduct", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestListOrders(t *testing.T) {
	srv, backend, store := newTestServer()
	cookie := loggedIn(t, store)
	backend.On("ListOrders", mock.Anything, testToken).Return([]model.Order{
		{
			ID:        7,
			Product:   model.Product{ID: 1, Name: "Widget"},
			Quantity:  3,
			OrderDate: model.NewDate(2024, time.January, 15),
			TotalCost: decimal.RequireFromString("29.97"),
		},
	}, nil)

	rec := do(srv, http.MethodGet, "/orders/list", nil, cookie)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "15-01-2024")
	assert.Contains(t, body, "29.97")
	assert.Contains(t, body, `action="/orders/delete/7"`)
}

func TestAddOrder(t *testing.T) {
	t.Run("Forwards the form date unchanged", func(t *testing.T) {
		srv, backend, store := newTestServer()
		cookie := loggedIn(t, store)
		backend.On("ListProducts", mock.Anything, testToken).Return([]model.Product{{ID: 1, Name: "Widget"}}, nil)
		backend.On("AddOrder", mock.Anything, testToken, model.OrderRequest{
			ProductID: 1,
			Quantity:  3,
			OrderDate: "2024-01-15",
		}).Return(&model.Order{ID: 9, TotalCost: decimal.RequireFromString("29.97")}, nil)

		rec := do(srv, http.MethodPost, "/orders/add", url.Values{
			"productId": {"1"}, "quantity": {"3"}, "orderDate": {"2024-01-15"},
		}, cookie)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Order 9 added, total 29.97.")
		backend.AssertExpectations(t)
	})

	t.Run("Unknown product", func(t *testing.T) {
		srv, backend, store := newTestServer()
		cookie := loggedIn(t, store)
		backend.On("ListProducts", mock.Anything, testToken).Return(nil, errors.New("timeout"))
		backend.On("AddOrder", mock.Anything, testToken, mock.Anything).
			Return(nil, &client.APIError{Status: http.StatusNotFound, Code: model.ErrCodeProductNotFound, Message: "product not found"})

		rec := do(srv, http.MethodPost, "/orders/add", url.Values{
			"productId": {"42"}, "quantity": {"1"}, "orderDate": {"2024-01-15"},
		}, cookie)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "Failed to add order: product not found")
		assert.Contains(t, rec.Body.String(), `value="42"`)
	})

	t.Run("Missing product selection", func(t *testing.T) {
		srv, backend, store := newTestServer()
		cookie := loggedIn(t, store)
		backend.On("ListProducts", mock.Anything, testToken).Return([]model.Product{}, nil)

		rec := do(srv, http.MethodPost, "/orders/add", url.Values{
			"quantity": {"1"}, "orderDate": {"2024-01-15"},
		}, cookie)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "a product must be selected")
		backend.AssertNotCalled(t, "AddOrder", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestDeleteOrder_ForbiddenForCustomer(t *testing.T) {
	srv, backend, store := newTestServer()
	cookie := loggedIn(t, store)
	backend.On("DeleteOrder", mock.Anything, testToken, int64(5)).
		Return(&client.APIError{Status: http.StatusForbidden, Code: model.ErrCodeForbidden, Message: "insufficient role for this operation"})

	rec := do(srv, http.MethodPost, "/orders/delete/5", nil, cookie)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to delete order: insufficient role for this operation")
	// The session survives a permission error.
	assert.Equal(t, 1, store.len())
}

func TestStatistics(t *testing.T) {
	srv, backend, store := newTestServer()
	cookie := loggedIn(t, store)
	backend.On("Statistics", mock.Anything, testToken).Return(model.OrderStatistics{
		"2024-01-16": 1,
		"2024-01-15": 2,
	}, nil)

	rec := do(srv, http.MethodGet, "/orders/statistics", nil, cookie)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	first := strings.Index(body, "2024-01-15")
	second := strings.Index(body, "2024-01-16")
	require.True(t, first >= 0 && second >= 0)
	assert.Less(t, first, second)
}

func TestAboutAndRoot(t *testing.T) {
	srv, _, _ := newTestServer()

	rec := do(srv, http.MethodGet, "/about", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(srv, http.MethodGet, "/", nil, nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/dashboard/main_dashboard", rec.Header().Get("Location"))
}

func TestSortedStatistics(t *testing.T) {
	rows := sortedStatistics(model.OrderStatistics{"2024-02-01": 1, "2023-12-31": 4})

	require.Len(t, rows, 2)
	assert.Equal(t, dayCount{Date: "2023-12-31", Count: 4}, rows[0])
	assert.Equal(t, dayCount{Date: "2024-02-01", Count: 1}, rows[1])
}
