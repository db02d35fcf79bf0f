// Package stubapi is an in-process fake of the back-office API for
// integration tests: credential login issuing HS256 bearer tokens, the
// identity endpoint, the resource collections with role gating, and
// per-resource failure injection to exercise degraded loads.
package stubapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/storegate/backoffice/internal/core/domain"
)

const tokenTTL = time.Hour

// Backend holds the fake API's state. All mutation goes through the
// mutex; handlers are safe under concurrent fetches.
type Backend struct {
	echo   *echo.Echo
	secret string

	mu         sync.Mutex
	nextID     int64
	users      []domain.User
	passwords  map[string]string // email → bcrypt hash
	products   []domain.Product
	categories []domain.Category
	orders     []domain.Order
	fail       map[string]bool
	counts     map[string]int

	// BareIdentity switches /users/me to the legacy bare response shape
	// (no envelope), which the gateway must tolerate.
	BareIdentity bool
}

// New creates a Backend seeded with an admin, a customer, and a small
// catalog. Passwords: admin@example.com/admin123, casey@example.com/customer123.
func New() *Backend {
	b := &Backend{
		secret:    "stub-secret",
		nextID:    100,
		passwords: map[string]string{},
		fail:      map[string]bool{},
		counts:    map[string]int{},
	}
	b.seed()

	e := echo.New()
	e.HideBanner = true
	e.Use(b.countRequests)

	e.POST("/api/v1/auth/login", b.login)

	api := e.Group("/api/v1", b.requireToken)
	api.GET("/users/me", b.currentUser)

	api.GET("/products", b.listProducts)
	api.GET("/products/:id", b.getProduct)
	api.POST("/products", b.createProduct)
	api.PUT("/products/:id", b.updateProduct)
	api.PATCH("/products/:id/stock", b.updateStock)
	api.DELETE("/products/:id", b.deleteProduct)

	api.GET("/categories", b.listCategories)
	api.POST("/categories", b.createCategory)
	api.DELETE("/categories/:id", b.deleteCategory)

	api.GET("/orders", b.listOrders)
	api.POST("/orders", b.createOrder)
	api.PATCH("/orders/:id/status", b.updateOrderStatus)
	api.DELETE("/orders/:id", b.cancelOrder)

	admin := api.Group("/users", b.requireRole(domain.RoleAdmin))
	admin.GET("", b.listUsers)
	admin.PATCH("/:id/role", b.changeRole)
	admin.PATCH("/:id/status", b.changeStatus)
	admin.DELETE("/:id", b.deleteUser)

	b.echo = e
	return b
}

// Server starts an httptest server over the backend. The caller closes it.
func (b *Backend) Server() *httptest.Server {
	return httptest.NewServer(b.echo)
}

// SetFail makes every fetch of the named resource (products,
// categories, orders, users) answer 500 until reset.
func (b *Backend) SetFail(resource string, fail bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fail[resource] = fail
}

// Requests returns how many requests matched the routed pattern, e.g.
// "GET /api/v1/products".
func (b *Backend) Requests(route string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.counts[route]
}

// ResourceRequests sums requests across the collection list routes.
func (b *Backend) ResourceRequests() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	total := 0
	for _, route := range []string{
		"GET /api/v1/products",
		"GET /api/v1/categories",
		"GET /api/v1/orders",
		"GET /api/v1/users",
	} {
		total += b.counts[route]
	}
	return total
}

func (b *Backend) seed() {
	now := time.Now().UTC()
	hash := func(pw string) string {
		h, _ := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
		return string(h)
	}
	b.users = []domain.User{
		{ID: 1, Name: "Admin One", Email: "admin@example.com", Role: domain.RoleAdmin, IsActive: true, CreatedAt: now, UpdatedAt: now},
		{ID: 2, Name: "Casey Customer", Email: "casey@example.com", Role: domain.RoleCustomer, IsActive: true, CreatedAt: now, UpdatedAt: now},
	}
	b.passwords["admin@example.com"] = hash("admin123")
	b.passwords["casey@example.com"] = hash("customer123")

	b.categories = []domain.Category{
		{ID: 10, Name: "Books", Slug: "books", CreatedAt: now, UpdatedAt: now},
		{ID: 11, Name: "Games", Slug: "games", CreatedAt: now, UpdatedAt: now},
	}
	b.products = []domain.Product{
		{ID: 20, Name: "Go in Practice", Price: 35.50, StockQuantity: 12, CategoryID: 10, IsActive: true, CreatedAt: now, UpdatedAt: now},
		{ID: 21, Name: "Chess Set", Price: 59.90, StockQuantity: 3, CategoryID: 11, IsActive: true, CreatedAt: now, UpdatedAt: now},
		{ID: 22, Name: "Legacy SKU", Price: 5.00, StockQuantity: 0, CategoryID: 11, IsActive: false, CreatedAt: now, UpdatedAt: now},
	}
	b.orders = []domain.Order{
		{ID: 30, UserID: 2, Total: 35.50, Status: domain.OrderPending, CreatedAt: now, UpdatedAt: now,
			Items: []domain.OrderItem{{ID: 41, OrderID: 30, ProductID: 20, Quantity: 1, Price: 35.50}}},
		{ID: 31, UserID: 2, Total: 119.80, Status: domain.OrderPaid, CreatedAt: now, UpdatedAt: now,
			Items: []domain.OrderItem{{ID: 42, OrderID: 31, ProductID: 21, Quantity: 2, Price: 59.90}}},
		{ID: 32, UserID: 2, Total: 5.00, Status: domain.OrderCancelled, CreatedAt: now, UpdatedAt: now,
			Items: []domain.OrderItem{{ID: 43, OrderID: 32, ProductID: 22, Quantity: 1, Price: 5.00}}},
	}
}

// ── middleware ───────────────────────────────────────────────────────────────

func (b *Backend) countRequests(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		b.mu.Lock()
		b.counts[c.Request().Method+" "+c.Path()]++
		b.mu.Unlock()
		return next(c)
	}
}

// requireToken validates the bearer token and stores the caller's
// identity in the request context.
func (b *Backend) requireToken(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get("Authorization")
		if header == "" {
			return detail(c, http.StatusUnauthorized, "missing authorization header")
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return detail(c, http.StatusUnauthorized, "invalid authorization header")
		}

		claims := jwt.MapClaims{}
		tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (any, error) {
			if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return []byte(b.secret), nil
		})
		if err != nil || !tkn.Valid {
			return detail(c, http.StatusUnauthorized, "invalid token")
		}

		c.Set("email", claims["sub"])
		c.Set("role", claims["role"])
		return next(c)
	}
}

func (b *Backend) requireRole(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if _, ok := allowed[role]; !ok {
				return detail(c, http.StatusForbidden, "forbidden")
			}
			return next(c)
		}
	}
}

// ── auth and identity ────────────────────────────────────────────────────────

func (b *Backend) login(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return detail(c, http.StatusBadRequest, "invalid payload")
	}

	b.mu.Lock()
	hash, known := b.passwords[req.Email]
	user, found := b.findUserByEmail(req.Email)
	b.mu.Unlock()

	if !known || !found || bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)) != nil {
		return detail(c, http.StatusUnauthorized, "invalid email or password")
	}

	claims := jwt.MapClaims{
		"sub":  user.Email,
		"role": user.Role,
		"exp":  time.Now().Add(tokenTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(b.secret))
	if err != nil {
		return detail(c, http.StatusInternalServerError, "token signing failed")
	}

	return ok(c, http.StatusOK, map[string]string{
		"access_token": token,
		"token_type":   "bearer",
	})
}

func (b *Backend) currentUser(c echo.Context) error {
	email, _ := c.Get("email").(string)

	b.mu.Lock()
	user, found := b.findUserByEmail(email)
	bare := b.BareIdentity
	b.mu.Unlock()

	if !found {
		return detail(c, http.StatusUnauthorized, "unknown user")
	}
	if bare {
		return c.JSON(http.StatusOK, user)
	}
	return ok(c, http.StatusOK, user)
}

// findUserByEmail must be called with the mutex held.
func (b *Backend) findUserByEmail(email string) (domain.User, bool) {
	for _, u := range b.users {
		if u.Email == email {
			return u, true
		}
	}
	return domain.User{}, false
}

// ── envelope helpers ─────────────────────────────────────────────────────────

func ok(c echo.Context, code int, data any) error {
	return c.JSON(code, map[string]any{"success": true, "data": data})
}

func detail(c echo.Context, code int, msg string) error {
	return c.JSON(code, map[string]string{"detail": msg})
}
