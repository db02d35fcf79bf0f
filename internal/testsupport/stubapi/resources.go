package stubapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/storegate/backoffice/internal/core/domain"
)

// ── products ─────────────────────────────────────────────────────────────────

func (b *Backend) listProducts(c echo.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.fail["products"] {
		return detail(c, http.StatusInternalServerError, "products unavailable")
	}

	name := strings.ToLower(c.QueryParam("name"))
	categoryID, _ := strconv.ParseInt(c.QueryParam("category_id"), 10, 64)

	out := make([]domain.Product, 0, len(b.products))
	for _, p := range b.products {
		if name != "" && !strings.Contains(strings.ToLower(p.Name), name) {
			continue
		}
		if categoryID > 0 && p.CategoryID != categoryID {
			continue
		}
		out = append(out, p)
	}
	return ok(c, http.StatusOK, out)
}

func (b *Backend) getProduct(c echo.Context) error {
	id, _ := strconv.ParseInt(c.Param("id"), 10, 64)

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, p := range b.products {
		if p.ID == id {
			return ok(c, http.StatusOK, p)
		}
	}
	return detail(c, http.StatusNotFound, "product not found")
}

func (b *Backend) createProduct(c echo.Context) error {
	var in domain.Product
	if err := c.Bind(&in); err != nil {
		return detail(c, http.StatusBadRequest, "invalid payload")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	in.ID = b.nextID
	in.IsActive = true
	in.CreatedAt = time.Now().UTC()
	in.UpdatedAt = in.CreatedAt
	b.products = append(b.products, in)
	return ok(c, http.StatusCreated, in)
}

func (b *Backend) updateProduct(c echo.Context) error {
	id, _ := strconv.ParseInt(c.Param("id"), 10, 64)
	var in domain.Product
	if err := c.Bind(&in); err != nil {
		return detail(c, http.StatusBadRequest, "invalid payload")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for i, p := range b.products {
		if p.ID == id {
			in.ID = id
			in.CreatedAt = p.CreatedAt
			in.UpdatedAt = time.Now().UTC()
			b.products[i] = in
			return ok(c, http.StatusOK, in)
		}
	}
	return detail(c, http.StatusNotFound, "product not found")
}

func (b *Backend) updateStock(c echo.Context) error {
	id, _ := strconv.ParseInt(c.Param("id"), 10, 64)
	var in struct {
		StockQuantity int `json:"stock_quantity"`
	}
	if err := c.Bind(&in); err != nil {
		return detail(c, http.StatusBadRequest, "invalid payload")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.products {
		if b.products[i].ID == id {
			b.products[i].StockQuantity = in.StockQuantity
			b.products[i].UpdatedAt = time.Now().UTC()
			return ok(c, http.StatusOK, b.products[i])
		}
	}
	return detail(c, http.StatusNotFound, "product not found")
}

func (b *Backend) deleteProduct(c echo.Context) error {
	id, _ := strconv.ParseInt(c.Param("id"), 10, 64)

	b.mu.Lock()
	defer b.mu.Unlock()
	for i, p := range b.products {
		if p.ID == id {
			b.products = append(b.products[:i], b.products[i+1:]...)
			return ok(c, http.StatusOK, nil)
		}
	}
	return detail(c, http.StatusNotFound, "product not found")
}

// ── categories ───────────────────────────────────────────────────────────────

func (b *Backend) listCategories(c echo.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.fail["categories"] {
		return detail(c, http.StatusInternalServerError, "categories unavailable")
	}
	return ok(c, http.StatusOK, b.categories)
}

func (b *Backend) createCategory(c echo.Context) error {
	var in domain.Category
	if err := c.Bind(&in); err != nil {
		return detail(c, http.StatusBadRequest, "invalid payload")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	in.ID = b.nextID
	in.Slug = strings.ToLower(strings.ReplaceAll(in.Name, " ", "-"))
	in.CreatedAt = time.Now().UTC()
	in.UpdatedAt = in.CreatedAt
	b.categories = append(b.categories, in)
	return ok(c, http.StatusCreated, in)
}

func (b *Backend) deleteCategory(c echo.Context) error {
	id, _ := strconv.ParseInt(c.Param("id"), 10, 64)

	b.mu.Lock()
	defer b.mu.Unlock()
	for i, cat := range b.categories {
		if cat.ID == id {
			b.categories = append(b.categories[:i], b.categories[i+1:]...)
			return ok(c, http.StatusOK, nil)
		}
	}
	return detail(c, http.StatusNotFound, "category not found")
}

// ── orders ───────────────────────────────────────────────────────────────────

func (b *Backend) listOrders(c echo.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.fail["orders"] {
		return detail(c, http.StatusInternalServerError, "orders unavailable")
	}

	status := domain.OrderStatus(c.QueryParam("status"))
	out := make([]domain.Order, 0, len(b.orders))
	for _, o := range b.orders {
		if status != "" && o.Status != status {
			continue
		}
		out = append(out, o)
	}
	return ok(c, http.StatusOK, out)
}

func (b *Backend) createOrder(c echo.Context) error {
	var in struct {
		Items []struct {
			ProductID int64 `json:"product_id"`
			Quantity  int   `json:"quantity"`
		} `json:"items"`
	}
	if err := c.Bind(&in); err != nil || len(in.Items) == 0 {
		return detail(c, http.StatusBadRequest, "invalid payload")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now().UTC()
	b.nextID++
	order := domain.Order{ID: b.nextID, UserID: 2, Status: domain.OrderPending, CreatedAt: now, UpdatedAt: now}
	for _, item := range in.Items {
		var price float64
		for _, p := range b.products {
			if p.ID == item.ProductID {
				price = p.Price
				break
			}
		}
		b.nextID++
		order.Items = append(order.Items, domain.OrderItem{
			ID:        b.nextID,
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     price,
		})
		order.Total += price * float64(item.Quantity)
	}
	b.orders = append(b.orders, order)
	return ok(c, http.StatusCreated, order)
}

func (b *Backend) updateOrderStatus(c echo.Context) error {
	id, _ := strconv.ParseInt(c.Param("id"), 10, 64)
	var in struct {
		Status domain.OrderStatus `json:"status"`
	}
	if err := c.Bind(&in); err != nil {
		return detail(c, http.StatusBadRequest, "invalid payload")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.orders {
		if b.orders[i].ID == id {
			if !b.orders[i].Status.CanTransitionTo(in.Status) {
				return detail(c, http.StatusUnprocessableEntity, "invalid status transition")
			}
			b.orders[i].Status = in.Status
			b.orders[i].UpdatedAt = time.Now().UTC()
			return ok(c, http.StatusOK, b.orders[i])
		}
	}
	return detail(c, http.StatusNotFound, "order not found")
}

func (b *Backend) cancelOrder(c echo.Context) error {
	id, _ := strconv.ParseInt(c.Param("id"), 10, 64)

	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.orders {
		if b.orders[i].ID == id {
			b.orders[i].Status = domain.OrderCancelled
			b.orders[i].UpdatedAt = time.Now().UTC()
			return ok(c, http.StatusOK, nil)
		}
	}
	return detail(c, http.StatusNotFound, "order not found")
}

// ── users (admin only) ───────────────────────────────────────────────────────

func (b *Backend) listUsers(c echo.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.fail["users"] {
		return detail(c, http.StatusInternalServerError, "users unavailable")
	}

	name := strings.ToLower(c.QueryParam("name"))
	email := strings.ToLower(c.QueryParam("email"))
	out := make([]domain.User, 0, len(b.users))
	for _, u := range b.users {
		if name != "" && !strings.Contains(strings.ToLower(u.Name), name) {
			continue
		}
		if email != "" && !strings.Contains(strings.ToLower(u.Email), email) {
			continue
		}
		out = append(out, u)
	}
	return ok(c, http.StatusOK, out)
}

func (b *Backend) changeRole(c echo.Context) error {
	id, _ := strconv.ParseInt(c.Param("id"), 10, 64)
	var in struct {
		Role string `json:"role"`
	}
	if err := c.Bind(&in); err != nil {
		return detail(c, http.StatusBadRequest, "invalid payload")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.users {
		if b.users[i].ID == id {
			b.users[i].Role = in.Role
			b.users[i].UpdatedAt = time.Now().UTC()
			return ok(c, http.StatusOK, b.users[i])
		}
	}
	return detail(c, http.StatusNotFound, "user not found")
}

func (b *Backend) changeStatus(c echo.Context) error {
	id, _ := strconv.ParseInt(c.Param("id"), 10, 64)
	var in struct {
		IsActive bool `json:"is_active"`
	}
	if err := c.Bind(&in); err != nil {
		return detail(c, http.StatusBadRequest, "invalid payload")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.users {
		if b.users[i].ID == id {
			b.users[i].IsActive = in.IsActive
			b.users[i].UpdatedAt = time.Now().UTC()
			return ok(c, http.StatusOK, b.users[i])
		}
	}
	return detail(c, http.StatusNotFound, "user not found")
}

func (b *Backend) deleteUser(c echo.Context) error {
	id, _ := strconv.ParseInt(c.Param("id"), 10, 64)

	b.mu.Lock()
	defer b.mu.Unlock()
	for i, u := range b.users {
		if u.ID == id {
			b.users = append(b.users[:i], b.users[i+1:]...)
			return ok(c, http.StatusOK, nil)
		}
	}
	return detail(c, http.StatusNotFound, "user not found")
}
