package web

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"store-manager/internal/model"

	"github.com/gin-gonic/gin"
)

// orderForm is the order form as submitted. OrderDate stays in yyyy-MM-dd.
type orderForm struct {
	ProductID string
	Quantity  string
	OrderDate string
}

func (f orderForm) request() (model.OrderRequest, error) {
	productID, err := strconv.ParseInt(f.ProductID, 10, 64)
	if err != nil {
		return model.OrderRequest{}, fmt.Errorf("a product must be selected")
	}
	quantity, err := strconv.Atoi(f.Quantity)
	if err != nil {
		return model.OrderRequest{}, fmt.Errorf("quantity must be a whole number")
	}
	return model.OrderRequest{
		ProductID: productID,
		Quantity:  quantity,
		OrderDate: f.OrderDate,
	}, nil
}

func (s *Server) listOrders(c *gin.Context) {
	sess := currentSession(c)
	data := gin.H{"title": "Orders"}

	orders, err := s.backend.ListOrders(c.Request.Context(), sess.Token)
	if err != nil {
		s.backendFailed(c, "orders_list.html", "Failed to load orders: ", err, data)
		return
	}

	data["orders"] = orders
	s.render(c, http.StatusOK, "orders_list.html", data)
}

// orderFormData builds the order form page, including the product picker.
// A failure to list products only leaves the picker empty.
func (s *Server) orderFormData(c *gin.Context, token string, form orderForm) gin.H {
	data := gin.H{"title": "Add order", "form": form}
	products, err := s.backend.ListProducts(c.Request.Context(), token)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to load products for order form")
		return data
	}
	data["products"] = products
	return data
}

func (s *Server) addOrderPage(c *gin.Context) {
	sess := currentSession(c)
	s.render(c, http.StatusOK, "order_add.html", s.orderFormData(c, sess.Token, orderForm{}))
}

func (s *Server) addOrder(c *gin.Context) {
	sess := currentSession(c)
	form := orderForm{
		ProductID: strings.TrimSpace(c.PostForm("productId")),
		Quantity:  strings.TrimSpace(c.PostForm("quantity")),
		OrderDate: strings.TrimSpace(c.PostForm("orderDate")),
	}

	req, err := form.request()
	if err != nil {
		data := s.orderFormData(c, sess.Token, form)
		data["error"] = "Failed to add order: " + err.Error()
		s.render(c, http.StatusBadRequest, "order_add.html", data)
		return
	}

	order, err := s.backend.AddOrder(c.Request.Context(), sess.Token, req)
	if err != nil {
		s.backendFailed(c, "order_add.html", "Failed to add order: ", err, s.orderFormData(c, sess.Token, form))
		return
	}

	data := s.orderFormData(c, sess.Token, orderForm{})
	data["success"] = fmt.Sprintf("Order %d added, total %s.", order.ID, order.TotalCost.StringFixed(2))
	s.render(c, http.StatusOK, "order_add.html", data)
}

func (s *Server) deleteOrder(c *gin.Context) {
	sess := currentSession(c)
	id, ok := idParam(c)
	if !ok {
		s.render(c, http.StatusBadRequest, "orders_list.html", gin.H{"title": "Orders", "error": "invalid order id"})
		return
	}

	if err := s.backend.DeleteOrder(c.Request.Context(), sess.Token, id); err != nil {
		s.backendFailed(c, "orders_list.html", "Failed to delete order: ", err, gin.H{"title": "Orders"})
		return
	}

	c.Redirect(http.StatusSeeOther, "/orders/list")
}

func (s *Server) statistics(c *gin.Context) {
	sess := currentSession(c)
	data := gin.H{"title": "Order statistics"}

	stats, err := s.backend.Statistics(c.Request.Context(), sess.Token)
	if err != nil {
		s.backendFailed(c, "statistics.html", "Failed to load statistics: ", err, data)
		return
	}

	data["rows"] = sortedStatistics(stats)
	s.render(c, http.StatusOK, "statistics.html", data)
}
