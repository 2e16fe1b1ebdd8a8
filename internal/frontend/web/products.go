package web

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"store-manager/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// productForm is the product add/edit form as submitted.
type productForm struct {
	ID       int64
	Name     string
	Price    string
	Quantity string
	Category string
}

func productFormFrom(c *gin.Context) productForm {
	return productForm{
		Name:     strings.TrimSpace(c.PostForm("name")),
		Price:    strings.TrimSpace(c.PostForm("price")),
		Quantity: strings.TrimSpace(c.PostForm("quantity")),
		Category: strings.TrimSpace(c.PostForm("category")),
	}
}

// request converts the form to a backend request. Range checks are left to the backend.
func (f productForm) request() (model.ProductRequest, error) {
	price, err := decimal.NewFromString(f.Price)
	if err != nil {
		return model.ProductRequest{}, fmt.Errorf("price must be a number")
	}
	quantity, err := strconv.Atoi(f.Quantity)
	if err != nil {
		return model.ProductRequest{}, fmt.Errorf("quantity must be a whole number")
	}
	return model.ProductRequest{
		Name:     f.Name,
		Price:    &price,
		Quantity: quantity,
		Category: f.Category,
	}, nil
}

func formFromProduct(p model.Product) productForm {
	return productForm{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price.StringFixed(2),
		Quantity: strconv.Itoa(p.Quantity),
		Category: p.Category,
	}
}

func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	return id, err == nil && id > 0
}

func (s *Server) listProducts(c *gin.Context) {
	sess := currentSession(c)
	data := gin.H{"title": "Products"}

	products, err := s.backend.ListProducts(c.Request.Context(), sess.Token)
	if err != nil {
		s.backendFailed(c, "products_list.html", "Failed to load products: ", err, data)
		return
	}

	data["products"] = products
	s.render(c, http.StatusOK, "products_list.html", data)
}

func (s *Server) addProductPage(c *gin.Context) {
	s.render(c, http.StatusOK, "product_form.html", gin.H{
		"title":  "Add product",
		"action": "/products/add",
		"form":   productForm{},
	})
}

func (s *Server) addProduct(c *gin.Context) {
	sess := currentSession(c)
	form := productFormFrom(c)
	data := gin.H{"title": "Add product", "action": "/products/add", "form": form}

	req, err := form.request()
	if err != nil {
		data["error"] = "Failed to add product: " + err.Error()
		s.render(c, http.StatusBadRequest, "product_form.html", data)
		return
	}

	product, err := s.backend.AddProduct(c.Request.Context(), sess.Token, req)
	if err != nil {
		s.backendFailed(c, "product_form.html", "Failed to add product: ", err, data)
		return
	}

	data["form"] = productForm{}
	data["success"] = fmt.Sprintf("Product %q added.", product.Name)
	s.render(c, http.StatusOK, "product_form.html", data)
}

func (s *Server) editProductPage(c *gin.Context) {
	sess := currentSession(c)
	id, ok := idParam(c)
	if !ok {
		s.render(c, http.StatusBadRequest, "products_list.html", gin.H{"title": "Products", "error": "invalid product id"})
		return
	}

	products, err := s.backend.ListProducts(c.Request.Context(), sess.Token)
	if err != nil {
		s.backendFailed(c, "products_list.html", "Failed to load product: ", err, gin.H{"title": "Products"})
		return
	}

	for _, p := range products {
		if p.ID == id {
			s.render(c, http.StatusOK, "product_form.html", gin.H{
				"title":  "Edit product",
				"action": fmt.Sprintf("/products/edit/%d", id),
				"form":   formFromProduct(p),
			})
			return
		}
	}

	s.render(c, http.StatusNotFound, "products_list.html", gin.H{
		"title":    "Products",
		"products": products,
		"error":    "product not found",
	})
}

func (s *Server) editProduct(c *gin.Context) {
	sess := currentSession(c)
	id, ok := idParam(c)
	if !ok {
		s.render(c, http.StatusBadRequest, "products_list.html", gin.H{"title": "Products", "error": "invalid product id"})
		return
	}

	form := productFormFrom(c)
	form.ID = id
	data := gin.H{"title": "Edit product", "action": fmt.Sprintf("/products/edit/%d", id), "form": form}

	req, err := form.request()
	if err != nil {
		data["error"] = "Failed to update product: " + err.Error()
		s.render(c, http.StatusBadRequest, "product_form.html", data)
		return
	}

	if _, err := s.backend.UpdateProduct(c.Request.Context(), sess.Token, id, req); err != nil {
		s.backendFailed(c, "product_form.html", "Failed to update product: ", err, data)
		return
	}

	c.Redirect(http.StatusSeeOther, "/products/list")
}

func (s *Server) deleteProduct(c *gin.Context) {
	sess := currentSession(c)
	id, ok := idParam(c)
	if !ok {
		s.render(c, http.StatusBadRequest, "products_list.html", gin.H{"title": "Products", "error": "invalid product id"})
		return
	}

	if err := s.backend.DeleteProduct(c.Request.Context(), sess.Token, id); err != nil {
		s.backendFailed(c, "products_list.html", "Failed to delete product: ", err, gin.H{"title": "Products"})
		return
	}

	c.Redirect(http.StatusSeeOther, "/products/list")
}
