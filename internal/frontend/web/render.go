package web

import (
	"html/template"
	"sort"

	"store-manager/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

var templateFuncs = template.FuncMap{
	"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
}

// render executes a page template, adding the logged-in username when present.
func (s *Server) render(c *gin.Context, status int, page string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if sess := currentSession(c); sess != nil {
		data["username"] = sess.Username
	}
	c.HTML(status, page, data)
}

func (s *Server) renderLogin(c *gin.Context, status int, msg string) {
	data := gin.H{"title": "Login"}
	if msg != "" {
		data["error"] = msg
	}
	c.HTML(status, "login.html", data)
}

// dayCount is one row of the statistics table.
type dayCount struct {
	Date  string
	Count int
}

// sortedStatistics orders statistics by date, oldest first.
func sortedStatistics(stats model.OrderStatistics) []dayCount {
	rows := make([]dayCount, 0, len(stats))
	for day, count := range stats {
		rows = append(rows, dayCount{Date: day, Count: count})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Date < rows[j].Date })
	return rows
}
