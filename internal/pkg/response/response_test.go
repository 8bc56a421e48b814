package response

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInternalError_HidesDetailAndRecordsError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	var recorded []*gin.Error
	r.Use(func(c *gin.Context) {
		c.Next()
		recorded = c.Errors
	})
	r.GET("/", func(c *gin.Context) {
		InternalError(c, errors.New("Error 1146 (42S02): Table 'sakila.film_extended_view' doesn't exist"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"ok":0,"code":500,"message":"Internal Server Error"}`, w.Body.String())
	require.Len(t, recorded, 1)
	assert.Contains(t, recorded[0].Error(), "42S02")
}

func TestPaged_NilSliceBecomesEmptyArray(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", func(c *gin.Context) {
		var items []string
		Paged(c, items, NewPagination(10, 10, 0))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.JSONEq(t, `{"data":[],"pagination":{"offset":10,"size":10,"count":0,"has_next_page":false}}`, w.Body.String())
}
