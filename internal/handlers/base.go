// Package handlers maps HTTP routes onto single store operations and shapes
// the JSON envelope: {message, data?, errors?}, plus pagination metadata on
// list endpoints.
package handlers

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const defaultPerPage = 15

type pagination struct {
	CurrentPage int   `json:"current_page"`
	LastPage    int   `json:"last_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	From        int   `json:"from"`
	To          int   `json:"to"`
}

func respond(c *gin.Context, code int, message string, data interface{}) {
	body := gin.H{"message": message}
	if data != nil {
		body["data"] = data
	}
	c.JSON(code, body)
}

func respondError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"message": message})
}

func respondFieldErrors(c *gin.Context, errs map[string][]string) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"message": "The given data was invalid.",
		"errors":  errs,
	})
}

func respondPaginated(c *gin.Context, message string, data interface{}, meta pagination) {
	c.JSON(http.StatusOK, gin.H{
		"message":    message,
		"data":       data,
		"pagination": meta,
	})
}

func respondInternal(c *gin.Context) {
	respondError(c, http.StatusInternalServerError, "internal server error")
}

// bindingError converts a failed bind into the 422 field-error envelope.
func bindingError(c *gin.Context, err error) {
	if verrs, ok := err.(validator.ValidationErrors); ok {
		fields := make(map[string][]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = append(fields[fe.Field()], fieldMessage(fe))
		}
		respondFieldErrors(c, fields)
		return
	}
	respondError(c, http.StatusUnprocessableEntity, "malformed request body")
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", fe.Field())
	case "email":
		return fmt.Sprintf("The %s must be a valid email address.", fe.Field())
	case "min":
		return fmt.Sprintf("The %s must be at least %s characters.", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("The %s may not be greater than %s characters.", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("The %s field is invalid.", fe.Field())
	}
}

// pageParams reads ?page and ?per_page, clamping per_page to 1..100.
func pageParams(c *gin.Context) (page, perPage int) {
	page = 1
	if p, err := strconv.Atoi(c.Query("page")); err == nil && p > 0 {
		page = p
	}
	perPage = defaultPerPage
	if pp, err := strconv.Atoi(c.Query("per_page")); err == nil && pp > 0 {
		perPage = pp
	}
	if perPage > 100 {
		perPage = 100
	}
	return page, perPage
}

// pageMeta computes the boundary metadata for an offset-paginated result.
// from/to are zero when the page holds no items.
func pageMeta(page, perPage int, total int64, count int) pagination {
	lastPage := int(math.Ceil(float64(total) / float64(perPage)))
	if lastPage == 0 {
		lastPage = 1
	}
	meta := pagination{
		CurrentPage: page,
		LastPage:    lastPage,
		PerPage:     perPage,
		Total:       total,
	}
	if count > 0 {
		meta.From = (page-1)*perPage + 1
		meta.To = (page-1)*perPage + count
	}
	return meta
}
