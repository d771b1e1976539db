package response

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	appErrors "github.com/noah-isme/scanova-console/pkg/errors"
)

// Detail is the error body of the Scanova API.
type Detail struct {
	Detail interface{} `json:"detail"`
}

// FieldError is one entry of a 422 detail list.
type FieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// JSON writes data as the bare response body.
func JSON(c *gin.Context, status int, data interface{}) {
	c.Header("Cache-Control", "no-store")
	c.JSON(status, data)
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data)
}

// Message responds with a {"message": ...} body.
func Message(c *gin.Context, status int, message string) {
	JSON(c, status, gin.H{"message": message})
}

// Error writes err as {"detail": message} with the status it carries.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	status := appErr.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	c.Header("Cache-Control", "no-store")
	c.AbortWithStatusJSON(status, Detail{Detail: appErr.Message})
}

// ValidationError writes a 422 with one entry per failed field.
func ValidationError(c *gin.Context, err error) {
	var items []FieldError
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			items = append(items, FieldError{
				Loc:  []string{"body", fe.Field()},
				Msg:  fieldMessage(fe),
				Type: fieldType(fe),
			})
		}
	} else {
		items = append(items, FieldError{Loc: []string{"body"}, Msg: "Invalid JSON body", Type: "value_error.jsondecode"})
	}
	c.Header("Cache-Control", "no-store")
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, Detail{Detail: items})
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Field required"
	case "min":
		return fmt.Sprintf("String should have at least %s characters", fe.Param())
	case "oneof":
		return "Input should be " + strings.Join(strings.Fields(fe.Param()), " or ")
	case "email":
		return "value is not a valid email address"
	default:
		return "Invalid value"
	}
}

func fieldType(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "missing"
	case "min":
		return "string_too_short"
	case "oneof":
		return "enum"
	default:
		return "value_error"
	}
}
