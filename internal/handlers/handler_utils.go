package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"shift_scheduler_backend/internal/middleware"
	"shift_scheduler_backend/internal/services"
	"shift_scheduler_backend/pkg/utils"
)

// principalFrom builds the caller from the values the session middleware set.
func principalFrom(c *gin.Context) services.Principal {
	return services.Principal{
		UserID:   c.GetString(middleware.UserIDKey),
		Username: c.GetString(middleware.UsernameKey),
		Role:     c.GetString(middleware.UserRoleKey),
	}
}

// bindFieldErrors converts binding validation failures into a field map keyed
// by the json name of each field. ok is false for any other binding error.
func bindFieldErrors(err error, obj interface{}) (fields map[string]string, ok bool) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, false
	}
	t := reflect.TypeOf(obj)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	fields = make(map[string]string, len(verrs))
	for _, fe := range verrs {
		name := fe.Field()
		if sf, found := t.FieldByName(fe.StructField()); found {
			if tag := strings.Split(sf.Tag.Get("json"), ",")[0]; tag != "" && tag != "-" {
				name = tag
			}
		}
		fields[name] = validationMessage(fe)
	}
	return fields, true
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", fe.Field())
	case "email":
		return fmt.Sprintf("The %s field is not a valid e-mail address.", fe.Field())
	case "min", "gte":
		return fmt.Sprintf("The %s field must be at least %s.", fe.Field(), fe.Param())
	case "max", "lte":
		return fmt.Sprintf("The %s field must be at most %s.", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("The %s field must be greater than %s.", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("The %s field is invalid.", fe.Field())
}

// respondBindError answers a failed ShouldBind with 400, listing field
// errors when the failure came from validation.
func respondBindError(c *gin.Context, err error, obj interface{}, op string) {
	apiErr := utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload.", err.Error())
	if fields, ok := bindFieldErrors(err, obj); ok {
		apiErr.Message = "Input validation failed"
		apiErr.Details = ""
		apiErr.FieldErrors = fields
	}
	utils.LogWarn(err, op+": failed to bind request")
	utils.RespondWithError(c, apiErr)
}

// respondValidationError answers with the field errors of a service ValidationError.
func respondValidationError(c *gin.Context, verr *services.ValidationError) {
	apiErr := utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Input validation failed", "")
	apiErr.FieldErrors = verr.Fields
	utils.RespondWithError(c, apiErr)
}

func respondForbidden(c *gin.Context, err error) {
	utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "You are not allowed to modify this record.", err.Error()))
}

func respondAccountGone(c *gin.Context, err error) {
	utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Your account no longer exists. Sign in again.", err.Error()))
}

func respondNotFound(c *gin.Context, message string) {
	utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, message, ""))
}
