// Package httpbind binds path and query parameters the way oapi-codegen generated gin wrappers do.
package httpbind

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/Apurer/daycare-api/internal/shared/actor"
	"github.com/Apurer/daycare-api/internal/shared/calendar"
)

// PathInt64 binds a simple-style integer path parameter.
func PathInt64(c *gin.Context, name string) (int64, error) {
	var value int64
	err := runtime.BindStyledParameterWithOptions("simple", name, c.Param(name), &value, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		return 0, fmt.Errorf("invalid format for parameter %s: %w", name, err)
	}
	return value, nil
}

// QueryDate binds a form-style full-date query parameter. A missing optional parameter yields the zero time.
func QueryDate(c *gin.Context, name string, required bool) (time.Time, error) {
	if required {
		var value openapi_types.Date
		if err := runtime.BindQueryParameter("form", true, true, name, c.Request.URL.Query(), &value); err != nil {
			return time.Time{}, fmt.Errorf("invalid format for parameter %s: %w", name, err)
		}
		return calendar.Day(value.Time), nil
	}
	var value *openapi_types.Date
	if err := runtime.BindQueryParameter("form", true, false, name, c.Request.URL.Query(), &value); err != nil {
		return time.Time{}, fmt.Errorf("invalid format for parameter %s: %w", name, err)
	}
	if value == nil {
		return time.Time{}, nil
	}
	return calendar.Day(value.Time), nil
}

// Date converts a body date into a calendar day.
func Date(value openapi_types.Date) time.Time {
	return calendar.Day(value.Time)
}

// ToDate renders a calendar day for response bodies.
func ToDate(t time.Time) openapi_types.Date {
	return openapi_types.Date{Time: calendar.Day(t)}
}

// Actor returns the caller attached by the authentication middleware. Anonymous requests yield the zero actor.
func Actor(c *gin.Context) actor.Actor {
	a, _ := actor.FromContext(c.Request.Context())
	return a
}
