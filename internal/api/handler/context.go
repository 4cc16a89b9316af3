package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/JefryM27/misitiofacil-Backend-sub000/internal/core/policy"
)

// ctxCaller extracts the auth claims injected by the Auth middleware and
// performs a fast-fail check before any service call: a non-empty role
// proves the middleware ran and resolved an identity.
func ctxCaller(c echo.Context) (policy.Caller, error) {
	role, _ := c.Get("role").(string)
	if role == "" {
		return policy.Caller{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	id, _ := c.Get("user_id").(string)
	if id == "" {
		return policy.Caller{}, echo.NewHTTPError(http.StatusUnauthorized, "token missing subject")
	}

	return policy.Caller{ID: id, Role: role, IsActive: true}, nil
}

// ctxCallerOptional is used by endpoints that serve both guests and
// authenticated callers: no claims yields the zero (anonymous) caller.
func ctxCallerOptional(c echo.Context) policy.Caller {
	role, _ := c.Get("role").(string)
	if role == "" {
		return policy.Caller{}
	}
	id, _ := c.Get("user_id").(string)
	return policy.Caller{ID: id, Role: role, IsActive: true}
}

// pageParams reads the page/limit query parameters with sane defaults.
func pageParams(c echo.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 {
		limit = 20
	}
	return page, limit
}
