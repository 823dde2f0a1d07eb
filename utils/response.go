package utils

import "github.com/labstack/echo/v4"

// Response is the uniform JSON envelope. Errors carry only success=false
// and a message; internals never leak past the handler.
type Response struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Pages int64 `json:"pages"`
}

func Success(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, Response{Success: true, Data: data})
}

func SuccessMessage(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, Response{Success: true, Message: message, Data: data})
}

func Paginated(c echo.Context, status int, data interface{}, p Pagination) error {
	return c.JSON(status, Response{Success: true, Data: data, Pagination: &p})
}

func Error(c echo.Context, status int, message string) error {
	return c.JSON(status, Response{Success: false, Message: message})
}
