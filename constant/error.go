package constant

import "net/http"

type ErrorType int

const (
	Successful ErrorType = iota
	ErrInternal
	ErrNotFound
	ErrInvalidRequest
	ErrUnauthorize
	ErrForbidden
	ErrInvalidOTP
	ErrNameRequired
	ErrBelowMinimumValue
	ErrEmptyCart
	ErrInsufficientStock
	ErrInvalidOrderStatus
)

var ErrorTypeMessage = map[ErrorType]string{
	Successful:            "success",
	ErrInternal:           "error internal",
	ErrNotFound:           "data not found",
	ErrInvalidRequest:     "invalid request",
	ErrUnauthorize:        "unauthorize request",
	ErrForbidden:          "admin access required",
	ErrInvalidOTP:         "invalid otp",
	ErrNameRequired:       "name is required for new users",
	ErrBelowMinimumValue:  "minimum product value should be 1000",
	ErrEmptyCart:          "cart is empty",
	ErrInsufficientStock:  "insufficient stock",
	ErrInvalidOrderStatus: "invalid order status",
}

var ErrorTypeHTTPCode = map[ErrorType]int{
	Successful:            http.StatusOK,
	ErrInternal:           http.StatusInternalServerError,
	ErrNotFound:           http.StatusNotFound,
	ErrInvalidRequest:     http.StatusBadRequest,
	ErrUnauthorize:        http.StatusUnauthorized,
	ErrForbidden:          http.StatusForbidden,
	ErrInvalidOTP:         http.StatusBadRequest,
	ErrNameRequired:       http.StatusBadRequest,
	ErrBelowMinimumValue:  http.StatusBadRequest,
	ErrEmptyCart:          http.StatusBadRequest,
	ErrInsufficientStock:  http.StatusBadRequest,
	ErrInvalidOrderStatus: http.StatusBadRequest,
}

var ErrorTypeCode = map[ErrorType]string{
	Successful:            "0000",
	ErrInternal:           "0001",
	ErrNotFound:           "0002",
	ErrInvalidRequest:     "0003",
	ErrUnauthorize:        "0004",
	ErrForbidden:          "0005",
	ErrInvalidOTP:         "0006",
	ErrNameRequired:       "0007",
	ErrBelowMinimumValue:  "0008",
	ErrEmptyCart:          "0009",
	ErrInsufficientStock:  "0010",
	ErrInvalidOrderStatus: "0011",
}
