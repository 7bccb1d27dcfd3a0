package transport

import (
	"encoding/json"
	"net/http"

	"github.com/blipwear/blip-server/constant"
	"github.com/blipwear/blip-server/utils/errors"
)

type response struct {
	ErrorCode string      `json:"error_code"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
}

func writeSuccess(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(response{
		ErrorCode: constant.ErrorTypeCode[constant.Successful],
		Message:   constant.ErrorTypeMessage[constant.Successful],
		Data:      data,
	})
}

func writeError(w http.ResponseWriter, err error) {
	customErr, ok := err.(errors.CustomError)
	if !ok {
		customErr = errors.SetCustomError(constant.ErrInternal)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(customErr.ErrorHTTPCode())
	_ = json.NewEncoder(w).Encode(response{
		ErrorCode: customErr.ErrorCode(),
		Message:   customErr.Error(),
	})
}
