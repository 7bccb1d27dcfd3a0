package transport

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/blipwear/blip-server/constant"
	"github.com/blipwear/blip-server/model"
	utilsContext "github.com/blipwear/blip-server/utils/context"
	"github.com/blipwear/blip-server/utils/errors"
	validatorx "github.com/blipwear/blip-server/utils/validator"
)

// RequestOTP handler
// @Summary Request a one-time code
// @Description Issues a fresh OTP for an email address or phone number; the previous code for that identifier is invalidated
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body model.RequestOTPRequest true "Request OTP"
// @Success 200 {object} model.RequestOTPResponse
// @Failure 400 {object} errors.CustomError
// @Router /auth/request-otp [post]
func (s *RestHandler) RequestOTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.RequestOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}

	if err := validatorx.ValidateStruct(&req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}

	res, err := s.AuthApp.RequestOTP(ctx, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, res)
}

// VerifyOTP handler
// @Summary Verify a one-time code
// @Description Consumes the code, creates the account on first login (name required) and returns a session token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body model.VerifyOTPRequest true "Verify OTP"
// @Success 200 {object} model.VerifyOTPResponse
// @Failure 400 {object} errors.CustomError
// @Router /auth/verify-otp [post]
func (s *RestHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.VerifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}

	if err := validatorx.ValidateStruct(&req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}

	res, err := s.AuthApp.VerifyOTP(ctx, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, res)
}

// SetPassword handler
// @Summary Set account password
// @Description Stores a real credential for an OTP-created account
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.SetPasswordRequest true "Set Password"
// @Success 200 {object} response
// @Failure 401 {object} errors.CustomError
// @Router /profile/password [post]
func (s *RestHandler) SetPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := utilsContext.GetUserID(ctx)
	if !ok {
		writeError(w, errors.SetCustomError(constant.ErrUnauthorize))
		return
	}

	var req model.SetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}

	if err := validatorx.ValidateStruct(&req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}

	if err := s.AuthApp.SetPassword(ctx, userID, &req); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, nil)
}

// Logout handler
// @Summary Log out
// @Description Revokes the session behind the bearer token
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response
// @Failure 401 {object} errors.CustomError
// @Router /auth/logout [post]
func (s *RestHandler) Logout(w http.ResponseWriter, r *http.Request) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		writeError(w, errors.SetCustomError(constant.ErrUnauthorize))
		return
	}

	token := strings.TrimPrefix(authHeader, "Bearer ")
	if err := s.AuthApp.Logout(r.Context(), token); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, nil)
}
