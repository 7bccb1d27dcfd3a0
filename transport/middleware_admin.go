package transport

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/blipwear/blip-server/application/auth"
	"github.com/blipwear/blip-server/constant"
	utilsContext "github.com/blipwear/blip-server/utils/context"
	"github.com/blipwear/blip-server/utils/errors"
)

// AdminMiddleware rejects /admin requests from non-admin accounts. It runs
// after AuthMiddleware, so the user id is already in the context.
func AdminMiddleware(authApp auth.AuthApp) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasPrefix(r.URL.Path, "/admin/") {
				next.ServeHTTP(w, r)
				return
			}

			userID, ok := utilsContext.GetUserID(r.Context())
			if !ok {
				writeError(w, errors.SetCustomError(constant.ErrUnauthorize))
				return
			}

			isAdmin, err := authApp.IsAdmin(r.Context(), userID)
			if err != nil {
				writeError(w, err)
				return
			}
			if !isAdmin {
				writeError(w, errors.SetCustomError(constant.ErrForbidden))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
