// Package rbac provides the role-predicate middleware gating marketplace
// operations. The three predicates are disjoint: a vendor or superuser can
// never act as a cart-owning customer, and vice versa.
package rbac

import (
	"net/http"

	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/middleware"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/response"
)

// CustomerOnly allows only identities with neither vendor nor superuser flag.
// Requires middleware.Auth to have already run.
func CustomerOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := middleware.IdentityFromCtx(r.Context())
		if !ok {
			response.Unauthorized(w)
			return
		}
		if !id.IsCustomer() {
			response.Error(w, http.StatusForbidden, "User is not a customer")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// VendorOnly allows only identities with the vendor flag.
func VendorOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := middleware.IdentityFromCtx(r.Context())
		if !ok {
			response.Unauthorized(w)
			return
		}
		if !id.IsVendor {
			response.Error(w, http.StatusForbidden, "User is not a vendor")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SuperuserOnly allows only identities with the superuser flag.
func SuperuserOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := middleware.IdentityFromCtx(r.Context())
		if !ok {
			response.Unauthorized(w)
			return
		}
		if !id.IsSuperuser {
			response.Error(w, http.StatusForbidden, "User is not a superuser")
			return
		}
		next.ServeHTTP(w, r)
	})
}
