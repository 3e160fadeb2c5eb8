package middleware

import (
	"net/http"
	"strings"

	"github.com/heartmarshall/wordbook/pkg/ctxutil"
)

// AccountHeader names the account a request acts for. Accounts are plain
// names; there is no authentication.
const AccountHeader = "X-Account"

// Account copies the X-Account header into the request context.
func Account(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if account := strings.TrimSpace(r.Header.Get(AccountHeader)); account != "" {
			r = r.WithContext(ctxutil.WithAccount(r.Context(), account))
		}
		next.ServeHTTP(w, r)
	})
}
