package httpx

import (
	"net/http"

	domainauth "github.com/iynfluencer/creator-service/internal/domain/auth"
	"github.com/iynfluencer/creator-service/internal/domain/query"
)

// listCall carries what a paginated read needs from the request.
type listCall struct {
	r      *http.Request
	caller domainauth.Identity
	params query.Params
}

// serveList parses paging and filters from the query string, runs fn and
// writes its page.
func serveList(w http.ResponseWriter, r *http.Request, maxLimit int, fn func(listCall) (any, error)) {
	params, err := ListParams(r, maxLimit)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	caller, _ := GetIdentityFromContext(r.Context())
	page, err := fn(listCall{r: r, caller: caller, params: params})
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, page)
}
