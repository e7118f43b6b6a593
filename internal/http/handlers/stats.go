package handlers

import "net/http"

// Stats reports the 24h render summary from the ledger.
func (a *App) Stats(w http.ResponseWriter, r *http.Request) {
	if a.Ledger == nil {
		a.error(w, http.StatusNotFound, "ledger_disabled", "render ledger is not configured")
		return
	}
	summary, err := a.Ledger.Summary(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, summary)
}
