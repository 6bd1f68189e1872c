package httpadapter

import (
	"net/http"

	"github.com/heritagehub/heritage-hub/internal/core/domain"
)

type summarizeRequest struct {
	PortfolioData domain.Portfolio `json:"portfolio_data"`
	ModelID       string           `json:"model_id"`
}

func (rt *Router) uploadStatement(w http.ResponseWriter, r *http.Request) {
	file, err := rt.readUpload(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	c, err := rt.svc.Portfolios.UploadStatement(r.Context(), file)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (rt *Router) summarizePortfolio(w http.ResponseWriter, r *http.Request) {
	var req summarizeRequest
	if err := decodeJSON(r, &req, true); err != nil {
		writeError(w, r, err)
		return
	}

	summary, err := rt.svc.Portfolios.Summarize(r.Context(), req.PortfolioData, req.ModelID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordPortfolioSummary(serviceName, *summary)
	}
	writeJSON(w, http.StatusOK, summary)
}

func (rt *Router) getCase(w http.ResponseWriter, r *http.Request) {
	c, err := rt.svc.Portfolios.GetCase(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}
