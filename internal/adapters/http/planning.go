package httpadapter

import (
	"net/http"

	"github.com/heritagehub/heritage-hub/internal/core/domain"
)

type quizRequest struct {
	Answers       []domain.QuizAnswer `json:"answers"`
	RiskTolerance string              `json:"risk_tolerance"`
}

type explainRequest struct {
	Concept string `json:"concept"`
	Context string `json:"context"`
}

// planGoals allocates a budget. Without total_account_value in the body the
// stored case value is used.
func (rt *Router) planGoals(w http.ResponseWriter, r *http.Request) {
	var req domain.BudgetRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(w, r, err)
		return
	}

	plan, err := rt.svc.Goals.PlanForCase(r.Context(), r.PathValue("id"), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordBudgetPlan(serviceName, plan)
	}
	writeJSON(w, http.StatusOK, plan)
}

func (rt *Router) submitQuiz(w http.ResponseWriter, r *http.Request) {
	var req quizRequest
	if err := decodeJSON(r, &req, true); err != nil {
		writeError(w, r, err)
		return
	}

	result, err := rt.svc.Goals.SubmitQuiz(r.Context(), req.Answers, req.RiskTolerance)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (rt *Router) explainConcept(w http.ResponseWriter, r *http.Request) {
	var req explainRequest
	if err := decodeJSON(r, &req, true); err != nil {
		writeError(w, r, err)
		return
	}

	explanation, err := rt.svc.Mentor.Explain(r.Context(), req.Concept, req.Context)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, explanation)
}
