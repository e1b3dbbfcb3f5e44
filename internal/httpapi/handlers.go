package httpapi

import (
	"context"
	"errors"
	"net/http"

	"propadvisor/internal/advisor"
	"propadvisor/pkg/types"
)

type handlers struct {
	adv Advisor
}

// respond writes the result of an advisory call and closes its request log.
// A client that went away gets nothing written.
func respond(w http.ResponseWriter, r *http.Request, rl *requestLog, v any, err error) {
	if err != nil {
		if errors.Is(err, context.Canceled) && (r.Context().Err() != nil || serverBaseCtx.Err() != nil) {
			rl.end(499, err)
			return
		}
		rl.end(writeError(w, err), err)
		return
	}
	writeJSON(w, http.StatusOK, v)
	rl.end(http.StatusOK, nil)
}

// analyze godoc
// @Summary      Analyze property risk
// @Description  Scores the risk of a listing from its details and uploaded documents. Non-JSON model output is returned as raw_output.
// @Tags         advisory
// @Accept       multipart/form-data
// @Produce      json
// @Param        propertyId    formData  int     true   "Listing id"
// @Param        name          formData  string  true   "Listing name"
// @Param        address       formData  string  true   "Address"
// @Param        propertyType  formData  string  true   "Property type"
// @Param        floor         formData  int     true   "Floor"
// @Param        builtYear     formData  int     true   "Completion year"
// @Param        area          formData  int     true   "Area in square meters"
// @Param        marketPrice   formData  number  false  "Market price (KRW)"
// @Param        deposit       formData  number  false  "Deposit (KRW)"
// @Param        monthlyRent   formData  number  false  "Monthly rent (KRW)"
// @Param        files         formData  file    false  "Supporting documents (repeatable)"
// @Success      200  {object}  types.AnalyzeResult
// @Failure      400  {object}  types.ErrorResponse
// @Failure      413  {object}  types.ErrorResponse
// @Failure      415  {object}  types.ErrorResponse
// @Failure      422  {object}  types.ErrorResponse
// @Failure      429  {object}  types.ErrorResponse
// @Failure      502  {object}  types.ErrorResponse
// @Failure      503  {object}  types.ErrorResponse
// @Failure      504  {object}  types.ErrorResponse
// @Router       /analyze [post]
func (h *handlers) analyze(w http.ResponseWriter, r *http.Request) {
	rl := beginRequestLog(r, advisor.EndpointAnalyze)
	form, files, err := parseForm(w, r, advisor.EndpointAnalyze)
	if err != nil {
		respond(w, r, rl, nil, err)
		return
	}
	req := types.AnalyzeRequest{PropertyInfo: form.property(), Files: files}
	if err := mergeValidation(form.ve, advisor.ValidateAnalyze(req)); err != nil {
		respond(w, r, rl, nil, err)
		return
	}
	if err := form.ve.Err(); err != nil {
		respond(w, r, rl, nil, err)
		return
	}
	ctx, cancel := handlerContext(r)
	defer cancel()
	reply, err := h.adv.Analyze(rl.withLogger(ctx), req)
	respond(w, r, rl, reply, err)
}

// checklist godoc
// @Summary      Pre-contract checklist
// @Description  Lists 8 to 12 items to verify before signing. Non-JSON model output is split into lines.
// @Tags         advisory
// @Accept       json
// @Produce      json
// @Param        request  body      types.ChecklistRequest  true  "Listing"
// @Success      200      {object}  types.ChecklistResponse
// @Failure      400      {object}  types.ErrorResponse
// @Failure      415      {object}  types.ErrorResponse
// @Failure      422      {object}  types.ErrorResponse
// @Failure      429      {object}  types.ErrorResponse
// @Failure      502      {object}  types.ErrorResponse
// @Router       /checklist [post]
func (h *handlers) checklist(w http.ResponseWriter, r *http.Request) {
	rl := beginRequestLog(r, advisor.EndpointChecklist)
	var req types.ChecklistRequest
	if err := decodeJSONBody(w, r, &req, func() any { return &types.ChecklistRequest{} }, advisor.ChecklistKeys,
		func() error { return advisor.ValidateChecklist(req) }); err != nil {
		respond(w, r, rl, nil, err)
		return
	}
	ctx, cancel := handlerContext(r)
	defer cancel()
	resp, err := h.adv.Checklist(rl.withLogger(ctx), req)
	respond(w, r, rl, resp, err)
}

// loan godoc
// @Summary      Loan guide
// @Description  Recommends a loan plan for a tenant profile. guideUrls are echoed as sources.
// @Tags         advisory
// @Accept       json
// @Produce      json
// @Param        request  body      types.LoanGuideRequest  true  "Tenant profile"
// @Success      200      {object}  types.LoanGuide
// @Failure      400      {object}  types.ErrorResponse
// @Failure      415      {object}  types.ErrorResponse
// @Failure      422      {object}  types.ErrorResponse
// @Failure      429      {object}  types.ErrorResponse
// @Failure      502      {object}  types.ErrorResponse
// @Router       /loan [post]
func (h *handlers) loan(w http.ResponseWriter, r *http.Request) {
	rl := beginRequestLog(r, advisor.EndpointLoan)
	var req types.LoanGuideRequest
	if err := decodeJSONBody(w, r, &req, func() any { return &types.LoanGuideRequest{} }, advisor.LoanKeys,
		func() error { return advisor.ValidateLoan(req) }); err != nil {
		respond(w, r, rl, nil, err)
		return
	}
	ctx, cancel := handlerContext(r)
	defer cancel()
	reply, err := h.adv.LoanGuide(rl.withLogger(ctx), req)
	respond(w, r, rl, reply, err)
}

// solution godoc
// @Summary      Mitigation plan
// @Description  Proposes coping strategies and a follow-up checklist for an analyzed listing.
// @Tags         advisory
// @Accept       multipart/form-data
// @Produce      json
// @Param        propertyId    formData  int     true   "Listing id"
// @Param        name          formData  string  true   "Listing name"
// @Param        address       formData  string  true   "Address"
// @Param        propertyType  formData  string  true   "Property type"
// @Param        floor         formData  int     true   "Floor"
// @Param        builtYear     formData  int     true   "Completion year"
// @Param        area          formData  int     true   "Area in square meters"
// @Param        marketPrice   formData  number  false  "Market price (KRW)"
// @Param        deposit       formData  number  false  "Deposit (KRW)"
// @Param        monthlyRent   formData  number  false  "Monthly rent (KRW)"
// @Param        totalRisk     formData  number  true   "Risk score from /analyze"
// @Param        summary       formData  string  true   "Summary from /analyze"
// @Param        details       formData  string  true   "JSON details from /analyze"
// @Param        files         formData  file    false  "Supporting documents (repeatable)"
// @Success      200  {object}  types.SolutionPlan
// @Failure      400  {object}  types.ErrorResponse
// @Failure      413  {object}  types.ErrorResponse
// @Failure      415  {object}  types.ErrorResponse
// @Failure      422  {object}  types.ErrorResponse
// @Failure      429  {object}  types.ErrorResponse
// @Failure      502  {object}  types.ErrorResponse
// @Router       /solution [post]
func (h *handlers) solution(w http.ResponseWriter, r *http.Request) {
	rl := beginRequestLog(r, advisor.EndpointSolution)
	form, files, err := parseForm(w, r, advisor.EndpointSolution)
	if err != nil {
		respond(w, r, rl, nil, err)
		return
	}
	req := types.SolutionRequest{
		PropertyInfo: form.property(),
		TotalRisk:    form.number("totalRisk"),
		Summary:      form.str("summary"),
		Details:      form.str("details"),
		Files:        files,
	}
	if err := mergeValidation(form.ve, advisor.ValidateSolution(req)); err != nil {
		respond(w, r, rl, nil, err)
		return
	}
	if err := form.ve.Err(); err != nil {
		respond(w, r, rl, nil, err)
		return
	}
	ctx, cancel := handlerContext(r)
	defer cancel()
	reply, err := h.adv.Solution(rl.withLogger(ctx), req)
	respond(w, r, rl, reply, err)
}
