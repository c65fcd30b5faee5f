package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aretw0/canopy/internal/config"
	"github.com/aretw0/canopy/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const screeningModel = `
name: Screening programme
willingness_to_pay: 1000
decisions:
  - name: Screen?
    branches:
      - name: No screening
        next:
          - name: Disease
            probability: 0.1
            cost: 5000
            utility: 10
          - name: Healthy
            probability: 0.9
            utility: 20
      - name: Screening
        cost: 600
        next:
          - name: Early detection
            probability: 0.1
            cost: 2000
            utility: 16
          - name: Healthy
            probability: 0.9
            utility: 20
`

const nestedModel = `
decisions:
  - name: First line
    branches:
      - name: Drug
        next:
          - name: Progression
            probability: 0.3
            next:
              - name: Second line?
                branches:
                  - name: Chemo
                    utility: 1
`

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	h, err := NewHandler(Options{Evaluation: config.Default().Evaluation})
	require.NoError(t, err)
	return h
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	w := do(newTestHandler(t), "GET", "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestEvaluate(t *testing.T) {
	h := newTestHandler(t)

	w := do(h, "POST", "/v1/evaluate", screeningModel)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp dto.AnalysisResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Screening programme", resp.Model)
	assert.Equal(t, "max-utility", resp.Policy)
	require.Len(t, resp.Decisions, 1)

	d := resp.Decisions[0]
	assert.Equal(t, "Screening", d.Selected)
	assert.Equal(t, "Screening", d.Preferred)
	require.Len(t, d.Rows, 2)
	assert.Nil(t, d.Rows[0].ICER)
	require.NotNil(t, d.Rows[1].ICER)
	assert.InDelta(t, 500.0, *d.Rows[1].ICER, 1e-6)
}

func TestEvaluate_QueryOverrides(t *testing.T) {
	h := newTestHandler(t)

	w := do(h, "POST", "/v1/evaluate?policy=min-cost&wtp=100", screeningModel)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp dto.AnalysisResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "min-cost", resp.Policy)
	assert.Equal(t, 100.0, resp.WillingnessToPay)
	assert.Equal(t, "No screening", resp.Decisions[0].Selected)
	assert.Equal(t, "No screening", resp.Decisions[0].Preferred)

	w = do(h, "POST", "/v1/evaluate?mode=sideways", screeningModel)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = do(h, "POST", "/v1/evaluate?wtp=lots", screeningModel)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEvaluate_InvalidModel(t *testing.T) {
	w := do(newTestHandler(t), "POST", "/v1/evaluate", `
decisions:
  - name: d
    branches:
      - name: a
        next:
          - name: x
            probability: 2
`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Details)
	assert.Equal(t, "Document.Decisions[0].Branches[0].Next[0].Probability", resp.Details[0].Path)
	assert.Equal(t, "2", resp.Details[0].Value)
}

func TestEvaluate_NestedDecisionByMode(t *testing.T) {
	h := newTestHandler(t)

	w := do(h, "POST", "/v1/evaluate", nestedModel)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "malformed")

	w = do(h, "POST", "/v1/evaluate?mode=optimal", nestedModel)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestICER(t *testing.T) {
	h := newTestHandler(t)

	w := do(h, "POST", "/v1/icer", `{"cost_a":100,"utility_a":2,"cost_b":150,"utility_b":3}`)
	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.ICERResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.ICER)
	assert.Equal(t, 50.0, *resp.ICER)

	w = do(h, "POST", "/v1/icer", `{"cost_a":100,"utility_a":2,"cost_b":80,"utility_b":2}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"icer":null,"infinite":true}`, w.Body.String())

	w = do(h, "POST", "/v1/icer", `{"cost_a":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGraph(t *testing.T) {
	h := newTestHandler(t)

	w := do(h, "POST", "/v1/graph?overlay=true", screeningModel)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := w.Body.String()
	assert.True(t, strings.HasPrefix(body, "graph TD\n"))
	assert.Contains(t, body, `n0["Screen?"]`)
	assert.Contains(t, body, "classDef chosen")

	w = do(h, "POST", "/v1/graph", screeningModel)
	assert.NotContains(t, w.Body.String(), "classDef chosen")
}

func TestGraph_NestedDecision(t *testing.T) {
	h := newTestHandler(t)

	w := do(h, "POST", "/v1/graph", nestedModel)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"Second line?"`)

	w = do(h, "POST", "/v1/graph?overlay=true", nestedModel)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(h, "POST", "/v1/graph?overlay=true&mode=optimal", nestedModel)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "classDef chosen")
}

func TestMetrics(t *testing.T) {
	h := newTestHandler(t)
	require.Equal(t, http.StatusOK, do(h, "POST", "/v1/evaluate", screeningModel).Code)

	w := do(h, "GET", "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `canopy_decisions_total{policy="max-utility"} 1`)
	assert.Contains(t, w.Body.String(), "canopy_node_visits_total")
}

func TestCORSPreflight(t *testing.T) {
	w := do(newTestHandler(t), "OPTIONS", "/v1/evaluate", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
