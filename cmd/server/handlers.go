package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/yuin/goldmark"

	"github.com/Simplici0/salario/internal/format"
	"github.com/Simplici0/salario/internal/insight"
	"github.com/Simplici0/salario/internal/payroll"
	"github.com/Simplici0/salario/web"
)

var defaultInput = payroll.Input{GrossSalary: decimal.NewFromInt(3000)}

type server struct {
	explainer *insight.Explainer
	state     *stateStore
	templates *template.Template
	markdown  goldmark.Markdown
}

type baseViewData struct {
	ErrorMessage string
}

type formValues struct {
	GrossSalary    string
	Dependents     string
	OtherDiscounts string
}

type calculatorViewData struct {
	baseViewData
	Form               formValues
	Result             payroll.Result
	Comparison         payroll.MethodComparison
	MethodLabel        string
	Chart              chartView
	DependentDeduction decimal.Decimal
	InsightEnabled     bool
	InsightHTML        template.HTML
}

type salaryResponse struct {
	Input      payroll.Input            `json:"input"`
	Result     payroll.Result           `json:"result"`
	Comparison payroll.MethodComparison `json:"comparison"`
	Chart      []chartSlice             `json:"chart"`
}

type insightRequest struct {
	GrossSalary    decimal.Decimal `json:"grossSalary"`
	Dependents     int             `json:"dependents"`
	OtherDiscounts decimal.Decimal `json:"otherDiscounts"`
}

type insightResponse struct {
	Enabled bool   `json:"enabled"`
	Text    string `json:"text"`
}

func newServer(explainer *insight.Explainer, sessionSecret string) (*server, error) {
	templates, err := template.New("").Funcs(template.FuncMap{
		"brl": format.Currency,
		"pct": format.Percentage,
	}).ParseFS(web.Templates, "templates/layout.html", "templates/calculator.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	return &server{
		explainer: explainer,
		state:     newStateStore(sessionSecret),
		templates: templates,
		markdown:  goldmark.New(),
	}, nil
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/", s.handleHome)
	r.Post("/calculate", s.handleCalculate)
	r.Post("/insight", s.handleInsight)
	r.Post("/reset", s.handleReset)
	r.Get("/api/salary", s.handleAPISalary)
	r.Post("/api/insight", s.handleAPIInsight)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

func (s *server) handleHome(w http.ResponseWriter, r *http.Request) {
	in, ok := s.state.load(r)
	if !ok {
		in = defaultInput
	}
	s.renderCalculator(w, http.StatusOK, s.calculatorView(in, ""))
}

func (s *server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderInvalidForm(w, r)
		return
	}

	in := parseSalaryInput(r)
	if err := s.state.save(w, in); err != nil {
		log.WithError(err).Warn("failed to store form state")
	}
	s.renderCalculator(w, http.StatusOK, s.calculatorView(in, ""))
}

func (s *server) handleInsight(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderInvalidForm(w, r)
		return
	}

	in := parseSalaryInput(r)
	text := s.explainer.Explain(r.Context(), in, payroll.Calculate(in))
	s.renderCalculator(w, http.StatusOK, s.calculatorView(in, text))
}

// renderInvalidForm re-renders the calculator with the stored input and an
// error banner.
func (s *server) renderInvalidForm(w http.ResponseWriter, r *http.Request) {
	in, ok := s.state.load(r)
	if !ok {
		in = defaultInput
	}
	view := s.calculatorView(in, "")
	view.ErrorMessage = "Formulário inválido. Verifique os valores e tente novamente."
	s.renderCalculator(w, http.StatusBadRequest, view)
}

func (s *server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.state.clear(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *server) handleAPISalary(w http.ResponseWriter, r *http.Request) {
	in := parseSalaryInput(r)
	res := payroll.Calculate(in)

	writeJSON(w, http.StatusOK, salaryResponse{
		Input:      in,
		Result:     res,
		Comparison: payroll.CompareMethods(in.GrossSalary, res.INSS, in.Dependents),
		Chart:      chartSlices(res),
	})
}

func (s *server) handleAPIInsight(w http.ResponseWriter, r *http.Request) {
	var req insightRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}

	in := payroll.Input(req).Clamped()
	writeJSON(w, http.StatusOK, insightResponse{
		Enabled: s.explainer.Enabled(),
		Text:    s.explainer.Explain(r.Context(), in, payroll.Calculate(in)),
	})
}

func (s *server) calculatorView(in payroll.Input, insightText string) calculatorViewData {
	res := payroll.Calculate(in)
	cmp := payroll.CompareMethods(in.GrossSalary, res.INSS, in.Dependents)

	view := calculatorViewData{
		Form: formValues{
			GrossSalary:    in.GrossSalary.StringFixed(2),
			Dependents:     strconv.Itoa(in.Dependents),
			OtherDiscounts: in.OtherDiscounts.StringFixed(2),
		},
		Result:             res,
		Comparison:         cmp,
		MethodLabel:        methodLabel(res.IRRFMethod),
		Chart:              newChartView(res),
		DependentDeduction: payroll.DependentDeduction,
		InsightEnabled:     s.explainer.Enabled(),
	}
	if insightText != "" {
		view.InsightHTML = s.renderMarkdown(insightText)
	}
	return view
}

func (s *server) renderMarkdown(text string) template.HTML {
	var buf bytes.Buffer
	if err := s.markdown.Convert([]byte(text), &buf); err != nil {
		log.WithError(err).Warn("failed to render insight markdown")
		return template.HTML(template.HTMLEscapeString(text))
	}
	return template.HTML(buf.String())
}

func (s *server) renderCalculator(w http.ResponseWriter, status int, data calculatorViewData) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "layout", data); err != nil {
		log.WithError(err).Error("failed to render template")
		http.Error(w, "failed to render template", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func methodLabel(m payroll.Method) string {
	if m == payroll.MethodSimplified {
		return "desconto simplificado"
	}
	return "deduções legais"
}

// parseSalaryInput reads the calculator fields from the form or query string.
// Unparseable values count as zero and negatives are clamped.
func parseSalaryInput(r *http.Request) payroll.Input {
	dependents, err := strconv.Atoi(strings.TrimSpace(r.FormValue("dependents")))
	if err != nil {
		dependents = 0
	}

	return payroll.Input{
		GrossSalary:    parseAmount(r.FormValue("grossSalary")),
		Dependents:     dependents,
		OtherDiscounts: parseAmount(r.FormValue("otherDiscounts")),
	}.Clamped()
}

var thousandsOnly = regexp.MustCompile(`^\d{1,3}(\.\d{3})+$`)

// parseAmount accepts "3000.50", "3000,50", "3.000,50" and "3.000".
// Exponent notation is rejected.
func parseAmount(raw string) decimal.Decimal {
	raw = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "R$"))
	if strings.ContainsAny(raw, "eE") {
		return decimal.Zero
	}
	if strings.Contains(raw, ",") || thousandsOnly.MatchString(raw) {
		raw = strings.ReplaceAll(raw, ".", "")
		raw = strings.ReplaceAll(raw, ",", ".")
	}

	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return value
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Warn("failed to encode json response")
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		log.WithFields(logrus.Fields{
			"request_id": middleware.GetReqID(r.Context()),
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"elapsed":    time.Since(start).Round(time.Microsecond),
		}).Info("request")
	})
}
