// Package server implements the HTTP surface of unitconv: the GET form
// page, the POST convert/swap actions, and the request middleware chain.
package server

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/time/rate"

	"github.com/kvolkova/unitconv/internal/config"
	"github.com/kvolkova/unitconv/internal/convert"
	"github.com/kvolkova/unitconv/internal/history"
	"github.com/kvolkova/unitconv/internal/template"
)

// Server holds the request handlers and their collaborators. The history
// log is owned by the caller and shared across requests; everything else is
// read-only after construction.
type Server struct {
	cfg       *config.Config
	logger    *slog.Logger
	pages     *template.Cache
	hist      *history.Log
	limiter   *rate.Limiter
	validate  *validator.Validate
	accessLog *accessLogger
	counter   *requestCounter
}

// New creates a server. accessSink receives combined-style access log lines;
// pass something like the opened responses.log file.
func New(cfg *config.Config, logger *slog.Logger, pages *template.Cache, hist *history.Log, accessSink io.Writer) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		cfg:       cfg,
		logger:    logger.With("component", "server"),
		pages:     pages,
		hist:      hist,
		limiter:   rate.NewLimiter(rate.Limit(cfg.Server.RateLimit), cfg.Server.RateBurst),
		validate:  validator.New(),
		accessLog: newAccessLogger(accessSink),
		counter:   &requestCounter{},
	}
}

// Handler returns the full handler chain: request id, rate limit, counting
// and access logging, then method dispatch.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	return s.withRequestID(s.withRateLimit(s.withAccessLog(mux)))
}

// Requests reports the number of requests served since startup.
func (s *Server) Requests() uint64 {
	return s.counter.load()
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleGet(w, r)
	case http.MethodPost:
		s.handlePost(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleGet renders the blank form. An unknown or absent category falls
// back to the configured default; from/to units default to the first two
// units of the category.
func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if _, ok := convert.CategoryByCode(category); !ok {
		category = s.cfg.Converter.DefaultCategory
	}

	units := convert.UnitsOf(category)
	unitFrom := ""
	unitTo := ""
	if len(units) > 0 {
		unitFrom = units[0].Code
		unitTo = unitFrom
	}
	if len(units) > 1 {
		unitTo = units[1].Code
	}

	ctx := template.Context{
		"current_cat":       category,
		"amount":            s.cfg.Converter.DefaultAmount,
		"category_options":  categoryOptions(category),
		"unit_from_options": unitOptions(category, unitFrom),
		"unit_to_options":   unitOptions(category, unitTo),
		"history":           historyContext(s.hist),
		"result":            "",
	}

	s.renderPage(w, ctx)
}

// conversionForm is the decoded POST body. Validation failures degrade to
// rendering the page with no computation, mirroring the blank-result
// behavior for bad input.
type conversionForm struct {
	Category string `validate:"required"`
	Amount   string
	UnitFrom string
	UnitTo   string
	Action   string `validate:"oneof=convert swap"`
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	form := conversionForm{
		Category: r.PostFormValue("category"),
		Amount:   r.PostFormValue("amount"),
		UnitFrom: r.PostFormValue("unit_from"),
		UnitTo:   r.PostFormValue("unit_to"),
		Action:   r.PostFormValue("action"),
	}
	if form.Action == "" {
		form.Action = "convert"
	}

	ctx := template.Context{
		"current_cat":      form.Category,
		"amount":           form.Amount,
		"category_options": categoryOptions(form.Category),
		"result":           "",
		"explanation":      "",
	}

	if err := s.validate.Struct(form); err != nil {
		s.logger.Warn("rejecting invalid conversion form", "error", err)
	} else {
		switch form.Action {
		case "swap":
			form.UnitFrom, form.UnitTo = form.UnitTo, form.UnitFrom
		case "convert":
			s.doConvert(&form, ctx)
		}
	}

	// Options are built after a possible swap so the selects reflect the
	// new order; the history snapshot is taken after a possible append.
	ctx["unit_from_options"] = unitOptions(form.Category, form.UnitFrom)
	ctx["unit_to_options"] = unitOptions(form.Category, form.UnitTo)
	ctx["history"] = historyContext(s.hist)

	s.renderPage(w, ctx)
}

// doConvert runs one conversion and, on success, fills result/explanation
// and appends to the history log. A non-numeric amount or an unknown
// category/unit pair leaves everything untouched.
func (s *Server) doConvert(form *conversionForm, ctx template.Context) {
	value, err := strconv.ParseFloat(strings.TrimSpace(form.Amount), 64)
	if err != nil {
		s.logger.Debug("ignoring non-numeric amount", "amount", form.Amount)
		return
	}

	result, ok := convert.Convert(form.Category, value, form.UnitFrom, form.UnitTo)
	if !ok {
		s.logger.Debug("conversion not found",
			"category", form.Category,
			"from", form.UnitFrom,
			"to", form.UnitTo)
		return
	}

	fromUnit, _ := convert.UnitByCode(form.Category, form.UnitFrom)
	toUnit, _ := convert.UnitByCode(form.Category, form.UnitTo)
	formatted := convert.Format(result)

	fromVal := form.Amount + " " + fromUnit.Name
	toVal := formatted + " " + toUnit.Name

	ctx["result"] = formatted
	ctx["explanation"] = fromVal + " = " + toVal

	s.hist.Append(history.Entry{FromVal: fromVal, ToVal: toVal})
}

func (s *Server) renderPage(w http.ResponseWriter, ctx template.Context) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write([]byte(s.pages.RenderFile(ctx))); err != nil {
		s.logger.Error("failed to write response", "error", err)
	}
}

// historyContext converts the log snapshot into the record sequence the
// template loop iterates over, oldest first; the renderer displays it
// newest first.
func historyContext(hist *history.Log) []map[string]string {
	entries := hist.Entries()
	items := make([]map[string]string, 0, len(entries))
	for _, e := range entries {
		items = append(items, map[string]string{
			"from_val": e.FromVal,
			"to_val":   e.ToVal,
		})
	}
	return items
}

// unitOptions builds the <option> tags for one category's unit select, in
// table order, marking the selected code. Unknown categories produce an
// empty string.
func unitOptions(category, selected string) string {
	units := convert.UnitsOf(category)
	if units == nil {
		return ""
	}

	var b strings.Builder
	for i, u := range units {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(`<option value="` + u.Code + `"`)
		if u.Code == selected {
			b.WriteString(" selected")
		}
		b.WriteString(">" + u.Name + "</option>")
	}
	return b.String()
}

// categoryOptions builds the <option> tags for the category select.
func categoryOptions(selected string) string {
	var b strings.Builder
	for i, cat := range convert.Categories() {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(`<option value="` + cat.Code + `"`)
		if cat.Code == selected {
			b.WriteString(" selected")
		}
		b.WriteString(">" + cat.Label + "</option>")
	}
	return b.String()
}
