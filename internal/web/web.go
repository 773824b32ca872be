// Package web serves the form-based frontend. It renders a single
// preferences form and proxies submissions to the recommendation API;
// it holds no state of its own.
package web

import (
	"context"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/okian/stride/pkg/logger"
)

// Race distance options shown on the form.
var raceDistances = []string{"5k", "10k", "half_marathon", "marathon", "ultra"}

// fallback values used when the API's catalog summary is unreachable.
const (
	fallbackMaxPrice = 500
	priceHeadroom    = 50
)

// Server renders the form and proxies to the recommendation API.
type Server struct {
	api  *apiClient
	tmpl *template.Template
	log  logger.Logger
}

// NewServer creates a frontend server that talks to the API at apiURL.
func NewServer(apiURL string, timeout time.Duration, log logger.Logger) (*Server, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, err
	}
	return &Server{
		api:  newAPIClient(apiURL, timeout),
		tmpl: tmpl,
		log:  log,
	}, nil
}

// Register attaches the frontend routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/recommend", s.handleRecommend)
}

// formPage is the data passed to the index template.
type formPage struct {
	Brands        []string
	RaceDistances []string
	MaxPrice      int
	Status        string
	StatusOK      bool
	Submitted     bool
	Results       []resultView
	Notes         []string
	Error         string
}

// resultView flattens a scored result for the template.
type resultView struct {
	Brand       string
	Model       string
	Categories  string
	Price       string
	Plate       string
	Drop        string
	Weight      string
	Score       int
	Reasons     []string
	Explanation string
}

// handleIndex renders the preferences form. Brand options and the
// budget ceiling come from the API's catalog summary; when the API is
// down the form still renders with fallbacks and a status banner.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" || r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	page := formPage{
		RaceDistances: raceDistances,
		MaxPrice:      fallbackMaxPrice,
		Status:        "API server is running",
		StatusOK:      true,
	}

	summary, err := s.api.catalog(r.Context())
	if err != nil {
		s.log.Warn(r.Context(), "catalog summary unavailable", logger.Error(err))
		page.Status = "Cannot reach the recommendation API"
		page.StatusOK = false
	} else {
		page.Brands = summary.Brands
		page.MaxPrice = int(summary.MaxPrice) + priceHeadroom
	}

	s.render(w, r, page)
}

// handleRecommend maps the submitted form onto a preference payload,
// calls the API, and re-renders the page with the shortlist.
func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "malformed form", http.StatusBadRequest)
		return
	}

	req := recommendRequest{}
	req.BrandPreferences = dropAny(r.PostForm["brand_preferences"])
	req.IntendedUse.EasyRuns = r.PostForm.Get("easy_runs") == "on"
	req.IntendedUse.TempoRuns = r.PostForm.Get("tempo_runs") == "on"
	req.IntendedUse.LongRuns = r.PostForm.Get("long_runs") == "on"
	req.IntendedUse.Trail = r.PostForm.Get("trail") == "on"
	req.IntendedUse.Races = r.PostForm["races"]
	req.CostLimiter.Enabled = r.PostForm.Get("budget_enabled") == "on"
	if v, err := strconv.ParseFloat(r.PostForm.Get("max_budget"), 64); err == nil {
		req.CostLimiter.MaxUSD = v
	}
	if n, err := strconv.Atoi(r.PostForm.Get("num_recommendations")); err == nil {
		req.NumRecommendations = n
	}

	page := formPage{
		RaceDistances: raceDistances,
		MaxPrice:      fallbackMaxPrice,
		Submitted:     true,
		StatusOK:      true,
		Status:        "API server is running",
	}
	if summary, err := s.api.catalog(r.Context()); err == nil {
		page.Brands = summary.Brands
		page.MaxPrice = int(summary.MaxPrice) + priceHeadroom
	}

	resp, err := s.api.recommend(r.Context(), req)
	if err != nil {
		s.log.Warn(r.Context(), "recommendation request failed", logger.Error(err))
		page.Error = "The recommendation service is unavailable. Please try again."
		page.StatusOK = false
		page.Status = "Cannot reach the recommendation API"
		s.render(w, r, page)
		return
	}

	page.Notes = resp.Notes
	for _, item := range resp.Results {
		page.Results = append(page.Results, resultView{
			Brand:       item.Brand,
			Model:       item.Model,
			Categories:  joinComma(item.Categories),
			Price:       "$" + strconv.FormatFloat(item.PriceUSD, 'f', 2, 64),
			Plate:       item.Plate,
			Drop:        strconv.FormatFloat(item.DropMM, 'f', -1, 64) + "mm",
			Weight:      strconv.Itoa(item.WeightG) + "g",
			Score:       item.Score,
			Reasons:     item.Reasons,
			Explanation: item.Explanation,
		})
	}

	s.render(w, r, page)
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, page formPage) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, "index.html.tmpl", page); err != nil {
		s.log.Error(r.Context(), "template render failed", logger.Error(err))
	}
}

// dropAny removes the "Any" option, which means no brand restriction.
func dropAny(brands []string) []string {
	out := brands[:0]
	for _, b := range brands {
		if b != "Any" {
			out = append(out, b)
		}
	}
	return out
}

func joinComma(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ", "
		}
		out += p
	}
	return out
}
