package api_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"

	api "github.com/okian/stride/internal/adapters/http/api"
	service "github.com/okian/stride/internal/app"
	"github.com/okian/stride/internal/domain/filter"
	"github.com/okian/stride/internal/domain/model"
	"github.com/okian/stride/internal/domain/types"
	"github.com/okian/stride/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// mockDeps implements api.Dependencies with programmable behavior.
type mockDeps struct {
	results   []types.ScoredResult
	err       error
	reloadErr error
	gotPrefs  model.Preferences
	gotLimit  int
}

func (m *mockDeps) Recommend(ctx context.Context, prefs model.Preferences, limit int) ([]types.ScoredResult, error) {
	m.gotPrefs = prefs
	m.gotLimit = limit
	return m.results, m.err
}

func (m *mockDeps) Catalog(ctx context.Context) service.CatalogSummary {
	return service.CatalogSummary{
		Count:    5,
		Brands:   []string{"Brooks", "Nike"},
		MaxPrice: 260,
		LoadedAt: time.Now(),
	}
}

func (m *mockDeps) ReloadCatalog(ctx context.Context) error {
	return m.reloadErr
}

// mockStats implements api.StatsProvider.
type mockStats struct{}

func (mockStats) GetStats() map[string]interface{} {
	return map[string]interface{}{"started": true}
}

func newTestServer(deps *mockDeps) *httptest.Server {
	mux := http.NewServeMux()
	api.NewServer(deps, mockStats{}, 5, 20).Register(context.Background(), mux)
	return httptest.NewServer(mux)
}

func scored(brand, modelName string, score int, explanation string) types.ScoredResult {
	return types.ScoredResult{
		Brand:       brand,
		Model:       modelName,
		Categories:  []string{"daily"},
		PriceUSD:    150,
		Plate:       "none",
		DropMM:      8,
		WeightG:     260,
		Score:       score,
		Reasons:     []string{"Matches your criteria"},
		Explanation: explanation,
	}
}

func postRecommend(t *testing.T, url, body string) (*http.Response, map[string]interface{}) {
	t.Helper()
	resp, err := http.Post(url+"/recommend", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var parsed map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&parsed)
	return resp, parsed
}

func TestHandleRecommend(t *testing.T) {
	Convey("Given an API server backed by a mock service", t, func() {
		deps := &mockDeps{results: []types.ScoredResult{
			scored("Brooks", "Ghost 17", 88, "A well-cushioned daily trainer."),
			scored("Nike", "Pegasus 41", 80, "Versatile for most runs."),
			scored("Saucony", "Ride 18", 75, "Smooth and dependable."),
		}}
		srv := newTestServer(deps)
		defer srv.Close()

		Convey("When a valid request is posted", func() {
			body := `{"brand_preferences":["Brooks"],"intended_use":{"easy_runs":true},"cost_limiter":{"enabled":true,"max_usd":200},"num_recommendations":3}`
			resp, parsed := postRecommend(t, srv.URL, body)

			Convey("Then it returns 200 with the results", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(parsed["results"], ShouldHaveLength, 3)
			})

			Convey("And the payload reaches the service intact", func() {
				So(deps.gotPrefs.BrandPreferences, ShouldResemble, []string{"Brooks"})
				So(deps.gotPrefs.IntendedUse.EasyRuns, ShouldBeTrue)
				So(deps.gotLimit, ShouldEqual, 3)
			})
		})

		Convey("When the body is not JSON", func() {
			resp, parsed := postRecommend(t, srv.URL, "{not json")

			Convey("Then it returns 400 bad_request", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
				So(parsed["code"], ShouldEqual, "bad_request")
			})
		})

		Convey("When the limit exceeds the cap", func() {
			resp, parsed := postRecommend(t, srv.URL, `{"num_recommendations":999}`)

			Convey("Then it returns 400 limit_exceeded", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
				So(parsed["code"], ShouldEqual, "limit_exceeded")
			})
		})

		Convey("When the limit is negative", func() {
			resp, _ := postRecommend(t, srv.URL, `{"num_recommendations":-1}`)

			Convey("Then it returns 400", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the service rejects the preferences", func() {
			deps.err = model.ErrInvalidPreferences
			resp, parsed := postRecommend(t, srv.URL, `{"cost_limiter":{"enabled":true,"max_usd":-1}}`)

			Convey("Then it returns 400 invalid_preferences", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
				So(parsed["code"], ShouldEqual, "invalid_preferences")
			})
		})

		Convey("When nothing matches", func() {
			deps.err = filter.ErrNoMatches
			resp, parsed := postRecommend(t, srv.URL, `{"brand_preferences":["Nike"],"cost_limiter":{"enabled":true,"max_usd":10}}`)

			Convey("Then it returns 200 with empty results and a note", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(parsed["results"], ShouldHaveLength, 0)
				notes, ok := parsed["notes"].([]interface{})
				So(ok, ShouldBeTrue)
				So(notes[0], ShouldContainSubstring, "No shoes match")
			})
		})

		Convey("When the service fails unexpectedly", func() {
			deps.err = errors.New("catalog corrupted")
			resp, parsed := postRecommend(t, srv.URL, `{}`)

			Convey("Then it returns 500 internal_error", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusInternalServerError)
				So(parsed["code"], ShouldEqual, "internal_error")
			})
		})

		Convey("When only one shoe comes back", func() {
			deps.results = deps.results[:1]
			resp, parsed := postRecommend(t, srv.URL, `{}`)

			Convey("Then a short-list note is attached", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				notes, ok := parsed["notes"].([]interface{})
				So(ok, ShouldBeTrue)
				So(notes[0], ShouldContainSubstring, "Fewer recommendations")
			})
		})

		Convey("When every explanation is missing", func() {
			deps.results = []types.ScoredResult{
				scored("Brooks", "Ghost 17", 88, ""),
				scored("Nike", "Pegasus 41", 80, ""),
				scored("Saucony", "Ride 18", 75, ""),
			}
			_, parsed := postRecommend(t, srv.URL, `{}`)

			Convey("Then an explanations-unavailable note is attached", func() {
				notes, ok := parsed["notes"].([]interface{})
				So(ok, ShouldBeTrue)
				So(notes[0], ShouldContainSubstring, "explanations are temporarily unavailable")
			})
		})

		Convey("When the method is GET", func() {
			resp, err := http.Get(srv.URL + "/recommend")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then the route does not answer", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestHandleCatalog(t *testing.T) {
	Convey("Given an API server backed by a mock service", t, func() {
		deps := &mockDeps{}
		srv := newTestServer(deps)
		defer srv.Close()

		Convey("When the catalog summary is fetched", func() {
			resp, err := http.Get(srv.URL + "/catalog")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			var parsed map[string]interface{}
			So(json.NewDecoder(resp.Body).Decode(&parsed), ShouldBeNil)

			Convey("Then it returns the snapshot summary", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(parsed["count"], ShouldEqual, 5)
				So(parsed["brands"], ShouldHaveLength, 2)
			})
		})

		Convey("When a reload is requested", func() {
			resp, err := http.Post(srv.URL+"/catalog/reload", "application/json", nil)
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then it returns the fresh summary", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
			})
		})

		Convey("When the reload fails", func() {
			deps.reloadErr = errors.New("file missing")
			resp, err := http.Post(srv.URL+"/catalog/reload", "application/json", nil)
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			var parsed map[string]interface{}
			So(json.NewDecoder(resp.Body).Decode(&parsed), ShouldBeNil)

			Convey("Then it returns 500 reload_failed", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusInternalServerError)
				So(parsed["code"], ShouldEqual, "reload_failed")
			})
		})

		Convey("When the reload is attempted with GET", func() {
			resp, err := http.Get(srv.URL + "/catalog/reload")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then the route does not answer", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestHandleStatsAndHealth(t *testing.T) {
	Convey("Given an API server", t, func() {
		srv := newTestServer(&mockDeps{})
		defer srv.Close()

		Convey("When stats are fetched", func() {
			resp, err := http.Get(srv.URL + "/stats")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			var parsed map[string]interface{}
			So(json.NewDecoder(resp.Body).Decode(&parsed), ShouldBeNil)

			Convey("Then the provider's stats come back", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(parsed["started"], ShouldBeTrue)
			})
		})

		Convey("When health is probed", func() {
			resp, err := http.Get(srv.URL + "/healthz")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then it answers 200", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
			})
		})

		Convey("When any route is hit", func() {
			resp, err := http.Get(srv.URL + "/healthz")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then a request ID is attached to the response", func() {
				So(resp.Header.Get("X-Request-Id"), ShouldNotBeBlank)
			})
		})
	})
}
