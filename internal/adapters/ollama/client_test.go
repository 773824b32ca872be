package ollama_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	json "github.com/goccy/go-json"

	"github.com/okian/stride/internal/adapters/ollama"
	"github.com/okian/stride/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func testShoe() model.Shoe {
	return model.Shoe{
		Brand:      "Nike",
		Model:      "Vaporfly 3",
		Categories: []string{model.CategoryRace},
		PriceUSD:   260,
		Plate:      model.PlateCarbon,
		DropMM:     8,
		WeightG:    182,
	}
}

func testPrefs() model.Preferences {
	return model.Preferences{
		BrandPreferences: []string{"Nike"},
		IntendedUse:      model.IntendedUse{Races: []string{"marathon"}},
		CostLimiter:      model.CostLimiter{Enabled: true, MaxUSD: 300},
	}
}

func chatReply(content string) string {
	return `{"message":{"role":"assistant","content":` + mustQuote(content) + `}}`
}

func mustQuote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func TestClient_Explain(t *testing.T) {
	ctx := context.Background()

	Convey("Given a server that answers like Ollama", t, func() {
		var gotPath string
		var gotBody []byte
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotBody, _ = io.ReadAll(r.Body)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(chatReply("A stiff carbon racer built for marathon pace.")))
		}))
		defer srv.Close()

		client := ollama.NewClient(srv.URL, "llama3.1")

		Convey("When an explanation is requested", func() {
			text, err := client.Explain(ctx, testShoe(), testPrefs())

			Convey("Then the completion text comes back trimmed", func() {
				So(err, ShouldBeNil)
				So(text, ShouldEqual, "A stiff carbon racer built for marathon pace.")
			})

			Convey("And the request hits the chat endpoint", func() {
				So(err, ShouldBeNil)
				So(gotPath, ShouldEqual, "/api/chat")
			})

			Convey("And the payload names the model without streaming", func() {
				So(err, ShouldBeNil)
				var req map[string]interface{}
				So(json.Unmarshal(gotBody, &req), ShouldBeNil)
				So(req["model"], ShouldEqual, "llama3.1")
				So(req["stream"], ShouldEqual, false)
			})

			Convey("And the prompt mentions the candidate", func() {
				So(err, ShouldBeNil)
				So(string(gotBody), ShouldContainSubstring, "Vaporfly 3")
			})
		})
	})

	Convey("Given a server that returns a non-200 status", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "model not found", http.StatusNotFound)
		}))
		defer srv.Close()

		client := ollama.NewClient(srv.URL, "llama3.1")

		Convey("Then Explain reports ErrUnavailable", func() {
			_, err := client.Explain(ctx, testShoe(), testPrefs())
			So(err, ShouldWrap, ollama.ErrUnavailable)
		})
	})

	Convey("Given a server that returns junk", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("not json"))
		}))
		defer srv.Close()

		client := ollama.NewClient(srv.URL, "llama3.1")

		Convey("Then Explain reports ErrMalformed", func() {
			_, err := client.Explain(ctx, testShoe(), testPrefs())
			So(err, ShouldWrap, ollama.ErrMalformed)
		})
	})

	Convey("Given a server that returns an empty completion", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(chatReply("   "))) // whitespace only
		}))
		defer srv.Close()

		client := ollama.NewClient(srv.URL, "llama3.1")

		Convey("Then Explain reports ErrMalformed", func() {
			_, err := client.Explain(ctx, testShoe(), testPrefs())
			So(err, ShouldWrap, ollama.ErrMalformed)
		})
	})

	Convey("Given a server that stalls past the deadline", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}))
		defer srv.Close()

		client := ollama.NewClient(srv.URL, "llama3.1")

		Convey("Then a short context deadline aborts the call", func() {
			shortCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
			defer cancel()

			start := time.Now()
			_, err := client.Explain(shortCtx, testShoe(), testPrefs())
			So(err, ShouldWrap, ollama.ErrUnavailable)
			So(time.Since(start), ShouldBeLessThan, time.Second)
		})
	})

	Convey("Given a host that is not listening", t, func() {
		client := ollama.NewClient("http://127.0.0.1:1", "llama3.1")

		Convey("Then Explain reports ErrUnavailable", func() {
			_, err := client.Explain(ctx, testShoe(), testPrefs())
			So(err, ShouldWrap, ollama.ErrUnavailable)
		})
	})
}

func TestNoop(t *testing.T) {
	Convey("Given the noop explainer", t, func() {
		var e ollama.Noop

		Convey("Then it always reports unavailability", func() {
			_, err := e.Explain(context.Background(), testShoe(), testPrefs())
			So(err, ShouldWrap, ollama.ErrUnavailable)
		})
	})
}
