package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/woolshed/flockmark/internal/app"
	"github.com/woolshed/flockmark/internal/domain/scoring"
	"github.com/woolshed/flockmark/pkg/logger"
)

func testServer(t *testing.T, opts ...app.Option) *httptest.Server {
	t.Helper()
	if err := logger.Init(); err != nil {
		t.Fatalf("init logger: %v", err)
	}
	service := app.New(opts...)
	if err := service.Start(context.Background()); err != nil {
		t.Fatalf("start service: %v", err)
	}
	t.Cleanup(service.Stop)

	mux := http.NewServeMux()
	NewServer(service, WithTopLimit(5)).Register(mux)
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url, contentType, body string) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, url, bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func TestBatchEndpoints(t *testing.T) {
	Convey("Given a running server", t, func() {
		ts := testServer(t)

		Convey("A JSON batch loads", func() {
			resp, body := do(t, http.MethodPut, ts.URL+"/batches/w1",
				"application/json", `[{"eid":"E1","w1":30},{"eid":"E2","w1":28}]`)

			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(body["records"], ShouldEqual, 2)

			Convey("And shows up in the counts", func() {
				resp, counts := do(t, http.MethodGet, ts.URL+"/batches", "", "")
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(counts["w1"], ShouldEqual, 2)
			})
		})

		Convey("A CSV batch loads", func() {
			csv := "EID,Weight\nE1,30.5\n"
			resp, body := do(t, http.MethodPut, ts.URL+"/batches/w1", "text/csv", csv)

			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(body["records"], ShouldEqual, 1)
		})

		Convey("An unknown batch type is a 400", func() {
			resp, _ := do(t, http.MethodPut, ts.URL+"/batches/shearing",
				"application/json", `[]`)
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Malformed JSON is a 400", func() {
			resp, _ := do(t, http.MethodPut, ts.URL+"/batches/w1",
				"application/json", `{"not":"an array"}`)
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("DELETE clears all batches", func() {
			do(t, http.MethodPut, ts.URL+"/batches/w1", "application/json", `[{"eid":"E1"}]`)

			resp, _ := do(t, http.MethodDelete, ts.URL+"/batches", "", "")
			So(resp.StatusCode, ShouldEqual, http.StatusNoContent)

			_, counts := do(t, http.MethodGet, ts.URL+"/batches", "", "")
			So(counts, ShouldBeEmpty)
		})
	})
}

func TestCalculateAndAnimalEndpoints(t *testing.T) {
	Convey("Given a server with loaded batches", t, func() {
		lo2, lo, hi, hi2 := 2.0, 2.5, 3.5, 4.0
		rubric := scoring.Rubric{
			ClassificationPoints: scoring.Thresholds{Stud: 1, Flock: 0.5},
			Criteria: []scoring.Criterion{{
				ID: "bcs", Name: "BCS", Enabled: true, Operator: scoring.OpBetween,
				LowerLimit2: &lo2, LowerLimit: &lo, UpperLimit: &hi, UpperLimit2: &hi2,
			}},
		}
		ts := testServer(t, app.WithRubric(rubric))

		do(t, http.MethodPut, ts.URL+"/batches/marks", "application/json",
			`[{"eid":"E-STUD","bcs":3},{"eid":"E-CULL","bcs":1}]`)

		Convey("POST /calculate runs the pipeline", func() {
			resp, body := do(t, http.MethodPost, ts.URL+"/calculate", "", "")
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			stats := body["stats"].(map[string]any)
			So(stats["animals"], ShouldEqual, 2)

			Convey("GET /animals lists the herd", func() {
				resp, body := do(t, http.MethodGet, ts.URL+"/animals", "", "")
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(body["count"], ShouldEqual, 2)
			})

			Convey("GET /animals/top ranks and honors the cap", func() {
				resp, body := do(t, http.MethodGet, ts.URL+"/animals/top?limit=100", "", "")
				So(resp.StatusCode, ShouldEqual, http.StatusOK)

				animals := body["animals"].([]any)
				best := animals[0].(map[string]any)
				So(best["eid"], ShouldEqual, "E-STUD")
				So(best["classification"], ShouldEqual, scoring.ClassStud)
			})

			Convey("GET /animals/{key} resolves identifiers", func() {
				resp, body := do(t, http.MethodGet, ts.URL+"/animals/E-CULL", "", "")
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(body["classification"], ShouldEqual, scoring.ClassCull)

				resp, _ = do(t, http.MethodGet, ts.URL+"/animals/NOPE", "", "")
				So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
			})

			Convey("GET /stats summarizes the herd", func() {
				resp, body := do(t, http.MethodGet, ts.URL+"/stats", "", "")
				So(resp.StatusCode, ShouldEqual, http.StatusOK)

				summary := body["summary"].(map[string]any)
				So(summary["total"], ShouldEqual, 2)
			})
		})

		Convey("A bad top limit is a 400", func() {
			resp, _ := do(t, http.MethodGet, ts.URL+"/animals/top?limit=abc", "", "")
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestRubricEndpoints(t *testing.T) {
	Convey("Given a running server", t, func() {
		ts := testServer(t)

		Convey("GET /rubric returns the active rubric", func() {
			resp, body := do(t, http.MethodGet, ts.URL+"/rubric", "", "")
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(body["criteria"], ShouldNotBeNil)
		})

		Convey("PUT /rubric replaces it", func() {
			payload := `{"classificationPoints":{"stud":9,"flock":7,"secondFlock":5,"cull":0},"criteria":[{"id":"bcs","name":"BCS","enabled":true,"operator":"less","upperLimit":4}]}`
			resp, _ := do(t, http.MethodPut, ts.URL+"/rubric", "application/json", payload)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			_, body := do(t, http.MethodGet, ts.URL+"/rubric", "", "")
			points := body["classificationPoints"].(map[string]any)
			So(points["stud"], ShouldEqual, 9)
		})

		Convey("An invalid rubric is a 400", func() {
			payload := `{"criteria":[{"id":"bcs","operator":"around"}]}`
			resp, _ := do(t, http.MethodPut, ts.URL+"/rubric", "application/json", payload)
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Saved-rubric routes answer 501 without a database", func() {
			resp, _ := do(t, http.MethodGet, ts.URL+"/rubrics", "", "")
			So(resp.StatusCode, ShouldEqual, http.StatusNotImplemented)
		})
	})
}

func TestHealthAndMetrics(t *testing.T) {
	Convey("Given a running server", t, func() {
		ts := testServer(t)

		Convey("GET /healthz answers ok", func() {
			resp, body := do(t, http.MethodGet, ts.URL+"/healthz", "", "")
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(body["status"], ShouldEqual, "ok")
		})

		Convey("GET /metrics exposes the prometheus registry", func() {
			resp, err := http.Get(ts.URL + "/metrics")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(resp.Header.Get("Content-Type"), ShouldContainSubstring, "text/plain")
		})
	})
}
