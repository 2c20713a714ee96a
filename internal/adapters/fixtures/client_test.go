package fixtures_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/wtstats/wtstats/internal/adapters/cache"
	"github.com/wtstats/wtstats/internal/adapters/fixtures"
	"github.com/wtstats/wtstats/internal/domain/model"
	"github.com/wtstats/wtstats/internal/domain/rivalry"
	"github.com/wtstats/wtstats/pkg/metrics"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
	)
}

const comparison12 = `{
  "owner1_info": {"owner_id": 1, "owner_name": "Alex"},
  "owner2_info": {"owner_id": 2, "owner_name": "Blake"},
  "summary": {"total_games": 1, "owner1_wins": 0, "owner2_wins": 1, "ties": 0,
              "owner1_total_points": 98.5, "owner2_total_points": 120.25},
  "matchups": [{"season_id": 2023, "week": 3, "owner1_score": 98.5, "owner2_score": 120.25,
                "owner1_team_name": "Ghosts", "owner2_team_name": "Blitz", "winner_owner_id": 2}],
  "playoff_meetings": {"owner1_wins": 0, "owner2_wins": 0, "meetings": []}
}`

// fetchCount reads the fixture fetch counter for resource and outcome.
func fetchCount(resource, outcome string) float64 {
	families, err := metrics.GetRegistry().Gather()
	So(err, ShouldBeNil)
	for _, mf := range families {
		if mf.GetName() != "wtstats_dashboard_fixture_fetches_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			if labels["resource"] == resource && labels["outcome"] == outcome {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

type fixtureServer struct {
	*httptest.Server
	hits atomic.Int64
}

func newServer(routes map[string]func(w http.ResponseWriter)) *fixtureServer {
	fs := &fixtureServer{}
	fs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fs.hits.Add(1)
		h, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		h(w)
	}))
	return fs
}

func body(s string) func(w http.ResponseWriter) {
	return func(w http.ResponseWriter) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(s))
	}
}

func status(code int, s string) func(w http.ResponseWriter) {
	return func(w http.ResponseWriter) {
		w.WriteHeader(code)
		_, _ = w.Write([]byte(s))
	}
}

func TestClient(t *testing.T) {
	ctx := context.Background()

	Convey("Given a fixture server under /WTStats", t, func() {
		srv := newServer(map[string]func(http.ResponseWriter){
			"/WTStats/data/managers.json":              body(`{"managers":[{"owner_id":1,"owner_name":"Alex","active":true},{"owner_id":2,"owner_name":"Blake","active":true}]}`),
			"/WTStats/data/league_history.json":        status(http.StatusInternalServerError, "upstream exploded"),
			"/WTStats/data/draft_history.json":         body(`not json`),
			"/WTStats/data/articles/index.json":        body(`{"posts":[]}`),
			"/WTStats/data/h2h/comparison_1_vs_2.json": body(comparison12),
			"/WTStats/data/h2h/comparison_1_vs_3.json": body(comparison12),
			"/WTStats/data/h2h/comparison_4_vs_5.json": body(`{"owner1_info":{"owner_id":4},"owner2_info":{"owner_id":4},"summary":{},"matchups":[]}`),
			"/WTStats/data/h2h/comparison_5_vs_6.json": status(http.StatusForbidden, "nope"),
		})
		Reset(srv.Close)

		c, err := fixtures.New(srv.URL,
			fixtures.WithBasePath("WTStats/"),
			fixtures.WithCache(cache.New()),
			fixtures.WithTimeout(2*time.Second))
		So(err, ShouldBeNil)
		So(c.BasePath(), ShouldEqual, "/WTStats")
		So(c.URL("managers"), ShouldEqual, srv.URL+"/WTStats/data/managers.json")

		Convey("When the manager index is fetched twice", func() {
			first, err := c.Managers(ctx)
			So(err, ShouldBeNil)
			second, err := c.Managers(ctx)
			So(err, ShouldBeNil)

			Convey("Then the second read comes from the cache", func() {
				So(len(first.Managers), ShouldEqual, 2)
				So(second, ShouldResemble, first)
				So(srv.hits.Load(), ShouldEqual, 1)
			})

			Convey("And invalidation forces a refetch", func() {
				So(c.Cache().Invalidate(ctx, fixtures.PathManagers), ShouldBeTrue)
				_, err := c.Managers(ctx)
				So(err, ShouldBeNil)
				So(srv.hits.Load(), ShouldEqual, 2)
			})
		})

		Convey("When a resource answers with a server error", func() {
			_, err := c.LeagueHistory(ctx)

			Convey("Then it is a FetchError carrying status and body", func() {
				So(errors.Is(err, fixtures.ErrFetch), ShouldBeTrue)
				var fe *fixtures.FetchError
				So(errors.As(err, &fe), ShouldBeTrue)
				So(fe.StatusCode, ShouldEqual, 500)
				So(err.Error(), ShouldContainSubstring, "500")
				So(err.Error(), ShouldContainSubstring, "upstream exploded")
				So(fixtures.Outcome(err), ShouldEqual, metrics.OutcomeFetch)
			})

			Convey("And the failure is not cached", func() {
				_, _ = c.LeagueHistory(ctx)
				So(srv.hits.Load(), ShouldEqual, 2)
			})
		})

		Convey("When a non-comparison resource is missing", func() {
			_, err := fixtures.Get[model.LeagueHistory](ctx, c, "league_history_2019")
			So(errors.Is(err, fixtures.ErrFetch), ShouldBeTrue)
			So(errors.Is(err, fixtures.ErrNoHistory), ShouldBeFalse)
		})

		Convey("When a payload is not JSON", func() {
			_, err := c.DraftHistory(ctx)
			So(errors.Is(err, fixtures.ErrMalformedData), ShouldBeTrue)
			So(fixtures.Outcome(err), ShouldEqual, metrics.OutcomeMalformed)
		})

		Convey("When a payload lacks a required key", func() {
			_, err := c.Articles(ctx)
			var me *fixtures.MalformedDataError
			So(errors.As(err, &me), ShouldBeTrue)
			So(me.Missing, ShouldResemble, []string{"articles"})
		})

		Convey("When a payload fails validation", func() {
			_, err := c.Comparison(ctx, 4, 5)
			So(errors.Is(err, fixtures.ErrMalformedData), ShouldBeTrue)
			So(errors.Is(err, model.ErrInvalidFixture), ShouldBeTrue)
		})

		Convey("When a comparison is requested in either order", func() {
			rec, err := c.Comparison(ctx, 2, 1)
			So(err, ShouldBeNil)
			So(rec.Owner1Info.OwnerID, ShouldEqual, 1)
			So(rec.Matchups[0].WinnerOwnerID, ShouldNotBeNil)
		})

		Convey("When two owners never met", func() {
			_, err := c.Comparison(ctx, 7, 8)

			Convey("Then the 404 is a NoHistoryError", func() {
				So(errors.Is(err, fixtures.ErrNoHistory), ShouldBeTrue)
				var nh *fixtures.NoHistoryError
				So(errors.As(err, &nh), ShouldBeTrue)
				So(nh.Owner1, ShouldEqual, 7)
				So(nh.Owner2, ShouldEqual, 8)
				So(fixtures.Outcome(err), ShouldEqual, metrics.OutcomeNoHistory)
			})
		})

		Convey("When a comparison answers with another error status", func() {
			_, err := c.Comparison(ctx, 6, 5)
			So(errors.Is(err, fixtures.ErrFetch), ShouldBeTrue)
		})

		Convey("When a comparison fixture names other owners", func() {
			integrity := fetchCount("h2h", metrics.OutcomeIntegrity)
			ok := fetchCount("h2h", metrics.OutcomeOK)
			rec, err := c.Comparison(ctx, 3, 1)

			Convey("Then the record comes back with an integrity error", func() {
				So(errors.Is(err, rivalry.ErrDataIntegrity), ShouldBeTrue)
				So(rec.Owner2Info.OwnerID, ShouldEqual, 2)
				So(fixtures.Outcome(err), ShouldEqual, metrics.OutcomeIntegrity)
			})

			Convey("And the fetch is counted as an integrity failure, not ok", func() {
				So(fetchCount("h2h", metrics.OutcomeIntegrity), ShouldEqual, integrity+1)
				So(fetchCount("h2h", metrics.OutcomeOK), ShouldEqual, ok)
			})

			Convey("And the record is not cached", func() {
				hits := srv.hits.Load()
				_, err := c.Comparison(ctx, 1, 3)
				So(errors.Is(err, rivalry.ErrDataIntegrity), ShouldBeTrue)
				So(srv.hits.Load(), ShouldEqual, hits+1)
				So(c.Cache().Len(), ShouldEqual, 0)
			})
		})

		Convey("When the pair is invalid", func() {
			_, err := c.Comparison(ctx, 3, 3)
			So(errors.Is(err, fixtures.ErrInvalidPair), ShouldBeTrue)
			_, err = c.Comparison(ctx, 0, 3)
			So(errors.Is(err, fixtures.ErrInvalidPair), ShouldBeTrue)
		})

		Convey("When the context is already cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := c.Managers(cctx)
			So(errors.Is(err, fixtures.ErrNetwork), ShouldBeTrue)
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})

	Convey("Given a server that is gone", t, func() {
		srv := newServer(nil)
		url := srv.URL
		srv.Close()

		c, err := fixtures.New(url)
		So(err, ShouldBeNil)
		_, err = c.Managers(ctx)
		So(errors.Is(err, fixtures.ErrNetwork), ShouldBeTrue)
		So(fixtures.Outcome(err), ShouldEqual, metrics.OutcomeNetwork)
	})

	Convey("Given a local export directory", t, func() {
		dir := t.TempDir()
		So(os.MkdirAll(filepath.Join(dir, "data", "h2h"), 0o755), ShouldBeNil)
		So(os.WriteFile(filepath.Join(dir, "data", "managers.json"),
			[]byte(`{"managers":[{"owner_id":9,"owner_name":"Casey"}]}`), 0o600), ShouldBeNil)

		Convey("When read through a file origin with a prefix", func() {
			c, err := fixtures.New("file://"+dir, fixtures.WithBasePath("/WTStats"))
			So(err, ShouldBeNil)
			idx, err := c.Managers(ctx)
			So(err, ShouldBeNil)
			So(idx.Managers[0].OwnerName, ShouldEqual, "Casey")

			_, err = c.Comparison(ctx, 1, 2)
			So(errors.Is(err, fixtures.ErrNoHistory), ShouldBeTrue)
		})

		Convey("When read without a prefix", func() {
			c, err := fixtures.New("file://" + dir)
			So(err, ShouldBeNil)
			_, err = c.Managers(ctx)
			So(err, ShouldBeNil)
		})
	})

	Convey("Given a shared HTTP client without a timeout", t, func() {
		shared := &http.Client{}
		c, err := fixtures.New("http://example.com", fixtures.WithHTTPClient(shared), fixtures.WithTimeout(3*time.Second))
		So(err, ShouldBeNil)
		So(c, ShouldNotBeNil)

		_, err = fixtures.New("http://example.com", fixtures.WithHTTPClient(http.DefaultClient), fixtures.WithTimeout(3*time.Second))
		So(err, ShouldBeNil)

		Convey("Then the caller's client keeps its settings", func() {
			So(shared.Timeout, ShouldEqual, time.Duration(0))
			So(http.DefaultClient.Timeout, ShouldEqual, time.Duration(0))
		})
	})

	Convey("Given unusable origins", t, func() {
		for _, origin := range []string{"ftp://example.com", "http://", "file://", "::"} {
			_, err := fixtures.New(origin)
			So(errors.Is(err, fixtures.ErrInvalidOrigin), ShouldBeTrue)
		}
	})
}

func TestNormalizeBasePath(t *testing.T) {
	Convey("Given assorted prefixes", t, func() {
		So(fixtures.NormalizeBasePath(""), ShouldEqual, "")
		So(fixtures.NormalizeBasePath("/"), ShouldEqual, "")
		So(fixtures.NormalizeBasePath("WTStats"), ShouldEqual, "/WTStats")
		So(fixtures.NormalizeBasePath("/WTStats/"), ShouldEqual, "/WTStats")
	})
}

func TestLatest(t *testing.T) {
	Convey("Given two overlapping requests", t, func() {
		var l fixtures.Latest[string]
		older := l.Begin()
		newer := l.Begin()

		Convey("When the newer one resolves first", func() {
			So(l.Resolve(newer, "new"), ShouldBeTrue)
			So(l.Resolve(older, "old"), ShouldBeFalse)

			Convey("Then the stale response is discarded", func() {
				v, ok := l.Load()
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, "new")
			})
		})

		Convey("When they resolve in order", func() {
			So(l.Resolve(older, "old"), ShouldBeTrue)
			So(l.Resolve(newer, "new"), ShouldBeTrue)
			v, _ := l.Load()
			So(v, ShouldEqual, "new")
		})

		Convey("Then nothing is loaded before a resolve", func() {
			_, ok := l.Load()
			So(ok, ShouldBeFalse)
			So(l.Resolve(99, "bogus"), ShouldBeFalse)
		})
	})
}
