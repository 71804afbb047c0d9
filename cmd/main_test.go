package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/okian/splitpool/internal/config"
	"github.com/okian/splitpool/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestNewService(t *testing.T) {
	convey.Convey("Given a loaded configuration", t, func() {
		_ = os.Setenv("SPLITPOOL_INVALID_AMOUNT_POLICY", "coerce")
		_ = os.Setenv("SPLITPOOL_UNKNOWN_LABEL", "Someone")
		defer func() {
			_ = os.Unsetenv("SPLITPOOL_INVALID_AMOUNT_POLICY")
			_ = os.Unsetenv("SPLITPOOL_UNKNOWN_LABEL")
		}()

		cfg, err := config.Load(context.Background())
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("When building the service", func() {
			svc, err := newService(cfg, logger.Get())

			convey.Convey("Then configuration flows into it", func() {
				convey.So(err, convey.ShouldBeNil)
				stats := svc.GetStats()
				convey.So(stats["policy"], convey.ShouldEqual, "coerce")
				convey.So(stats["unknownLabel"], convey.ShouldEqual, "Someone")
				convey.So(stats["shardCount"], convey.ShouldEqual, cfg.ShardCount)
			})
		})

		convey.Convey("When the policy is unknown", func() {
			cfg.InvalidAmountPolicy = "shrug"
			svc, err := newService(cfg, logger.Get())

			convey.Convey("Then building fails", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(svc, convey.ShouldBeNil)
			})
		})
	})
}

func TestNewRouter(t *testing.T) {
	convey.Convey("Given a started service behind the router", t, func() {
		ctx := context.Background()
		svc, err := newService(config.New(), logger.Get())
		convey.So(err, convey.ShouldBeNil)
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		h := newRouter(ctx, svc)

		convey.Convey("When posting a snapshot", func() {
			req := httptest.NewRequest(http.MethodPost, "/settle",
				strings.NewReader(`{"participants":[{"name":"A","paid":50},{"name":"B","paid":50},{"name":"C","paid":50}]}`))
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			convey.Convey("Then equal payments need no transfers", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(w.Body.String(), convey.ShouldContainSubstring, `"settlements":[]`)
				convey.So(w.Body.String(), convey.ShouldContainSubstring, `"per_person_share":50`)
			})
		})

		convey.Convey("When requesting the docs", func() {
			for _, path := range []string{"/openapi.yaml", "/api-docs", "/healthz", "/stats"} {
				w := httptest.NewRecorder()
				h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, http.NoBody))
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			}
		})

		convey.Convey("When a request id is supplied", func() {
			req := httptest.NewRequest(http.MethodGet, "/groups", http.NoBody)
			req.Header.Set("X-Request-Id", "abc")
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			convey.Convey("Then the request is served", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(strings.TrimSpace(w.Body.String()), convey.ShouldEqual, "[]")
			})
		})
	})
}

func TestMetricsUpdaters(t *testing.T) {
	convey.Convey("Given the background updaters", t, func() {
		svc, err := newService(config.New(), logger.Get())
		convey.So(err, convey.ShouldBeNil)
		convey.So(svc.Start(context.Background()), convey.ShouldBeNil)
		defer svc.Stop()

		convey.Convey("Then they return once the context ends", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()

			convey.So(func() {
				startSystemMetricsUpdater(ctx)
				startServiceMetricsUpdater(ctx, svc)
				updateSystemMetrics()
			}, convey.ShouldNotPanic)
		})
	})
}
