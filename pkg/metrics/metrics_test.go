package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created with the gradepilot namespace", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "gradepilot")
				So(manager.subsystem, ShouldEqual, "forecast")
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_namespace"),
				WithSubsystem("test_subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)
			manager.forecastsComputed.WithLabelValues("forecast").Inc()

			Convey("Then metrics are registered under the custom names", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)

				found := false
				for _, f := range families {
					if f.GetName() == "test_namespace_test_subsystem_computed_total" {
						found = true
						labels := f.GetMetric()[0].GetLabel()
						names := make([]string, 0, len(labels))
						for _, l := range labels {
							names = append(names, l.GetName())
						}
						So(strings.Join(names, ","), ShouldContainSubstring, "env")
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When empty options are passed", func() {
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithCustomLabels(nil),
				WithPrometheusRegistry(prometheus.NewRegistry()),
			)

			Convey("Then defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "gradepilot")
				So(manager.subsystem, ShouldEqual, "forecast")
				So(manager.histogramBuckets, ShouldResemble, prometheus.DefBuckets)
				So(manager.customLabels, ShouldNotBeNil)
			})
		})
	})
}

func TestGlobalRecorders(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording forecast metrics", func() {
			Convey("Then it should not panic", func() {
				So(func() {
					RecordForecast("forecast", 0.2)
					RecordForecast("whatif", 0.1)
					ObserveRequiredAverage(84)
					RecordTargetStatus("on_track")
					RecordInvalidWeights()
				}, ShouldNotPanic)
			})
		})

		Convey("When recording course and store metrics", func() {
			Convey("Then it should not panic", func() {
				So(func() {
					UpdateCoursesTotal(3)
					RecordCourseMutation("add_category")
					RecordDuplicateRequest()
					RecordStoreLatency("get", 1.5)
					RecordStoreError("update")
				}, ShouldNotPanic)
			})
		})

		Convey("When recording HTTP, error and system metrics", func() {
			Convey("Then it should not panic", func() {
				So(func() {
					RecordHTTPRequest("/forecast", "POST", "200")
					RecordHTTPRequestDuration("/forecast", "POST", "200", 3)
					RecordErrorByComponent("api", "bad_request")
					RecordErrorByType("bad_request", "warning")
					RecordErrorByEndpoint("/forecast", "POST", "bad_request")
					RecordErrorLatency("api", "bad_request", 2)
					UpdateSystemMemoryUsage(1 << 20)
					UpdateSystemGoroutineCount(12)
					RecordSystemGCPauseTime(0.3)
				}, ShouldNotPanic)
			})
		})

		Convey("When gathering from the custom registry", func() {
			RecordTargetStatus("secured")
			families, err := GetRegistry().Gather()

			Convey("Then the gradepilot families are exposed", func() {
				So(err, ShouldBeNil)
				names := make([]string, 0, len(families))
				for _, f := range families {
					names = append(names, f.GetName())
				}
				So(names, ShouldContain, "gradepilot_forecast_target_status_total")
			})
		})
	})
}
