package config_test

import (
	"errors"
	"math"
	"testing"

	"github.com/okian/gradepilot/internal/config"
	"github.com/okian/gradepilot/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.Store, convey.ShouldEqual, config.StoreMemory)
			convey.So(cfg.DedupeSize, convey.ShouldEqual, 10_000)
			convey.So(cfg.MaxBodyBytes, convey.ShouldEqual, 1<<20)
			convey.So(cfg.DefaultTarget, convey.ShouldEqual, 90)
			convey.So(cfg.Scale(), convey.ShouldResemble, model.DefaultScale())
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given a default config", t, func() {
		cfg := config.New()

		cases := []struct {
			name   string
			mutate func(*config.Config)
			want   string
		}{
			{"empty addr", func(c *config.Config) { c.Addr = " " }, "addr must not be empty"},
			{"unknown store", func(c *config.Config) { c.Store = "redis" }, "unknown store"},
			{"sqlite without path", func(c *config.Config) { c.Store = config.StoreSQLite; c.SQLitePath = "" }, "sqlite_path"},
			{"zero body cap", func(c *config.Config) { c.MaxBodyBytes = 0 }, "max_body_bytes"},
			{"negative target", func(c *config.Config) { c.DefaultTarget = -1 }, "default_target"},
			{"NaN threshold", func(c *config.Config) { c.DefaultScaleB = math.NaN() }, "default_scale_b"},
		}

		for _, tc := range cases {
			convey.Convey("When it has "+tc.name, func() {
				tc.mutate(cfg)
				err := cfg.Validate()

				convey.Convey("Then validation fails with ErrInvalidConfig", func() {
					convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
					convey.So(err.Error(), convey.ShouldContainSubstring, tc.want)
				})
			})
		}

		convey.Convey("When it selects sqlite with a path", func() {
			cfg.Store = config.StoreSQLite
			cfg.SQLitePath = "/tmp/gp.db"

			convey.Convey("Then it is valid", func() {
				convey.So(cfg.Validate(), convey.ShouldBeNil)
			})
		})
	})
}
