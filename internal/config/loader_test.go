package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/gradepilot/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		convey.Reset(clearConfigEnvVars)

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldResemble, config.New())
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("GRADEPILOT_ADDR", ":8080")
			_ = os.Setenv("GRADEPILOT_LOG_FORMAT", "json")
			_ = os.Setenv("GRADEPILOT_DEDUPE_SIZE", "250")
			_ = os.Setenv("GRADEPILOT_DEFAULT_TARGET", "85.5")
			_ = os.Setenv("GRADEPILOT_DEFAULT_SCALE_A", "93")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.DedupeSize, convey.ShouldEqual, 250)
				convey.So(cfg.DefaultTarget, convey.ShouldEqual, 85.5)
				convey.So(cfg.Scale().A, convey.ShouldEqual, 93)
				convey.So(cfg.Scale().B, convey.ShouldEqual, 80)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			tmpFile := createTempConfigFile(`
# sqlite deployment
addr: ":9090"
store: sqlite
sqlite_path: /var/lib/gradepilot/courses.db
max_body_bytes: 4096
default_scale_d: 55
`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("GRADEPILOT_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.Store, convey.ShouldEqual, config.StoreSQLite)
				convey.So(cfg.SQLitePath, convey.ShouldEqual, "/var/lib/gradepilot/courses.db")
				convey.So(cfg.MaxBodyBytes, convey.ShouldEqual, 4096)
				convey.So(cfg.DefaultScaleD, convey.ShouldEqual, 55)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := createTempConfigFile(`
addr: ":9090"
dedupe_size: 600
`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("GRADEPILOT_CONFIG", tmpFile)
			_ = os.Setenv("GRADEPILOT_ADDR", ":8080")

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.DedupeSize, convey.ShouldEqual, 600)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("GRADEPILOT_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("GRADEPILOT_CONFIG", "/non/existent/gradepilot.yaml")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the loaded values fail validation", func() {
			_ = os.Setenv("GRADEPILOT_STORE", "postgres")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return ErrInvalidConfig", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func clearConfigEnvVars() {
	for _, envVar := range []string{
		"GRADEPILOT_CONFIG",
		"GRADEPILOT_ADDR",
		"GRADEPILOT_STORE",
		"GRADEPILOT_LOG_FORMAT",
		"GRADEPILOT_DEDUPE_SIZE",
		"GRADEPILOT_DEFAULT_TARGET",
		"GRADEPILOT_DEFAULT_SCALE_A",
	} {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "gradepilot-config-*.yaml")
	if err != nil {
		panic(err)
	}
	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}
	if err := tmpFile.Close(); err != nil {
		panic(err)
	}
	return tmpFile.Name()
}
