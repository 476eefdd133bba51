package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"medlocator/m/internal/config"
)

func TestConfig_New(t *testing.T) {
	Convey("Given the default config", t, func() {
		cfg := config.New()

		Convey("Then it carries the default weights and validates", func() {
			So(cfg.HTTPPort, ShouldEqual, "8080")
			So(cfg.WeightPrice, ShouldEqual, 0.5)
			So(cfg.WeightDistance, ShouldEqual, 0.3)
			So(cfg.WeightAvailability, ShouldEqual, 0.2)
			So(cfg.DistanceMethod, ShouldEqual, "haversine")
			So(cfg.StrictMatch, ShouldBeFalse)
			So(cfg.AllowedOrigins(), ShouldResemble, []string{"*"})
			So(cfg.Validate(), ShouldBeNil)
		})
	})
}

func TestConfig_Load(t *testing.T) {
	ctx := context.Background()

	Convey("Given no file and no environment overrides", t, func() {
		t.Setenv(config.FileEnv, "")

		Convey("When loading", func() {
			cfg, err := config.Load(ctx)

			Convey("Then defaults are returned", func() {
				So(err, ShouldBeNil)
				So(cfg, ShouldResemble, config.New())
			})
		})
	})

	Convey("Given a YAML file and environment overrides", t, func() {
		path := filepath.Join(t.TempDir(), "medloc.yaml")
		yaml := "http_port: \"9090\"\n" +
			"weight_price: 0.7\n" +
			"distance_method: vincenty\n" +
			"cors_origins: \"http://localhost:3000, https://medloc.example\"\n"
		So(os.WriteFile(path, []byte(yaml), 0o600), ShouldBeNil)
		t.Setenv(config.FileEnv, path)
		t.Setenv("MEDLOC_HTTP_PORT", "9191")
		t.Setenv("MEDLOC_STRICT_MATCH", "true")
		t.Setenv("MEDLOC_WEIGHT_DISTANCE", "0.1")

		Convey("When loading", func() {
			cfg, err := config.Load(ctx)

			Convey("Then env beats file and file beats defaults", func() {
				So(err, ShouldBeNil)
				So(cfg.HTTPPort, ShouldEqual, "9191")
				So(cfg.WeightPrice, ShouldEqual, 0.7)
				So(cfg.WeightDistance, ShouldEqual, 0.1)
				So(cfg.WeightAvailability, ShouldEqual, 0.2)
				So(cfg.DistanceMethod, ShouldEqual, "vincenty")
				So(cfg.StrictMatch, ShouldBeTrue)
				So(cfg.AllowedOrigins(), ShouldResemble, []string{"http://localhost:3000", "https://medloc.example"})
			})
		})
	})

	Convey("Given an invalid override", t, func() {
		t.Setenv(config.FileEnv, "")
		t.Setenv("MEDLOC_HTTP_PORT", "eighty")

		Convey("When loading", func() {
			_, err := config.Load(ctx)

			Convey("Then ErrInvalidConfig is returned", func() {
				So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
			})
		})
	})

	Convey("Given a config file that does not exist", t, func() {
		t.Setenv(config.FileEnv, filepath.Join(t.TempDir(), "missing.yaml"))

		Convey("When loading", func() {
			_, err := config.Load(ctx)

			Convey("Then the load fails", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	Convey("Given an unknown distance method", t, func() {
		cfg := config.New()
		cfg.DistanceMethod = "manhattan"

		Convey("Then validation fails", func() {
			So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), ShouldBeTrue)
		})
	})

	Convey("Given an empty DSN", t, func() {
		cfg := config.New()
		cfg.DatabaseDSN = "  "

		Convey("Then validation fails", func() {
			So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), ShouldBeTrue)
		})
	})
}
