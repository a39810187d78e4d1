package internal_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/roster-management/internal"
	"github.com/frahmantamala/roster-management/internal/core/roster"
)

func TestInternal(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Internal Suite")
}

func setenv(key, value string) {
	Expect(os.Setenv(key, value)).To(Succeed())
	DeferCleanup(os.Unsetenv, key)
}

var _ = Describe("Config", func() {
	Describe("LoadConfigFromEnv", func() {
		BeforeEach(func() {
			setenv("ROSTER_TIMEZONE", "UTC")
		})

		It("fills defaults", func() {
			cfg, err := internal.LoadConfigFromEnv()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Server.Port).To(Equal(8080))
			Expect(cfg.Storage.Driver).To(Equal("sqlite"))
			Expect(cfg.Storage.Timeout).To(Equal(5 * time.Second))
			Expect(cfg.Observability.Metrics.Path).To(Equal("/metrics"))
			Expect(cfg.Roster.Shifts()).To(Equal(roster.DefaultShifts))
			Expect(cfg.Validate()).To(Succeed())
		})

		It("reads prefixed variables and lists", func() {
			setenv("HTTP_PORT", "9090")
			setenv("STORAGE_DRIVER", "memory")
			setenv("ROSTER_DEFAULT_SHIFTS", "7-15|15-23")
			setenv("ROSTER_POSITION_DEPARTMENTS", "restaurant")
			setenv("LOG_LEVEL", "debug")

			cfg, err := internal.LoadConfigFromEnv()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Server.Port).To(Equal(9090))
			Expect(cfg.Storage.Driver).To(Equal("memory"))
			Expect(cfg.Roster.Shifts()).To(Equal([]string{"7-15", "15-23"}))
			Expect(cfg.Observability.Logging.Level).To(Equal("debug"))

			layout, err := cfg.Roster.Layout()
			Expect(err).NotTo(HaveOccurred())
			Expect(layout.KindOf(roster.Restaurant)).To(Equal(roster.SlotKindNamedPosition))
			Expect(layout.KindOf(roster.Kitchen)).To(Equal(roster.SlotKindTimeRange))
		})
	})

	Describe("Validate", func() {
		var cfg internal.Config

		BeforeEach(func() {
			cfg = internal.Config{
				Server: internal.ServerConfig{Port: 8080, AllowedOrigins: "*", ReadTimeout: time.Second},
				Storage: internal.StorageConfig{
					Driver: "sqlite", Source: "roster.db", MaxOpenConns: 4, MaxIdleConns: 2,
				},
				Roster: internal.RosterConfig{Timezone: "UTC"},
				Observability: internal.ObservabilityConfig{
					Logging: internal.LoggingConfig{Level: "info", Format: "json"},
				},
			}
		})

		It("accepts a complete config", func() {
			Expect(cfg.Validate()).To(Succeed())
		})

		It("rejects an unknown storage driver", func() {
			cfg.Storage.Driver = "mysql"
			Expect(cfg.Validate()).To(MatchError(ContainSubstring("Driver")))
		})

		It("does not require a source for the memory driver", func() {
			cfg.Storage.Driver = "memory"
			cfg.Storage.Source = ""
			Expect(cfg.Validate()).To(Succeed())
		})

		It("rejects more idle than open connections", func() {
			cfg.Storage.MaxIdleConns = 10
			Expect(cfg.Validate()).To(MatchError(ContainSubstring("max_idle_conns")))
		})

		It("rejects an unknown timezone", func() {
			cfg.Roster.Timezone = "Mars/Olympus"
			Expect(cfg.Validate()).To(MatchError(ContainSubstring("invalid timezone")))
		})

		It("rejects position scheduling for an unknown department", func() {
			cfg.Roster.PositionDepartments = []string{"bar"}
			Expect(cfg.Validate()).To(MatchError(ContainSubstring("roster config")))
		})

		It("rejects blank shift labels", func() {
			cfg.Roster.DefaultShifts = []string{"8-16", " "}
			Expect(cfg.Validate()).To(MatchError(ContainSubstring("blank")))
		})
	})

	It("splits allowed origins", func() {
		s := internal.ServerConfig{AllowedOrigins: "http://a.rs, http://b.rs ,"}
		Expect(s.Origins()).To(Equal([]string{"http://a.rs", "http://b.rs"}))
	})
})

var _ = Describe("AppError", func() {
	It("maps sentinels to HTTP statuses", func() {
		Expect(internal.ErrEmployeeNotFound.StatusCode).To(Equal(http.StatusNotFound))
		Expect(internal.ErrDuplicateAssignment.StatusCode).To(Equal(http.StatusConflict))
		Expect(internal.ErrStoreNotLoaded.StatusCode).To(Equal(http.StatusServiceUnavailable))
	})

	It("is found through wrapping", func() {
		wrapped := fmt.Errorf("assign: %w", internal.ErrDuplicateAssignment)
		appErr, ok := internal.IsAppError(wrapped)
		Expect(ok).To(BeTrue())
		Expect(appErr.Code).To(Equal(internal.ErrCodeDuplicateAssignment))
	})

	It("uses the field message for validation errors", func() {
		err := internal.NewValidationFieldError("day", "unknown day Nedelja2", internal.ErrCodeInvalidDay)
		Expect(err.Error()).To(Equal("unknown day Nedelja2"))
	})

	It("keeps the cause out of the response body", func() {
		status, body := internal.NewInternalError("save failed", fmt.Errorf("disk full")).ToHTTPResponse()
		Expect(status).To(Equal(http.StatusInternalServerError))

		raw, err := json.Marshal(body)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(raw)).To(Equal(`{"error":{"type":"INTERNAL_ERROR","code":"INTERNAL_ERROR","message":"save failed"}}`))
	})
})

var _ = Describe("WithStoreTimeout", func() {
	It("uses the configured storage timeout", func() {
		ctx, cancel := internal.WithStoreTimeout(context.Background(), time.Second)
		defer cancel()
		deadline, ok := ctx.Deadline()
		Expect(ok).To(BeTrue())
		Expect(time.Until(deadline)).To(BeNumerically("<=", time.Second))
	})

	It("falls back to the default when the timeout is unset", func() {
		ctx, cancel := internal.WithStoreTimeout(context.Background(), 0)
		defer cancel()
		deadline, ok := ctx.Deadline()
		Expect(ok).To(BeTrue())
		Expect(time.Until(deadline)).To(BeNumerically(">", internal.DefaultStoreTimeout-time.Second))
		Expect(time.Until(deadline)).To(BeNumerically("<=", internal.DefaultStoreTimeout))
	})
})
