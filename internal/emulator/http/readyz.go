package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/auth0mgmt/internal/emulator/domain"
	"github.com/aussiebroadwan/auth0mgmt/internal/emulator/store"
	"github.com/aussiebroadwan/auth0mgmt/pkg/httpx"
	"github.com/aussiebroadwan/auth0mgmt/pkg/jwtx"
)

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness probe checking the database and the signing keys.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	domain.Health	"status, uptime, version, checks"
//	@Failure		503	{object}	domain.Health	"status, uptime, version, checks - service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(
	startTime time.Time,
	version string,
	st store.Store,
	keys *jwtx.KeySet,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &domain.HealthChecks{
			Database: "ok",
			Signer:   "ok",
		}
		status := "ok"
		code := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		if !keys.IsReady() {
			checks.Signer = "error: no keys loaded"
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, code, domain.Health{
			Status:  status,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
