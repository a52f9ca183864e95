// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vechain/elector/api/admin/apilogs"
	healthAPI "github.com/vechain/elector/api/admin/health"
	"github.com/vechain/elector/api/admin/loglevel"
)

// New returns the handler of the admin server. maxTimeBetweenBlocks is the default
// silence after which the node is reported unhealthy.
func New(logLevel *slog.LevelVar, apiLogs *atomic.Bool, health *healthAPI.Health, maxTimeBetweenBlocks time.Duration) http.HandlerFunc {
	router := mux.NewRouter()
	sub := router.PathPrefix("/admin").Subrouter()

	loglevel.New(logLevel).Mount(sub, "/loglevel")
	apilogs.New(apiLogs).Mount(sub, "/apilogs")
	healthAPI.NewAPI(health, maxTimeBetweenBlocks).Mount(sub, "/health")

	handler := handlers.CompressHandler(router)

	return handler.ServeHTTP
}
