// Copyright (c) 2024 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package apilogs

import (
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/gorilla/mux"

	"github.com/vechain/elector/api/utils"
	"github.com/vechain/elector/log"
)

var logger = log.WithContext("pkg", "apilogs")

// LogStatus tells whether every API request is logged.
type LogStatus struct {
	Enabled bool `json:"enabled"`
}

// APILogs toggles the request logger of the public API.
type APILogs struct {
	enabled *atomic.Bool
	mu      sync.Mutex
}

func New(enabled *atomic.Bool) *APILogs {
	return &APILogs{
		enabled: enabled,
	}
}

func (a *APILogs) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()
	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /admin/apilogs").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetStatus))

	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /admin/apilogs").
		HandlerFunc(utils.WrapHandlerFunc(a.handleSetStatus))
}

func (a *APILogs) handleGetStatus(w http.ResponseWriter, _ *http.Request) error {
	return utils.WriteJSON(w, LogStatus{
		Enabled: a.enabled.Load(),
	})
}

func (a *APILogs) handleSetStatus(w http.ResponseWriter, r *http.Request) error {
	var req LogStatus
	if err := utils.ParseJSON(r.Body, &req); err != nil {
		return utils.BadRequest(err)
	}

	// serialized so the logged transition matches the stored value
	a.mu.Lock()
	defer a.mu.Unlock()

	if prev := a.enabled.Swap(req.Enabled); prev != req.Enabled {
		logger.Info("api logs updated", "enabled", req.Enabled)
	}

	return utils.WriteJSON(w, LogStatus{
		Enabled: a.enabled.Load(),
	})
}
