// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/elector/api/utils"
)

type API struct {
	health              *Health
	maxTimeBetweenBlock time.Duration
}

func NewAPI(health *Health, maxTimeBetweenBlocks time.Duration) *API {
	return &API{
		health:              health,
		maxTimeBetweenBlock: maxTimeBetweenBlocks,
	}
}

func (h *API) handleGetHealth(w http.ResponseWriter, r *http.Request) error {
	maxTimeBetweenBlocks := h.maxTimeBetweenBlock
	if q := r.URL.Query().Get("maxTimeBetweenBlocks"); q != "" {
		parsed, err := time.ParseDuration(q)
		if err != nil || parsed <= 0 {
			return utils.BadRequest(errors.New("maxTimeBetweenBlocks: invalid duration"))
		}
		maxTimeBetweenBlocks = parsed
	}

	status := h.health.Status(maxTimeBetweenBlocks)
	w.Header().Set("Content-Type", utils.JSONContentType)
	if !status.Healthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	return utils.WriteJSON(w, status)
}

func (h *API) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /admin/health").
		HandlerFunc(utils.WrapHandlerFunc(h.handleGetHealth))
}
