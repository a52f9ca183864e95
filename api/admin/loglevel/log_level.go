// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package loglevel

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/elector/api/utils"
	"github.com/vechain/elector/log"
)

var logger = log.WithContext("pkg", "loglevel")

var levels = map[string]slog.Level{
	"trace": log.LevelTrace,
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
	"crit":  log.LevelCrit,
}

type LogLevel struct {
	logLevel *slog.LevelVar
}

func New(logLevel *slog.LevelVar) *LogLevel {
	return &LogLevel{
		logLevel: logLevel,
	}
}

func (l *LogLevel) handleGetLogLevel(w http.ResponseWriter, _ *http.Request) error {
	return utils.WriteJSON(w, l.response())
}

func (l *LogLevel) handlePostLogLevel(w http.ResponseWriter, r *http.Request) error {
	var req Request
	if err := utils.ParseJSON(r.Body, &req); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}

	lvl, ok := levels[strings.ToLower(req.Level)]
	if !ok {
		return utils.BadRequest(errors.New("invalid verbosity level"))
	}
	prev := l.logLevel.Level()
	l.logLevel.Set(lvl)
	// logged at warn so the change shows up whatever the new level is
	logger.Warn("log level changed", "from", prev, "to", lvl)

	return utils.WriteJSON(w, l.response())
}

func (l *LogLevel) response() *Response {
	current := l.logLevel.Level()
	for name, lvl := range levels {
		if lvl == current {
			return &Response{CurrentLevel: name}
		}
	}
	return &Response{CurrentLevel: current.String()}
}

func (l *LogLevel) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()
	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /admin/loglevel").
		HandlerFunc(utils.WrapHandlerFunc(l.handleGetLogLevel))

	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /admin/loglevel").
		HandlerFunc(utils.WrapHandlerFunc(l.handlePostLogLevel))
}
