// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/vechain/elector/election/rejection"
)

type httpError struct {
	cause  error
	status int
}

func (e *httpError) Error() string {
	return e.cause.Error()
}

// HTTPError create an error with http status code.
func HTTPError(cause error, status int) error {
	return &httpError{
		cause:  cause,
		status: status,
	}
}

// BadRequest convenience method to create http bad request error.
func BadRequest(cause error) error {
	return &httpError{
		cause:  cause,
		status: http.StatusBadRequest,
	}
}

// NotFound convenience method to create http not found error.
func NotFound(cause error) error {
	return &httpError{
		cause:  cause,
		status: http.StatusNotFound,
	}
}

// RejectionMessage is the body responded for a rejected submission.
type RejectionMessage struct {
	Kind  string `json:"kind"`
	Error string `json:"error"`
}

// RejectionStatus maps a rejection kind to the responded status code.
func RejectionStatus(kind rejection.Kind) int {
	switch kind {
	case rejection.DeadlineExceeded:
		return http.StatusForbidden
	case rejection.InsufficientDeposit:
		return http.StatusPaymentRequired
	case rejection.Known:
		return http.StatusConflict
	case rejection.Outranked:
		return http.StatusTooManyRequests
	}
	return http.StatusBadRequest
}

// HandlerFunc like http.HandlerFunc, but it returns an error.
// Rejections are responded as RejectionMessage, httpError with its status,
// anything else with http.StatusInternalServerError.
type HandlerFunc func(http.ResponseWriter, *http.Request) error

// WrapHandlerFunc convert HandlerFunc to http.HandlerFunc.
func WrapHandlerFunc(f HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := f(w, r)
		if err == nil {
			return
		}
		if kind, ok := rejection.KindOf(err); ok {
			w.Header().Set("Content-Type", JSONContentType)
			w.WriteHeader(RejectionStatus(kind))
			_ = json.NewEncoder(w).Encode(&RejectionMessage{Kind: kind.String(), Error: err.Error()})
			return
		}
		if he, ok := err.(*httpError); ok {
			if he.cause != nil {
				http.Error(w, he.cause.Error(), he.status)
			} else {
				w.WriteHeader(he.status)
			}
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// content types
const (
	JSONContentType = "application/json; charset=utf-8"
)

// ParseJSON parse a JSON object using strict mode.
func ParseJSON(r io.Reader, v any) error {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

// WriteJSON response an object in JSON encoding.
func WriteJSON(w http.ResponseWriter, obj any) error {
	w.Header().Set("Content-Type", JSONContentType)
	return json.NewEncoder(w).Encode(obj)
}
