// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package election

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/elector/api/utils"
	"github.com/vechain/elector/election"
	"github.com/vechain/elector/election/solution"
)

type Election struct {
	engine *election.Engine
}

func New(engine *election.Engine) *Election {
	return &Election{engine}
}

func (e *Election) handleGetStatus(w http.ResponseWriter, _ *http.Request) error {
	return utils.WriteJSON(w, e.engine.Status())
}

func (e *Election) handleGetSnapshot(w http.ResponseWriter, _ *http.Request) error {
	snap := e.engine.Snapshot()
	if snap == nil {
		return utils.NotFound(errors.New("no open round"))
	}
	return utils.WriteJSON(w, convertSnapshot(snap))
}

func (e *Election) handleGetQueue(w http.ResponseWriter, _ *http.Request) error {
	return utils.WriteJSON(w, convertQueue(e.engine.Queue()))
}

func (e *Election) handleGetOutcome(w http.ResponseWriter, _ *http.Request) error {
	out := e.engine.Outcome()
	if out == nil {
		return utils.NotFound(errors.New("no outcome committed"))
	}
	return utils.WriteJSON(w, out)
}

func (e *Election) handleGetOutcomeOf(w http.ResponseWriter, req *http.Request) error {
	round, err := strconv.ParseUint(mux.Vars(req)["round"], 10, 32)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "round"))
	}
	out, err := e.engine.OutcomeOf(uint32(round))
	if err != nil {
		return err
	}
	if out == nil {
		return utils.NotFound(errors.Errorf("no outcome for round %d", round))
	}
	return utils.WriteJSON(w, out)
}

const (
	defaultOutcomesLimit = 10
	maxOutcomesLimit     = 100
)

func (e *Election) handleGetOutcomes(w http.ResponseWriter, req *http.Request) error {
	limit := defaultOutcomesLimit
	if q := req.URL.Query().Get("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n <= 0 || n > maxOutcomesLimit {
			return utils.BadRequest(errors.Errorf("limit: expected an integer in [1, %d]", maxOutcomesLimit))
		}
		limit = n
	}
	outs, err := e.engine.Outcomes(limit)
	if err != nil {
		return err
	}
	if outs == nil {
		outs = []*election.Outcome{}
	}
	return utils.WriteJSON(w, outs)
}

func (e *Election) handleGetDeposit(w http.ResponseWriter, req *http.Request) error {
	n, err := strconv.Atoi(req.URL.Query().Get("assignments"))
	if err != nil || n < 0 {
		return utils.BadRequest(errors.New("assignments: expected a non-negative integer"))
	}
	cfg := e.engine.Config()
	return utils.WriteJSON(w, &Deposit{Assignments: n, Required: cfg.RequiredDeposit(n)})
}

func (e *Election) handlePostSigned(w http.ResponseWriter, req *http.Request) error {
	var body SignedRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Who == nil {
		return utils.BadRequest(errors.New("who: required"))
	}
	if body.Solution == nil {
		return utils.BadRequest(errors.New("solution: required"))
	}
	if err := e.engine.SubmitSigned(*body.Who, body.Solution, body.Deposit); err != nil {
		return err
	}
	return utils.WriteJSON(w, &SubmitResult{Round: body.Solution.Round, Fingerprint: solution.Fingerprint(body.Solution)})
}

func (e *Election) handlePostUnsigned(w http.ResponseWriter, req *http.Request) error {
	var body UnsignedRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Solution == nil {
		return utils.BadRequest(errors.New("solution: required"))
	}
	if err := e.engine.SubmitUnsigned(body.Solution); err != nil {
		return err
	}
	return utils.WriteJSON(w, &SubmitResult{Round: body.Solution.Round, Fingerprint: solution.Fingerprint(body.Solution)})
}

func (e *Election) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/status").
		Methods(http.MethodGet).
		Name("GET /election/status").
		HandlerFunc(utils.WrapHandlerFunc(e.handleGetStatus))
	sub.Path("/snapshot").
		Methods(http.MethodGet).
		Name("GET /election/snapshot").
		HandlerFunc(utils.WrapHandlerFunc(e.handleGetSnapshot))
	sub.Path("/queue").
		Methods(http.MethodGet).
		Name("GET /election/queue").
		HandlerFunc(utils.WrapHandlerFunc(e.handleGetQueue))
	sub.Path("/outcome").
		Methods(http.MethodGet).
		Name("GET /election/outcome").
		HandlerFunc(utils.WrapHandlerFunc(e.handleGetOutcome))
	sub.Path("/outcomes").
		Methods(http.MethodGet).
		Name("GET /election/outcomes").
		HandlerFunc(utils.WrapHandlerFunc(e.handleGetOutcomes))
	sub.Path("/outcome/{round}").
		Methods(http.MethodGet).
		Name("GET /election/outcome/{round}").
		HandlerFunc(utils.WrapHandlerFunc(e.handleGetOutcomeOf))
	sub.Path("/deposit").
		Methods(http.MethodGet).
		Name("GET /election/deposit").
		HandlerFunc(utils.WrapHandlerFunc(e.handleGetDeposit))
	sub.Path("/signed").
		Methods(http.MethodPost).
		Name("POST /election/signed").
		HandlerFunc(utils.WrapHandlerFunc(e.handlePostSigned))
	sub.Path("/unsigned").
		Methods(http.MethodPost).
		Name("POST /election/unsigned").
		HandlerFunc(utils.WrapHandlerFunc(e.handlePostUnsigned))
}
