// Copyright (c) 2026 The Dzap developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vishalmathuri/dzap/api/utils"
	"github.com/vishalmathuri/dzap/dzap"
	"github.com/vishalmathuri/dzap/staking"
)

// Staking is the read surface of the staking engine, for wallets and
// external indexers.
type Staking struct {
	engine *staking.Staking
}

func New(engine *staking.Staking) *Staking {
	return &Staking{engine}
}

func (s *Staking) handleGetDepositor(w http.ResponseWriter, req *http.Request) error {
	addr, err := dzap.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	rec, err := s.engine.Depositor(addr)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertDepositor(rec))
}

func (s *Staking) handleGetOwner(w http.ResponseWriter, req *http.Request) error {
	id, err := dzap.ParseTokenID(mux.Vars(req)["id"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "id"))
	}
	owner, held, err := s.engine.OwnerOf(id)
	if err != nil {
		return err
	}
	if !held {
		return utils.WriteJSON(w, &Owner{})
	}
	return utils.WriteJSON(w, &Owner{Owner: &owner})
}

func (s *Staking) handleGetUnbonding(w http.ResponseWriter, req *http.Request) error {
	id, err := dzap.ParseTokenID(mux.Vars(req)["id"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "id"))
	}
	at, marked, err := s.engine.UnbondingStartedAt(id)
	if err != nil {
		return err
	}
	if !marked {
		return utils.WriteJSON(w, &Unbonding{})
	}
	return utils.WriteJSON(w, &Unbonding{StartedAt: &at})
}

func (s *Staking) handleGetParams(w http.ResponseWriter, req *http.Request) error {
	rate, err := s.engine.RewardRate()
	if err != nil {
		return err
	}
	delay, err := s.engine.ClaimDelay()
	if err != nil {
		return err
	}
	paused, err := s.engine.Paused()
	if err != nil {
		return err
	}
	hexRate := math.HexOrDecimal256(*rate)
	return utils.WriteJSON(w, &Params{
		RewardRate: &hexRate,
		ClaimDelay: delay,
		Paused:     paused,
	})
}

func (s *Staking) handleGetStats(w http.ResponseWriter, req *http.Request) error {
	count, err := s.engine.CustodyCount()
	if err != nil {
		return err
	}
	claimed, err := s.engine.TotalClaimed()
	if err != nil {
		return err
	}
	hexClaimed := math.HexOrDecimal256(*claimed)
	return utils.WriteJSON(w, &Stats{
		CustodyCount: count,
		TotalClaimed: &hexClaimed,
	})
}

func (s *Staking) handleGetEvents(w http.ResponseWriter, req *http.Request) error {
	limit := 0
	if q := req.URL.Query().Get("limit"); q != "" {
		parsed, err := strconv.Atoi(q)
		if err != nil || parsed < 0 {
			return utils.BadRequest(errors.New("limit"))
		}
		limit = parsed
	}
	events := s.engine.Events(limit)
	out := make([]*Event, 0, len(events))
	for i := range events {
		out = append(out, convertEvent(&events[i]))
	}
	return utils.WriteJSON(w, out)
}

func (s *Staking) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/depositors/{address}").
		Methods(http.MethodGet).
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetDepositor)).
		Name("GET /depositors/{address}")
	sub.Path("/assets/{id}/owner").
		Methods(http.MethodGet).
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetOwner)).
		Name("GET /assets/{id}/owner")
	sub.Path("/assets/{id}/unbonding").
		Methods(http.MethodGet).
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetUnbonding)).
		Name("GET /assets/{id}/unbonding")
	sub.Path("/params").
		Methods(http.MethodGet).
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetParams)).
		Name("GET /params")
	sub.Path("/stats").
		Methods(http.MethodGet).
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetStats)).
		Name("GET /stats")
	sub.Path("/events").
		Methods(http.MethodGet).
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetEvents)).
		Name("GET /events")
}
