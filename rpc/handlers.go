package rpc

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"net/http"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/go-chi/chi/v5"

	coreerrors "weidex/core/errors"
	"weidex/core/types"
	"weidex/native/orders"
)

const maxRequestBytes = 1 << 20

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]errorBody{"error": {Code: code, Message: message}})
}

// writeBackendError maps a backend failure onto an HTTP status by reason
// class.
func (s *Server) writeBackendError(w http.ResponseWriter, r *http.Request, err error) {
	reason, ok := coreerrors.AsReason(err)
	if !ok {
		s.logger.Error("query failed",
			slog.String("path", r.URL.Path),
			slog.String("request_id", r.Header.Get(HeaderRequestID)),
			slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	status := http.StatusBadRequest
	switch reason.Class() {
	case coreerrors.ClassAuthorization:
		status = http.StatusForbidden
	case coreerrors.ClassPrecondition:
		status = http.StatusConflict
	}
	writeError(w, status, reason.Code(), err.Error())
}

func amount(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

func addressParam(r *http.Request, name string) (common.Address, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	if !common.IsHexAddress(raw) {
		return common.Address{}, fmt.Errorf("%s: invalid address %q", name, raw)
	}
	return common.HexToAddress(raw), nil
}

func hashParam(r *http.Request, name string) (common.Hash, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	decoded, err := hexutil.Decode(raw)
	if err != nil || len(decoded) != common.HashLength {
		return common.Hash{}, fmt.Errorf("%s: invalid hash %q", name, raw)
	}
	return common.BytesToHash(decoded), nil
}

func (s *Server) handleHeight(w http.ResponseWriter, r *http.Request) {
	height, err := s.backend.Height()
	if err != nil {
		s.writeBackendError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"height": strconv.FormatUint(height, 10)})
}

type feesView struct {
	MakerFeeRate    string `json:"makerFeeRate"`
	TakerFeeRate    string `json:"takerFeeRate"`
	ReferralFeeRate string `json:"referralFeeRate"`
	FeeAccount      string `json:"feeAccount"`
	Owner           string `json:"owner"`
}

func (s *Server) handleFees(w http.ResponseWriter, r *http.Request) {
	schedule, err := s.backend.FeeRates()
	if err != nil {
		s.writeBackendError(w, r, err)
		return
	}
	owner, err := s.backend.Owner()
	if err != nil {
		s.writeBackendError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, feesView{
		MakerFeeRate:    amount(schedule.MakerFeeRate),
		TakerFeeRate:    amount(schedule.TakerFeeRate),
		ReferralFeeRate: amount(schedule.ReferralFeeRate),
		FeeAccount:      schedule.FeeAccount.Hex(),
		Owner:           owner.Hex(),
	})
}

func (s *Server) handleMethod(w http.ResponseWriter, r *http.Request) {
	method := chi.URLParam(r, "method")
	enabled, err := s.backend.MethodEnabled(method)
	if err != nil {
		s.writeBackendError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"method": method, "enabled": enabled})
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	user, err := addressParam(r, "user")
	if err != nil {
		writeError(w, http.StatusBadRequest, coreerrors.ErrInvalidInput.Code(), err.Error())
		return
	}
	asset, err := addressParam(r, "asset")
	if err != nil {
		writeError(w, http.StatusBadRequest, coreerrors.ErrInvalidInput.Code(), err.Error())
		return
	}
	balance, err := s.backend.Balance(user, asset)
	if err != nil {
		s.writeBackendError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"user":    user.Hex(),
		"asset":   asset.Hex(),
		"balance": amount(balance),
	})
}

func (s *Server) handleReferral(w http.ResponseWriter, r *http.Request) {
	user, err := addressParam(r, "user")
	if err != nil {
		writeError(w, http.StatusBadRequest, coreerrors.ErrInvalidInput.Code(), err.Error())
		return
	}
	referrer, linked, err := s.backend.Referral(user)
	if err != nil {
		s.writeBackendError(w, r, err)
		return
	}
	if !linked {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "no referrer linked")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"user": user.Hex(), "referrer": referrer.Hex()})
}

type orderView struct {
	Hash      string `json:"hash"`
	Filled    string `json:"filled"`
	Cancelled bool   `json:"cancelled"`
	Status    string `json:"status,omitempty"`
}

func (s *Server) handleOrder(w http.ResponseWriter, r *http.Request) {
	hash, err := hashParam(r, "hash")
	if err != nil {
		writeError(w, http.StatusBadRequest, coreerrors.ErrInvalidInput.Code(), err.Error())
		return
	}
	filled, err := s.backend.Fill(hash)
	if err != nil {
		s.writeBackendError(w, r, err)
		return
	}
	cancelled, err := s.backend.Cancelled(hash)
	if err != nil {
		s.writeBackendError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orderView{Hash: hash.Hex(), Filled: amount(filled), Cancelled: cancelled})
}

type ordersStatusRequest struct {
	Taker  common.Address  `json:"taker"`
	Orders []*orders.Order `json:"orders"`
}

func (s *Server) handleOrdersStatus(w http.ResponseWriter, r *http.Request) {
	var req ordersStatusRequest
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxRequestBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, coreerrors.ErrInvalidInput.Code(), fmt.Sprintf("decode request: %v", err))
		return
	}
	if len(req.Orders) == 0 || len(req.Orders) > s.maxOrders {
		writeError(w, http.StatusBadRequest, coreerrors.ErrInvalidInput.Code(),
			fmt.Sprintf("orders: expected between 1 and %d", s.maxOrders))
		return
	}
	infos, err := s.backend.OrdersInfo(req.Taker, req.Orders)
	if err != nil {
		s.writeBackendError(w, r, err)
		return
	}
	out := make([]orderView, 0, len(infos))
	for _, info := range infos {
		cancelled, err := s.backend.Cancelled(info.Hash)
		if err != nil {
			s.writeBackendError(w, r, err)
			return
		}
		out = append(out, orderView{
			Hash:      info.Hash.Hex(),
			Filled:    amount(info.Filled),
			Cancelled: cancelled,
			Status:    info.Status.String(),
		})
	}
	writeJSON(w, http.StatusOK, map[string][]orderView{"orders": out})
}

type crowdsaleView struct {
	Asset           string `json:"asset"`
	StartBlock      string `json:"startBlock"`
	EndBlock        string `json:"endBlock"`
	HardCap         string `json:"hardCap"`
	LeftAmount      string `json:"leftAmount"`
	TokenRatio      string `json:"tokenRatio"`
	MinContribution string `json:"minContribution"`
	MaxContribution string `json:"maxContribution"`
	WeiRaised       string `json:"weiRaised"`
	Wallet          string `json:"wallet"`
	Burned          bool   `json:"burned"`
}

func (s *Server) handleCrowdsale(w http.ResponseWriter, r *http.Request) {
	asset, err := addressParam(r, "asset")
	if err != nil {
		writeError(w, http.StatusBadRequest, coreerrors.ErrInvalidInput.Code(), err.Error())
		return
	}
	record, err := s.backend.Crowdsale(asset)
	if err != nil {
		s.writeBackendError(w, r, err)
		return
	}
	if record == nil {
		writeError(w, http.StatusNotFound, coreerrors.ErrCrowdsaleNotFound.Code(), "no crowdsale for asset")
		return
	}
	writeJSON(w, http.StatusOK, crowdsaleView{
		Asset:           asset.Hex(),
		StartBlock:      strconv.FormatUint(record.StartBlock, 10),
		EndBlock:        strconv.FormatUint(record.EndBlock, 10),
		HardCap:         amount(record.HardCap),
		LeftAmount:      amount(record.LeftAmount),
		TokenRatio:      amount(record.TokenRatio),
		MinContribution: amount(record.MinContribution),
		MaxContribution: amount(record.MaxContribution),
		WeiRaised:       amount(record.WeiRaised),
		Wallet:          record.Wallet.Hex(),
		Burned:          record.Burned,
	})
}

// handleContribution reports the cumulative contribution of user. With an
// amount query parameter it also classifies a prospective contribution.
func (s *Server) handleContribution(w http.ResponseWriter, r *http.Request) {
	asset, err := addressParam(r, "asset")
	if err != nil {
		writeError(w, http.StatusBadRequest, coreerrors.ErrInvalidInput.Code(), err.Error())
		return
	}
	user, err := addressParam(r, "user")
	if err != nil {
		writeError(w, http.StatusBadRequest, coreerrors.ErrInvalidInput.Code(), err.Error())
		return
	}
	contributed, err := s.backend.Contribution(asset, user)
	if err != nil {
		s.writeBackendError(w, r, err)
		return
	}
	body := map[string]string{
		"asset":       asset.Hex(),
		"user":        user.Hex(),
		"contributed": amount(contributed),
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("amount")); raw != "" {
		value, ok := new(big.Int).SetString(raw, 10)
		if !ok || value.Sign() < 0 {
			writeError(w, http.StatusBadRequest, coreerrors.ErrInvalidInput.Code(), fmt.Sprintf("amount: invalid %q", raw))
			return
		}
		status, err := s.backend.ContributionStatus(asset, user, value)
		if err != nil {
			s.writeBackendError(w, r, err)
			return
		}
		body["status"] = status.String()
	}
	writeJSON(w, http.StatusOK, body)
}

// handleEvents lists recent committed events, from the archive when one is
// configured and from the in-memory log otherwise.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	eventType := strings.TrimSpace(r.URL.Query().Get("type"))
	limit := DefaultEventPage
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, coreerrors.ErrInvalidInput.Code(), fmt.Sprintf("limit: invalid %q", raw))
			return
		}
		limit = parsed
	}
	if limit > MaxEventPage {
		limit = MaxEventPage
	}

	var list []*types.Event
	if s.archive != nil {
		var err error
		list, err = s.archive.Recent(r.Context(), eventType, limit)
		if err != nil {
			s.writeBackendError(w, r, err)
			return
		}
	} else {
		list = tail(s.backend.Events(), eventType, limit)
	}
	if list == nil {
		list = []*types.Event{}
	}
	writeJSON(w, http.StatusOK, map[string][]*types.Event{"events": list})
}

// Event page bounds for /v1/events.
const (
	DefaultEventPage = 50
	MaxEventPage     = 100
)

// tail returns the last limit events of eventType, oldest first.
func tail(all []*types.Event, eventType string, limit int) []*types.Event {
	out := make([]*types.Event, 0, limit)
	for i := len(all) - 1; i >= 0 && len(out) < limit; i-- {
		if eventType == "" || all[i].Type == eventType {
			out = append(out, all[i])
		}
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}
