package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"suiquiz/internal/app/service"
	"suiquiz/internal/common"
	"suiquiz/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type QuizHandler struct {
	attestationService *service.AttestationService
	rateGate           *service.RateGate
}

func NewQuizHandler(as *service.AttestationService, gate *service.RateGate) *QuizHandler {
	return &QuizHandler{attestationService: as, rateGate: gate}
}

func (h *QuizHandler) RegisterRoutes(r chi.Router) {
	r.Post("/submit-quiz", h.submitQuiz)
	r.Get("/user/{accountID}/limit", h.getLimit)
	r.Get("/attestation/key", h.getVerifyingKey)
}

type SubmitQuizRequest struct {
	AccountID string                   `json:"account_id"`
	Answers   []model.AnswerSubmission `json:"answers"`
}

type SubmitQuizResponse struct {
	ClaimID        string `json:"claim_id"`
	AccountID      string `json:"account_id"`
	CorrectCount   int    `json:"correct_count"`
	TotalAttempted int    `json:"total_attempted"`
	IssuedAt       int64  `json:"issued_at"`
	Signature      string `json:"signature"`
	Remaining      int    `json:"remaining"`
}

func (h *QuizHandler) submitQuiz(w http.ResponseWriter, r *http.Request) {
	var req SubmitQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	if req.AccountID == "" || req.Answers == nil {
		common.RespondWithError(w, http.StatusBadRequest, "account_id and answers are required")
		return
	}

	claim, remaining, err := h.attestationService.Issue(r.Context(), req.AccountID, req.Answers)
	if err != nil {
		var quotaErr *common.QuotaExceededError
		if errors.As(err, &quotaErr) {
			common.RespondQuotaExceeded(w, err.Error(), quotaErr.Remaining)
			return
		}
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}

	common.RespondWithJSON(w, http.StatusOK, SubmitQuizResponse{
		ClaimID:        claim.ID,
		AccountID:      claim.AccountID,
		CorrectCount:   claim.CorrectCount,
		TotalAttempted: claim.TotalAttempted,
		IssuedAt:       claim.IssuedAt,
		Signature:      claim.Signature,
		Remaining:      remaining,
	})
}

type LimitResponse struct {
	Date      string `json:"date"`
	Used      int    `json:"used"`
	Remaining int    `json:"remaining"`
}

func (h *QuizHandler) getLimit(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountID")
	if !model.IsLedgerAddress(accountID) {
		common.RespondWithError(w, http.StatusBadRequest, "account id is not a ledger address")
		return
	}

	record, err := h.rateGate.Usage(r.Context(), accountID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, LimitResponse{
		Date:      record.WindowDate,
		Used:      record.AttemptsUsed,
		Remaining: service.DailyAttemptLimit - record.AttemptsUsed,
	})
}

type VerifyingKeyResponse struct {
	Algorithm string `json:"algorithm"`
	PublicKey string `json:"public_key"`
}

func (h *QuizHandler) getVerifyingKey(w http.ResponseWriter, r *http.Request) {
	common.RespondWithJSON(w, http.StatusOK, VerifyingKeyResponse{
		Algorithm: "ed25519",
		PublicKey: h.attestationService.VerifyingKey(),
	})
}
