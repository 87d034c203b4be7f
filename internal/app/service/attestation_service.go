package service

import (
	"context"
	"encoding/hex"
	"time"

	"suiquiz/internal/common"
	"suiquiz/internal/common/security"
	"suiquiz/internal/domain/model"
	"suiquiz/internal/platform/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AttestationService is the trust boundary of the pipeline: it gates the
// request, computes the score itself, and only then signs. Client-supplied
// counts never enter a claim, and a claim is never returned without a
// valid signature. Quota is charged on the full batch size before scoring;
// a retry of an identical request is a new charge, there is no
// deduplication.
type AttestationService struct {
	gate   *RateGate
	scorer *ScoreService
	signer security.Signer
	now    func() time.Time
}

func NewAttestationService(gate *RateGate, scorer *ScoreService, signer security.Signer) *AttestationService {
	return &AttestationService{
		gate:   gate,
		scorer: scorer,
		signer: signer,
		now:    time.Now,
	}
}

// Issue admits, scores and signs one submitted batch. On quota rejection it
// returns a QuotaExceededError carrying the remaining quota; nothing is
// scored or signed in that case.
func (s *AttestationService) Issue(ctx context.Context, accountID string, submissions []model.AnswerSubmission) (*model.ScoreClaim, int, error) {
	if !model.IsLedgerAddress(accountID) {
		return nil, 0, common.Errorf("account id %q is not a ledger address: %w", accountID, common.ErrInvalidArgument)
	}

	admit, err := s.gate.Admit(ctx, accountID, len(submissions))
	if err != nil {
		return nil, 0, err
	}
	if !admit.Allowed {
		logger.Log.Info("quiz submission rejected by rate gate",
			zap.String("account", accountID),
			zap.Int("requested", len(submissions)),
			zap.Int("remaining", admit.Remaining))
		return nil, 0, &common.QuotaExceededError{Remaining: admit.Remaining}
	}

	score := s.scorer.Score(accountID, submissions)

	claim := &model.ScoreClaim{
		ID:             uuid.NewString(),
		AccountID:      accountID,
		CorrectCount:   score.CorrectCount,
		TotalAttempted: score.TotalAttempted,
		IssuedAt:       s.now().UTC().Unix(),
	}

	signature, err := s.signer.Sign(claim.SigningBytes())
	if err != nil {
		// Never hand out an unsigned claim. The quota charge stands; the
		// account retries against its remaining budget.
		logger.Log.Error("claim signing failed", zap.String("account", accountID), zap.Error(err))
		return nil, 0, common.Errorf("sign score claim: %w", common.ErrSigningFailure)
	}
	claim.Signature = hex.EncodeToString(signature)

	logger.Log.Info("score claim issued",
		zap.String("claim_id", claim.ID),
		zap.String("account", accountID),
		zap.Int("correct", claim.CorrectCount),
		zap.Int("attempted", claim.TotalAttempted),
		zap.Int("remaining", admit.Remaining))
	return claim, admit.Remaining, nil
}

// VerifyingKey exposes the public half of the signing key so the contract
// admin can configure on-chain verification. The private key never leaves
// the signer.
func (s *AttestationService) VerifyingKey() string {
	return hex.EncodeToString(s.signer.PublicKey())
}
