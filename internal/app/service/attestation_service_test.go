package service

import (
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"suiquiz/internal/common"
	"suiquiz/internal/common/security"
	"suiquiz/internal/domain/model"
	"suiquiz/internal/domain/repository"
)

const testSeedHex = "9d61b19deffd5a60ba844af492ec2cc44449c5697b326919703bac031cae7f60"

type failingSigner struct{}

func (failingSigner) Sign([]byte) ([]byte, error) { return nil, errors.New("key unavailable") }
func (failingSigner) PublicKey() []byte           { return nil }

func newTestIssuer(t *testing.T) *AttestationService {
	t.Helper()
	signer, err := security.NewEd25519Signer(testSeedHex)
	if err != nil {
		t.Fatalf("signer init: %v", err)
	}
	gate := NewRateGate(repository.NewMemoryQuotaStore())
	return NewAttestationService(gate, NewScoreService(testBank(t)), signer)
}

func TestIssueSignsFreshlyComputedScore(t *testing.T) {
	issuer := newTestIssuer(t)

	claim, remaining, err := issuer.Issue(context.Background(), "0xaa", []model.AnswerSubmission{
		{QuestionID: 1, SelectedOption: 0}, // correct
		{QuestionID: 2, SelectedOption: 0}, // wrong
		{QuestionID: 3, SelectedOption: 1}, // correct
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claim.CorrectCount != 2 || claim.TotalAttempted != 3 {
		t.Fatalf("claim counts %d/%d, want 2/3", claim.CorrectCount, claim.TotalAttempted)
	}
	if remaining != 7 {
		t.Fatalf("remaining=%d, want 7", remaining)
	}
	if claim.ID == "" || claim.IssuedAt == 0 {
		t.Fatalf("claim missing id or timestamp: %+v", claim)
	}

	// The signature must verify against the advertised public key over the
	// canonical claim bytes.
	sig, err := hex.DecodeString(claim.Signature)
	if err != nil {
		t.Fatalf("signature is not hex: %v", err)
	}
	pub, err := hex.DecodeString(issuer.VerifyingKey())
	if err != nil {
		t.Fatalf("public key is not hex: %v", err)
	}
	if !ed25519.Verify(ed25519.PublicKey(pub), claim.SigningBytes(), sig) {
		t.Fatal("claim signature does not verify")
	}
}

func TestIssueRejectsBeforeScoringWhenQuotaExceeded(t *testing.T) {
	issuer := newTestIssuer(t)
	ctx := context.Background()

	// End-to-end scenario: 3 of 5 correct on a fresh day, then 6 more.
	claim, remaining, err := issuer.Issue(ctx, "0xaa", []model.AnswerSubmission{
		{QuestionID: 1, SelectedOption: 0}, // correct
		{QuestionID: 2, SelectedOption: 2}, // correct
		{QuestionID: 3, SelectedOption: 1}, // correct
		{QuestionID: 1, SelectedOption: 1}, // wrong
		{QuestionID: 2, SelectedOption: 0}, // wrong
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claim.CorrectCount != 3 || claim.TotalAttempted != 5 || remaining != 5 {
		t.Fatalf("got %d/%d remaining=%d, want 3/5 remaining=5", claim.CorrectCount, claim.TotalAttempted, remaining)
	}

	_, _, err = issuer.Issue(ctx, "0xaa", make([]model.AnswerSubmission, 6))
	var quotaErr *common.QuotaExceededError
	if !errors.As(err, &quotaErr) {
		t.Fatalf("expected QuotaExceededError, got %v", err)
	}
	if !errors.Is(err, common.ErrQuotaExceeded) {
		t.Fatal("QuotaExceededError should match ErrQuotaExceeded")
	}
	if quotaErr.Remaining != 5 {
		t.Fatalf("rejection carries remaining=%d, want 5", quotaErr.Remaining)
	}
}

func TestIssueChargesQuotaOnFullBatchSize(t *testing.T) {
	issuer := newTestIssuer(t)
	ctx := context.Background()

	// Unknown questions are skipped by scoring but still consume quota:
	// the gate charges the requested batch size, not the resolved count.
	claim, remaining, err := issuer.Issue(ctx, "0xaa", []model.AnswerSubmission{
		{QuestionID: 1, SelectedOption: 0},
		{QuestionID: 888, SelectedOption: 0},
		{QuestionID: 999, SelectedOption: 0},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claim.TotalAttempted != 1 {
		t.Fatalf("attempted=%d, want 1", claim.TotalAttempted)
	}
	if remaining != 7 {
		t.Fatalf("remaining=%d, want 7 (3 charged)", remaining)
	}
}

func TestIssueIdenticalRequestsConsumeQuotaTwice(t *testing.T) {
	issuer := newTestIssuer(t)
	ctx := context.Background()

	batch := make([]model.AnswerSubmission, 5)
	for i := range batch {
		batch[i] = model.AnswerSubmission{QuestionID: 1, SelectedOption: 0}
	}

	// There is no request deduplication: a blind retry is a second charge.
	if _, remaining, err := issuer.Issue(ctx, "0xaa", batch); err != nil || remaining != 5 {
		t.Fatalf("first issue: remaining=%d err=%v", remaining, err)
	}
	if _, remaining, err := issuer.Issue(ctx, "0xaa", batch); err != nil || remaining != 0 {
		t.Fatalf("second issue: remaining=%d err=%v", remaining, err)
	}
	if _, _, err := issuer.Issue(ctx, "0xaa", batch); !errors.Is(err, common.ErrQuotaExceeded) {
		t.Fatalf("third issue should exhaust quota, got %v", err)
	}
}

func TestIssueRejectsMalformedAccount(t *testing.T) {
	issuer := newTestIssuer(t)

	for _, account := range []string{"", "alice", "0x", "0xzz", "0x" + strings.Repeat("f", 65)} {
		_, _, err := issuer.Issue(context.Background(), account, nil)
		if !errors.Is(err, common.ErrInvalidArgument) {
			t.Errorf("account %q: expected ErrInvalidArgument, got %v", account, err)
		}
	}
}

func TestIssueNeverReturnsUnsignedClaim(t *testing.T) {
	gate := NewRateGate(repository.NewMemoryQuotaStore())
	issuer := NewAttestationService(gate, NewScoreService(testBank(t)), failingSigner{})

	claim, _, err := issuer.Issue(context.Background(), "0xaa", []model.AnswerSubmission{
		{QuestionID: 1, SelectedOption: 0},
	})
	if !errors.Is(err, common.ErrSigningFailure) {
		t.Fatalf("expected ErrSigningFailure, got %v", err)
	}
	if claim != nil {
		t.Fatal("a claim must never be returned when signing fails")
	}
}
