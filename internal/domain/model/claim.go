package model

import "encoding/binary"

// ScoreClaim is a signed, time-stamped statement of a player's computed
// quiz performance. It is immutable once issued; the on-chain contract is
// the authority on whether a claim may be consumed twice.
type ScoreClaim struct {
	ID             string `json:"claim_id"`
	AccountID      string `json:"account_id"`
	CorrectCount   int    `json:"correct_count"`
	TotalAttempted int    `json:"total_attempted"`
	IssuedAt       int64  `json:"issued_at"` // unix seconds, UTC
	Signature      string `json:"signature"` // hex-encoded
}

// SigningBytes returns the canonical byte encoding the signature covers:
// length-prefixed account id, then correct count and issue time as
// big-endian u64. The contract rebuilds the same bytes to verify.
func (c *ScoreClaim) SigningBytes() []byte {
	buf := make([]byte, 0, 8+len(c.AccountID)+16)
	buf = binary.BigEndian.AppendUint64(buf, uint64(len(c.AccountID)))
	buf = append(buf, c.AccountID...)
	buf = binary.BigEndian.AppendUint64(buf, uint64(c.CorrectCount))
	buf = binary.BigEndian.AppendUint64(buf, uint64(c.IssuedAt))
	return buf
}
