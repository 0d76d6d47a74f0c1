package signing

import (
	"encoding/hex"
	"slices"

	"github.com/Caqil/ed25519-tss/pkg/crypto/curve"
)

// SessionIDSize is the length of a session identifier
const SessionIDSize = 32

// SessionID identifies one signing session. Every protocol message carries it.
type SessionID [SessionIDSize]byte

// String returns the hex encoding of the ID
func (id SessionID) String() string {
	return hex.EncodeToString(id[:])
}

// SessionRequest asks quorum members for a nonce commitment
type SessionRequest struct {
	SessionID SessionID
	Message   []byte
	Quorum    []int
}

// NonceCommitment is R_i = r_i·B, published before any nonce-derived value
type NonceCommitment struct {
	SessionID SessionID
	Index     int
	Point     *curve.Point
}

// SigningPackage is sent to every quorum member once all commitments are fixed
type SigningPackage struct {
	SessionID   SessionID
	Message     []byte
	Quorum      []int
	Commitments map[int]*curve.Point
	GroupKey    *curve.Point
}

// AggregateNonce returns R = Σ R_i over the package's commitments
func (p *SigningPackage) AggregateNonce() *curve.Point {
	R := curve.Identity()
	for _, idx := range p.Quorum {
		R.Add(R, p.Commitments[idx])
	}
	return R
}

// PartialSignature is participant Index's contribution s_i = r_i + c·λ_i·x_i
type PartialSignature struct {
	SessionID SessionID
	Index     int
	S         *curve.Scalar
}

func cloneRequest(r *SessionRequest) *SessionRequest {
	return &SessionRequest{
		SessionID: r.SessionID,
		Message:   slices.Clone(r.Message),
		Quorum:    slices.Clone(r.Quorum),
	}
}
