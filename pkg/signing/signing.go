// Package signing implements two-round threshold Ed25519 signing.
//
// PROTOCOL
//
// Setup (package keygen):
//   - Group secret x is Shamir-shared: participant i holds x_i = f(i)
//   - Group public key A = x·B; public shares Y_i = x_i·B
//
// Signing a message M with quorum Q, |Q| >= T:
//
//	Round 1 - Nonce Commitment:
//	  Each participant i in Q:
//	    1. Derives a fresh nonce r_i (hedged: new randomness, share, session, message)
//	    2. Publishes R_i = r_i·B
//	  The coordinator waits for every R_i before anything else is revealed.
//
//	Round 2 - Partial Signatures:
//	  Every participant receives all commitments and computes
//	    R   = Σ R_j
//	    c   = SHA-512(R ‖ A ‖ M) mod ℓ
//	    s_i = r_i + c·λ_i·x_i        (λ_i is the Lagrange coefficient over Q)
//	  The coordinator checks s_i·B == R_i + c·λ_i·Y_i on receipt.
//
//	Combination:
//	    s = Σ s_i, signature (R, s)
//
// The result is a standard Ed25519 signature: crypto/ed25519.Verify accepts it
// under A. The secret x is never reconstructed.
//
// A nonce is bound to one session and one message and is destroyed by its first use,
// so no API path lets a participant sign twice with the same r_i.
package signing
