// Package main demonstrates 2-of-3 threshold Ed25519 signing with a trusted dealer
package main

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"log"
	"time"

	"github.com/Caqil/ed25519-tss/pkg/crypto/curve"
	"github.com/Caqil/ed25519-tss/pkg/keygen"
	"github.com/Caqil/ed25519-tss/pkg/signing"
)

func main() {
	fmt.Println("=== Simple Threshold Signing Example: 2-of-3 ===")

	threshold := 2
	totalParties := 3

	// Phase 1: Trusted dealer splits a fresh key
	fmt.Println("\nPhase 1: Dealer setup...")
	pub, shares, err := keygen.DealerSetup(rand.Reader, threshold, totalParties)
	if err != nil {
		log.Fatalf("Dealer setup failed: %v", err)
	}
	fmt.Printf("  ✓ Generated %d key shares\n", len(shares))
	fmt.Printf("  ✓ Group public key: %x\n", curve.EncodePoint(pub.GroupKey))

	signers := make(map[int]*signing.Signer, len(shares))
	for _, share := range shares {
		if err := pub.VerifyShare(share); err != nil {
			log.Fatalf("Share %d is corrupt: %v", share.Index, err)
		}
		signer, err := signing.NewSigner(share, nil)
		if err != nil {
			log.Fatalf("Failed to create signer %d: %v", share.Index, err)
		}
		signers[share.Index] = signer
	}
	fmt.Println("  ✓ Every share verified against the public commitments")

	message := []byte("hello")

	// Phase 2: Every pair signs the same message
	fmt.Println("\nPhase 2: Threshold signing with each quorum...")
	for _, quorum := range [][]int{{1, 2}, {1, 3}, {2, 3}} {
		sig := runThresholdSigning(pub, signers, quorum, message)
		fmt.Printf("  Quorum %v\n", quorum)
		fmt.Printf("    R: %x\n", sig.R.Bytes()[:16])
		fmt.Printf("    S: %x\n", sig.S.Bytes()[:16])

		// Phase 3: A plain Ed25519 verifier accepts the signature
		if !ed25519.Verify(curve.EncodePoint(pub.GroupKey), message, sig.Bytes()) {
			log.Fatal("❌ Signature verification failed!")
		}
		fmt.Println("    ✓ crypto/ed25519 verified the signature")
	}

	fmt.Println("\n=== Threshold Signing Complete! ===")
	fmt.Printf("Threshold: %d-of-%d\n", threshold, totalParties)
}

// runThresholdSigning drives one session by hand, round by round
func runThresholdSigning(pub *keygen.PublicKeyPackage, signers map[int]*signing.Signer, quorum []int, message []byte) *signing.Signature {
	session, err := signing.NewSession(rand.Reader, signing.SessionParams{
		Message: message,
		Quorum:  quorum,
		Public:  pub,
	}, signing.DefaultSessionConfig(30*time.Second))
	if err != nil {
		log.Fatalf("Failed to create session: %v", err)
	}

	// Round 1: every quorum member commits to a nonce
	req := session.Request()
	nonces := make(map[int]*signing.Nonce, len(quorum))
	for _, idx := range quorum {
		nonce, commitment, err := signers[idx].Commit(rand.Reader, req)
		if err != nil {
			log.Fatalf("Party %d commit failed: %v", idx, err)
		}
		if err := session.AddCommitment(commitment); err != nil {
			log.Fatalf("Party %d commitment rejected: %v", idx, err)
		}
		nonces[idx] = nonce
	}

	// Round 2: partial signatures over the fixed commitments
	pkg, err := session.SigningPackage()
	if err != nil {
		log.Fatalf("Failed to build signing package: %v", err)
	}
	for _, idx := range quorum {
		partial, err := signers[idx].Sign(nonces[idx], pkg)
		if err != nil {
			log.Fatalf("Party %d sign failed: %v", idx, err)
		}
		if err := session.AddPartialSignature(partial); err != nil {
			log.Fatalf("Party %d partial signature rejected: %v", idx, err)
		}
	}

	sig, err := session.Combine()
	if err != nil {
		log.Fatalf("Combine failed: %v", err)
	}
	return sig
}
