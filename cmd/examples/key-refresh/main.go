// Package main demonstrates proactive security through key share refresh
package main

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Caqil/ed25519-tss/pkg/crypto/curve"
	"github.com/Caqil/ed25519-tss/pkg/keygen"
	"github.com/Caqil/ed25519-tss/pkg/signing"
)

func main() {
	fmt.Println("=== Key Share Refresh Demo: Proactive Security ===")

	threshold := 2
	totalParties := 3
	parties := map[int]string{1: "Alice", 2: "Bob", 3: "Charlie"}

	fmt.Printf("Configuration: %d-of-%d threshold\n", threshold, totalParties)
	fmt.Println("Refresh re-randomizes every share without changing the public key,")
	fmt.Println("so shares stolen before a refresh are useless afterwards.")

	// ========================================
	// Part 1: Initial Setup
	// ========================================
	section("PART 1: INITIAL KEY GENERATION")

	pub, shares, err := keygen.DealerSetup(rand.Reader, threshold, totalParties)
	if err != nil {
		log.Fatalf("Dealer setup failed: %v", err)
	}
	groupKey := curve.ClonePoint(pub.GroupKey)
	fmt.Printf("✓ Public Key: %x\n", curve.EncodePoint(groupKey))

	// Keep a copy of Alice's original share to show it is stale later
	stolen := shares[0].Share()

	// ========================================
	// Part 2: Sign with Original Shares
	// ========================================
	section("PART 2: SIGNING WITH ORIGINAL SHARES")
	sign(pub, shares, []int{1, 2}, []byte("Transaction 1: original shares"))
	fmt.Printf("✓ %s and %s signed with the original shares\n", parties[1], parties[2])

	// ========================================
	// Part 3: Distributed Refresh
	// ========================================
	section("PART 3: PROACTIVE KEY SHARE REFRESH")

	// Every party deals a sharing of zero; every party adds all dealings it receives
	for _, dealer := range pub.Indices() {
		dealing, err := keygen.RefreshDealing(rand.Reader, threshold, pub.Indices())
		if err != nil {
			log.Fatalf("%s refresh dealing failed: %v", parties[dealer], err)
		}
		for _, share := range shares {
			if err := share.ApplyRefresh(dealing.Share(share.Index), dealing.Commitment); err != nil {
				log.Fatalf("%s rejected %s's refresh: %v", parties[share.Index], parties[dealer], err)
			}
		}
		if err := pub.ApplyRefresh(dealing.Commitment); err != nil {
			log.Fatalf("Public refresh failed: %v", err)
		}
		dealing.Zeroize()
		fmt.Printf("✓ %s's refresh dealing applied\n", parties[dealer])
	}

	if !curve.PointsEqual(pub.GroupKey, groupKey) {
		log.Fatal("❌ Public key changed during refresh!")
	}
	fmt.Println("✓ Public key verification: MATCH")

	for _, share := range shares {
		if err := pub.VerifyShare(share); err != nil {
			log.Fatalf("Refreshed share %d inconsistent: %v", share.Index, err)
		}
	}
	fmt.Println("✓ Refreshed shares consistent with the updated commitments")

	// ========================================
	// Part 4: Sign with Refreshed Shares
	// ========================================
	section("PART 4: SIGNING WITH REFRESHED SHARES")
	sign(pub, shares, []int{2, 3}, []byte("Transaction 2: refreshed shares"))
	fmt.Printf("✓ %s and %s signed with the refreshed shares\n", parties[2], parties[3])

	// ========================================
	// Part 5: Old Share Is Useless
	// ========================================
	section("PART 5: STALE SHARE CHECK")
	stale := &keygen.KeyShare{Index: stolen.Index, Threshold: threshold, Value: stolen.Value, GroupKey: groupKey}
	if err := pub.VerifyShare(stale); err == nil {
		log.Fatal("❌ Stale share still verifies!")
	}
	secret, err := keygen.ReconstructSecret([]*keygen.KeyShare{stale, shares[1]})
	if err != nil {
		log.Fatalf("Reconstruction failed: %v", err)
	}
	if curve.PointsEqual(curve.ScalarBaseMult(secret), groupKey) {
		log.Fatal("❌ Stale share combines with a fresh one!")
	}
	fmt.Printf("✓ %s's pre-refresh share no longer combines with current shares\n", parties[1])

	fmt.Println("\n=== Key Refresh Complete! ===")
}

// sign runs a signing session among quorum with in-process participants
func sign(pub *keygen.PublicKeyPackage, shares []*keygen.KeyShare, quorum []int, message []byte) {
	participants := make(map[int]signing.Participant, len(shares))
	for _, share := range shares {
		signer, err := signing.NewSigner(share, nil)
		if err != nil {
			log.Fatalf("Failed to create signer %d: %v", share.Index, err)
		}
		participants[share.Index] = signing.NewLocalParticipant(signer, rand.Reader)
	}

	session, err := signing.NewSession(rand.Reader, signing.SessionParams{
		Message: message,
		Quorum:  quorum,
		Public:  pub,
	}, signing.DefaultSessionConfig(10*time.Second))
	if err != nil {
		log.Fatalf("Failed to create session: %v", err)
	}

	sig, err := signing.Run(context.Background(), session, participants)
	if err != nil {
		log.Fatalf("Signing failed: %v", err)
	}
	if !signing.Verify(sig, message, pub.GroupKey) {
		log.Fatal("❌ Signature verification failed!")
	}
	fmt.Printf("  Signature: %x...\n", sig.Bytes()[:16])
}

func section(title string) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println(title)
	fmt.Println(strings.Repeat("=", 60))
}
