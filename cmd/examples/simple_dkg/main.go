// Package main demonstrates 2-of-3 distributed key generation followed by signing
package main

import (
	"context"
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
	fmt.Println("=== Simple DKG Example: 2-of-3 Threshold ===")

	// Configuration
	threshold := 2
	indices := []int{1, 2, 3}

	// Phase 1: Create DKG instances for each party
	fmt.Println("Phase 1: Creating DKG instances...")
	dkgs := make([]*keygen.DKGProtocol, len(indices))
	for i, idx := range indices {
		dkg, err := keygen.NewDKGProtocol(idx, threshold, indices)
		if err != nil {
			log.Fatalf("Failed to create DKG for party %d: %v", idx, err)
		}
		dkgs[i] = dkg
		fmt.Printf("  ✓ Party %d initialized\n", idx)
	}

	// Phase 2: Round 1 - Generate and broadcast commitments
	fmt.Println("\nPhase 2: Round 1 - Broadcasting commitments...")
	round1Data := make([]*keygen.Round1Data, len(dkgs))
	for i, dkg := range dkgs {
		data, err := dkg.Round1(rand.Reader)
		if err != nil {
			log.Fatalf("Party %d Round1 failed: %v", dkg.Index(), err)
		}
		round1Data[i] = data
		fmt.Printf("  ✓ Party %d: Committed to %d coefficients\n", dkg.Index(), data.Commitment.Threshold())
	}

	// Phase 3: Round 2 - Exchange secret shares
	fmt.Println("\nPhase 3: Round 2 - Exchanging secret shares...")
	inbox := make(map[int][]*keygen.Round2Data)
	for _, dkg := range dkgs {
		shares, err := dkg.Round2(round1Data)
		if err != nil {
			log.Fatalf("Party %d Round2 failed: %v", dkg.Index(), err)
		}
		for _, share := range shares {
			inbox[share.ToParty] = append(inbox[share.ToParty], share)
		}
		fmt.Printf("  ✓ Party %d: Sent %d shares\n", dkg.Index(), len(shares))
	}

	// Phase 4: Round 3 - Verify received shares and finalize
	fmt.Println("\nPhase 4: Round 3 - Finalizing key shares...")
	participants := make(map[int]signing.Participant, len(dkgs))
	var pub *keygen.PublicKeyPackage
	for _, dkg := range dkgs {
		share, p, err := dkg.Round3(inbox[dkg.Index()])
		if err != nil {
			log.Fatalf("Party %d Round3 failed: %v", dkg.Index(), err)
		}
		if pub != nil && !curve.PointsEqual(pub.GroupKey, p.GroupKey) {
			log.Fatalf("Party %d has different public key!", dkg.Index())
		}
		pub = p

		signer, err := signing.NewSigner(share, nil)
		if err != nil {
			log.Fatalf("Failed to create signer %d: %v", dkg.Index(), err)
		}
		participants[dkg.Index()] = signing.NewLocalParticipant(signer, rand.Reader)
		fmt.Printf("  ✓ Party %d: Key share generated\n", dkg.Index())
	}
	fmt.Println("  ✓ All parties have consistent public key")
	fmt.Printf("  Group public key: %x\n", curve.EncodePoint(pub.GroupKey))

	// Phase 5: Sign with the new key
	fmt.Println("\nPhase 5: Signing with parties 1 and 3...")
	message := []byte("signed by a key nobody ever held")
	session, err := signing.NewSession(rand.Reader, signing.SessionParams{
		Message: message,
		Quorum:  []int{1, 3},
		Public:  pub,
	}, signing.DefaultSessionConfig(10*time.Second))
	if err != nil {
		log.Fatalf("Failed to create session: %v", err)
	}

	sig, err := signing.Run(context.Background(), session, participants)
	if err != nil {
		log.Fatalf("Signing failed: %v", err)
	}
	if !ed25519.Verify(curve.EncodePoint(pub.GroupKey), message, sig.Bytes()) {
		log.Fatal("❌ Signature verification failed!")
	}
	fmt.Println("  ✓ Signature verified")

	fmt.Println("\n=== DKG Complete! ===")
	fmt.Printf("Threshold: %d-of-%d\n", threshold, len(indices))
	fmt.Println("Any", threshold, "parties can now collaboratively sign messages.")
}
