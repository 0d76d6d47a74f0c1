// Package main demonstrates a complete multi-party workflow: importing an existing
// Ed25519 key, signing with changing quorums, excluding a misbehaving party and
// batch-verifying the results
package main

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/Caqil/ed25519-tss/pkg/crypto/curve"
	"github.com/Caqil/ed25519-tss/pkg/keygen"
	"github.com/Caqil/ed25519-tss/pkg/logger"
	"github.com/Caqil/ed25519-tss/pkg/signing"
)

// faultyParticipant corrupts its partial signature
type faultyParticipant struct {
	*signing.LocalParticipant
}

func (f faultyParticipant) Sign(ctx context.Context, pkg *signing.SigningPackage) (signing.PartialSignature, error) {
	ps, err := f.LocalParticipant.Sign(ctx, pkg)
	if err == nil {
		ps.S = curve.NewScalar().Add(ps.S, curve.OneScalar())
	}
	return ps, err
}

func main() {
	fmt.Println("=== Multi-Party TSS Demo: 3-of-5 Threshold ===")

	threshold := 3
	totalParties := 5
	parties := map[int]string{1: "Alice", 2: "Bob", 3: "Charlie", 4: "Dave", 5: "Eve"}

	logCfg := logger.DefaultConfig()
	logCfg.Level = "debug"
	logCfg.Pretty = true
	logCfg.Output = os.Stdout
	logCfg.TimeFormat = time.TimeOnly
	lg := logger.New(logCfg)

	// ========================================
	// Part 1: Import an existing key
	// ========================================
	section("PART 1: SPLITTING AN EXISTING ED25519 KEY")

	stdPub, stdPriv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		log.Fatalf("Key generation failed: %v", err)
	}
	pub, shares, err := keygen.SplitSeed(rand.Reader, stdPriv.Seed(), keygen.DefaultDealerConfig(threshold, totalParties))
	if err != nil {
		log.Fatalf("SplitSeed failed: %v", err)
	}
	clear(stdPriv)
	lg.InfoEvent().Str("key", logger.RedactSecret(hex.EncodeToString(stdPub))).Int("threshold", threshold).Msg("existing key split")
	fmt.Printf("✓ Existing public key: %x\n", []byte(stdPub))
	fmt.Printf("✓ Group public key:    %x\n", curve.EncodePoint(pub.GroupKey))

	honest := make(map[int]signing.Participant, len(shares))
	for _, share := range shares {
		signer, err := signing.NewSigner(share, lg)
		if err != nil {
			log.Fatalf("Failed to create signer for %s: %v", parties[share.Index], err)
		}
		honest[share.Index] = signing.NewLocalParticipant(signer, rand.Reader)
	}

	var batch []signing.BatchItem
	signWith := func(participants map[int]signing.Participant, quorum []int, message []byte) (*signing.Signature, error) {
		session, err := signing.NewSession(rand.Reader, signing.SessionParams{
			Message: message,
			Quorum:  quorum,
			Public:  pub,
		}, &signing.SessionConfig{
			Deadline: time.Now().Add(10 * time.Second),
			Logger:   lg,
		})
		if err != nil {
			return nil, err
		}
		sig, err := signing.Run(context.Background(), session, participants)
		if err != nil {
			return nil, err
		}
		batch = append(batch, signing.BatchItem{Signature: sig, Message: message, GroupKey: pub.GroupKey})
		return sig, nil
	}

	// ========================================
	// Part 2: Transactions with different quorums
	// ========================================
	section("PART 2: TRANSACTIONS")

	for i, quorum := range [][]int{{1, 2, 3}, {2, 4, 5}, {1, 3, 4, 5}} {
		message := []byte(fmt.Sprintf("TX%d: transfer %d units", i+1, (i+1)*100))
		sig, err := signWith(honest, quorum, message)
		if err != nil {
			log.Fatalf("Transaction %d failed: %v", i+1, err)
		}
		if !ed25519.Verify(stdPub, message, sig.Bytes()) {
			log.Fatalf("❌ Transaction %d does not verify under the original key!", i+1)
		}
		fmt.Printf("✓ Transaction %d signed by %s\n", i+1, names(parties, quorum))
	}

	// ========================================
	// Part 3: Misbehaving party
	// ========================================
	section("PART 3: IDENTIFIABLE ABORT")

	withFault := make(map[int]signing.Participant, len(honest))
	for idx, p := range honest {
		withFault[idx] = p
	}
	withFault[4] = faultyParticipant{honest[4].(*signing.LocalParticipant)}

	message := []byte("TX4: emergency withdrawal")
	_, err = signWith(withFault, []int{1, 2, 4}, message)
	var pse *signing.PartialSignatureError
	if !errors.As(err, &pse) {
		log.Fatalf("Expected a partial signature failure, got %v", err)
	}
	fmt.Printf("✓ Session aborted, %s (party %d) sent an invalid partial signature\n", parties[pse.Index], pse.Index)

	retry := []int{1, 2, 3, 5}
	if _, err := signWith(withFault, retry, message); err != nil {
		log.Fatalf("Retry failed: %v", err)
	}
	fmt.Printf("✓ Retried without %s: signed by %s\n", parties[pse.Index], names(parties, retry))

	// ========================================
	// Part 4: Batch verification
	// ========================================
	section("PART 4: BATCH VERIFICATION")

	result := signing.BatchVerify(batch, 0)
	if !result.Valid {
		log.Fatalf("❌ Batch verification failed at %v", result.FailedIndices)
	}
	fmt.Printf("✓ %d signatures verified\n", result.TotalChecked)

	fmt.Println("\n=== Multi-Party Demo Complete! ===")
}

func names(parties map[int]string, quorum []int) string {
	out := make([]string, len(quorum))
	for i, idx := range quorum {
		out[i] = parties[idx]
	}
	return strings.Join(out, ", ")
}

func section(title string) {
	fmt.Println("\n" + strings.Repeat("=", 50))
	fmt.Println(title)
	fmt.Println(strings.Repeat("=", 50))
}
