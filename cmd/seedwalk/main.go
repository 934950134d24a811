package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/jedisct1/dlog"

	"seedwalk/internal/scanner"
	"seedwalk/internal/sigrecover"
	"seedwalk/pkg/backwalk"
)

// config mirrors the flag set; a TOML file can supply any subset and
// explicitly passed flags win over file values.
type config struct {
	TargetAddress  string `toml:"target_address"`
	TargetPubKey   string `toml:"target_pubkey"`
	SignaturesFile string `toml:"signatures"`
	SeedRange      string `toml:"seed_range"`
	MaxSteps       uint64 `toml:"max_steps"`
	Span           uint64 `toml:"span"`
	Workers        int    `toml:"workers"`
}

func main() {
	dlog.Init("seedwalk", dlog.SeverityNotice, "DAEMON")

	var (
		configFile    = flag.String("config", "", "Path to TOML configuration file (flags override file values)")
		targetAddress = flag.String("target-address", "", "Target address in hex (20 bytes)")
		targetPubKey  = flag.String("target-pubkey", "", "Target public key in hex (compressed or uncompressed)")
		signatures    = flag.String("signatures", "", "Path to JSON signatures file to recover the target public key from")
		seedRange     = flag.String("seed-range", "1,65536", "Candidate seed scalar range (format: lo,hi)")
		maxSteps      = flag.Uint64("max-steps", 1<<22, "Maximum backward steps to walk from the target")
		span          = flag.Uint64("span", 0, "Backward steps per lane (0 = auto)")
		workers       = flag.Int("workers", 0, "Number of parallel workers (0 = auto-detect based on CPU cores)")
	)
	flag.Parse()

	cfg := config{
		SeedRange: *seedRange,
		MaxSteps:  *maxSteps,
	}
	if *configFile != "" {
		if _, err := toml.DecodeFile(*configFile, &cfg); err != nil {
			dlog.Fatalf("Unable to load %s: %v", *configFile, err)
		}
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "target-address":
			cfg.TargetAddress = *targetAddress
		case "target-pubkey":
			cfg.TargetPubKey = *targetPubKey
		case "signatures":
			cfg.SignaturesFile = *signatures
		case "seed-range":
			cfg.SeedRange = *seedRange
		case "max-steps":
			cfg.MaxSteps = *maxSteps
		case "span":
			cfg.Span = *span
		case "workers":
			cfg.Workers = *workers
		}
	})

	var targetAddr backwalk.Address
	if cfg.TargetAddress != "" {
		b, err := hexDecode(cfg.TargetAddress)
		if err != nil || len(b) != backwalk.AddressLen {
			dlog.Fatalf("Invalid target address %q", cfg.TargetAddress)
		}
		copy(targetAddr[:], b)
	}

	target, err := resolveTarget(&cfg, targetAddr)
	if err != nil {
		dlog.Fatalf("Unable to resolve the target point: %v", err)
	}
	if cfg.TargetAddress == "" {
		targetAddr = backwalk.NewAddressHasher().Derive(target)
		dlog.Noticef("Target address derived from public key: %x", targetAddr)
	}

	lo, hi, err := parseRange(cfg.SeedRange)
	if err != nil {
		dlog.Fatalf("Invalid seed range: %v", err)
	}

	result, err := scanner.Scan(context.Background(), target, scanner.Config{
		SeedLo:   lo,
		SeedHi:   hi,
		MaxSteps: cfg.MaxSteps,
		Span:     cfg.Span,
		Workers:  cfg.Workers,
	})
	if err != nil {
		dlog.Fatalf("Scan failed: %v", err)
	}
	if result == nil {
		dlog.Noticef("Seed space exhausted: no match within %d backward steps", cfg.MaxSteps)
		os.Exit(1)
	}

	fmt.Printf("\n[+] Recovered private key!\n")
	fmt.Printf("    Private key: %x\n", result.PrivateKey)
	fmt.Printf("    Seed: %d (backward depth %d)\n", result.Seed, result.Depth)
	fmt.Printf("    Seed address: 0x%x\n", result.Address)
	if result.Verified {
		fmt.Println("    ✓ Verified against target address!")
	}
}

// resolveTarget turns the configured inputs into the target point: an
// explicit public key when given, otherwise recovery from a signature file.
func resolveTarget(cfg *config, targetAddr backwalk.Address) (*backwalk.Point, error) {
	if cfg.TargetPubKey != "" {
		b, err := hexDecode(cfg.TargetPubKey)
		if err != nil {
			return nil, fmt.Errorf("invalid public key hex: %w", err)
		}
		pub, err := secp256k1.ParsePubKey(b)
		if err != nil {
			return nil, fmt.Errorf("invalid public key: %w", err)
		}
		var j secp256k1.JacobianPoint
		pub.AsJacobian(&j)
		j.ToAffine()
		j.X.Normalize()
		j.Y.Normalize()
		return backwalk.NewPoint(&j.X, &j.Y), nil
	}

	if cfg.SignaturesFile == "" {
		return nil, fmt.Errorf("must specify --target-pubkey or --signatures")
	}
	sigs, err := sigrecover.ParseSignatures(cfg.SignaturesFile)
	if err != nil {
		return nil, err
	}
	dlog.Noticef("Loaded %d signature(s) from %s", len(sigs), cfg.SignaturesFile)
	for i, sig := range sigs {
		point, err := sigrecover.RecoverPublicKey(sig, targetAddr)
		if err != nil {
			dlog.Infof("Signature %d: %v", i, err)
			continue
		}
		dlog.Noticef("Target public key recovered from signature %d", i)
		return point, nil
	}
	return nil, fmt.Errorf("no signature recovers the target public key")
}

func parseRange(s string) (uint64, uint64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid range format: %s", s)
	}

	lo, err := strconv.ParseUint(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil {
		return 0, 0, err
	}

	hi, err := strconv.ParseUint(strings.TrimSpace(parts[1]), 10, 64)
	if err != nil {
		return 0, 0, err
	}

	return lo, hi, nil
}

func hexDecode(s string) ([]byte, error) {
	s = strings.TrimPrefix(s, "0x")
	s = strings.TrimPrefix(s, "0X")
	return hex.DecodeString(s)
}
