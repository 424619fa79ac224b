package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainProgram prefixes program hashes. The version suffix allows a
// future change of the canonical form.
const DomainProgram = "pulseseq/program/v1"

// hashWithDomain computes SHA256(domain + 0x00 + data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ProgramID computes the content-addressed id of a compiled program.
// Identical parameters and tables always produce the same id, so a scan
// that revisits a point reuses the stored program.
func ProgramID(p Program) (string, error) {
	canonical, err := MarshalCanonical(CanonicalProgram(p))
	if err != nil {
		return "", fmt.Errorf("ProgramID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainProgram, canonical), nil
}
