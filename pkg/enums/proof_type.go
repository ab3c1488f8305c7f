package enums

import "fmt"

// ProofType defines the kind of delivery proof artifact.
type ProofType string

const (
	ProofTypeImage ProofType = "image"
	ProofTypeAudio ProofType = "audio"
)

var validProofTypes = []ProofType{
	ProofTypeImage,
	ProofTypeAudio,
}

// String returns the literal string for the proof type.
func (p ProofType) String() string {
	return string(p)
}

// IsValid reports whether the proof type is known.
func (p ProofType) IsValid() bool {
	for _, candidate := range validProofTypes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseProofType converts raw input into a ProofType.
func ParseProofType(value string) (ProofType, error) {
	for _, candidate := range validProofTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid proof type %q", value)
}
