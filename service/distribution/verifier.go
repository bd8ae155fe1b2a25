package distribution

import (
	"bytes"
	"crypto/ed25519"
	"fmt"

	"github.com/pkg/errors"
	"gitlab.com/paramountdax-exchange/distribution_api/model"
)

// Ed25519ProgramID is the identity of the host's native ed25519 verification facility
var Ed25519ProgramID = model.MustParseIdentity("Ed25519SigVerify111111111111111111111111111")

// SignedAction is the action tag embedded in the canonical message
type SignedAction string

const (
	SignedAction_Claim SignedAction = "claim"
	SignedAction_Burn  SignedAction = "burn"
)

// CanonicalMessage is the exact text the backend authority signs for a claim or burn
func CanonicalMessage(wallet model.Identity, amount uint64, timestamp int64, action SignedAction) []byte {
	return []byte(fmt.Sprintf(`{"wallet":"%s","amount":%d,"timestamp":"%d","action":"%s"}`, wallet, amount, timestamp, action))
}

// AuthenticationProof is the signature verification operation attached to a
// request in the same atomic unit. A nil proof means nothing was attached.
type AuthenticationProof struct {
	ProgramID model.Identity
	Signer    model.Identity
	Message   []byte
	Signature []byte
}

// SignatureVerifier confirms a request was authorized by the backend authority
type SignatureVerifier interface {
	Verify(proof *AuthenticationProof, message, signature []byte, signer model.Identity) error
}

// HostVerifier accepts a request when a verification operation targeting the
// host ed25519 facility was attached to it. The cryptographic check itself is
// performed by the host (see VerifyEd25519Proof) before the request runs.
//
// Unless BindMessage is set, the expected message and signer are not compared
// with the proof contents.
type HostVerifier struct {
	BindMessage bool
}

// Verify implements SignatureVerifier
func (v HostVerifier) Verify(proof *AuthenticationProof, message, signature []byte, signer model.Identity) error {
	if proof == nil {
		return errors.Wrap(ErrInvalidSignature, "no signature verification attached")
	}
	if proof.ProgramID != Ed25519ProgramID {
		return errors.Wrapf(ErrInvalidSignature, "attached operation targets %s", proof.ProgramID)
	}
	if len(signature) != ed25519.SignatureSize {
		return errors.Wrapf(ErrInvalidSignature, "signature must be %d bytes", ed25519.SignatureSize)
	}
	if !v.BindMessage {
		return nil
	}
	if proof.Signer != signer {
		return errors.Wrapf(ErrInvalidSignature, "proof signed by %s, expected %s", proof.Signer, signer)
	}
	if !bytes.Equal(proof.Message, message) {
		return errors.Wrap(ErrInvalidSignature, "proof message does not match the request")
	}
	if !bytes.Equal(proof.Signature, signature) {
		return errors.Wrap(ErrInvalidSignature, "proof signature does not match the request")
	}
	return nil
}

// VerifyEd25519Proof runs the host's native ed25519 check of an attached proof.
// Proofs targeting another program are left to the request's own verifier.
func VerifyEd25519Proof(proof *AuthenticationProof) error {
	if proof == nil || proof.ProgramID != Ed25519ProgramID {
		return nil
	}
	if len(proof.Signature) != ed25519.SignatureSize {
		return errors.Wrap(ErrInvalidSignature, "malformed ed25519 signature")
	}
	if !ed25519.Verify(ed25519.PublicKey(proof.Signer[:]), proof.Message, proof.Signature) {
		return errors.Wrap(ErrInvalidSignature, "ed25519 verification failed")
	}
	return nil
}

// SignProof signs a message with the backend key and wraps it into a proof
// for the host ed25519 facility
func SignProof(key ed25519.PrivateKey, message []byte) (*AuthenticationProof, error) {
	signer, err := model.IdentityFromBytes(key.Public().(ed25519.PublicKey))
	if err != nil {
		return nil, err
	}
	msg := make([]byte, len(message))
	copy(msg, message)
	return &AuthenticationProof{
		ProgramID: Ed25519ProgramID,
		Signer:    signer,
		Message:   msg,
		Signature: ed25519.Sign(key, message),
	}, nil
}
