package cmd

import (
	"crypto/ed25519"
	"fmt"
	"os"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"gitlab.com/paramountdax-exchange/distribution_api/actions"
	"gitlab.com/paramountdax-exchange/distribution_api/conv"
	"gitlab.com/paramountdax-exchange/distribution_api/model"
	"gitlab.com/paramountdax-exchange/distribution_api/service/distribution"
)

var signOpts = struct {
	key         string
	wallet      string
	amount      string
	decimals    uint8
	timestamp   int64
	action      string
	description string
}{}

func init() {
	signCmd.Flags().StringVar(&signOpts.key, "key", "", "base58 private key of the backend authority (default: $SIGNER_KEY)")
	signCmd.Flags().StringVar(&signOpts.wallet, "wallet", "", "base58 identity of the claimant or payer")
	signCmd.Flags().StringVar(&signOpts.amount, "amount", "", "decimal amount, e.g. 1.5")
	signCmd.Flags().Uint8Var(&signOpts.decimals, "decimals", 0, "decimals of the asset; 0 when the amount is given in base units")
	signCmd.Flags().Int64Var(&signOpts.timestamp, "timestamp", 0, "unix timestamp to sign (default: now)")
	signCmd.Flags().StringVar(&signOpts.action, "action", string(distribution.SignedAction_Claim), "claim or burn")
	signCmd.Flags().StringVar(&signOpts.description, "description", "", "description of a burn")
	rootCmd.AddCommand(signCmd)
}

var signCmd = &cobra.Command{
	Use:         "sign",
	Short:       "Sign a claim or burn as the backend authority",
	Long:        `Print the JSON body of a POST /claims or POST /burns request signed by the backend authority.`,
	Annotations: map[string]string{offlineAnnotation: ""},
	Run: func(cmd *cobra.Command, args []string) {
		amount, err := conv.ToUnits(signOpts.amount, signOpts.decimals)
		if err != nil {
			log.Fatal().Err(err).Str("section", "sign").Str("amount", signOpts.amount).Msg("Invalid amount")
			return
		}
		log.Debug().Str("section", "sign").Uint64("units", amount).
			Str("amount", conv.FromUnits(amount, signOpts.decimals)).
			Msg("Signing request")
		body, err := signRequest(signOpts.key, signOpts.wallet, amount, signOpts.timestamp, signOpts.action, signOpts.description)
		if err != nil {
			log.Fatal().Err(err).Str("section", "sign").Msg("Unable to sign request")
			return
		}
		fmt.Println(string(body))
	},
}

func signRequest(rawKey, rawWallet string, amount uint64, timestamp int64, action, description string) ([]byte, error) {
	if rawKey == "" {
		rawKey = os.Getenv("SIGNER_KEY")
	}
	keyBytes, err := base58.Decode(rawKey)
	if err != nil || len(keyBytes) != ed25519.PrivateKeySize {
		return nil, errors.New("the key must be a base58 ed25519 private key")
	}
	wallet, err := model.ParseIdentity(rawWallet)
	if err != nil {
		return nil, err
	}
	if timestamp == 0 {
		timestamp = time.Now().Unix()
	}

	signed := distribution.SignedAction(action)
	if signed != distribution.SignedAction_Claim && signed != distribution.SignedAction_Burn {
		return nil, errors.Errorf("unknown action %q", action)
	}
	proof, err := distribution.SignProof(ed25519.PrivateKey(keyBytes), distribution.CanonicalMessage(wallet, amount, timestamp, signed))
	if err != nil {
		return nil, err
	}
	proofReq := &actions.ProofRequest{
		ProgramID: proof.ProgramID,
		Signer:    proof.Signer,
		Message:   proof.Message,
		Signature: proof.Signature,
	}

	json := jsoniter.ConfigCompatibleWithStandardLibrary
	if signed == distribution.SignedAction_Burn {
		return json.MarshalIndent(actions.BurnTokensRequest{
			Amount:      amount,
			Timestamp:   timestamp,
			Signature:   proof.Signature,
			Description: description,
			Proof:       proofReq,
		}, "", "  ")
	}
	return json.MarshalIndent(actions.ClaimTokensRequest{
		Amount:    amount,
		Timestamp: timestamp,
		Signature: proof.Signature,
		Proof:     proofReq,
	}, "", "  ")
}
