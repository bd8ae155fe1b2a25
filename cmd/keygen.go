package cmd

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"

	"github.com/mr-tron/base58"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(keygenCmd)
}

var keygenCmd = &cobra.Command{
	Use:         "keygen",
	Short:       "Generate a backend authority key pair",
	Long:        `Print a new ed25519 key pair in base58. Configure the public key as distribution.backend_authority and keep the private key with the signer.`,
	Annotations: map[string]string{offlineAnnotation: ""},
	Run: func(cmd *cobra.Command, args []string) {
		pub, priv, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			log.Fatal().Err(err).Str("section", "keygen").Msg("Unable to generate key")
			return
		}
		fmt.Printf("public_key:  %s\nprivate_key: %s\n", base58.Encode(pub), base58.Encode(priv))
	},
}
