package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"max.ks1230/expense-tracker/internal/config"
	"max.ks1230/expense-tracker/internal/crypto"
)

const encryptionKeyEnv = "ENCRYPTION_KEY"

var secretCmd = &cobra.Command{
	Use:   "secret",
	Short: "Seal the database password for the config file",
}

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Print a new encryption key",
	RunE: func(cmd *cobra.Command, _ []string) error {
		key, err := crypto.GenerateKey()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), key)
		return nil
	},
}

var encryptCmd = &cobra.Command{
	Use:   "encrypt <value>",
	Short: "Encrypt a value with " + encryptionKeyEnv,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := os.Getenv(encryptionKeyEnv)
		if key == "" {
			return errors.Errorf("%s is not set, run `tracker secret keygen` first", encryptionKeyEnv)
		}
		token, err := crypto.Encrypt(key, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), config.EncryptedValue(token))
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the tracker version",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version)
	},
}

func init() {
	secretCmd.AddCommand(keygenCmd, encryptCmd)
	rootCmd.AddCommand(secretCmd, versionCmd)
}
