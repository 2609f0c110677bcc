package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"sclab_app/auth"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var passwdPassword string

var passwdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Hash a password for protected server mode",
	Long: `Hash a password for use with 'sclab-app server'. The command prints
an environment line; add it to sclab-app.env or export it before starting
the server, and the server will require that password on login.

The password itself is never stored, only the hash.

Example:
  sclab-app passwd
  sclab-app passwd --password 'only-for-scripts'`,
	Args: cobra.NoArgs,
	RunE: runPasswd,
}

func runPasswd(cmd *cobra.Command, args []string) error {
	password := passwdPassword
	if password == "" {
		var err error
		password, err = promptPassword()
		if err != nil {
			return err
		}
	}
	return writePasswordHash(os.Stdout, password)
}

// writePasswordHash hashes the password and prints the environment line the
// server reads it from.
func writePasswordHash(w io.Writer, password string) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "Add this line to sclab-app.env, or export it before starting the server:")
	fmt.Fprintf(w, "SCLAB_APP_HASHED_PASSWORD=%s\n", hash)
	return nil
}

// promptPassword reads the password twice without echo when stdin is a
// terminal, and falls back to a single plain read when it is not, so piped
// input still works.
func promptPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	fmt.Fprint(os.Stderr, "Password: ")
	first, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	fmt.Fprint(os.Stderr, "Repeat password: ")
	second, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	if string(first) != string(second) {
		return "", fmt.Errorf("passwords do not match")
	}
	return string(first), nil
}

func init() {
	passwdCmd.Flags().StringVar(&passwdPassword, "password", "", "password to hash (prompts when omitted)")
	rootCmd.AddCommand(passwdCmd)
}
