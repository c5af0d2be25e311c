package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

// newHashPasswordCommand prints bcrypt hashes for passwords read from stdin,
// one per line, for seeding accounts directly in the database.
func newHashPasswordCommand() *cobra.Command {
	var cost int

	cmd := &cobra.Command{
		Use:   "hash-password",
		Short: "Print bcrypt hashes for passwords read from stdin, one per line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return hashPasswords(cmd.InOrStdin(), cmd.OutOrStdout(), cost)
		},
	}
	cmd.Flags().IntVar(&cost, "cost", bcrypt.DefaultCost, "bcrypt cost factor (4-31)")
	return cmd
}

func hashPasswords(in io.Reader, out io.Writer, cost int) error {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return fmt.Errorf("cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}

	scanner := bufio.NewScanner(in)
	line := 0
	for scanner.Scan() {
		line++
		password := strings.TrimRight(scanner.Text(), "\r")
		if password == "" {
			continue
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
		if err != nil {
			return fmt.Errorf("line %d: failed to hash password: %w", line, err)
		}
		if _, err := fmt.Fprintln(out, string(hash)); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read passwords: %w", err)
	}
	return nil
}
