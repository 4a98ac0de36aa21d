package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// readPassword is a variable so tests can stub out terminal interaction.
var readPassword = term.ReadPassword

// loginCmd authenticates against the backend and stores the session.
var loginCmd = &cobra.Command{
	Use:   "login [username]",
	Short: "Authenticate and store the session locally",
	Long: `Authenticate against the backend with a username and password.

The password is read from the terminal without echo. On success the bearer
credential and profile are stored under the credentials directory and reused
by later invocations until they expire or you run chatwire logout.

Examples:
  chatwire login alice --server https://chat.example.com/api
  chatwire login -c config.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLogin,
}

// logoutCmd discards the stored session.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Discard the stored session",
	RunE:  runLogout,
}

// whoamiCmd shows the currently authenticated user.
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the currently authenticated user",
	RunE:  runWhoami,
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	client, err := buildClient(cmd)
	if err != nil {
		return err
	}

	var username string
	if len(args) > 0 {
		username = args[0]
	} else {
		fmt.Fprint(os.Stderr, "username: ")
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read username: %w", err)
		}
		username = strings.TrimSpace(line)
	}
	if username == "" {
		return fmt.Errorf("username is required")
	}

	fmt.Fprint(os.Stderr, "password: ")
	password, err := readPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	if err := client.Login(cmd.Context(), username, string(password)); err != nil {
		return err
	}

	if profile, ok := client.Session().Profile(); ok {
		fmt.Printf("logged in as %s (%s)\n", profile.Username, profile.Email)
	}
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	client, err := buildClient(cmd)
	if err != nil {
		return err
	}
	client.Logout()
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	client, err := buildClient(cmd)
	if err != nil {
		return err
	}

	session := client.Session()
	if !session.Authenticated() {
		return fmt.Errorf("not logged in")
	}

	profile, ok := session.Profile()
	if !ok {
		// Credential survived but the cached profile did not; refresh it.
		refreshed, err := client.FetchProfile(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to fetch profile: %w", err)
		}
		profile = refreshed
	}

	fmt.Printf("%s (%s)\n", profile.Username, profile.Email)
	if expiry, ok := session.TokenExpiry(); ok {
		fmt.Printf("session expires: %s\n", expiry.Format("2006-01-02 15:04:05 MST"))
	}
	return nil
}
