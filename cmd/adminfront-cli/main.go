// Admin CLI for the user-management backend. Signs in, runs a single
// operation through the same client the web front-end uses, and prints
// the result.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"golang.org/x/term"

	adminfront "github.com/vledera/go-adminfront"
)

func main() {
	godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	baseURL := os.Getenv("ADMINFRONT_BACKEND_URL")
	if baseURL == "" {
		baseURL = "http://localhost:5000"
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	if cmd == "help" || cmd == "-h" || cmd == "--help" {
		printUsage()
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	gw := adminfront.NewGateway(baseURL, adminfront.NewMemoryStore()).
		WithLogger(adminfront.NopLogger{})

	if err := signIn(ctx, gw); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}

	var err error
	switch cmd {
	case "whoami":
		err = cmdWhoami(ctx, gw)
	case "users":
		err = cmdUsers(ctx, gw)
	case "register":
		err = cmdRegister(ctx, gw, args)
	case "delete":
		err = cmdDelete(ctx, gw, args)
	case "reset":
		err = cmdReset(ctx, gw, args)
	case "passwd":
		err = cmdPasswd(ctx, gw, args)
	case "self-passwd":
		err = cmdSelfPasswd(ctx, gw)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		color.Red("Error: %s", adminfront.ErrorMessage(err))
		os.Exit(1)
	}
}

func printUsage() {
	cyan := color.New(color.FgCyan)
	yellow := color.New(color.FgYellow)

	cyan.Println("adminfront-cli - user management from the terminal")
	fmt.Println()
	fmt.Println("Usage: adminfront-cli <command> [args]")
	fmt.Println()
	yellow.Println("Commands:")
	fmt.Println("  whoami                  Show the signed-in identity")
	fmt.Println("  users                   List all users")
	fmt.Println("  register <username>     Register a user (--admin for admin accounts)")
	fmt.Println("  delete <id>             Delete a user by id")
	fmt.Println("  reset <id>              Blank a user's password (forces reset)")
	fmt.Println("  passwd <id>             Set a new password for a user")
	fmt.Println("  self-passwd             Change your own password")
	fmt.Println()
	yellow.Println("Environment:")
	fmt.Println("  ADMINFRONT_BACKEND_URL  Backend base URL (default: http://localhost:5000)")
	fmt.Println("  ADMINFRONT_USER         Username (prompted when unset)")
	fmt.Println("  ADMINFRONT_PASSWORD     Password (prompted when unset)")
}

func signIn(ctx context.Context, gw *adminfront.Gateway) error {
	username := os.Getenv("ADMINFRONT_USER")
	if username == "" {
		var err error
		if username, err = promptLine("Username: "); err != nil {
			return err
		}
	}

	password := os.Getenv("ADMINFRONT_PASSWORD")
	if password == "" {
		var err error
		if password, err = promptPassword("Password: "); err != nil {
			return err
		}
	}

	return gw.Login(ctx, username, password)
}

func promptLine(prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func promptPassword(prompt string) (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return promptLine(prompt)
	}

	fmt.Print(prompt)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func cmdWhoami(ctx context.Context, gw *adminfront.Gateway) error {
	principal, err := gw.Whoami(ctx)
	if err != nil {
		return err
	}

	role := "user"
	if principal.IsAdmin {
		role = "admin"
	}

	color.Green("%s (%s)", principal.Username, role)
	fmt.Printf("Last login: %s\n", formatTime(principal.LastLoginAt))
	return nil
}

func cmdUsers(ctx context.Context, gw *adminfront.Gateway) error {
	users, err := adminfront.NewAdmin(gw).ListUsers(ctx)
	if err != nil {
		return err
	}

	if len(users) == 0 {
		fmt.Println("No users.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUSERNAME\tLAST LOGIN")
	for _, user := range users {
		fmt.Fprintf(w, "%d\t%s\t%s\n", user.ID, user.Username, formatTime(user.LastLoginAt))
	}
	return w.Flush()
}

func cmdRegister(ctx context.Context, gw *adminfront.Gateway, args []string) error {
	username := ""
	isAdmin := false
	for _, arg := range args {
		if arg == "--admin" {
			isAdmin = true
			continue
		}
		username = arg
	}
	if username == "" {
		return fmt.Errorf("usage: register <username> [--admin]")
	}

	password, err := promptPassword("Password for " + username + ": ")
	if err != nil {
		return err
	}

	if err := adminfront.NewAdmin(gw).Register(ctx, username, password, isAdmin); err != nil {
		return err
	}

	color.Green("User %s registered", username)
	return nil
}

func cmdDelete(ctx context.Context, gw *adminfront.Gateway, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}

	if err := adminfront.NewAdmin(gw).DeleteUser(ctx, id); err != nil {
		return err
	}

	color.Green("User %d deleted", id)
	return nil
}

func cmdReset(ctx context.Context, gw *adminfront.Gateway, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}

	if err := adminfront.NewAdmin(gw).ResetPassword(ctx, id); err != nil {
		return err
	}

	color.Green("Password for user %d reset, they must set a new one", id)
	return nil
}

func cmdPasswd(ctx context.Context, gw *adminfront.Gateway, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}

	password, err := promptPassword("New password: ")
	if err != nil {
		return err
	}

	if err := adminfront.NewAdmin(gw).ChangePassword(ctx, id, password); err != nil {
		return err
	}

	color.Green("Password for user %d changed", id)
	return nil
}

func cmdSelfPasswd(ctx context.Context, gw *adminfront.Gateway) error {
	password, err := promptPassword("New password: ")
	if err != nil {
		return err
	}
	confirm, err := promptPassword("Confirm password: ")
	if err != nil {
		return err
	}
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	if err := gw.ChangePassword(ctx, password); err != nil {
		return err
	}

	color.Green("Password changed")
	return nil
}

func parseID(args []string) (int64, error) {
	if len(args) < 1 {
		return 0, fmt.Errorf("missing user id")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid user id %q", args[0])
	}
	return id, nil
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "never"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}
