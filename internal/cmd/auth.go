package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/newsdesk/internal/authz"
	nerrors "github.com/felixgeelhaar/newsdesk/internal/errors"
	"github.com/felixgeelhaar/newsdesk/internal/session"
	"github.com/felixgeelhaar/newsdesk/internal/tokenstore"
	"github.com/felixgeelhaar/newsdesk/internal/tui"
	"github.com/felixgeelhaar/newsdesk/pkg/newsdesk/types"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Log in, register and inspect the session",
	Long: `Authenticate against the portal with a one-time password (OTP).

Logging in is two steps: request an OTP for a phone number, then submit it.
The token and your profile are kept in ~/.newsdesk/session.json. Set
NEWSDESK_PASSPHRASE to encrypt the stored values.

Examples:
  # Interactive login
  newsdesk auth login

  # Scripted login
  newsdesk auth otp --phone +15550001
  newsdesk auth login --phone +15550001 --otp 123456

  # Show roles and which areas you may enter
  newsdesk auth status
`,
}

var authOTPCmd = &cobra.Command{
	Use:   "otp",
	Short: "Request a one-time password",
	RunE:  runAuthOTP,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in with phone number and OTP",
	Long: `Log in with a phone number and one-time password.

Without --otp an OTP is requested first. In a terminal you are then asked
for it; otherwise rerun the command with --otp.`,
	RunE: runAuthLogin,
}

var authRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account",
	Long: `Create a portal account. Registration is confirmed with an OTP and does
not log you in; run 'newsdesk auth login' afterwards.`,
	RunE: runAuthRegister,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored token",
	RunE:  runAuthLogout,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current session",
	RunE:  runAuthStatus,
}

var (
	authPhone     string
	authOTP       string
	authUsername  string
	authPassword  string
	authFirstName string
	authLastName  string
)

func init() {
	authOTPCmd.Flags().StringVar(&authPhone, "phone", "", "phone number to send the OTP to")
	_ = authOTPCmd.MarkFlagRequired("phone")

	authLoginCmd.Flags().StringVar(&authPhone, "phone", "", "phone number")
	authLoginCmd.Flags().StringVar(&authOTP, "otp", "", "six-digit one-time password")

	authRegisterCmd.Flags().StringVar(&authPhone, "phone", "", "phone number")
	authRegisterCmd.Flags().StringVar(&authOTP, "otp", "", "six-digit one-time password")
	authRegisterCmd.Flags().StringVar(&authUsername, "username", "", "username")
	authRegisterCmd.Flags().StringVar(&authPassword, "password", "", "password")
	authRegisterCmd.Flags().StringVar(&authFirstName, "first-name", "", "first name")
	authRegisterCmd.Flags().StringVar(&authLastName, "last-name", "", "last name")

	authCmd.AddCommand(authOTPCmd)
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authRegisterCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authStatusCmd)

	rootCmd.AddCommand(authCmd)
}

func runAuthOTP(cmd *cobra.Command, args []string) error {
	a, err := newReaderApp(cmd)
	if err != nil {
		return err
	}

	if err := a.session.RequestOTP(commandContext(cmd), authPhone); err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "✓ OTP sent to %s\n", strings.TrimSpace(authPhone))
	return nil
}

// runAuthLogin does not restore the stored session: a successful login
// overwrites it, including one that can no longer be read.
func runAuthLogin(cmd *cobra.Command, args []string) error {
	a, err := buildApp(cmd)
	if err != nil {
		return err
	}
	ctx := commandContext(cmd)

	phone := authPhone
	if phone == "" {
		if !tui.ShouldPrompt() {
			return nerrors.NewPhoneRequiredError()
		}
		if phone, err = tui.PromptForPhone(); err != nil {
			return err
		}
	}

	if authOTP != "" {
		if err := a.session.Login(ctx, phone, authOTP); err != nil {
			return err
		}
		return a.printStatus(ctx)
	}

	scope := session.NewScope(ctx)
	defer scope.Close()

	flow := session.NewOTPFlow(a.session, session.SignInFlow, scope)
	if err := flow.SetPhone(phone); err != nil {
		return err
	}
	if err := flow.SendOTP(); err != nil {
		return err
	}

	if !tui.ShouldPrompt() {
		fmt.Fprintf(a.stdout, "✓ OTP sent to %s\n", flow.State().Phone)
		fmt.Fprintf(a.stdout, "Run 'newsdesk auth login --phone %s --otp <code>' to finish.\n", flow.State().Phone)
		return nil
	}

	otp, err := tui.PromptForOTP(flow.State().Phone)
	if err != nil {
		return err
	}
	if err := flow.Submit(otp); err != nil {
		return err
	}
	return a.printStatus(ctx)
}

func runAuthRegister(cmd *cobra.Command, args []string) error {
	a, err := newReaderApp(cmd)
	if err != nil {
		return err
	}
	ctx := commandContext(cmd)

	req := types.RegisterRequest{
		PhoneNumber: strings.TrimSpace(authPhone),
		FirstName:   authFirstName,
		LastName:    authLastName,
		Username:    authUsername,
		Password:    authPassword,
	}

	interactive := tui.ShouldPrompt()
	if req.PhoneNumber == "" {
		if !interactive {
			return nerrors.NewPhoneRequiredError()
		}
		if req.PhoneNumber, err = tui.PromptForPhone(); err != nil {
			return err
		}
	}
	if req.Username == "" || req.Password == "" {
		if !interactive {
			return nerrors.New(nerrors.ErrCodeFieldRequired, "username and password are required").
				WithSuggestion("Pass --username and --password")
		}
		if err := tui.PromptForRegistration(&req); err != nil {
			return err
		}
	}

	if authOTP != "" {
		if err := a.session.Register(ctx, req, authOTP); err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "✓ Registered %s\n", req.Username)
		fmt.Fprintln(a.stdout, "Next: newsdesk auth login --phone "+req.PhoneNumber)
		return nil
	}

	scope := session.NewScope(ctx)
	defer scope.Close()

	flow := session.NewOTPFlow(a.session, session.SignUpFlow, scope)
	if err := flow.SetRegistration(req); err != nil {
		return err
	}
	if err := flow.SendOTP(); err != nil {
		return err
	}

	if !interactive {
		fmt.Fprintf(a.stdout, "✓ OTP sent to %s\n", req.PhoneNumber)
		fmt.Fprintln(a.stdout, "Rerun the command with --otp <code> to finish.")
		return nil
	}

	otp, err := tui.PromptForOTP(req.PhoneNumber)
	if err != nil {
		return err
	}
	if err := flow.Submit(otp); err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "✓ Registered %s\n", req.Username)
	if a.lastNav == session.SignInPath {
		fmt.Fprintln(a.stdout, "Next: newsdesk auth login --phone "+req.PhoneNumber)
	}
	return nil
}

func runAuthLogout(cmd *cobra.Command, args []string) error {
	a, err := buildApp(cmd)
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	if err := a.session.Logout(ctx); err != nil {
		return err
	}

	// the cached profile survives logout unless it can no longer be read
	if _, err := a.store.UserData(ctx); err != nil {
		a.logger.WithError(err).DebugContext(ctx, "dropping unreadable cached profile")
		if err := a.store.ClearUserData(ctx); err != nil {
			return err
		}
	}

	fmt.Fprintln(a.stdout, "✓ Logged out")
	return nil
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	return a.printStatus(commandContext(cmd))
}

// AreaAccess is whether the session may enter one protected area
type AreaAccess struct {
	Route   string `json:"route" yaml:"route"`
	Path    string `json:"path" yaml:"path"`
	Allowed bool   `json:"allowed" yaml:"allowed"`
	Reason  string `json:"reason" yaml:"reason"`
}

// AuthStatus is the output of 'auth status' and of a successful login
type AuthStatus struct {
	Backend          string               `json:"backend" yaml:"backend"`
	SessionFile      string               `json:"sessionFile,omitempty" yaml:"sessionFile,omitempty"`
	Authenticated    bool                 `json:"authenticated" yaml:"authenticated"`
	User             *types.UserProfile   `json:"user,omitempty" yaml:"user,omitempty"`
	TokenFingerprint string               `json:"tokenFingerprint,omitempty" yaml:"tokenFingerprint,omitempty"`
	Claims           *session.TokenClaims `json:"claims,omitempty" yaml:"claims,omitempty"`
	Expired          bool                 `json:"expired,omitempty" yaml:"expired,omitempty"`
	CanWrite         bool                 `json:"canWrite" yaml:"canWrite"`
	CanReview        bool                 `json:"canReview" yaml:"canReview"`
	Areas            []AreaAccess         `json:"areas" yaml:"areas"`
}

func (a *app) printStatus(ctx context.Context) error {
	snap := a.session.Snapshot()
	status := AuthStatus{
		Backend:       a.baseURL,
		SessionFile:   a.storePath,
		Authenticated: snap.Authenticated,
		User:          snap.User,
		CanWrite:      authz.CanWrite(snap),
		CanReview:     authz.CanReview(snap),
	}

	token, ok, err := a.store.Token(ctx)
	if err != nil {
		return err
	}
	if ok {
		status.TokenFingerprint = tokenstore.Fingerprint(token)
		if claims, isJWT := session.InspectToken(token); isJWT {
			status.Claims = claims
			status.Expired = claims.Expired(time.Now())
		}
	}

	for _, r := range authz.Routes {
		if !r.Protected {
			continue
		}
		d := authz.Guard(snap, r.Roles)
		status.Areas = append(status.Areas, AreaAccess{
			Route:   r.Name,
			Path:    r.Pattern,
			Allowed: d.Allowed,
			Reason:  d.Reason,
		})
	}

	return a.print(&status)
}

// RenderText prints the status for humans
func (s *AuthStatus) RenderText(w io.Writer, noColor bool) error {
	fmt.Fprintf(w, "Backend:  %s\n", s.Backend)
	if s.SessionFile != "" {
		fmt.Fprintf(w, "Session:  %s\n", s.SessionFile)
	}

	if !s.Authenticated {
		fmt.Fprintln(w, "Status:   not logged in")
	} else {
		fmt.Fprintln(w, "Status:   logged in")
	}

	if s.User != nil {
		fmt.Fprintf(w, "User:     %s (%s)\n", s.User.Username, s.User.DisplayName())
		roles := make([]string, len(s.User.Roles))
		for i, r := range s.User.Roles {
			roles[i] = string(r)
		}
		fmt.Fprintf(w, "Roles:    %s\n", strings.Join(roles, ", "))
	}

	if s.TokenFingerprint != "" {
		fmt.Fprintf(w, "Token:    %s\n", s.TokenFingerprint)
	}
	if s.Claims != nil {
		if s.Claims.Subject != "" {
			fmt.Fprintf(w, "Subject:  %s\n", s.Claims.Subject)
		}
		if s.Claims.ExpiresAt != nil {
			suffix := ""
			if s.Expired {
				suffix = " (expired)"
			}
			fmt.Fprintf(w, "Expires:  %s%s\n", s.Claims.ExpiresAt.Format(time.RFC3339), suffix)
		}
	}

	fmt.Fprintf(w, "Write:    %s\n", yesNo(s.CanWrite))
	fmt.Fprintf(w, "Review:   %s\n", yesNo(s.CanReview))

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Areas:")
	for _, area := range s.Areas {
		mark := "✗"
		if area.Allowed {
			mark = "✓"
		}
		fmt.Fprintf(w, "  %s %-16s %s\n", mark, area.Route, area.Reason)
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
