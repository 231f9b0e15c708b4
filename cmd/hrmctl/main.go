// Command hrmctl drives the HR portal API from a terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"hrportal/internal/client"
	"hrportal/internal/domain/permissions"
	"hrportal/internal/domain/sites"
)

const usage = `usage: hrmctl <command> [args]

commands:
  login -email E -password P
  permissions show
  permissions toggle role:capability [role:capability...]
  permissions reset
  registrations list
  registrations approve USER_ID
  registrations reject [-reason R] USER_ID
  reset request EMAIL
  reset submit -token T -password P -confirm P
  sites list
  sites create -name N [-city C] [-address A] [-phone P]
  sites delete SITE_ID
  groups list [-site SITE_ID]
  groups create -site SITE_ID -name N [-description D]
  groups delete GROUP_ID
  dashboard

environment: HRM_BASE_URL (default http://localhost:8080), HRM_TOKEN
`

var errUsage = errors.New("invalid usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Getenv); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "hrmctl:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer, getenv func(string) string) error {
	if len(args) == 0 {
		return errUsage
	}
	baseURL := getenv("HRM_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	level := slog.LevelWarn
	if getenv("HRM_DEBUG") != "" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	c := client.New(baseURL, client.WithToken(getenv("HRM_TOKEN")), client.WithLogger(logger))

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "login":
		return runLogin(ctx, c, rest, out)
	case "permissions":
		return runPermissions(ctx, c, rest, out, logger)
	case "registrations":
		return runRegistrations(ctx, c, rest, out)
	case "reset":
		return runReset(ctx, c, rest, out)
	case "sites":
		return runSites(ctx, c, rest, out)
	case "groups":
		return runGroups(ctx, c, rest, out)
	case "dashboard":
		return runDashboard(ctx, c, out)
	default:
		return errUsage
	}
}

func runLogin(ctx context.Context, c *client.Client, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil || *email == "" || *password == "" {
		return errUsage
	}
	session, err := c.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "signed in as %s (%s)\n", session.User.Email, session.RoleLabel)
	fmt.Fprintf(out, "export HRM_TOKEN=%s\n", c.Token())
	return nil
}

// stdoutNotifier prints editor notifications for the terminal user.
type stdoutNotifier struct {
	out    io.Writer
	logger *slog.Logger
}

func (n stdoutNotifier) Success(message string) { fmt.Fprintln(n.out, message) }

func (n stdoutNotifier) Error(message string) { n.logger.Error(message) }

func runPermissions(ctx context.Context, c *client.Client, args []string, out io.Writer, logger *slog.Logger) error {
	if len(args) == 0 {
		return errUsage
	}
	editor := client.NewPermissionEditor(c, stdoutNotifier{out: out, logger: logger})
	editor.Load(ctx)

	switch args[0] {
	case "show":
		printMatrix(out, editor.Rows())
		return nil
	case "toggle":
		if len(args) < 2 {
			return errUsage
		}
		for _, pair := range args[1:] {
			role, capability, ok := strings.Cut(pair, ":")
			if !ok {
				return fmt.Errorf("expected role:capability, got %q", pair)
			}
			if permissions.Locked(permissions.Role(role), permissions.Capability(capability)) {
				return fmt.Errorf("%s is locked for %s", capability, role)
			}
			if err := editor.Toggle(permissions.Role(role), permissions.Capability(capability)); err != nil {
				return err
			}
		}
		for _, change := range editor.Changes() {
			fmt.Fprintf(out, "%s.%s: %t -> %t\n", change.Role, change.Capability, change.From, change.To)
		}
		return editor.Save(ctx)
	case "reset":
		editor.Reset()
		if !editor.Dirty() {
			fmt.Fprintln(out, "permissions already match the defaults")
			return nil
		}
		return editor.Save(ctx)
	default:
		return errUsage
	}
}

func printMatrix(out io.Writer, rows []client.Row) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprint(tw, "CAPABILITY")
	for _, row := range rows {
		fmt.Fprintf(tw, "\t%s", row.Label)
	}
	fmt.Fprintln(tw)
	for i, capability := range permissions.Capabilities {
		fmt.Fprint(tw, capability)
		for _, row := range rows {
			cell := row.Cells[i]
			mark := "no"
			if cell.Enabled {
				mark = "yes"
			}
			if cell.Disabled {
				mark += " (locked)"
			}
			fmt.Fprintf(tw, "\t%s", mark)
		}
		fmt.Fprintln(tw)
	}
	_ = tw.Flush()
}

func runRegistrations(ctx context.Context, c *client.Client, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case "list":
		pending, err := c.PendingRegistrations(ctx)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tEMAIL\tNAME\tROLE\tREQUESTED")
		for _, p := range pending {
			fmt.Fprintf(tw, "%s\t%s\t%s %s\t%s\t%s\n", p.ID, p.Email, p.FirstName, p.LastName, p.RoleLabel, p.CreatedAt.Format("2006-01-02"))
		}
		return tw.Flush()
	case "approve":
		if len(args) != 2 {
			return errUsage
		}
		user, err := c.ApproveRegistration(ctx, args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s is now %s\n", user.Email, user.Status)
		return nil
	case "reject":
		fs := flag.NewFlagSet("reject", flag.ContinueOnError)
		reason := fs.String("reason", "", "reason shown to the applicant")
		if err := fs.Parse(args[1:]); err != nil || fs.NArg() != 1 {
			return errUsage
		}
		user, err := c.RejectRegistration(ctx, fs.Arg(0), *reason)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s is now %s\n", user.Email, user.Status)
		return nil
	default:
		return errUsage
	}
}

func runReset(ctx context.Context, c *client.Client, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case "request":
		if len(args) != 2 {
			return errUsage
		}
		if err := c.RequestReset(ctx, args[1]); err != nil {
			return err
		}
		fmt.Fprintln(out, "if the address is registered, a reset email is on its way")
		return nil
	case "submit":
		fs := flag.NewFlagSet("submit", flag.ContinueOnError)
		token := fs.String("token", "", "token from the reset link")
		password := fs.String("password", "", "new password")
		confirm := fs.String("confirm", "", "new password again")
		if err := fs.Parse(args[1:]); err != nil {
			return errUsage
		}
		flow := client.NewResetFlow(c, *token)
		if !flow.Verify(ctx) {
			return client.ErrInvalidLink
		}
		if err := flow.Submit(ctx, *password, *confirm); err != nil {
			return err
		}
		fmt.Fprintln(out, "password updated")
		return nil
	default:
		return errUsage
	}
}

func runSites(ctx context.Context, c *client.Client, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case "list":
		list, err := c.ListSites(ctx)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tCITY\tACTIVE")
		for _, s := range list {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%t\n", s.ID, s.Name, s.City, s.IsActive)
		}
		return tw.Flush()
	case "create":
		fs := flag.NewFlagSet("create", flag.ContinueOnError)
		site := sites.Site{IsActive: true}
		fs.StringVar(&site.Name, "name", "", "site name")
		fs.StringVar(&site.City, "city", "", "city")
		fs.StringVar(&site.Address, "address", "", "street address")
		fs.StringVar(&site.Phone, "phone", "", "phone number")
		if err := fs.Parse(args[1:]); err != nil {
			return errUsage
		}
		created, err := c.CreateSite(ctx, site)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "created site %s\n", created.ID)
		return nil
	case "delete":
		if len(args) != 2 {
			return errUsage
		}
		if err := c.DeleteSite(ctx, args[1]); err != nil {
			return err
		}
		fmt.Fprintln(out, "deleted")
		return nil
	default:
		return errUsage
	}
}

func runGroups(ctx context.Context, c *client.Client, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case "list":
		fs := flag.NewFlagSet("list", flag.ContinueOnError)
		siteID := fs.String("site", "", "only groups of this site")
		if err := fs.Parse(args[1:]); err != nil {
			return errUsage
		}
		list, err := c.ListGroups(ctx, *siteID)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tSITE\tNAME")
		for _, g := range list {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", g.ID, g.SiteID, g.Name)
		}
		return tw.Flush()
	case "create":
		fs := flag.NewFlagSet("create", flag.ContinueOnError)
		var group sites.Group
		fs.StringVar(&group.SiteID, "site", "", "owning site id")
		fs.StringVar(&group.Name, "name", "", "group name")
		fs.StringVar(&group.Description, "description", "", "description")
		if err := fs.Parse(args[1:]); err != nil {
			return errUsage
		}
		created, err := c.CreateGroup(ctx, group)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "created group %s\n", created.ID)
		return nil
	case "delete":
		if len(args) != 2 {
			return errUsage
		}
		if err := c.DeleteGroup(ctx, args[1]); err != nil {
			return err
		}
		fmt.Fprintln(out, "deleted")
		return nil
	default:
		return errUsage
	}
}

func runDashboard(ctx context.Context, c *client.Client, out io.Writer) error {
	overview, err := c.DashboardOverview(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, card := range overview.Cards {
		fmt.Fprintf(tw, "%s\t%d\n", card.Label, card.Value)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if len(overview.Tiles) > 0 {
		fmt.Fprintln(out)
		for _, tile := range overview.Tiles {
			fmt.Fprintf(out, "- %s (%s)\n", tile.Label, tile.Path)
		}
	}
	return nil
}
