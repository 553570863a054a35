package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/khoahotran/portfolio-pilot/internal/application/usecase/dashboard"
	portfoliouc "github.com/khoahotran/portfolio-pilot/internal/application/usecase/portfolio"
	"github.com/khoahotran/portfolio-pilot/internal/domain/portfolio"
	"github.com/khoahotran/portfolio-pilot/internal/domain/profile"
)

type credentials struct {
	email    string
	password string
}

func (c *credentials) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&c.email, "email", "", "account email")
	cmd.Flags().StringVar(&c.password, "password", "", "account password (prompted when omitted)")
}

func (c *credentials) resolve(rt *Runtime) error {
	if c.email == "" {
		rt.Printf("Email: ")
		line, err := rt.readLine()
		if err != nil {
			return err
		}
		c.email = line
	}
	if c.password == "" {
		rt.Printf("Password: ")
		line, err := rt.readLine()
		if err != nil {
			return err
		}
		c.password = line
	}
	return nil
}

func newSignUpCommand(rt *Runtime) *cobra.Command {
	var creds credentials
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := creds.resolve(rt); err != nil {
				return err
			}
			if msg, err := rt.App.SignUp(cmd.Context(), creds.email, creds.password); err != nil {
				rt.Printf("%s\n", msg)
				return reported(err)
			}
			rt.Printf("Signed up as %s\n", rt.App.Session().Identity.Email)
			return nil
		},
	}
	creds.bind(cmd)
	return cmd
}

func newLoginCommand(rt *Runtime) *cobra.Command {
	var creds credentials
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := creds.resolve(rt); err != nil {
				return err
			}
			if msg, err := rt.App.SignIn(cmd.Context(), creds.email, creds.password); err != nil {
				rt.Printf("%s\n", msg)
				return reported(err)
			}
			rt.Printf("Signed in as %s\n", rt.App.Session().Identity.Email)
			return nil
		},
	}
	creds.bind(cmd)
	return cmd
}

func newLogoutCommand(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out on this device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := rt.App.SignOut(cmd.Context()); err != nil {
				return err
			}
			rt.Printf("Signed out\n")
			return nil
		},
	}
}

func newStatusCommand(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the session and the active view",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := rt.App.Session()
			screen := rt.App.Screen()
			switch {
			case s.Loading:
				rt.Printf("session: resolving\n")
			case s.SignedIn():
				rt.Printf("session: %s (%s)\n", s.Identity.Email, s.Identity.ID)
			default:
				rt.Printf("session: signed out\n")
			}
			rt.Printf("view: %s\n", screen.View.Name)
			if screen.View.TargetUserID != "" {
				rt.Printf("target: %s\n", screen.View.TargetUserID)
			}
			return nil
		},
	}
}

func newOpenCommand(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "open <fragment>",
		Short: `Navigate to a fragment such as "#profile/<id>", or "" for your own view`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fragment := ""
			if len(args) == 1 {
				fragment = args[0]
			}
			rt.App.Navigate(fragment)
			RenderScreen(cmd.OutOrStdout(), rt.App)
			return nil
		},
	}
}

func newShowCommand(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the active view",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			RenderScreen(cmd.OutOrStdout(), rt.App)
			return nil
		},
	}
}

func newProfileCommand(rt *Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Edit your profile",
	}

	var name, bio string
	set := &cobra.Command{
		Use:   "set",
		Short: "Update name and bio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := rt.dashboard()
			if err != nil {
				return err
			}
			current := d.Snapshot().Profile
			fields := profile.Fields{Name: current.Name, Bio: current.Bio}
			if cmd.Flags().Changed("name") {
				fields.Name = name
			}
			if cmd.Flags().Changed("bio") {
				fields.Bio = bio
			}
			if err := d.SaveProfile(cmd.Context(), fields); err != nil {
				return reported(err)
			}
			return nil
		},
	}
	set.Flags().StringVar(&name, "name", "", "display name")
	set.Flags().StringVar(&bio, "bio", "", "short bio")

	cmd.AddCommand(set)
	return cmd
}

type itemFlags struct {
	title       string
	description string
	url         string
	date        string
	file        string
}

func (f *itemFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "title")
	cmd.Flags().StringVar(&f.description, "description", "", "description")
	cmd.Flags().StringVar(&f.url, "url", "", "link")
	cmd.Flags().StringVar(&f.date, "date", "", "date as YYYY-MM-DD")
	cmd.Flags().StringVar(&f.file, "file", "", "file to attach")
}

// apply overwrites the fields of it whose flags were given.
func (f *itemFlags) apply(cmd *cobra.Command, it *portfolio.Item) {
	set := func(name string, dst *string, v string) {
		if cmd.Flags().Changed(name) {
			*dst = v
		}
	}
	set("title", &it.Title, f.title)
	set("description", &it.Description, f.description)
	set("url", &it.URL, f.url)
	set("date", &it.Date, f.date)
}

func (f *itemFlags) attachment(rt *Runtime) (*portfoliouc.File, error) {
	if f.file == "" {
		return nil, nil
	}
	content, err := rt.readFile(f.file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.file, err)
	}
	return &portfoliouc.File{Name: filepath.Base(f.file), Content: content}, nil
}

func newItemCommand(rt *Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Add, edit or delete projects, achievements and certificates",
	}
	cmd.AddCommand(newItemAddCommand(rt), newItemEditCommand(rt), newItemDeleteCommand(rt))
	return cmd
}

func newItemAddCommand(rt *Runtime) *cobra.Command {
	var flags itemFlags
	cmd := &cobra.Command{
		Use:   "add <category>",
		Short: "Add an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := rt.dashboard()
			if err != nil {
				return err
			}
			category, err := portfolio.ParseCategory(args[0])
			if err != nil {
				return err
			}
			file, err := flags.attachment(rt)
			if err != nil {
				return err
			}

			d.OpenEditor(category, nil)
			item := d.Editor().Item
			flags.apply(cmd, &item)
			if err := d.SaveItem(cmd.Context(), category, item, file); err != nil {
				return reported(err)
			}
			return nil
		},
	}
	flags.bind(cmd)
	return cmd
}

func newItemEditCommand(rt *Runtime) *cobra.Command {
	var flags itemFlags
	cmd := &cobra.Command{
		Use:   "edit <category> <id>",
		Short: "Edit an item; only the given flags change",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, category, item, err := rt.findItem(args[0], args[1])
			if err != nil {
				return err
			}
			file, err := flags.attachment(rt)
			if err != nil {
				return err
			}

			d.OpenEditor(category, &item)
			item = d.Editor().Item
			flags.apply(cmd, &item)
			if err := d.SaveItem(cmd.Context(), category, item, file); err != nil {
				return reported(err)
			}
			return nil
		},
	}
	flags.bind(cmd)
	return cmd
}

func newItemDeleteCommand(rt *Runtime) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <category> <id>",
		Short: "Delete an item and its file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, category, item, err := rt.findItem(args[0], args[1])
			if err != nil {
				return err
			}
			rt.assumeYes = yes
			defer func() { rt.assumeYes = false }()

			if err := d.DeleteItem(cmd.Context(), category, item); err != nil {
				return reported(err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func newLinkCommand(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "link",
		Short: "Copy your public profile link to the clipboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := rt.dashboard()
			if err != nil {
				return err
			}
			rt.Printf("%s\n", d.CopyPublicLink())
			return nil
		},
	}
}

func newExportCommand(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Upload a JSON snapshot of your portfolio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := rt.dashboard()
			if err != nil {
				return err
			}
			out, err := d.Export(cmd.Context())
			if err != nil {
				return reported(err)
			}
			rt.Printf("%d items -> %s\n", out.Items, out.URL)
			return nil
		},
	}
}

var errItemNotFound = errors.New("item not found")

func (rt *Runtime) findItem(categoryArg, id string) (*dashboard.Controller, portfolio.Category, portfolio.Item, error) {
	d, err := rt.dashboard()
	if err != nil {
		return nil, "", portfolio.Item{}, err
	}
	category, err := portfolio.ParseCategory(categoryArg)
	if err != nil {
		return nil, "", portfolio.Item{}, err
	}
	item, ok := d.Find(category, id)
	if !ok {
		return nil, "", portfolio.Item{}, fmt.Errorf("%w: %s/%s", errItemNotFound, category.Collection(), id)
	}
	return d, category, item, nil
}
