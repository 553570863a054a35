package cli

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/portfolio-pilot/adapters/auth_provider"
	"github.com/khoahotran/portfolio-pilot/adapters/media_storage"
	"github.com/khoahotran/portfolio-pilot/adapters/persistence"
	"github.com/khoahotran/portfolio-pilot/internal/application/app"
	"github.com/khoahotran/portfolio-pilot/internal/application/gateway"
	"github.com/khoahotran/portfolio-pilot/internal/application/notify"
	"github.com/khoahotran/portfolio-pilot/internal/application/service"
	authuc "github.com/khoahotran/portfolio-pilot/internal/application/usecase/auth"
	"github.com/khoahotran/portfolio-pilot/internal/domain/portfolio"
	"github.com/khoahotran/portfolio-pilot/pkg/auth"
	"github.com/khoahotran/portfolio-pilot/pkg/logger"
)

type harness struct {
	rt    *Runtime
	out   *bytes.Buffer
	blobs *media_storage.MemoryBlobStore
	files map[string]string
}

func newHarness(t *testing.T, input string) *harness {
	t.Helper()
	ctx := context.Background()
	log := logger.NewNop()

	blobs := media_storage.NewMemoryBlobStore("")
	gw := gateway.New(persistence.NewMemoryDocumentStore(), blobs, log)
	users := persistence.NewMemoryUserRepo()
	jwtSvc := auth.NewJWTService("test-secret", time.Hour)
	events := service.NoopPublisher{}

	provider := auth_provider.NewProvider(
		authuc.NewSignUpUseCase(users, gw, jwtSvc, events, log),
		authuc.NewSignInUseCase(users, jwtSvc, events, log),
		authuc.NewResumeUseCase(users, jwtSvc),
		persistence.NewMemorySessionStore(),
		events,
		auth_provider.Config{DeviceID: "test", TokenTTL: time.Hour},
		log,
	)
	provider.Restore(ctx)

	h := &harness{out: &bytes.Buffer{}, blobs: blobs, files: map[string]string{}}
	emitter := notify.NewEmitter(time.Minute, log)
	h.rt = NewRuntime(strings.NewReader(input), h.out, emitter)
	h.rt.readFile = func(name string) ([]byte, error) {
		content, ok := h.files[name]
		if !ok {
			return nil, os.ErrNotExist
		}
		return []byte(content), nil
	}
	h.rt.App = app.New(ctx, app.Deps{
		Provider:      provider,
		Gateway:       gw,
		Emitter:       emitter,
		Logger:        log,
		PublicBaseURL: "https://pilot.example/",
		Confirm:       h.rt.Confirm,
	})
	t.Cleanup(func() {
		h.rt.App.Close()
		h.rt.Close()
	})
	return h
}

func (h *harness) run(args ...string) error {
	return Execute(context.Background(), h.rt, args)
}

func (h *harness) signUp(t *testing.T) {
	t.Helper()
	require.NoError(t, h.run("signup", "--email", "ada@example.com", "--password", "secret123"))
}

func (h *harness) items(c portfolio.Category) []portfolio.Item {
	return h.rt.App.Dashboard().Items(c)
}

func TestSignUpShowsEmptyDashboard(t *testing.T) {
	h := newHarness(t, "")
	h.signUp(t)
	require.NoError(t, h.run("show"))

	out := h.out.String()
	assert.Contains(t, out, "Signed up as ada@example.com")
	assert.Contains(t, out, "New User <ada@example.com>")
	assert.Contains(t, out, "No projects added yet.")
	assert.Contains(t, out, "No certificates added yet.")
	assert.Contains(t, out, "Public link: https://pilot.example/#profile/"+h.rt.App.Session().Identity.ID)
}

func TestLoginFailureIsReported(t *testing.T) {
	h := newHarness(t, "")
	h.signUp(t)
	require.NoError(t, h.run("logout"))

	err := h.run("login", "--email", "ada@example.com", "--password", "wrong-pass")
	require.Error(t, err)
	assert.True(t, IsReported(err))
	assert.Contains(t, h.out.String(), "Invalid email or password.")
	assert.False(t, h.rt.App.Session().SignedIn())
}

func TestLoginPromptsForMissingCredentials(t *testing.T) {
	h := newHarness(t, "secret123\n")
	h.signUp(t)
	require.NoError(t, h.run("logout"))

	require.NoError(t, h.run("login", "--email", "ada@example.com"))
	assert.Contains(t, h.out.String(), "Password: ")
	assert.True(t, h.rt.App.Session().SignedIn())
}

func TestDashboardCommandsNeedSession(t *testing.T) {
	h := newHarness(t, "")
	assert.ErrorIs(t, h.run("item", "add", "projects", "--title", "x", "--description", "y"), ErrNotSignedIn)
	assert.ErrorIs(t, h.run("link"), ErrNotSignedIn)
}

func TestItemAddEditDelete(t *testing.T) {
	h := newHarness(t, "n\n")
	h.signUp(t)

	require.NoError(t, h.run("item", "add", "projects", "--title", "Pilot", "--description", "Portfolio manager", "--date", "2024-03-01"))
	assert.Contains(t, h.out.String(), "» [success] Item added successfully!")
	require.Len(t, h.items(portfolio.CategoryProject), 1)
	id := h.items(portfolio.CategoryProject)[0].ID

	require.NoError(t, h.run("item", "edit", "project", id, "--title", "Pilot v2"))
	assert.Contains(t, h.out.String(), "» [success] Item updated successfully!")
	edited := h.items(portfolio.CategoryProject)[0]
	assert.Equal(t, "Pilot v2", edited.Title)
	assert.Equal(t, "Portfolio manager", edited.Description)
	assert.Equal(t, "2024-03-01", edited.Date)

	// Declined at the prompt.
	require.NoError(t, h.run("item", "delete", "projects", id))
	assert.Contains(t, h.out.String(), "Are you sure you want to delete this item? [y/N]: ")
	assert.Len(t, h.items(portfolio.CategoryProject), 1)

	require.NoError(t, h.run("item", "delete", "projects", id, "--yes"))
	assert.Contains(t, h.out.String(), "» [info] Item deleted.")
	assert.Empty(t, h.items(portfolio.CategoryProject))

	assert.ErrorIs(t, h.run("item", "delete", "projects", id, "--yes"), errItemNotFound)
}

func TestItemAddValidationFailure(t *testing.T) {
	h := newHarness(t, "")
	h.signUp(t)

	err := h.run("item", "add", "achievements", "--title", "No description")
	require.Error(t, err)
	assert.True(t, IsReported(err))
	assert.Contains(t, h.out.String(), "» [error] Failed to save item. Check logs for details.")

	assert.Error(t, h.run("item", "add", "hobbies", "--title", "x", "--description", "y"))
}

func TestItemAttachments(t *testing.T) {
	h := newHarness(t, "")
	h.signUp(t)
	h.files["docs/cert.pdf"] = "%PDF-1.7"
	h.files["empty.png"] = ""

	require.NoError(t, h.run("item", "add", "certificates", "--title", "AWS SA", "--description", "Associate", "--file", "docs/cert.pdf"))
	cert := h.items(portfolio.CategoryCertificate)[0]
	require.True(t, cert.HasFile())
	assert.True(t, strings.HasSuffix(cert.FilePath, "-cert.pdf"))
	assert.True(t, h.blobs.Has(cert.FilePath))

	require.NoError(t, h.run("item", "add", "achievements", "--title", "Hackathon", "--description", "Winner", "--file", "empty.png"))
	assert.Contains(t, h.out.String(), "» [info] Empty file detected. File upload skipped.")
	assert.False(t, h.items(portfolio.CategoryAchievement)[0].HasFile())

	assert.ErrorIs(t, h.run("item", "add", "projects", "--title", "x", "--description", "y", "--file", "missing.txt"), os.ErrNotExist)
}

func TestProfileSetKeepsUnchangedFields(t *testing.T) {
	h := newHarness(t, "")
	h.signUp(t)

	require.NoError(t, h.run("profile", "set", "--bio", "Engineer"))
	assert.Contains(t, h.out.String(), "» [success] Profile updated!")

	p := h.rt.App.Dashboard().Snapshot().Profile
	assert.Equal(t, "New User", p.Name)
	assert.Equal(t, "Engineer", p.Bio)
}

func TestLinkPrintsPublicURL(t *testing.T) {
	h := newHarness(t, "")
	h.signUp(t)

	require.NoError(t, h.run("link"))
	assert.Contains(t, h.out.String(), "https://pilot.example/#profile/"+h.rt.App.Session().Identity.ID)
	assert.Contains(t, h.out.String(), "» [info] URL copied!")
}

func TestExportWritesSnapshot(t *testing.T) {
	h := newHarness(t, "")
	h.signUp(t)
	require.NoError(t, h.run("item", "add", "projects", "--title", "Pilot", "--description", "CLI"))

	require.NoError(t, h.run("export"))
	assert.Contains(t, h.out.String(), "1 items -> memory://profiles/"+h.rt.App.Session().Identity.ID+"/backups/export-")
	assert.Contains(t, h.out.String(), "» [success] Portfolio exported.")
}

func TestOpenPublicProfile(t *testing.T) {
	h := newHarness(t, "")
	h.signUp(t)
	owner := h.rt.App.Session().Identity.ID
	require.NoError(t, h.run("item", "add", "projects", "--title", "Pilot", "--description", "Portfolio manager"))

	require.NoError(t, h.run("open", "#profile/"+owner))
	assert.ErrorIs(t, h.run("item", "add", "projects", "--title", "x", "--description", "y"), ErrNotDashboard)

	require.NoError(t, h.run("logout"))
	h.out.Reset()
	require.NoError(t, h.run("show"))
	out := h.out.String()
	assert.Contains(t, out, "New User <ada@example.com>")
	assert.Contains(t, out, "  - Pilot")
	assert.NotContains(t, out, "Achievements")

	h.out.Reset()
	require.NoError(t, h.run("open", "profile/nobody"))
	assert.Contains(t, h.out.String(), "Profile not found.")

	h.out.Reset()
	require.NoError(t, h.run("open"))
	assert.Contains(t, h.out.String(), "Not signed in.")
}

func TestShellKeepsOneSession(t *testing.T) {
	input := strings.Join([]string{
		`signup --email ada@example.com --password secret123`,
		`item add projects --title "My Project" --description 'Built it'`,
		`item add achievements --title Award --description Won`,
		`profile set --name "Ada L"`,
		`bogus`,
		`status`,
		`exit`,
		`logout`,
	}, "\n") + "\n"
	h := newHarness(t, input)

	require.NoError(t, h.run("shell"))

	out := h.out.String()
	assert.Contains(t, out, shellPrompt)
	assert.Contains(t, out, `Error: unknown command "bogus"`)
	assert.Contains(t, out, "view: dashboard")
	assert.True(t, h.rt.App.Session().SignedIn(), "exit stops before logout")

	d := h.rt.App.Dashboard()
	assert.Equal(t, "Ada L", d.Snapshot().Profile.Name)
	require.Len(t, d.Items(portfolio.CategoryProject), 1)
	assert.Equal(t, "My Project", d.Items(portfolio.CategoryProject)[0].Title)
	require.Len(t, d.Items(portfolio.CategoryAchievement), 1)
	assert.Empty(t, d.Items(portfolio.CategoryAchievement)[0].URL)
}

func TestSplitArgs(t *testing.T) {
	cases := []struct {
		line string
		want []string
	}{
		{"", nil},
		{"   ", nil},
		{"show", []string{"show"}},
		{"open  \"\"", []string{"open", ""}},
		{`item add projects --title "My Project"`, []string{"item", "add", "projects", "--title", "My Project"}},
		{`--title="a b" --bio 'it''s'`, []string{"--title=a b", "--bio", "its"}},
		{`a\ b`, []string{"a b"}},
	}
	for _, tc := range cases {
		got, err := splitArgs(tc.line)
		require.NoError(t, err, tc.line)
		assert.Equal(t, tc.want, got, tc.line)
	}

	_, err := splitArgs(`--title "open`)
	assert.ErrorIs(t, err, errUnterminatedQuote)
}
