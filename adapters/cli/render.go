package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/khoahotran/portfolio-pilot/internal/application/app"
	"github.com/khoahotran/portfolio-pilot/internal/application/router"
	"github.com/khoahotran/portfolio-pilot/internal/application/usecase/dashboard"
	"github.com/khoahotran/portfolio-pilot/internal/application/usecase/publicprofile"
	"github.com/khoahotran/portfolio-pilot/internal/domain/portfolio"
	"github.com/khoahotran/portfolio-pilot/internal/domain/profile"
)

// RenderScreen writes the active view as plain text.
func RenderScreen(w io.Writer, a *app.App) {
	screen := a.Screen()
	if screen.Initializing {
		fmt.Fprintln(w, "Loading...")
		return
	}
	switch screen.View.Name {
	case router.ViewAuth:
		fmt.Fprintln(w, "Not signed in. Use login or signup.")
	case router.ViewDashboard:
		if d := a.Dashboard(); d != nil {
			renderDashboard(w, d)
		}
	case router.ViewPublicProfile:
		if r := a.PublicProfile(); r != nil {
			renderPublicProfile(w, r.View())
		}
	}
}

func renderDashboard(w io.Writer, d *dashboard.Controller) {
	snap := d.Snapshot()
	if snap.Phase == dashboard.PhaseLoading {
		fmt.Fprintln(w, "Loading dashboard...")
		return
	}
	renderProfile(w, snap.Profile)
	fmt.Fprintf(w, "Public link: %s\n", d.PublicURL())

	for _, sec := range snap.Sections {
		fmt.Fprintf(w, "\n%s\n", sec.Category.Title())
		if sec.Empty {
			fmt.Fprintf(w, "  No %s added yet.\n", sec.Category.Collection())
			continue
		}
		for _, it := range sec.Items {
			renderItem(w, it, true)
		}
	}
}

func renderPublicProfile(w io.Writer, v publicprofile.View) {
	switch v.Status {
	case publicprofile.StatusLoading:
		fmt.Fprintln(w, "Loading profile...")
		return
	case publicprofile.StatusNotFound, publicprofile.StatusError:
		fmt.Fprintln(w, v.Message)
		return
	}
	renderProfile(w, *v.Profile)
	for _, sec := range v.Sections {
		fmt.Fprintf(w, "\n%s\n", sec.Title)
		for _, it := range sec.Items {
			renderItem(w, it, false)
		}
	}
}

func renderProfile(w io.Writer, p profile.Profile) {
	fmt.Fprintf(w, "%s <%s>\n", p.Name, p.Email)
	if p.Bio != "" {
		fmt.Fprintf(w, "%s\n", p.Bio)
	}
}

func renderItem(w io.Writer, it portfolio.Item, withID bool) {
	var b strings.Builder
	b.WriteString("  - ")
	if withID {
		fmt.Fprintf(&b, "[%s] ", it.ID)
	}
	b.WriteString(it.Title)
	if d := it.DisplayDate(); d != "" {
		fmt.Fprintf(&b, " (%s)", d)
	}
	fmt.Fprintln(w, b.String())
	fmt.Fprintf(w, "    %s\n", it.Description)
	if it.URL != "" {
		fmt.Fprintf(w, "    link: %s\n", it.URL)
	}
	if it.HasFile() {
		fmt.Fprintf(w, "    file: %s\n", it.FileURL)
	}
}
