package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/khoahotran/portfolio-pilot/internal/application/app"
	"github.com/khoahotran/portfolio-pilot/internal/application/notify"
	"github.com/khoahotran/portfolio-pilot/internal/application/router"
	"github.com/khoahotran/portfolio-pilot/internal/application/usecase/dashboard"
)

var (
	ErrNotSignedIn  = errors.New("not signed in: use login or signup")
	ErrNotDashboard = errors.New("the dashboard is not open: use open \"\" to return to it")
)

// Runtime is the terminal the commands talk to. One Runtime serves one App.
type Runtime struct {
	App *app.App

	in  *bufio.Reader
	out io.Writer
	mu  sync.Mutex

	assumeYes bool
	readFile  func(name string) ([]byte, error)
	unsub     func()
}

// NewRuntime prints every notification the emitter shows. Build the App with
// rt.Confirm and the same emitter, then assign it to rt.App.
func NewRuntime(in io.Reader, out io.Writer, emitter *notify.Emitter) *Runtime {
	rt := &Runtime{in: bufio.NewReader(in), out: out, readFile: os.ReadFile}
	rt.unsub = emitter.Subscribe(rt.printNotification)
	return rt
}

func (rt *Runtime) printNotification(n notify.Notification) {
	if n.Empty() {
		return
	}
	rt.Printf("» [%s] %s\n", n.Severity, n.Message)
}

func (rt *Runtime) Printf(format string, args ...any) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	fmt.Fprintf(rt.out, format, args...)
}

// Confirm asks a yes/no question on the terminal. --yes answers for the user.
func (rt *Runtime) Confirm(prompt string) bool {
	if rt.assumeYes {
		return true
	}
	rt.Printf("%s [y/N]: ", prompt)
	line, err := rt.readLine()
	if err != nil {
		return false
	}
	switch strings.ToLower(line) {
	case "y", "yes":
		return true
	}
	return false
}

func (rt *Runtime) readLine() (string, error) {
	line, err := rt.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// dashboard returns the mounted controller or explains why there is none.
func (rt *Runtime) dashboard() (*dashboard.Controller, error) {
	if !rt.App.Session().SignedIn() {
		return nil, ErrNotSignedIn
	}
	d := rt.App.Dashboard()
	if d == nil || rt.App.Screen().View.Name != router.ViewDashboard {
		return nil, ErrNotDashboard
	}
	return d, nil
}

func (rt *Runtime) Close() {
	if rt.unsub != nil {
		rt.unsub()
	}
}
