package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/khoahotran/portfolio-pilot/adapters/auth_provider"
	"github.com/khoahotran/portfolio-pilot/adapters/media_storage"
	"github.com/khoahotran/portfolio-pilot/adapters/persistence"
	"github.com/khoahotran/portfolio-pilot/internal/application/app"
	"github.com/khoahotran/portfolio-pilot/internal/application/gateway"
	"github.com/khoahotran/portfolio-pilot/internal/application/notify"
	"github.com/khoahotran/portfolio-pilot/internal/application/router"
	"github.com/khoahotran/portfolio-pilot/internal/application/service"
	"github.com/khoahotran/portfolio-pilot/internal/application/usecase/dashboard"
	authuc "github.com/khoahotran/portfolio-pilot/internal/application/usecase/auth"
	"github.com/khoahotran/portfolio-pilot/internal/application/usecase/publicprofile"
	"github.com/khoahotran/portfolio-pilot/internal/domain/portfolio"
	"github.com/khoahotran/portfolio-pilot/internal/domain/profile"
	"github.com/khoahotran/portfolio-pilot/pkg/auth"
	"github.com/khoahotran/portfolio-pilot/pkg/logger"
)

type AppSuite struct {
	suite.Suite
	ctx      context.Context
	docs     *persistence.MemoryDocumentStore
	gw       *gateway.Gateway
	provider *auth_provider.Provider
	emitter  *notify.Emitter
	app      *app.App
}

func (s *AppSuite) SetupTest() {
	s.ctx = context.Background()
	log := logger.NewNop()
	users := persistence.NewMemoryUserRepo()
	s.docs = persistence.NewMemoryDocumentStore()
	s.gw = gateway.New(s.docs, media_storage.NewMemoryBlobStore(""), log)
	jwtSvc := auth.NewJWTService("secret", time.Hour)

	s.provider = auth_provider.NewProvider(
		authuc.NewSignUpUseCase(users, s.gw, jwtSvc, service.NoopPublisher{}, log),
		authuc.NewSignInUseCase(users, jwtSvc, service.NoopPublisher{}, log),
		authuc.NewResumeUseCase(users, jwtSvc),
		persistence.NewMemorySessionStore(),
		service.NoopPublisher{},
		auth_provider.Config{DeviceID: "test", TokenTTL: time.Hour},
		log,
	)
	s.emitter = notify.NewEmitter(time.Hour, log)
	s.app = app.New(s.ctx, app.Deps{
		Provider:      s.provider,
		Gateway:       s.gw,
		Emitter:       s.emitter,
		Logger:        log,
		PublicBaseURL: "http://localhost:8080/",
		Confirm:       func(string) bool { return true },
	})
}

func (s *AppSuite) TearDownTest() {
	s.app.Close()
}

func (s *AppSuite) TestInitializingUntilRestore() {
	s.True(s.app.Screen().Initializing)
	s.Nil(s.app.Dashboard())

	s.provider.Restore(s.ctx)
	screen := s.app.Screen()
	s.False(screen.Initializing)
	s.Equal(router.ViewAuth, screen.View.Name)
}

func (s *AppSuite) TestSignUpAndAddProject() {
	s.provider.Restore(s.ctx)

	msg, err := s.app.SignUp(s.ctx, "a@b.com", "secret1")
	s.Require().NoError(err, msg)
	s.Equal(router.ViewDashboard, s.app.Screen().View.Name)

	ctrl := s.app.Dashboard()
	s.Require().NotNil(ctrl)
	snap := ctrl.Snapshot()
	s.Equal(dashboard.PhaseReady, snap.Phase)
	s.Equal(profile.Default("a@b.com"), snap.Profile)

	var phases []dashboard.Phase
	ctrl.SubscribePhase(func(p dashboard.Phase) { phases = append(phases, p) })
	err = ctrl.SaveItem(s.ctx, portfolio.CategoryProject, portfolio.Item{Title: "X", Description: "Y"}, nil)
	s.Require().NoError(err)

	items := ctrl.Items(portfolio.CategoryProject)
	s.Require().Len(items, 1)
	s.Equal(map[string]any{"title": "X", "description": "Y"}, items[0].Fields())
	s.Equal([]dashboard.Phase{dashboard.PhaseLoading, dashboard.PhaseReady}, phases)

	n, ok := s.emitter.Current()
	s.True(ok)
	s.Equal(dashboard.MsgItemAdded, n.Message)
	s.Equal(notify.SeveritySuccess, n.Severity)
}

func (s *AppSuite) TestPublicViewRegardlessOfIdentity() {
	s.provider.Restore(s.ctx)
	_, err := s.app.SignUp(s.ctx, "a@b.com", "secret1")
	s.Require().NoError(err)
	owner := s.app.Session().Identity.ID

	screen := s.app.Navigate(router.Fragment(owner))
	s.Equal(router.ViewState{Name: router.ViewPublicProfile, TargetUserID: owner}, screen.View)
	s.Nil(s.app.Dashboard(), "dashboard is unmounted")

	reader := s.app.PublicProfile()
	s.Require().NotNil(reader)
	s.Equal(publicprofile.StatusLoaded, reader.View().Status)

	s.Require().NoError(s.app.SignOut(s.ctx))
	s.Equal(router.ViewPublicProfile, s.app.Screen().View.Name)

	s.app.Navigate("#profile/missing")
	s.Equal(publicprofile.StatusNotFound, s.app.PublicProfile().View().Status)

	s.app.Navigate("")
	s.Equal(router.ViewAuth, s.app.Screen().View.Name)
	s.Nil(s.app.PublicProfile())
}

func (s *AppSuite) TestSignInErrorMessage() {
	s.provider.Restore(s.ctx)
	msg, err := s.app.SignIn(s.ctx, "a@b.com", "secret1")
	s.Error(err)
	s.Equal("Invalid email or password.", msg)
	s.Equal(router.ViewAuth, s.app.Screen().View.Name)
}

func TestAppSuite(t *testing.T) {
	suite.Run(t, new(AppSuite))
}
