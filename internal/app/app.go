// Package app assembles the console: token store, API client, repositories,
// services and command handlers.
package app

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/scanova-console/internal/apiclient"
	"github.com/noah-isme/scanova-console/internal/handler"
	"github.com/noah-isme/scanova-console/internal/notify"
	"github.com/noah-isme/scanova-console/internal/repository"
	"github.com/noah-isme/scanova-console/internal/service"
	"github.com/noah-isme/scanova-console/internal/tokenstore"
	"github.com/noah-isme/scanova-console/pkg/config"
	"github.com/noah-isme/scanova-console/pkg/logger"
	"github.com/noah-isme/scanova-console/pkg/middleware/requestid"
	"github.com/noah-isme/scanova-console/pkg/storage"
)

// Options configures an App.
type Options struct {
	Config *config.Config
	Logger *zap.Logger
	Tokens tokenstore.Store
	In     io.Reader
	Out    io.Writer
	// Transport overrides the base HTTP transport.
	Transport    http.RoundTripper
	ReadPassword func() ([]byte, error)
	Metrics      *service.MetricsService
}

// App is a fully wired console.
type App struct {
	Console      *handler.Console
	Session      *service.SessionService
	Organization *service.OrganizationService
	Courses      *service.CourseService
	Students     *service.StudentService
	Exams        *service.ExamService
	Members      *service.MemberService
	Invitations  *service.InvitationService
	Toasts       *notify.Toaster
	Confirmer    *notify.Confirmer
	Metrics      *service.MetricsService

	logger *zap.Logger
}

// New wires every component.
func New(opts Options) (*App, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if opts.Tokens == nil {
		return nil, fmt.Errorf("token store is required")
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = service.NewMetricsService()
	}

	httpClient := &http.Client{
		Timeout:   cfg.API.Timeout,
		Transport: logger.Transport(log, requestid.Transport(opts.Transport)),
	}
	api, err := apiclient.New(apiclient.Options{
		BaseURL:    cfg.API.BaseURL,
		HTTPClient: httpClient,
		Tokens:     opts.Tokens,
		Logger:     log,
		Metrics:    metrics,
	})
	if err != nil {
		return nil, err
	}

	exports, err := storage.NewLocalStorage(cfg.Export.Dir)
	if err != nil {
		return nil, fmt.Errorf("prepare export directory: %w", err)
	}

	console := handler.NewConsole(handler.Options{
		In:           opts.In,
		Out:          opts.Out,
		Logger:       log,
		ReadPassword: opts.ReadPassword,
	})

	sink := console.ToastSink()
	toasts := notify.NewToaster(cfg.UI.ToastTTL, func(t notify.Toast) {
		metrics.ObserveToast(string(t.Kind))
		sink(t)
	})
	var confirmer *notify.Confirmer
	confirmer = notify.NewConfirmer(console.ConfirmPresenter(func(ok bool) error {
		return confirmer.Resolve(ok)
	}))

	validate := validator.New()
	deps := service.ListDeps{
		Toasts:    toasts,
		Confirm:   confirmer,
		Validator: validate,
		Logger:    log,
		Debounce:  cfg.UI.FilterDebounce,
	}

	authRepo := repository.NewAuthRepository(api)
	orgRepo := repository.NewOrganizationRepository(api)
	courseRepo := repository.NewCourseRepository(api)
	studentRepo := repository.NewStudentRepository(api)
	membershipRepo := repository.NewMembershipRepository(api)
	examRepo := repository.NewInMemoryExamRepository()

	session := service.NewSessionService(authRepo, opts.Tokens, validate, log)
	courses := service.NewCourseService(courseRepo, session, deps)
	students := service.NewStudentService(studentRepo, exports, deps)
	exams := service.NewExamService(examRepo, deps)
	members := service.NewMemberService(membershipRepo, session, deps)
	invitations := service.NewInvitationService(membershipRepo, session, deps)
	organization := service.NewOrganizationService(orgRepo, membershipRepo, session, courses, members, invitations, deps)

	a := &App{
		Console:      console,
		Session:      session,
		Organization: organization,
		Courses:      courses,
		Students:     students,
		Exams:        exams,
		Members:      members,
		Invitations:  invitations,
		Toasts:       toasts,
		Confirmer:    confirmer,
		Metrics:      metrics,
		logger:       log,
	}

	handler.Register(console, handler.Handlers{
		Session:      handler.NewSessionHandler(console, session, a.afterAuth),
		Organization: handler.NewOrganizationHandler(console, session, organization, members, invitations),
		Course:       handler.NewCourseHandler(console, courses),
		Student:      handler.NewStudentHandler(console, students, exams),
		Exam:         handler.NewExamHandler(console, exams),
		Toasts:       toasts,
	})
	return a, nil
}

// afterAuth runs on every identity change. The selected course never
// carries over; on sign-out the per-user lists are emptied too.
func (a *App) afterAuth(ctx context.Context) {
	a.Students.Reset()
	a.Exams.Reset()
	if a.Session.Identity() == nil {
		a.Courses.Reset()
		a.Members.Reset()
		a.Invitations.ResetOrg()
		return
	}
	a.Organization.RefreshAll(ctx)
}

// Start resolves the stored session and, when signed in, loads the overview.
func (a *App) Start(ctx context.Context) service.SessionState {
	state := a.Session.Start(ctx)
	if state == service.SessionAuthenticated {
		a.Organization.RefreshAll(ctx)
	}
	a.logger.Debug("session resolved", zap.String("state", state.String()))
	return state
}

// Run serves console commands until exit or end of input.
func (a *App) Run(ctx context.Context) error {
	return a.Console.Run(ctx)
}

// Close stops timers held by the services.
func (a *App) Close() {
	a.Courses.Close()
	a.Students.Close()
	a.Exams.Close()
	a.Members.Close()
	a.Invitations.Close()
	a.Toasts.Close()
}
