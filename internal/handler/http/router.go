package http

import (
	"io"
	"log/slog"
	"os"

	"github.com/cmlabs-hris/hris-timeledger/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-timeledger/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type Handlers struct {
	Attendance   AttendanceHandler
	Leave        LeaveHandler
	Payroll      PayrollHandler
	Notification NotificationHandler
	Holiday      HolidayHandler
}

type RouterOptions struct {
	Env            string
	Version        string
	AllowedOrigins []string
	LogLevel       slog.Level
	// LogOutput receives the request log; os.Stdout when nil.
	LogOutput io.Writer
}

func NewRouter(jwtService jwt.Service, h Handlers, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	if opts.LogOutput == nil {
		opts.LogOutput = os.Stdout
	}
	logFormat := httplog.SchemaECS.Concise(opts.Env != "production")
	logger := slog.New(slog.NewJSONHandler(opts.LogOutput, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hris-timeledger"),
		slog.String("version", opts.Version),
		slog.String("env", opts.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
		r.Use(middleware.AuthRequired)

		r.Route("/attendance", func(r chi.Router) {
			r.Post("/check-in", h.Attendance.CheckIn)
			r.Post("/check-out", h.Attendance.CheckOut)
			r.Post("/breaks/pause", h.Attendance.PauseBreak)
			r.Post("/breaks/resume", h.Attendance.ResumeBreak)
			r.Get("/today", h.Attendance.GetToday)
			r.Get("/my", h.Attendance.GetMyAttendance)
			r.Get("/{id}", h.Attendance.Get)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireApprover)
				r.Get("/", h.Attendance.List)
				r.Delete("/{id}", h.Attendance.Delete)
			})
		})

		r.Route("/leave", func(r chi.Router) {
			r.Get("/day-count", h.Leave.CountDays)
			r.Get("/balance", h.Leave.GetMyBalance)
			r.Get("/entries", h.Leave.GetMyEntries)

			r.Route("/requests", func(r chi.Router) {
				r.Post("/", h.Leave.CreateRequest)
				r.Get("/my", h.Leave.GetMyRequests)
				r.Get("/{id}", h.Leave.GetRequest)
				r.Put("/{id}", h.Leave.UpdateRequest)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireApprover)
					r.Post("/{id}/approve", h.Leave.ApproveRequest)
					r.Post("/{id}/reject", h.Leave.RejectRequest)
				})
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireApprover)
				r.Get("/employees/{employeeID}/requests", h.Leave.ListEmployeeRequests)
				r.Get("/employees/{employeeID}/balance", h.Leave.GetEmployeeBalance)
				r.Post("/ledgers/provision", h.Leave.ProvisionLedgers)
			})
		})

		r.Route("/payroll", func(r chi.Router) {
			r.Post("/deduction", h.Payroll.PreviewDeduction)
			r.Post("/deduction/statement", h.Payroll.DownloadStatement)
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", h.Notification.List)
			r.Post("/{id}/read", h.Notification.MarkAsRead)
		})

		r.Route("/holidays", func(r chi.Router) {
			r.Get("/", h.Holiday.List)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireApprover)
				r.Post("/", h.Holiday.Create)
				r.Delete("/{id}", h.Holiday.Delete)
			})
		})
	})

	return r
}
