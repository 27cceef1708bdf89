package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/service-scheduler/internal/config"
	"github.com/BruksfildServices01/service-scheduler/internal/handlers"
	"github.com/BruksfildServices01/service-scheduler/internal/middleware"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
	ucAppointment "github.com/BruksfildServices01/service-scheduler/internal/usecase/appointment"
)

// RegisterRoutes wires the HTTP surface. deps carries the store, audit,
// cache and hook shared by every appointment use case.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, deps ucAppointment.Deps) {

	// ======================================================
	// 🧠 USE CASES: APPOINTMENTS
	// ======================================================
	createAppointmentUC := ucAppointment.NewCreateAppointment(deps)
	availabilityUC := ucAppointment.NewGetAvailability(deps)

	appointmentUCs := handlers.AppointmentUseCases{
		Create:       createAppointmentUC,
		Confirm:      ucAppointment.NewConfirmAppointment(deps),
		CheckIn:      ucAppointment.NewCheckInAppointment(deps),
		Start:        ucAppointment.NewStartAppointment(deps),
		Complete:     ucAppointment.NewCompleteAppointment(deps),
		Cancel:       ucAppointment.NewCancelAppointment(deps),
		NoShow:       ucAppointment.NewMarkNoShow(deps),
		Reschedule:   ucAppointment.NewRescheduleAppointment(deps),
		Update:       ucAppointment.NewUpdateAppointment(deps),
		ListByDate:   ucAppointment.NewListAppointmentsByDate(deps),
		ListByMonth:  ucAppointment.NewListAppointmentsByMonth(deps),
		Availability: availabilityUC,
		DueReminders: ucAppointment.NewListDueReminders(deps),
		MarkReminded: ucAppointment.NewMarkRemindersSent(deps),
	}

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)
	organizationHandler := handlers.NewOrganizationHandler(db, deps.Cache)
	serviceHandler := handlers.NewServiceHandler(db)
	clientHandler := handlers.NewClientHandler(db)
	workingHoursHandler := handlers.NewWorkingHoursHandler(db, deps.Cache)

	appointmentHandler := handlers.NewAppointmentHandler(db, appointmentUCs)

	walkInHandler := handlers.NewWalkInHandler(
		ucAppointment.NewCreateWalkIn(deps),
		ucAppointment.NewSuggestProfessional(deps),
	)
	automationHandler := handlers.NewAutomationHandler(ucAppointment.NewAutoBook(deps))
	auditLogsHandler := handlers.NewAuditLogsHandler(ucAppointment.NewListAuditLogs(deps))
	publicHandler := handlers.NewPublicHandler(db, createAppointmentUC, availabilityUC)

	// ======================================================
	// 🔧 OPERAÇÃO
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🌐 API PÚBLICA
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/:slug/services", publicHandler.ListServices)
			publicAPI.GET("/:slug/availability", publicHandler.Availability)
			publicAPI.POST("/:slug/appointments", publicHandler.CreateAppointment)
		}

		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// 🔐 API PRIVADA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			management := middleware.RequireRoles(models.RoleOwner, models.RoleManager)
			staff := middleware.RequireRoles(
				models.RoleOwner, models.RoleManager, models.RoleReceptionist, models.RoleProfessional,
			)

			secured.GET("/me", meHandler.GetMe)

			secured.GET("/organization", organizationHandler.Get)
			secured.PATCH("/organization", management, organizationHandler.Update)

			secured.GET("/services", serviceHandler.List)
			secured.POST("/services", management, serviceHandler.Create)
			secured.PATCH("/services/:id", management, serviceHandler.Update)

			secured.GET("/clients", staff, clientHandler.List)

			secured.GET("/professionals/:id/working-hours", staff, workingHoursHandler.Get)
			secured.PUT("/professionals/:id/working-hours", staff, workingHoursHandler.Update)
			secured.POST("/professionals/:id/blocks", staff, workingHoursHandler.CreateBlock)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			appointments := secured.Group("/appointments")
			{
				appointments.POST("", appointmentHandler.Create)
				appointments.GET("", appointmentHandler.ListByDate)
				appointments.GET("/month", appointmentHandler.ListByMonth)
				appointments.GET("/availability", appointmentHandler.Availability)
				appointments.GET("/due-reminders", appointmentHandler.DueReminders)
				appointments.POST("/reminders/sent", appointmentHandler.MarkRemindersSent)

				appointments.PATCH("/:id", appointmentHandler.Update)
				appointments.POST("/:id/confirm", appointmentHandler.Confirm)
				appointments.POST("/:id/check-in", appointmentHandler.CheckIn)
				appointments.POST("/:id/start", appointmentHandler.Start)
				appointments.POST("/:id/complete", appointmentHandler.Complete)
				appointments.POST("/:id/cancel", appointmentHandler.Cancel)
				appointments.POST("/:id/no-show", appointmentHandler.NoShow)
				appointments.POST("/:id/reschedule", appointmentHandler.Reschedule)
			}

			// ------------------------------
			// WALK-INS
			// ------------------------------
			secured.POST("/walk-ins", staff, walkInHandler.Create)
			secured.GET("/walk-ins/suggestions", staff, walkInHandler.Suggestions)

			// ------------------------------
			// AUTOMAÇÃO
			// ------------------------------
			automation := secured.Group("/automation", middleware.RequireRoles(models.RoleAutomation))
			{
				automation.POST("/appointments", automationHandler.AutoBook)
				automation.POST("/appointments/:id/cancel", appointmentHandler.Cancel)
				automation.POST("/appointments/:id/reschedule", appointmentHandler.Reschedule)
			}

			secured.GET("/audit-logs", management, auditLogsHandler.List)
		}
	}
}
