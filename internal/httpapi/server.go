package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Freeeeeet/agenda_service/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler serves the HTTP API on top of the services
type Handler struct {
	timeslots       *service.TimeSlotService
	appointments    *service.AppointmentService
	notifier        *service.Notifier
	reminders       *service.ReminderService
	auth            *Authenticator
	reminderTimeout time.Duration
	logger          *zap.Logger
}

func NewHandler(
	timeslots *service.TimeSlotService,
	appointments *service.AppointmentService,
	notifier *service.Notifier,
	reminders *service.ReminderService,
	auth *Authenticator,
	reminderTimeout time.Duration,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		timeslots:       timeslots,
		appointments:    appointments,
		notifier:        notifier,
		reminders:       reminders,
		auth:            auth,
		reminderTimeout: reminderTimeout,
		logger:          logger,
	}
}

// Router builds the gin engine with every route registered
func (h *Handler) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.requestLogger())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.POST("/internal/reminders/run", h.auth.RequireReminderTrigger(), h.RunReminders)

	api := router.Group("/api")
	api.Use(h.auth.RequireProfile())
	{
		departments := api.Group("/departments/:id")
		{
			departments.POST("/timeslots/generate", h.GenerateSlots)
			departments.GET("/timeslots", h.ListDepartmentSlots)
			departments.GET("/timeslots/available", h.ListAvailableSlots)
			departments.GET("/appointments", h.ListDepartmentAppointments)
		}

		timeslots := api.Group("/timeslots/:id")
		{
			timeslots.DELETE("", h.DeleteSlot)
			timeslots.POST("/reopen", h.ReopenSlot)
		}

		appointments := api.Group("/appointments")
		{
			appointments.POST("", h.BookAppointment)
			appointments.GET("/mine", h.ListMyAppointments)
			appointments.GET("/:id", h.GetAppointment)
			appointments.POST("/:id/cancel", h.CancelByRequester)
			appointments.POST("/:id/staff-cancel", h.CancelByStaff)
			appointments.POST("/:id/no-show", h.MarkNoShow)
			appointments.POST("/:id/complete", h.Complete)
			appointments.POST("/:id/rate", h.Rate)
		}

		api.GET("/notifications", h.ListNotifications)
	}

	return router
}

func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			h.logger.Error("Request failed", append(fields, zap.String("errors", c.Errors.String()))...)
			return
		}
		h.logger.Debug("Request served", fields...)
	}
}

// Run serves handler on addr until ctx is cancelled, then drains in-flight requests
func Run(ctx context.Context, addr string, handler http.Handler, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}
