package app

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/agenda_service/internal/config"
	"github.com/Freeeeeet/agenda_service/internal/controller"
	"github.com/Freeeeeet/agenda_service/internal/httpapi"
	"github.com/Freeeeeet/agenda_service/internal/model"
	"github.com/Freeeeeet/agenda_service/internal/repository"
	"github.com/Freeeeeet/agenda_service/internal/repository/memory"
	"github.com/Freeeeeet/agenda_service/internal/service"
	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Options select how the application is assembled
type Options struct {
	// Memory keeps all data in process instead of Postgres
	Memory bool
}

type stores struct {
	slots         service.SlotStore
	appointments  service.AppointmentStore
	notifications service.NotificationSink
	profiles      interface {
		service.StaffDirectory
		httpapi.ProfileLookup
	}
	departments service.DepartmentLookup
}

// App holds the wired services of one process
type App struct {
	cfg    *config.Config
	logger *zap.Logger
	pool   *pgxpool.Pool

	TimeSlots    *service.TimeSlotService
	Appointments *service.AppointmentService
	Notifier     *service.Notifier
	Reminders    *service.ReminderService
	Handler      *httpapi.Handler

	bot *controller.BotController
}

func New(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts Options) (*App, error) {
	a := &App{cfg: cfg, logger: logger}

	var st stores
	if opts.Memory {
		st = memoryStores(logger)
	} else {
		pool, err := Connect(ctx, cfg.DBDSN)
		if err != nil {
			return nil, err
		}
		a.pool = pool
		st = postgresStores(pool)

		if cfg.AutoMigrate {
			if err := a.Migrate(ctx); err != nil {
				pool.Close()
				return nil, err
			}
		}
	}

	messages := service.NewMessages(cfg.Location)
	a.Notifier = service.NewNotifier(st.notifications, st.profiles, logger)
	a.TimeSlots = service.NewTimeSlotService(st.slots, st.departments, cfg.Location, logger)
	a.Appointments = service.NewAppointmentService(st.slots, st.appointments, a.Notifier, messages, time.Now, logger)
	a.Reminders = service.NewReminderService(st.appointments, a.Notifier, messages, time.Now, logger)

	if cfg.TelegramToken != "" {
		b, err := bot.New(cfg.TelegramToken)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("create telegram bot: %w", err)
		}
		a.bot = controller.NewBotController(b, logger)
		a.Notifier.SetDeliverer(controller.NewTelegramDeliverer(b, st.profiles, logger))
	}

	auth := httpapi.NewAuthenticator(cfg.JWTSecret, cfg.ReminderSecret, st.profiles, logger)
	a.Handler = httpapi.NewHandler(a.TimeSlots, a.Appointments, a.Notifier, a.Reminders, auth, cfg.ReminderTimeout, logger)

	return a, nil
}

// Connect opens and pings a pgx pool
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

func postgresStores(pool *pgxpool.Pool) stores {
	return stores{
		slots:         repository.NewTimeSlotRepository(pool),
		appointments:  repository.NewAppointmentRepository(pool),
		notifications: repository.NewNotificationRepository(pool),
		profiles:      repository.NewProfileRepository(pool),
		departments:   repository.NewDepartmentRepository(pool),
	}
}

func memoryStores(logger *zap.Logger) stores {
	store := memory.New()
	seedDevelopmentData(store, logger)
	return stores{
		slots:         store.TimeSlots(),
		appointments:  store.Appointments(),
		notifications: store.Notifications(),
		profiles:      store.Profiles(),
		departments:   store.Departments(),
	}
}

// seedDevelopmentData gives the in-memory mode one department and a profile per role
func seedDevelopmentData(store *memory.Store, logger *zap.Logger) {
	dept := store.AddDepartment("Health")
	admin := store.AddProfile(model.Profile{Name: "Admin", Email: "admin@agenda.local", Role: model.RoleAdmin})
	staff := store.AddProfile(model.Profile{Name: "Health staff", Email: "staff@agenda.local", Role: model.RoleDepartment, DepartmentID: &dept.ID})
	school := store.AddProfile(model.Profile{Name: "School", Email: "school@agenda.local", Role: model.RoleSchool})

	logger.Info("Seeded in-memory data",
		zap.String("department_id", dept.ID.String()),
		zap.String("admin_id", admin.ID.String()),
		zap.String("staff_id", staff.ID.String()),
		zap.String("school_id", school.ID.String()),
	)
}

// Migrate applies pending migrations on the app's pool
func (a *App) Migrate(ctx context.Context) error {
	if a.pool == nil {
		return fmt.Errorf("migrations need a database connection")
	}
	mg, err := NewMigrator(a.pool, a.logger)
	if err != nil {
		return err
	}
	defer mg.Close()

	return mg.Up(ctx)
}

// Serve runs the HTTP server, the optional bot and the optional reminder
// ticker until ctx is cancelled or one of them fails
func (a *App) Serve(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	if a.cfg.ReminderInterval > 0 {
		scheduler := NewScheduler(a.Reminders, a.cfg.ReminderInterval, a.cfg.ReminderTimeout, a.logger)
		scheduler.Start(ctx)
		defer scheduler.Stop()
	}

	if a.bot != nil {
		if err := a.bot.RegisterHandlers(ctx); err != nil {
			a.logger.Warn("Bot commands not registered", zap.Error(err))
		}
		g.Go(func() error {
			a.bot.Start(ctx)
			return nil
		})
	}

	g.Go(func() error {
		return httpapi.Run(ctx, a.cfg.HTTPAddr, a.Handler.Router(), a.logger)
	})

	return g.Wait()
}

func (a *App) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
}
