package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/HanGPIErr/BacklogManager-Prod-sub003/clients"
	"github.com/HanGPIErr/BacklogManager-Prod-sub003/handlers"
	"github.com/HanGPIErr/BacklogManager-Prod-sub003/logging"
	"github.com/HanGPIErr/BacklogManager-Prod-sub003/middleware"
	"github.com/HanGPIErr/BacklogManager-Prod-sub003/models"
	"github.com/HanGPIErr/BacklogManager-Prod-sub003/repositories"
	"github.com/HanGPIErr/BacklogManager-Prod-sub003/services"
	"github.com/HanGPIErr/BacklogManager-Prod-sub003/utils"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Role, User-ID")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func wipLimitsFromEnv() map[models.TaskStatus]int {
	limits := make(map[models.TaskStatus]int)
	for status, key := range map[models.TaskStatus]string{
		models.StatusInProgress: "WIP_LIMIT_IN_PROGRESS",
		models.StatusInTest:     "WIP_LIMIT_IN_TEST",
	} {
		raw := os.Getenv(key)
		if raw == "" {
			continue
		}
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			logging.Logger.Warnf("Event ID: CONFIG_WIP_LIMIT_INVALID, Description: Ignoring invalid %s=%q", key, raw)
			continue
		}
		limits[status] = limit
	}
	return limits
}

func main() {
	logging.InitLogger()

	logging.Logger.Info("Event ID: SERVICE_START, Description: Starting Backlog Service...")
	err := godotenv.Load(".env")
	if err != nil {
		logging.Logger.Fatalf("Event ID: ENV_LOAD_ERROR, Description: Error loading .env file: %v", err)
	}

	mongoURI := os.Getenv("MONGO_URI")
	mongoDBName := os.Getenv("MONGO_DB_NAME")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: Database connection for MongoDB failed: %v", err)
	}
	defer client.Disconnect(ctx)

	if err := client.Ping(ctx, nil); err != nil {
		logging.Logger.Fatalf("Event ID: DB_PING_FAILED, Description: MongoDB connection ping error: %v", err)
	}
	logging.Logger.Infof("Event ID: DB_CONNECTED, Description: Successfully connected to MongoDB at %s.", mongoURI)

	db := client.Database(mongoDBName)
	taskRepo := repositories.NewTaskRepo(db.Collection("tasks"))
	entryRepo := repositories.NewTimeEntryRepo(db.Collection("time_entries"))
	userRepo := repositories.NewUserRepo(db.Collection("users"))
	projectRepo := repositories.NewProjectRepo(db.Collection("projects"))
	holidayRepo := repositories.NewHolidayRepo(db.Collection("holidays"))

	// The holiday table is read once at startup; the calendar service is a
	// pure function over it from then on.
	var holidays []models.Holiday
	currentYear := time.Now().Year()
	for year := currentYear - 1; year <= currentYear+1; year++ {
		yearHolidays, err := holidayRepo.GetHolidays(ctx, year)
		if err != nil {
			logging.Logger.Fatalf("Event ID: HOLIDAY_LOAD_FAILED, Description: Failed to load holidays for %d: %v", year, err)
		}
		holidays = append(holidays, yearHolidays...)
	}
	calendarService := services.NewCalendarService(holidays)
	logging.Logger.Infof("Event ID: HOLIDAYS_LOADED, Description: Loaded %d holidays for %d-%d", len(holidays), currentYear-1, currentYear+1)

	notificationsBreaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "notifications-cb",
		MaxRequests: 1,
		Timeout:     5 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Infof("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' state changed from %s to %s", name, from.String(), to.String())
		},
	})
	notifier := clients.NewNotificationClient(os.Getenv("NOTIFICATIONS_SERVICE_URL"), utils.NewHTTPClient(), notificationsBreaker)

	permissions := services.NewRolePermissions(userRepo)
	taskService := services.NewTaskService(taskRepo, userRepo, permissions, notifier, wipLimitsFromEnv())
	timeEntryService := services.NewTimeEntryService(entryRepo, taskRepo, userRepo, projectRepo, calendarService, permissions)
	reportService := services.NewReportService(timeEntryService, taskService, userRepo, projectRepo)

	taskHandler := handlers.NewTaskHandler(taskService)
	timeEntryHandler := handlers.NewTimeEntryHandler(timeEntryService)
	reportHandler := handlers.NewReportHandler(reportService)

	r := mux.NewRouter()
	r.Use(middleware.JWTAuthMiddleware)

	r.HandleFunc("/api/tasks/all", taskHandler.GetAllTasks).Methods(http.MethodGet)
	r.HandleFunc("/api/tasks/create", taskHandler.CreateTask).Methods(http.MethodPost)
	r.HandleFunc("/api/tasks/board", taskHandler.GetBoard).Methods(http.MethodGet)
	r.HandleFunc("/api/tasks/{taskID}", taskHandler.GetTaskByID).Methods(http.MethodGet)
	r.HandleFunc("/api/tasks/{taskID}/metrics", taskHandler.GetTaskMetrics).Methods(http.MethodGet)
	r.HandleFunc("/api/tasks/{taskID}/move-forward", taskHandler.MoveForward).Methods(http.MethodPost)
	r.HandleFunc("/api/tasks/{taskID}/move-backward", taskHandler.MoveBackward).Methods(http.MethodPost)
	r.HandleFunc("/api/tasks/{taskID}/set-waiting", taskHandler.SetWaiting).Methods(http.MethodPost)
	r.HandleFunc("/api/tasks/{taskID}/reactivate", taskHandler.Reactivate).Methods(http.MethodPost)
	r.HandleFunc("/api/tasks/{taskID}/archive", taskHandler.Archive).Methods(http.MethodPost)
	r.HandleFunc("/api/tasks/{taskID}/unarchive", taskHandler.Unarchive).Methods(http.MethodPost)
	r.HandleFunc("/api/tasks/{taskID}/assign/{developerID}", taskHandler.AssignDeveloper).Methods(http.MethodPost)
	r.HandleFunc("/api/tasks/{taskID}/unassign", taskHandler.UnassignDeveloper).Methods(http.MethodPost)
	r.HandleFunc("/api/tasks/{taskID}/estimate", taskHandler.UpdateEstimate).Methods(http.MethodPut)

	r.HandleFunc("/api/time-entries", timeEntryHandler.RecordEntry).Methods(http.MethodPost)
	r.HandleFunc("/api/time-entries/period", timeEntryHandler.RecordPeriod).Methods(http.MethodPost)
	r.HandleFunc("/api/time-entries/{entryID}", timeEntryHandler.DeleteEntry).Methods(http.MethodDelete)
	r.HandleFunc("/api/time-entries/task/{taskID}", timeEntryHandler.GetEntriesForTask).Methods(http.MethodGet)
	r.HandleFunc("/api/time-entries/developer/{developerID}", timeEntryHandler.GetEntriesForDeveloper).Methods(http.MethodGet)
	r.HandleFunc("/api/time-entries/developer/{developerID}/daily-charge", timeEntryHandler.GetDailyCharge).Methods(http.MethodGet)

	r.HandleFunc("/api/reports/developer/{developerID}", reportHandler.GetDeveloperReport).Methods(http.MethodGet)
	r.HandleFunc("/api/reports/project/{projectID}", reportHandler.GetProjectReport).Methods(http.MethodGet)
	r.HandleFunc("/api/reports/export", reportHandler.ExportPeriod).Methods(http.MethodGet)

	corsRouter := enableCORS(r)

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		logging.Logger.Fatalf("Event ID: CONFIG_ERROR, Description: SERVER_PORT is not set in the environment variables.")
	}

	serverAddress := fmt.Sprintf(":%s", serverPort)
	logging.Logger.Infof("Event ID: SERVER_START_INFO, Description: Server running on http://localhost%s", serverAddress)

	if err := http.ListenAndServe(serverAddress, corsRouter); err != nil {
		logging.Logger.Fatalf("Event ID: SERVER_FATAL_ERROR, Description: Server failed to start: %v", err)
	}
}
