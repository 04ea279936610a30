package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quest-planner/internal/auth"
	"quest-planner/internal/bot"
	"quest-planner/internal/config"
	"quest-planner/internal/repository"
	"quest-planner/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	todoRepo := repository.NewToDoRepository(db)
	txManager := repository.NewTxManager(db)

	categorySvc := service.NewCategoryService(categoryRepo, txManager)
	todoSvc := service.NewToDoService(todoRepo, userRepo, txManager)
	userSvc := service.NewUserService(userRepo, categorySvc,
		auth.NewPasswordHasher(), auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL))

	scheduler := service.NewSchedulerService(time.Local)
	if _, err := scheduler.ScheduleDaily(cfg.AdvanceTime, func() {
		advanceAll(userRepo, todoSvc)
	}); err != nil {
		log.Fatalf("schedule advancement: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	if cfg.TelegramToken == "" {
		log.Println("Quest planner started (headless, advancement job only).")
		<-ctx.Done()
		log.Println("Shutdown complete.")
		return
	}

	telegramBot, err := bot.New(cfg.TelegramToken, userSvc, categorySvc, todoSvc)
	if err != nil {
		log.Fatalf("bot: %v", err)
	}

	log.Println("Quest planner bot started.")
	if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("bot stopped with error: %v", err)
	}
	log.Println("Shutdown complete.")
}

// advanceAll runs the recurrence advancement for every user, logging per-user
// failures without stopping the sweep.
func advanceAll(userRepo *repository.UserRepository, todoSvc *service.ToDoService) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	users, err := userRepo.ListAll(ctx)
	if err != nil {
		log.Printf("advance: list users: %v", err)
		return
	}
	for _, user := range users {
		advanced, err := todoSvc.AdvanceRecurring(ctx, user.ID)
		if err != nil {
			log.Printf("advance: user %s: %v", user.ID, err)
			continue
		}
		if advanced > 0 {
			log.Printf("advance: user %s: %d item(s)", user.ID, advanced)
		}
	}
}
