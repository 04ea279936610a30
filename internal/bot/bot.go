// Package bot is the Telegram adapter: it translates chat commands into
// service calls and service error kinds into replies. It holds no business
// rules of its own.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"quest-planner/internal/model"
	"quest-planner/internal/service"
)

const helpText = `Commands:
/register <name> <secret> — create an account
/login <name> <secret> — sign in
/add <day|week|month|year> <none|easy|medium|hard|nightmare> <description> [on:YYYY-MM-DD] [repeat:daily|weekly|monthly|yearly] [cat:Name]
/list [day|week|month|year] — to-dos in the current window
/done <n> — complete item n from the last /list
/remove <n> — delete item n from the last /list
/categories, /newcat <name>, /renamecat <old> <new>, /delcat <name>
/level — experience and level`

// Bot serves the command interface over Telegram long polling.
type Bot struct {
	api        *tgbotapi.BotAPI
	users      *service.UserService
	categories *service.CategoryService
	todos      *service.ToDoService

	mu       sync.Mutex
	sessions map[int64]string   // chat id -> user id
	lastList map[int64][]string // chat id -> to-do ids shown by the last /list
}

func New(token string, users *service.UserService, categories *service.CategoryService, todos *service.ToDoService) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram api: %w", err)
	}
	return &Bot{
		api:        api,
		users:      users,
		categories: categories,
		todos:      todos,
		sessions:   make(map[int64]string),
		lastList:   make(map[int64][]string),
	}, nil
}

// Start runs the long-polling loop until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update := <-updates:
			if update.Message == nil || !update.Message.IsCommand() {
				continue
			}
			reqCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
			reply := b.handle(reqCtx, update.Message)
			cancel()
			if reply == "" {
				continue
			}
			msg := tgbotapi.NewMessage(update.Message.Chat.ID, reply)
			if _, err := b.api.Send(msg); err != nil {
				log.Printf("send reply: %v", err)
			}
		}
	}
}

func (b *Bot) handle(ctx context.Context, msg *tgbotapi.Message) string {
	chatID := msg.Chat.ID
	args := strings.Fields(msg.CommandArguments())

	switch msg.Command() {
	case "start", "help":
		return helpText
	case "register":
		if len(args) != 2 {
			return "Usage: /register <name> <secret>"
		}
		user, err := b.users.Register(ctx, args[0], args[1])
		if err != nil {
			return errReply(err)
		}
		b.bind(chatID, user.ID)
		return fmt.Sprintf("Welcome, %s! Your account is ready.", user.Username)
	case "login":
		if len(args) != 2 {
			return "Usage: /login <name> <secret>"
		}
		_, user, err := b.users.Authenticate(ctx, args[0], args[1])
		if err != nil {
			return errReply(err)
		}
		b.bind(chatID, user.ID)
		return fmt.Sprintf("Signed in as %s.", user.Username)
	}

	userID, ok := b.session(chatID)
	if !ok {
		return "Please /login or /register first."
	}

	switch msg.Command() {
	case "add":
		return b.handleAdd(ctx, userID, args)
	case "list":
		return b.handleList(ctx, chatID, userID, args)
	case "done":
		return b.handleDone(ctx, chatID, userID, args)
	case "remove":
		return b.handleRemove(ctx, chatID, args)
	case "categories":
		return b.handleCategories(ctx, userID)
	case "newcat":
		if len(args) == 0 {
			return "Usage: /newcat <name>"
		}
		category, err := b.categories.Add(ctx, userID, strings.Join(args, " "))
		if err != nil {
			return errReply(err)
		}
		return fmt.Sprintf("Category %q created.", category.Name)
	case "renamecat":
		if len(args) != 2 {
			return "Usage: /renamecat <old> <new>"
		}
		return b.handleRenameCat(ctx, userID, args[0], args[1])
	case "delcat":
		if len(args) == 0 {
			return "Usage: /delcat <name>"
		}
		return b.handleDeleteCat(ctx, userID, strings.Join(args, " "))
	case "level":
		user, err := b.users.GetByID(ctx, userID)
		if err != nil {
			return errReply(err)
		}
		return fmt.Sprintf("Level %d — %d XP.", user.Level(), user.Experience)
	default:
		return "Unknown command. Try /help."
	}
}

func (b *Bot) handleAdd(ctx context.Context, userID string, args []string) string {
	if len(args) < 3 {
		return "Usage: /add <block> <difficulty> <description> [on:YYYY-MM-DD] [repeat:freq] [cat:Name]"
	}
	block := model.TimeBlock(strings.ToLower(args[0]))
	difficulty, ok := parseDifficulty(args[1])
	if !ok {
		return "Difficulty must be one of: none, easy, medium, hard, nightmare."
	}

	scheduled := time.Now()
	freq := model.RepeatNone
	categoryName := model.CategoryOther
	var words []string
	for _, arg := range args[2:] {
		switch {
		case strings.HasPrefix(arg, "on:"):
			parsed, err := time.ParseInLocation("2006-01-02", strings.TrimPrefix(arg, "on:"), time.Local)
			if err != nil {
				return "Bad date, expected on:YYYY-MM-DD."
			}
			scheduled = parsed
		case strings.HasPrefix(arg, "repeat:"):
			freq = model.RepeatFrequency(strings.ToLower(strings.TrimPrefix(arg, "repeat:")))
		case strings.HasPrefix(arg, "cat:"):
			categoryName = strings.TrimPrefix(arg, "cat:")
		default:
			words = append(words, arg)
		}
	}

	category, err := b.findCategory(ctx, userID, categoryName)
	if err != nil {
		return errReply(err)
	}

	todo := &model.ToDo{
		UserID:          userID,
		CategoryID:      category.ID,
		Description:     strings.Join(words, " "),
		TimeBlock:       block,
		Difficulty:      difficulty,
		ScheduledDate:   scheduled,
		RepeatFrequency: freq,
	}
	if err := b.todos.Add(ctx, todo); err != nil {
		return errReply(err)
	}
	return fmt.Sprintf("Added %q to %s.", todo.Description, category.Name)
}

func (b *Bot) handleList(ctx context.Context, chatID int64, userID string, args []string) string {
	block := model.TimeBlockDay
	if len(args) > 0 {
		block = model.TimeBlock(strings.ToLower(args[0]))
	}
	todos, err := b.todos.ListByDateAndTimeBlock(ctx, userID, time.Now(), block)
	if err != nil {
		return errReply(err)
	}
	if len(todos) == 0 {
		b.remember(chatID, nil)
		return "Nothing in this window."
	}

	ids := make([]string, 0, len(todos))
	var sb strings.Builder
	for i, todo := range todos {
		ids = append(ids, todo.ID)
		mark := " "
		if todo.IsCompleted {
			mark = "x"
		}
		sb.WriteString(fmt.Sprintf("%d. [%s] %s (%s", i+1, mark, todo.Description, todo.ScheduledDate.Format("2006-01-02")))
		if todo.RepeatFrequency.Repeats() {
			sb.WriteString(", " + string(todo.RepeatFrequency))
		}
		sb.WriteString(")\n")
	}
	b.remember(chatID, ids)
	return strings.TrimSpace(sb.String())
}

func (b *Bot) handleDone(ctx context.Context, chatID int64, userID string, args []string) string {
	id, errMsg := b.pick(chatID, args)
	if errMsg != "" {
		return errMsg
	}
	todo, err := b.todos.GetByID(ctx, id)
	if err != nil {
		return errReply(err)
	}
	todo.IsCompleted = true
	if err := b.todos.Update(ctx, todo); err != nil {
		return errReply(err)
	}
	user, err := b.users.GetByID(ctx, userID)
	if err != nil {
		return errReply(err)
	}
	return fmt.Sprintf("Done! +%d XP, you are level %d.", todo.Difficulty.Experience(), user.Level())
}

func (b *Bot) handleRemove(ctx context.Context, chatID int64, args []string) string {
	id, errMsg := b.pick(chatID, args)
	if errMsg != "" {
		return errMsg
	}
	if err := b.todos.Delete(ctx, id); err != nil {
		return errReply(err)
	}
	return "Removed."
}

func (b *Bot) handleCategories(ctx context.Context, userID string) string {
	categories, err := b.categories.ListByUser(ctx, userID)
	if err != nil {
		return errReply(err)
	}
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.Name)
	}
	return "Categories: " + strings.Join(names, ", ")
}

func (b *Bot) handleRenameCat(ctx context.Context, userID, oldName, newName string) string {
	category, err := b.findCategory(ctx, userID, oldName)
	if err != nil {
		return errReply(err)
	}
	renamed, err := b.categories.Update(ctx, category.ID, newName)
	if err != nil {
		return errReply(err)
	}
	return fmt.Sprintf("Renamed to %q.", renamed.Name)
}

func (b *Bot) handleDeleteCat(ctx context.Context, userID, name string) string {
	category, err := b.findCategory(ctx, userID, name)
	if err != nil {
		return errReply(err)
	}
	if err := b.categories.Delete(ctx, category.ID); err != nil {
		return errReply(err)
	}
	return fmt.Sprintf("Deleted %q; its to-dos moved to %q.", category.Name, model.CategoryOther)
}

func (b *Bot) findCategory(ctx context.Context, userID, name string) (*model.Category, error) {
	normalized := model.NormalizeCategoryName(name)
	categories, err := b.categories.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range categories {
		if categories[i].Name == normalized {
			return &categories[i], nil
		}
	}
	return nil, fmt.Errorf("%w: category %q", model.ErrNotFound, normalized)
}

// pick resolves a 1-based index from the last /list into a to-do id.
func (b *Bot) pick(chatID int64, args []string) (string, string) {
	if len(args) != 1 {
		return "", "Give me the item number from /list."
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return "", "Give me the item number from /list."
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	ids := b.lastList[chatID]
	if n > len(ids) {
		return "", "No such item in the last /list."
	}
	return ids[n-1], ""
}

func (b *Bot) bind(chatID int64, userID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sessions[chatID] = userID
}

func (b *Bot) session(chatID int64) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	userID, ok := b.sessions[chatID]
	return userID, ok
}

func (b *Bot) remember(chatID int64, ids []string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastList[chatID] = ids
}

func parseDifficulty(raw string) (model.Difficulty, bool) {
	switch strings.ToLower(raw) {
	case "none":
		return model.DifficultyNone, true
	case "easy":
		return model.DifficultyEasy, true
	case "medium":
		return model.DifficultyMedium, true
	case "hard":
		return model.DifficultyHard, true
	case "nightmare":
		return model.DifficultyNightmare, true
	}
	return model.DifficultyNone, false
}

func errReply(err error) string {
	switch {
	case errors.Is(err, model.ErrValidation):
		return "That does not work: " + trimKind(err, model.ErrValidation)
	case errors.Is(err, model.ErrConflict):
		return "Not allowed: " + trimKind(err, model.ErrConflict)
	case errors.Is(err, model.ErrNotFound):
		return "Not found: " + trimKind(err, model.ErrNotFound)
	default:
		log.Printf("internal error: %v", err)
		return "Something went wrong, please try again."
	}
}

func trimKind(err error, kind error) string {
	msg := err.Error()
	if rest, ok := strings.CutPrefix(msg, kind.Error()+": "); ok {
		return rest
	}
	return msg
}
