package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rysen-app/rysen/internal/api"
	"github.com/rysen-app/rysen/internal/cache"
	"github.com/rysen-app/rysen/internal/config"
	"github.com/rysen-app/rysen/internal/domain"
	"github.com/rysen-app/rysen/internal/service"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := api.New(cfg.APIBaseURL, cfg.RequestTimeout)

	var store cache.Store = cache.NewMemory()
	if cfg.CacheDir != "" {
		fileStore, err := cache.NewFile(cfg.CacheDir)
		if err != nil {
			slog.Warn("cache dir unavailable, using memory cache", "dir", cfg.CacheDir, "error", err)
		} else {
			store = fileStore
		}
	}

	profiles := service.NewProfiles(client)

	account, err := profiles.Signin(ctx, cfg.IDToken)
	if err != nil {
		slog.Error("signin failed", "error", err)
		os.Exit(1)
	}
	profile, err := profiles.Fetch(ctx, account.UID)
	if err != nil {
		slog.Error("profile fetch failed", "error", err)
		os.Exit(1)
	}

	app := &app{
		cfg:           cfg,
		account:       account,
		profile:       profile,
		profiles:      profiles,
		conversations: service.NewConversations(client, cfg),
		feedback:      service.NewFeedback(client, stdoutClipboard, nil),
		donations:     service.NewDonations(client, cfg, nil),
		readings:      service.NewReadings(client, store),
	}

	if app.donations.ShouldPrompt(account) {
		fmt.Println("Would you consider supporting this mission? Use /donate <amount> [monthly], or just keep praying.")
	}

	if err := app.run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("session ended with error", "error", err)
		os.Exit(1)
	}
	slog.Info("goodbye")
}

// app holds the REPL state: one active conversation at a time plus
// the services behind it.
type app struct {
	cfg           *config.Config
	account       domain.Account
	profile       domain.UserProfile
	profiles      *service.Profiles
	conversations *service.Conversations
	feedback      *service.Feedback
	donations     *service.Donations
	readings      *service.Readings

	conv          *service.Conversation
	daily         *domain.MassReading
	lastTitle     string
	lastRef       string
	lastFollowUps []string
}

func (a *app) run(ctx context.Context) error {
	if err := a.open(ctx, domain.TopicChat); err != nil {
		return err
	}

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Printf("> ")
	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
		case line == "/quit":
			return nil
		case strings.HasPrefix(line, "/"):
			a.command(ctx, line)
		default:
			a.send(ctx, line)
		}
		fmt.Printf("> ")
	}
	return scanner.Err()
}

func (a *app) command(ctx context.Context, line string) {
	fields := strings.Fields(line)
	arg := ""
	if len(fields) > 1 {
		arg = fields[1]
	}

	switch fields[0] {
	case "/chat":
		a.openAndReport(ctx, domain.TopicChat)
	case "/prayer":
		a.openAndReport(ctx, domain.TopicPrayer)
	case "/bible":
		if a.openAndReport(ctx, domain.TopicBible) {
			a.showReadings(ctx)
		}
	case "/readings":
		a.showReadings(ctx)
	case "/first", "/second", "/psalm", "/gospel":
		a.scripture(ctx, fields[0])
	case "/saint":
		a.saint(ctx)
	case "/study":
		a.study(ctx)
	case "/heart", "/flag":
		a.react(domain.Reaction(strings.TrimPrefix(fields[0], "/")), arg)
	case "/copy":
		a.copyMessage(arg)
	case "/share":
		a.share(arg)
	case "/donate":
		a.donate(ctx, fields[1:])
	case "/wipe":
		if err := a.profiles.Wipe(ctx, a.account.UID); err != nil {
			fmt.Println("Could not wipe history:", err)
			return
		}
		fmt.Println("History wiped.")
	default:
		fmt.Println("Commands: /chat /prayer /bible /readings /first /second /psalm /gospel /saint /study /heart /flag /copy /share /donate /wipe /quit")
	}
}

func (a *app) open(ctx context.Context, topic domain.Topic) error {
	if a.conv != nil {
		a.conv.Close()
	}
	conv, err := a.conversations.Start(ctx, a.account, a.profile, topic, typingIndicator)
	if err != nil {
		return err
	}
	a.conv = conv
	a.lastFollowUps = nil
	for _, msg := range conv.Messages() {
		printMessage(msg)
	}
	return nil
}

func (a *app) openAndReport(ctx context.Context, topic domain.Topic) bool {
	if err := a.open(ctx, topic); err != nil {
		// The prior conversation, if any, is already closed; the
		// user can retry with the same command.
		fmt.Println("Could not start a new session, please try again.")
		return false
	}
	return true
}

func (a *app) send(ctx context.Context, line string) {
	// A bare number picks a follow-up chip from the last reply.
	if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(a.lastFollowUps) {
		a.deliver(a.conv.SendFollowUp(ctx, a.lastFollowUps[n-1]))
		return
	}
	a.deliver(a.conv.Send(ctx, line))
}

func (a *app) deliver(reply domain.Message, err error) {
	fmt.Print("\r")
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPendingReply):
			fmt.Println("Still waiting on the previous reply.")
		case errors.Is(err, domain.ErrEmptyMessage):
		default:
			fmt.Println("Your message could not be delivered. Please try again.")
		}
		return
	}
	printMessage(reply)
	a.lastFollowUps = reply.FollowUps
	for i, chip := range reply.FollowUps {
		fmt.Printf("  [%d] %s\n", i+1, chip)
	}
}

func (a *app) showReadings(ctx context.Context) {
	reading, err := a.readings.Daily(ctx)
	if err != nil {
		fmt.Println("Could not load today's readings.")
		return
	}
	a.daily = &reading
	fmt.Printf("%s — %s, week %s (Year %s)\n", reading.Date, reading.Season, reading.SeasonWeek, reading.Year)
	fmt.Println("  /first  ", reading.Readings.First)
	if reading.Readings.Second != "" {
		fmt.Println("  /second ", reading.Readings.Second)
	}
	fmt.Println("  /psalm  ", reading.Readings.Psalm)
	fmt.Println("  /gospel ", reading.Readings.Gospel)
	fmt.Println("  /saint  ", reading.Saint)
}

func (a *app) scripture(ctx context.Context, cmd string) {
	if a.daily == nil {
		fmt.Println("Load today's readings first with /readings.")
		return
	}
	var title, ref string
	switch cmd {
	case "/first":
		title, ref = "First Reading", a.daily.Readings.First
	case "/second":
		title, ref = "Second Reading", a.daily.Readings.Second
	case "/psalm":
		title, ref = "Responsorial Psalm", a.daily.Readings.Psalm
	case "/gospel":
		title, ref = "Gospel Reading", a.daily.Readings.Gospel
	}
	if ref == "" {
		fmt.Println("There is no such reading today.")
		return
	}
	a.lastTitle, a.lastRef = title, ref
	a.deliver(a.readings.Scripture(ctx, a.conv, title, ref))
}

func (a *app) saint(ctx context.Context) {
	if a.daily == nil {
		fmt.Println("Load today's readings first with /readings.")
		return
	}
	a.deliver(a.readings.Saint(ctx, a.conv, a.daily.Saint))
}

func (a *app) study(ctx context.Context) {
	if a.lastTitle == "" {
		fmt.Println("Open a reading first.")
		return
	}
	a.deliver(a.readings.Study(ctx, a.conv, a.lastTitle, a.lastRef))
}

func (a *app) react(reaction domain.Reaction, arg string) {
	msg, ok := a.pickAI(arg)
	if !ok {
		return
	}
	if err := a.feedback.React(context.Background(), reaction, msg, a.account.Email); err != nil {
		fmt.Println("That message cannot carry feedback yet.")
		return
	}
	fmt.Printf("Marked %s.\n", reaction)
}

func (a *app) copyMessage(arg string) {
	msg, ok := a.pickAI(arg)
	if !ok {
		return
	}
	if err := a.feedback.Copy(msg); err != nil {
		fmt.Println("Nothing to copy yet.")
		return
	}
	fmt.Println("Copied!")
}

func (a *app) share(arg string) {
	msg, ok := a.pickAI(arg)
	if !ok {
		return
	}
	err := a.feedback.Share(context.Background(), msg, a.account.Email)
	switch {
	case errors.Is(err, domain.ErrShareUnsupported):
		fmt.Println("Sharing not supported on this device.")
	case err != nil:
		fmt.Println("Could not share that message.")
	default:
		fmt.Println("Shared.")
	}
}

func (a *app) donate(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Println("Usage: /donate <amount> [monthly]. Suggested:", strings.Join(config.DonationChips, " "))
		return
	}
	recurring := len(args) > 1 && args[1] == "monthly"
	url, err := a.donations.Donate(ctx, args[0], recurring)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidAmount) {
			fmt.Println("Please enter an amount of at least $1.")
		} else {
			fmt.Println("Could not create the donation session, please try again.")
		}
		return
	}
	fmt.Println("Complete your donation at:", url)
}

// pickAI resolves an AI message by its 1-based position among AI
// replies, defaulting to the most recent one.
func (a *app) pickAI(arg string) (domain.Message, bool) {
	var replies []domain.Message
	for _, msg := range a.conv.Messages() {
		if msg.Sender == domain.SenderAI {
			replies = append(replies, msg)
		}
	}
	if len(replies) == 0 {
		fmt.Println("No replies yet.")
		return domain.Message{}, false
	}
	if arg == "" {
		return replies[len(replies)-1], true
	}
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(replies) {
		fmt.Println("No such message.")
		return domain.Message{}, false
	}
	return replies[n-1], true
}

func printMessage(msg domain.Message) {
	switch msg.Sender {
	case domain.SenderUser:
		fmt.Printf("you: %s\n", msg.Text)
	default:
		fmt.Printf("rysen: %s\n", msg.Text)
	}
}

func typingIndicator(text string) {
	fmt.Printf("\r%-12s", text)
}

func stdoutClipboard(text string) error {
	// No system clipboard in a plain terminal; echo the text so it
	// can be selected manually.
	_, err := fmt.Printf("--- copied ---\n%s\n--------------\n", text)
	return err
}
