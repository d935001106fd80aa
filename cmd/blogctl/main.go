package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/doctorazi/blogdesk/internal/apperror"
	"github.com/doctorazi/blogdesk/internal/asset"
	"github.com/doctorazi/blogdesk/internal/auth"
	"github.com/doctorazi/blogdesk/internal/config"
	"github.com/doctorazi/blogdesk/internal/logger"
	"github.com/doctorazi/blogdesk/internal/model"
	"github.com/doctorazi/blogdesk/internal/repository"
	"github.com/doctorazi/blogdesk/internal/routes"
	"github.com/doctorazi/blogdesk/internal/workflow"
)

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)
	outputStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle    = lipgloss.NewStyle().Faint(true)
)

const help = `Commands:
  list [rejected|mine]   list posts
  search <text>          filter posts by title or description
  show <id>              print a post summary
  reject <id>            reject a post
  delete <id>            delete a post and its image
  token <user-id> [ttl]  issue a session token
  quit`

type console struct {
	mgr    *workflow.Manager
	actor  model.Actor
	secret []byte

	in  *bufio.Scanner
	out io.Writer
}

func (c *console) println(style lipgloss.Style, s string) {
	fmt.Fprintln(c.out, style.Render(s))
}

func (c *console) fail(err error) {
	c.println(errorStyle, "Error: "+apperror.Message(err))
}

func (c *console) printPosts(posts []model.Post) {
	if len(posts) == 0 {
		c.println(dimStyle, "No posts.")
		return
	}
	for _, p := range posts {
		line := fmt.Sprintf("%s  %-40s  %s", p.ID, p.Title, p.CreatedAt.Format("2006-01-02"))
		if p.IsTranslated {
			line += "  [fa]"
		}
		c.println(outputStyle, line)
	}
}

func (c *console) confirm(question string) bool {
	fmt.Fprint(c.out, promptStyle.Render(question+" [y/N]: "))
	if !c.in.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(c.in.Text()))
	return answer == "y" || answer == "yes"
}

// exec runs one command line and reports whether the session should end.
func (c *console) exec(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "quit", "exit":
		return true

	case "help":
		c.println(dimStyle, help)

	case "list":
		opts := workflow.ListOptions{}
		if len(args) > 0 {
			opts.Rejected = args[0] == "rejected"
			opts.Mine = args[0] == "mine"
		}
		posts, err := c.mgr.ListPosts(ctx, c.actor, opts)
		if err != nil {
			c.fail(err)
			return false
		}
		c.printPosts(posts)

	case "search":
		posts, err := c.mgr.ListPosts(ctx, c.actor, workflow.ListOptions{Query: strings.Join(args, " ")})
		if err != nil {
			c.fail(err)
			return false
		}
		c.printPosts(posts)

	case "show", "reject", "delete":
		if len(args) != 1 {
			c.println(errorStyle, "Usage: "+cmd+" <id>")
			return false
		}
		post, err := c.mgr.Post(ctx, model.PostID(args[0]))
		if err != nil {
			c.fail(err)
			return false
		}
		c.postCommand(ctx, cmd, post)

	case "token":
		if len(args) == 0 {
			c.println(errorStyle, "Usage: token <user-id> [ttl]")
			return false
		}
		if len(c.secret) == 0 {
			c.println(errorStyle, "Error: "+config.EnvJWTSecret+" is not set")
			return false
		}
		ttl := 24 * time.Hour
		if len(args) > 1 {
			d, err := time.ParseDuration(args[1])
			if err != nil {
				c.println(errorStyle, "Error: invalid ttl")
				return false
			}
			ttl = d
		}
		token, err := auth.IssueToken(c.secret, model.UserID(args[0]), ttl)
		if err != nil {
			c.println(errorStyle, "Error: "+err.Error())
			return false
		}
		c.println(outputStyle, "Token: "+token)

	default:
		c.println(errorStyle, "Unknown command "+cmd+", type help")
	}
	return false
}

func (c *console) postCommand(ctx context.Context, cmd string, post *model.Post) {
	switch cmd {
	case "show":
		c.println(outputStyle, post.Title)
		c.println(dimStyle, post.ShortDescription)
		c.println(dimStyle, fmt.Sprintf("state=%s translation=%s url=%s image=%s",
			workflow.StateOf(post), workflow.TranslationStateOf(post), post.URL, post.ImageURL))
		c.println(dimStyle, routes.PostURL(model.LocaleEN, post.ID, post.URL))

	case "reject":
		if err := c.mgr.Reject(ctx, c.actor, post); err != nil {
			c.fail(err)
			return
		}
		c.println(outputStyle, "Rejected "+string(post.ID))

	case "delete":
		if !c.confirm("Delete \"" + post.Title + "\"?") {
			c.println(dimStyle, "Cancelled.")
			return
		}
		if err := c.mgr.Delete(ctx, c.actor, post); err != nil {
			c.fail(err)
			return
		}
		c.println(outputStyle, "Deleted "+string(post.ID))
	}
}

func (c *console) run(ctx context.Context) error {
	c.println(dimStyle, "Type help for commands, quit to exit.")
	for {
		fmt.Fprint(c.out, promptStyle.Render("blogctl> "))
		if !c.in.Scan() {
			break
		}
		if c.exec(ctx, c.in.Text()) {
			break
		}
	}
	return c.in.Err()
}

func main() {
	configPath := flag.String("config", config.DefaultConfigPath, "Path to the config file")
	userID := flag.String("user", "", "User id to act as")
	session := flag.String("session", os.Getenv("BLOGDESK_SESSION"), "Backend session token")
	flag.Parse()

	if err := config.LoadConfig(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error loading config: "+err.Error()))
		os.Exit(1)
	}
	cfg := config.AppConfig

	l := logger.New("warn", "console")
	repository.SetLogger(l)
	asset.SetLogger(l)
	workflow.SetLogger(l)

	ctx := context.Background()
	if *session != "" {
		ctx = auth.ContextWithSession(ctx, *session)
	}

	backend, err := asset.NewBackend(ctx, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf(config.ErrCreateAssetBackendFmt, err)))
		os.Exit(1)
	}

	repo := repository.NewRESTRepository(cfg.Backend.BaseURL, cfg.Backend.SessionCookie, cfg.Backend.Timeout)
	mgr := workflow.NewManager(repo, repo, asset.NewReconciler(backend))

	actor := model.Actor{}
	if *userID != "" {
		actor, err = mgr.ResolveActor(ctx, model.UserID(*userID), model.LocaleEN)
		if err != nil {
			fmt.Fprintln(os.Stderr, errorStyle.Render("Error resolving user: "+apperror.Message(err)))
			os.Exit(1)
		}
	}

	c := &console{
		mgr:    mgr,
		actor:  actor,
		secret: []byte(cfg.Secrets.JWTSecret),
		in:     bufio.NewScanner(os.Stdin),
		out:    os.Stdout,
	}
	if err := c.run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error reading input:", err)
		os.Exit(1)
	}
}
