// Package handler implements the interactive console commands.
package handler

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"text/tabwriter"

	"go.uber.org/zap"

	"github.com/noah-isme/scanova-console/internal/notify"
	appErrors "github.com/noah-isme/scanova-console/pkg/errors"
)

// CommandFunc runs one console command.
type CommandFunc func(ctx context.Context, in *Input) error

type command struct {
	name    string
	usage   string
	summary string
	run     CommandFunc
}

var (
	// errReported marks a failure already surfaced through a toast.
	errReported = errors.New("reported")
	errExit     = errors.New("exit")
)

// UsageError is returned when a command is called with missing arguments.
type UsageError struct {
	Usage string
}

func (e *UsageError) Error() string {
	return "usage: " + e.Usage
}

// Options configures a Console.
type Options struct {
	In     io.Reader
	Out    io.Writer
	Logger *zap.Logger
	Prompt string
	// ReadPassword reads a secret without echo. Nil falls back to a plain line.
	ReadPassword func() ([]byte, error)
}

// Console is a line-oriented command loop.
type Console struct {
	reader       *bufio.Reader
	out          io.Writer
	logger       *zap.Logger
	prompt       string
	readPassword func() ([]byte, error)

	mu       sync.Mutex
	commands map[string]command
}

// NewConsole constructs a Console with the built-in help and exit commands.
func NewConsole(opts Options) *Console {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Prompt == "" {
		opts.Prompt = "scanova> "
	}
	c := &Console{
		reader:       bufio.NewReader(opts.In),
		out:          opts.Out,
		logger:       opts.Logger,
		prompt:       opts.Prompt,
		readPassword: opts.ReadPassword,
		commands:     map[string]command{},
	}
	c.Register("help", "help", "List commands", c.help)
	c.Register("exit", "exit", "Leave the console", func(context.Context, *Input) error { return errExit })
	return c
}

// Register adds a command. Names may be one or two words.
func (c *Console) Register(name, usage, summary string, run CommandFunc) {
	c.commands[name] = command{name: name, usage: usage, summary: summary, run: run}
}

// Run reads commands until exit, end of input, or ctx is done.
func (c *Console) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		line, err := c.ReadLine(c.prompt)
		if err != nil {
			if errors.Is(err, io.EOF) {
				c.Println()
				return nil
			}
			return err
		}
		if err := c.Dispatch(ctx, line); err != nil {
			if errors.Is(err, errExit) {
				return nil
			}
		}
	}
}

// Dispatch runs a single command line and reports its failure, if any.
func (c *Console) Dispatch(ctx context.Context, line string) error {
	tokens, err := splitLine(line)
	if err != nil {
		c.Errorf("%v", err)
		return err
	}
	if len(tokens) == 0 {
		return nil
	}

	cmd, rest, ok := c.lookup(tokens)
	if !ok {
		err := fmt.Errorf("unknown command %q", tokens[0])
		c.Errorf("%v (try help)", err)
		return err
	}

	err = cmd.run(ctx, ParseInput(rest))
	var usage *UsageError
	switch {
	case err == nil, errors.Is(err, errExit):
	case errors.Is(err, errReported):
	case errors.As(err, &usage):
		c.Errorf("%s", usage.Error())
	default:
		c.logger.Debug("command failed", zap.String("command", cmd.name), zap.Error(err))
		c.Errorf("%s", appErrors.Message(err, "Something went wrong."))
	}
	return err
}

func (c *Console) lookup(tokens []string) (command, []string, bool) {
	if len(tokens) >= 2 {
		if cmd, ok := c.commands[strings.ToLower(tokens[0]+" "+tokens[1])]; ok {
			return cmd, tokens[2:], true
		}
	}
	cmd, ok := c.commands[strings.ToLower(tokens[0])]
	return cmd, tokens[1:], ok
}

func (c *Console) help(ctx context.Context, in *Input) error {
	names := make([]string, 0, len(c.commands))
	for name := range c.commands {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([][]string, 0, len(names))
	for _, name := range names {
		cmd := c.commands[name]
		rows = append(rows, []string{cmd.usage, cmd.summary})
	}
	c.Table(nil, rows)
	return nil
}

// ReadLine prints prompt and returns the next input line without its newline.
func (c *Console) ReadLine(prompt string) (string, error) {
	if prompt != "" {
		c.Printf("%s", prompt)
	}
	line, err := c.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// ReadSecret prompts for a value that should not be echoed.
func (c *Console) ReadSecret(prompt string) (string, error) {
	if c.readPassword == nil {
		return c.ReadLine(prompt)
	}
	c.Printf("%s", prompt)
	raw, err := c.readPassword()
	c.Println()
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// Printf writes formatted output.
func (c *Console) Printf(format string, args ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, format, args...)
}

// Println writes a line.
func (c *Console) Println(args ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, args...)
}

// Errorf writes an error line.
func (c *Console) Errorf(format string, args ...interface{}) {
	c.Printf("error: "+format+"\n", args...)
}

// Table writes aligned columns. A nil header prints rows only.
func (c *Console) Table(header []string, rows [][]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	if header != nil {
		fmt.Fprintln(w, strings.Join(header, "\t"))
	}
	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	_ = w.Flush()
}

// ToastSink prints toasts as they are queued.
func (c *Console) ToastSink() notify.Sink {
	return func(t notify.Toast) {
		marker := "ok"
		if t.Kind == notify.KindError {
			marker = "!!"
		}
		c.Printf("[%s] %s\n", marker, t.Message)
	}
}

// ConfirmPresenter asks the pending question on the console and hands the
// answer to resolve.
func (c *Console) ConfirmPresenter(resolve func(bool) error) notify.Presenter {
	return func(req notify.ConfirmRequest) {
		c.Printf("%s\n%s\n", req.Title, req.Message)
		answer, err := c.ReadLine(fmt.Sprintf("%s / %s [y/N]: ", req.ConfirmText, req.CancelText))
		yes := err == nil && isYes(answer, req.ConfirmText)
		if err := resolve(yes); err != nil {
			c.logger.Warn("confirmation already resolved", zap.Error(err))
		}
	}
}

func isYes(answer, confirmText string) bool {
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes" || (answer != "" && answer == strings.ToLower(confirmText))
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
