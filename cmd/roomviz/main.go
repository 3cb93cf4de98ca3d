package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"roomviz/internal/config"
	"roomviz/internal/dataset"
	"roomviz/internal/logging"
	"roomviz/internal/post"
	"roomviz/internal/server"
	"roomviz/internal/source"
	"roomviz/internal/tui"
)

const usage = `usage: roomviz <command> [flags]

commands:
  render   draw the post charts into the output directory
  view     browse the price map in the terminal
  serve    preview the post over http
  mean     print the mean of the values of a JSON object file

run "roomviz <command> -h" for the flags of a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		cmd  = os.Args[1]
		args = os.Args[2:]
		err  error
	)
	switch cmd {
	case "render":
		err = runRender(ctx, args)
	case "view":
		err = runView(ctx, args)
	case "serve":
		err = runServe(ctx, args)
	case "mean":
		err = runMean(args)
	case "help", "-h", "--help":
		fmt.Fprint(os.Stdout, usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup resolves the configuration: defaults, then environment, then the
// layout file given with -config, then the remaining flags.
func setup(name string, args []string, extra func(*flag.FlagSet, *config.Config)) (config.Config, error) {
	parse := func(c *config.Config) (string, error) {
		fs := flag.NewFlagSet(name, flag.ContinueOnError)
		file := fs.String("config", "", "YAML layout file")
		c.Flags(fs)
		if extra != nil {
			extra(fs, c)
		}
		err := fs.Parse(args)
		return *file, err
	}
	cfg := config.FromEnv(config.Default())
	file, err := parse(&cfg)
	if err != nil {
		return cfg, err
	}
	if file != "" {
		cfg, err = config.LoadFile(config.FromEnv(config.Default()), file)
		if err != nil {
			return cfg, err
		}
		if _, err := parse(&cfg); err != nil {
			return cfg, err
		}
	}
	return cfg, cfg.Validate()
}

func runRender(ctx context.Context, args []string) error {
	var title string
	cfg, err := setup("render", args, func(fs *flag.FlagSet, _ *config.Config) {
		fs.StringVar(&title, "title", post.DefaultTitle, "page title")
	})
	if err != nil {
		return err
	}
	lg := logging.New(os.Stderr, cfg.LogLevel)
	f, err := source.New(cfg.Source, lg)
	if err != nil {
		return err
	}
	res := post.New(f, cfg, lg).Build(ctx)
	files, err := res.Write(cfg.Out, post.WriteOptions{
		Title:    title,
		PNG:      cfg.PNG,
		PNGScale: cfg.PNGScale,
	})
	if err != nil {
		return fmt.Errorf("write %s: %w", cfg.Out, err)
	}
	lg.Info("post written", "dir", cfg.Out, "files", len(files))
	return res.Err()
}

func runView(ctx context.Context, args []string) error {
	var logFile string
	cfg, err := setup("view", args, func(fs *flag.FlagSet, _ *config.Config) {
		fs.StringVar(&logFile, "log-file", "", "write logs to this file")
	})
	if err != nil {
		return err
	}
	var lg *log.Logger
	if logFile != "" {
		var closer io.Closer
		lg, closer, err = logging.File(logFile, cfg.LogLevel)
		if err != nil {
			return err
		}
		defer closer.Close()
	} else {
		lg = logging.Discard()
	}
	f, err := source.New(cfg.Source, lg)
	if err != nil {
		return err
	}
	m := tui.New(ctx, *post.New(f, cfg, lg), lg)
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

func runServe(ctx context.Context, args []string) error {
	var title string
	cfg, err := setup("serve", args, func(fs *flag.FlagSet, c *config.Config) {
		fs.StringVar(&title, "title", post.DefaultTitle, "page title")
		fs.StringVar(&c.Addr, "addr", c.Addr, "listen address")
	})
	if err != nil {
		return err
	}
	lg := logging.New(os.Stderr, cfg.LogLevel)
	f, err := source.New(cfg.Source, lg)
	if err != nil {
		return err
	}
	res := post.New(f, cfg, lg).Build(ctx)
	if err := res.Err(); err != nil {
		lg.Warn("serving a partial post", "err", err)
	}
	srv := server.New(res, f, lg)
	srv.Title = title
	srv.PNGScale = cfg.PNGScale
	srv.Origins = cfg.CORSOrigins
	return srv.ListenAndServe(ctx, cfg.Addr)
}

func runMean(args []string) error {
	fs := flag.NewFlagSet("mean", flag.ContinueOnError)
	level := fs.String("log-level", "warn", "debug, info, warn or error")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("mean: expected one JSON file")
	}
	r, err := os.Open(fs.Arg(0))
	if err != nil {
		return err
	}
	defer r.Close()
	values, err := dataset.DecodeRaw(r)
	if err != nil {
		return fmt.Errorf("decode %s: %w", fs.Arg(0), err)
	}
	mean := dataset.Mean(values, logging.New(os.Stderr, *level))
	fmt.Println(strconv.FormatFloat(mean, 'f', -1, 64))
	return nil
}
