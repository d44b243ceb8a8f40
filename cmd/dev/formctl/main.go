// Command formctl drives an AynaForm server from the shell.
//
//	formctl [flags] <command> [args]
//
// Owner commands log in with -user/-pass (or AYNAFORM_USER/AYNAFORM_PASS).
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Umesh-Verma07/AynaForm/pkg/client"
	"github.com/Umesh-Verma07/AynaForm/pkg/models"
)

const usage = `commands:
  health
  register
  create <form.yaml>
  list
  get <form-id>
  update <form-id> <form.yaml>
  delete <form-id>
  submit <form-id> <answers.yaml>
  responses <form-id>
  summary <form-id>
  export <form-id>
  prune <form-id> <question-id>`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "formctl: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	url     string
	user    string
	pass    string
	timeout time.Duration
	verbose bool
	command string
	args    []string
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("formctl", flag.ContinueOnError)
	fs.StringVar(&o.url, "url", "", "Server base URL (or AYNAFORM_URL)")
	fs.StringVar(&o.user, "user", "", "Username (or AYNAFORM_USER)")
	fs.StringVar(&o.pass, "pass", "", "Password (or AYNAFORM_PASS)")
	fs.DurationVar(&o.timeout, "timeout", 30*time.Second, "Per-request timeout")
	fs.BoolVar(&o.verbose, "v", false, "Log requests to stderr")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: formctl [flags] <command> [args]")
		fs.PrintDefaults()
		fmt.Fprintln(fs.Output(), usage)
	}
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	if o.url == "" {
		o.url = os.Getenv("AYNAFORM_URL")
	}
	if o.url == "" {
		o.url = client.DefaultConfig().BaseURL
	}
	if o.user == "" {
		o.user = os.Getenv("AYNAFORM_USER")
	}
	if o.pass == "" {
		o.pass = os.Getenv("AYNAFORM_PASS")
	}

	if fs.NArg() == 0 {
		return options{}, errors.New("missing command\n" + usage)
	}
	o.command, o.args = fs.Arg(0), fs.Args()[1:]
	return o, nil
}

func run(ctx context.Context, args []string, out io.Writer) error {
	o, err := parseFlags(args)
	if err != nil {
		return err
	}
	if o.verbose {
		client.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	c, err := client.NewDefault(client.Config{BaseURL: o.url, Timeout: o.timeout})
	if err != nil {
		return err
	}
	defer c.Close()
	c.Session.Subscribe(func(e client.Event) {
		slog.Debug("session changed", "event", e.Kind.String(), "username", e.Username)
	})
	return dispatch(ctx, c, o, out)
}

func dispatch(ctx context.Context, c *client.Client, o options, out io.Writer) error {
	need := func(n int) error {
		if len(o.args) != n {
			return fmt.Errorf("%s expects %d argument(s), got %d", o.command, n, len(o.args))
		}
		return nil
	}
	login := func() error {
		if o.user == "" || o.pass == "" {
			return errors.New("owner commands need -user and -pass")
		}
		return c.Login(ctx, o.user, o.pass)
	}

	switch o.command {
	case "health":
		if err := c.Health(ctx); err != nil {
			return err
		}
		_, err := fmt.Fprintln(out, "ok")
		return err

	case "register":
		if o.user == "" || o.pass == "" {
			return errors.New("register needs -user and -pass")
		}
		if err := c.Register(ctx, o.user, o.pass); err != nil {
			return err
		}
		_, err := fmt.Fprintf(out, "registered %s\n", o.user)
		return err

	case "get":
		if err := need(1); err != nil {
			return err
		}
		f, err := c.GetForm(ctx, o.args[0])
		if err != nil {
			return err
		}
		return printJSON(out, f)

	case "submit":
		if err := need(2); err != nil {
			return err
		}
		var in models.SubmissionInput
		if err := readYAML(o.args[1], &in); err != nil {
			return err
		}
		id, err := c.SubmitResponse(ctx, o.args[0], in.Answers)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, id)
		return err
	}

	switch o.command {
	case "create", "list", "update", "delete", "responses", "summary", "export", "prune":
	default:
		return fmt.Errorf("unknown command %q\n%s", o.command, usage)
	}
	if err := login(); err != nil {
		return err
	}
	defer c.Logout()

	switch o.command {
	case "create":
		if err := need(1); err != nil {
			return err
		}
		var in models.FormInput
		if err := readYAML(o.args[0], &in); err != nil {
			return err
		}
		f, err := c.CreateForm(ctx, in)
		if err != nil {
			return err
		}
		return printJSON(out, f)

	case "list":
		forms, err := c.ListForms(ctx)
		if err != nil {
			return err
		}
		return printJSON(out, forms)

	case "update":
		if err := need(2); err != nil {
			return err
		}
		var in models.FormInput
		if err := readYAML(o.args[1], &in); err != nil {
			return err
		}
		f, err := c.UpdateForm(ctx, o.args[0], in)
		if err != nil {
			return err
		}
		return printJSON(out, f)

	case "delete":
		if err := need(1); err != nil {
			return err
		}
		if err := c.DeleteForm(ctx, o.args[0]); err != nil {
			return err
		}
		_, err := fmt.Fprintln(out, "deleted")
		return err

	case "responses":
		if err := need(1); err != nil {
			return err
		}
		responses, err := c.ListResponses(ctx, o.args[0])
		if err != nil {
			return err
		}
		return printJSON(out, responses)

	case "summary":
		if err := need(1); err != nil {
			return err
		}
		summary, err := c.Summary(ctx, o.args[0])
		if err != nil {
			return err
		}
		return printJSON(out, summary)

	case "export":
		if err := need(1); err != nil {
			return err
		}
		csv, err := c.ExportCSV(ctx, o.args[0])
		if err != nil {
			return err
		}
		_, err = out.Write(csv)
		return err

	default: // prune
		if err := need(2); err != nil {
			return err
		}
		if err := c.DeleteQuestionAnswers(ctx, o.args[0], o.args[1]); err != nil {
			return err
		}
		_, err := fmt.Fprintln(out, "pruned")
		return err
	}
}

// readYAML loads a YAML (or JSON) document into dst using dst's json tags.
func readYAML(path string, dst any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var doc any
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("convert %s: %w", path, err)
	}
	return json.Unmarshal(raw, dst)
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
