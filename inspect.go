package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"reverseip/internal/clientip"
	"reverseip/internal/diag"
	apperr "reverseip/internal/errors"
	"reverseip/internal/render"
	"reverseip/internal/reqview"
)

type inspectOptions struct {
	Remote       string
	RemotePort   int
	ForwardedFor string
	Headers      []string
	Method       string
	Host         string
	URI          string
	Query        string
	Format       string
	NoColor      bool
}

// NewInspectCmd renders a diagnostic for a synthetic request described by
// flags, without starting a server.
func NewInspectCmd() *cobra.Command {
	var opts inspectOptions

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Render the diagnostic for a synthetic request",
		Example: `  reverseip inspect --remote 203.0.113.7
  reverseip inspect --remote 10.0.0.1 --forwarded-for "198.51.100.9, 10.0.0.1"
  reverseip inspect --remote ::1 -H "User-Agent: curl/8.0" --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := opts.view()
			if err != nil {
				return err
			}
			rec := (&diag.Inspector{}).Inspect(view)
			return writeInspect(cmd.OutOrStdout(), rec, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.Remote, "remote", "127.0.0.1", "transport peer address")
	f.IntVar(&opts.RemotePort, "remote-port", 0, "transport peer port")
	f.StringVar(&opts.ForwardedFor, "forwarded-for", "", "X-Forwarded-For header value")
	f.StringArrayVarP(&opts.Headers, "header", "H", nil, `extra header as "Name: Value" (repeatable)`)
	f.StringVar(&opts.Method, "method", "GET", "request method")
	f.StringVar(&opts.Host, "host", "localhost", "Host header / server name")
	f.StringVar(&opts.URI, "uri", "/", "request path")
	f.StringVar(&opts.Query, "query", "", "raw query string")
	f.StringVarP(&opts.Format, "format", "f", "text", "output format: text, json, html")
	f.BoolVar(&opts.NoColor, "no-color", false, "disable colored output")
	return cmd
}

func (o inspectOptions) view() (*reqview.Static, error) {
	v := &reqview.Static{
		Remote:        o.Remote,
		Port:          o.RemotePort,
		Proto:         "HTTP/1.1",
		Verb:          strings.ToUpper(o.Method),
		URLScheme:     "http",
		ServerHost:    o.Host,
		ServerPortNum: 80,
		URI:           o.URI,
		Query:         o.Query,
		HasQuery:      o.Query != "",
	}
	if o.Host != "" {
		v.HeaderList = append(v.HeaderList, reqview.Header{Name: "Host", Value: o.Host})
	}
	for _, h := range o.Headers {
		name, value, ok := strings.Cut(h, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, apperr.Input("header", fmt.Sprintf("%q is not in \"Name: Value\" form", h))
		}
		v.HeaderList = append(v.HeaderList, reqview.Header{Name: name, Value: strings.TrimSpace(value)})
	}
	if o.ForwardedFor != "" {
		v.HeaderList = append(v.HeaderList, reqview.Header{Name: clientip.ForwardedForHeader, Value: o.ForwardedFor})
	}
	return v, nil
}

func writeInspect(w io.Writer, rec diag.Record, opts inspectOptions) error {
	switch opts.Format {
	case "json":
		doc, err := render.JSON(rec)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(doc))
		return err
	case "html":
		return render.Page(w, "", rec)
	case "text", "":
		return writeColoredText(w, render.Text(rec), opts.NoColor)
	default:
		return apperr.Input("format", fmt.Sprintf("%q (want text, json or html)", opts.Format))
	}
}

// ─── colors ───────────────────────────────────────────────────────────────────

// writeColoredText prints block text with frame lines highlighted. fatih/color
// disables itself automatically when output is not a TTY.
func writeColoredText(w io.Writer, text string, noColor bool) error {
	frame := color.New(color.FgGreen, color.Bold)
	stamp := color.New(color.FgHiBlack)
	if noColor {
		frame.DisableColor()
		stamp.DisableColor()
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		if line == "" {
			continue
		}
		var err error
		switch {
		case strings.HasPrefix(line, "╭"):
			_, err = stamp.Fprint(w, line)
		case strings.HasPrefix(line, "│"), line == "\n":
			_, err = fmt.Fprint(w, line)
		default:
			_, err = frame.Fprint(w, line)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
