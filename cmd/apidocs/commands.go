package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
	slogctx "github.com/veqryn/slog-context"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"

	"github.com/jonwraymond/apidocs/apitools"
	"github.com/jonwraymond/apidocs/config"
	"github.com/jonwraymond/apidocs/index"
	"github.com/jonwraymond/apidocs/loader"
	"github.com/jonwraymond/apidocs/registry"
	"github.com/jonwraymond/apidocs/render"
	"github.com/jonwraymond/apidocs/search"
)

const shutdownTimeout = 5 * time.Second

// loadConfig layers defaults, the config file, the environment and flags.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Default()
	if path := c.String("config"); path != "" {
		loaded, err := config.LoadFile(path, cfg)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}
	cfg = config.ApplyEnv(cfg, os.LookupEnv)
	if root := c.String("root"); root != "" {
		cfg.Root = root
	}
	return cfg, nil
}

// loadIndex builds the index with a BM25 searcher. The returned func
// releases the searcher.
func loadIndex(c *cli.Context) (*index.Index, func(), error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, nil, err
	}
	searcher := search.NewBM25Searcher(search.BM25Config{})
	idx, err := loader.Load(c.Context, cfg, loader.Options{Searcher: searcher})
	if err != nil {
		_ = searcher.Close()
		return nil, nil, err
	}
	return idx, func() { _ = searcher.Close() }, nil
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "serve the index as MCP tools",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "transport",
				Value: "stdio",
				Usage: "stdio, http, jsonrpc, jsonrpc-stdio or sse",
			},
			&cli.StringFlag{
				Name:  "addr",
				Value: "localhost:8080",
				Usage: "listen address for HTTP transports",
			},
		},
		Action: func(c *cli.Context) error {
			transport := c.String("transport")
			idx, release, err := loadIndex(c)
			if err != nil {
				return err
			}
			defer release()

			reg := registry.New(registry.Config{
				ServerInfo: registry.ServerInfo{Name: "apidocs", Version: version},
			})
			defer func() { _ = reg.Close() }()
			if err := apitools.Register(reg, idx); err != nil {
				return err
			}

			ctx := c.Context
			slogctx.Info(ctx, "serving", "transport", transport, "tools", reg.Stats().TotalTools)
			switch transport {
			case "stdio":
				return registry.ServeMCPStdio(ctx, reg)
			case "jsonrpc-stdio":
				return registry.ServeStdio(ctx, reg, c.App.Reader, c.App.Writer)
			case "http":
				return listen(ctx, c.String("addr"), registry.ServeMCPHTTP(reg))
			case "jsonrpc":
				return listen(ctx, c.String("addr"), registry.ServeHTTP(reg))
			case "sse":
				return listen(ctx, c.String("addr"), registry.ServeSSE(reg))
			default:
				return errors.Errorf("unknown transport %q", transport)
			}
		},
	}
}

func listen(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slogctx.Info(ctx, "listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Errorf("serving %s: %w", addr, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		slogctx.Info(ctx, "shutting down", "addr", addr)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errors.Errorf("shutting down %s: %w", addr, err)
		}
		return nil
	})
	return g.Wait()
}

func queryCommand() *cli.Command {
	return &cli.Command{
		Name:      "query",
		Usage:     "run one tool against the index",
		ArgsUsage: "<tool> [arg] [arg2]",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return errors.New("query needs a tool name; see 'apidocs tools'")
			}
			name := c.Args().First()
			args, err := apitools.PositionalArgs(name, c.Args().Tail())
			if err != nil {
				return err
			}
			return runTool(c, name, args)
		},
	}
}

func statsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "print index statistics",
		Action: func(c *cli.Context) error {
			return runTool(c, "api_stats", nil)
		},
	}
}

func runTool(c *cli.Context, name string, args map[string]any) error {
	idx, release, err := loadIndex(c)
	if err != nil {
		return err
	}
	defer release()

	out, err := apitools.Run(idx, name, args)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.App.Writer, strings.TrimRight(out, "\n"))
	return err
}

func toolsCommand() *cli.Command {
	return &cli.Command{
		Name:      "tools",
		Usage:     "list the available tools, describe one or rank them against a query",
		ArgsUsage: "[tool|query]",
		Action: func(c *cli.Context) error {
			all := apitools.Tools()
			query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
			if query == "" {
				for _, t := range all {
					printToolLine(c, t)
				}
				return nil
			}

			reg := registry.New(registry.Config{
				ServerInfo: registry.ServerInfo{Name: "apidocs", Version: version},
			})
			defer func() { _ = reg.Close() }()
			if err := apitools.Register(reg, nil); err != nil {
				return err
			}
			byName := make(map[string]apitools.Tool, len(all))
			for _, t := range all {
				byName[t.Name] = t
			}

			tool, err := reg.GetTool(c.Context, query)
			if err == nil {
				printToolDetail(c, byName[tool.Name], tool.Annotations != nil && tool.Annotations.ReadOnlyHint)
				return nil
			}
			if !errors.Is(err, registry.ErrToolNotFound) {
				return err
			}

			ranked, err := reg.Search(c.Context, query, len(all))
			if err != nil {
				return err
			}
			if len(ranked) == 0 {
				_, err = fmt.Fprintln(c.App.Writer, render.NoMatch("tools", query))
				return err
			}
			for _, t := range ranked {
				printToolLine(c, byName[t.Name])
			}
			return nil
		},
	}
}

func toolUsage(t apitools.Tool) string {
	params := make([]string, 0, len(t.Params))
	for _, p := range t.Params {
		if p.Required {
			params = append(params, "<"+p.Name+">")
		} else {
			params = append(params, "["+p.Name+"]")
		}
	}
	return strings.Join(params, " ")
}

func printToolLine(c *cli.Context, t apitools.Tool) {
	fmt.Fprintf(c.App.Writer, "%-16s %s\n", t.Name, toolUsage(t))
	fmt.Fprintf(c.App.Writer, "%-16s %s\n", "", t.Description)
}

func printToolDetail(c *cli.Context, t apitools.Tool, readOnly bool) {
	w := c.App.Writer
	fmt.Fprintf(w, "## %s\n\n", t.Title)
	fmt.Fprintf(w, "Usage: %s %s\n", t.Name, toolUsage(t))
	fmt.Fprintf(w, "%s\n", t.Description)
	if readOnly {
		fmt.Fprintln(w, "Read-only: yes")
	}
	if len(t.Params) == 0 {
		return
	}
	fmt.Fprintln(w, "\nParameters:")
	for _, p := range t.Params {
		typ := p.Type
		if typ == "" {
			typ = "string"
		}
		req := ""
		if p.Required {
			req = ", required"
		}
		fmt.Fprintf(w, "  - %s (%s%s): %s\n", p.Name, typ, req, p.Description)
	}
}

func callCommand() *cli.Command {
	return &cli.Command{
		Name:      "call",
		Usage:     "call a tool on a running MCP server",
		ArgsUsage: "<tool> [key=value...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "url",
				Usage:    "server URL (http(s)://, sse://)",
				Required: true,
			},
			&cli.StringSliceFlag{
				Name:  "header",
				Usage: "extra HTTP header as key=value",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return errors.New("call needs a tool name")
			}
			args, err := parseKeyValues(c.Args().Tail())
			if err != nil {
				return err
			}
			headers := map[string]string{}
			for _, h := range c.StringSlice("header") {
				k, v, ok := strings.Cut(h, "=")
				if !ok {
					return errors.Errorf("invalid header %q, want key=value", h)
				}
				headers[k] = v
			}

			client, err := registry.Dial(c.Context, registry.ClientConfig{URL: c.String("url"), Headers: headers})
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			result, err := client.Call(c.Context, c.Args().First(), args)
			if err != nil {
				return err
			}
			return printResult(c, result)
		},
	}
}

// parseKeyValues turns key=value pairs into tool arguments. Values that
// parse as JSON keep their JSON type; the rest stay strings.
func parseKeyValues(pairs []string) (map[string]any, error) {
	out := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			return nil, errors.Errorf("invalid argument %q, want key=value", pair)
		}
		var decoded any
		if err := json.Unmarshal([]byte(v), &decoded); err == nil {
			out[k] = decoded
			continue
		}
		out[k] = v
	}
	return out, nil
}

func printResult(c *cli.Context, result any) error {
	if s, ok := result.(string); ok {
		_, err := fmt.Fprintln(c.App.Writer, strings.TrimRight(s, "\n"))
		return err
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return errors.Errorf("encoding result: %w", err)
	}
	_, err = fmt.Fprintln(c.App.Writer, string(data))
	return err
}
