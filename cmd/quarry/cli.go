package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/paulmach/orb/geojson"
	"github.com/twpayne/go-geos"
	"github.com/urfave/cli/v2"

	"github.com/hideseek/quarry/internal/errors"
	"github.com/hideseek/quarry/internal/geo"
	"github.com/hideseek/quarry/internal/mask"
	"github.com/hideseek/quarry/internal/mcp"
	"github.com/hideseek/quarry/internal/preview"
	"github.com/hideseek/quarry/internal/resolve"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(deps *resolve.Deps) *cli.App {
	app := &cli.App{
		Name:    "quarry",
		Usage:   "Geospatial question resolution engine",
		Version: Version,
		Commands: []*cli.Command{
			resolveCmd(deps),
			answerCmd(deps),
			applyCmd(deps),
			previewCmd(deps),
			cacheCmd(deps),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// resolveCmd creates the resolve command.
func resolveCmd(deps *resolve.Deps) *cli.Command {
	return &cli.Command{
		Name:  "resolve",
		Usage: "Resolve a question into its decision boundary (reads {question, context} JSON from stdin)",
		Action: func(c *cli.Context) error {
			var req mcp.ResolveRequest
			if err := readRequest(&req); err != nil {
				return outputError(err)
			}

			b, err := resolve.Resolve(context.Background(), deps, req.Context.ToContext(), &req.Question)
			if err != nil {
				return outputError(err)
			}

			resp := map[string]any{"state": boundaryState(b)}
			if !b.IsNone() && !b.IsEmpty() {
				var regions []*geojson.Geometry
				for _, g := range b.Geoms() {
					og, err := geo.ToOrb(g)
					if err != nil {
						return outputError(err)
					}
					regions = append(regions, geojson.NewGeometry(og))
				}
				resp["regions"] = regions
			}
			return outputJSON(resp)
		},
	}
}

// answerCmd creates the answer command.
func answerCmd(deps *resolve.Deps) *cli.Command {
	return &cli.Command{
		Name:  "answer",
		Usage: "Derive a question's answer from the hider position (reads {question, context, mask} JSON from stdin)",
		Action: func(c *cli.Context) error {
			req, current, err := readMaskRequest()
			if err != nil {
				return outputError(err)
			}

			answered, err := mask.Derive(context.Background(), deps, req.Context.ToContext(), &req.Question, current)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(map[string]any{
				"answered": answered,
				"question": &req.Question,
			})
		},
	}
}

// applyCmd creates the apply command.
func applyCmd(deps *resolve.Deps) *cli.Command {
	return &cli.Command{
		Name:  "apply",
		Usage: "Apply an answered question to the working mask (reads {question, context, mask} JSON from stdin)",
		Action: func(c *cli.Context) error {
			req, current, err := readMaskRequest()
			if err != nil {
				return outputError(err)
			}

			next, changed, err := mask.Adjust(context.Background(), deps, req.Context.ToContext(), &req.Question, current)
			if err != nil {
				return outputError(err)
			}
			if !changed {
				return outputJSON(map[string]any{"changed": false, "mask": req.Mask})
			}

			g, err := geo.ToOrb(next)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(map[string]any{"changed": true, "mask": geojson.NewFeature(g)})
		},
	}
}

// previewCmd creates the preview command.
func previewCmd(deps *resolve.Deps) *cli.Command {
	return &cli.Command{
		Name:  "preview",
		Usage: "Export a question's boundary outline (reads {question, context} JSON from stdin)",
		Action: func(c *cli.Context) error {
			var req mcp.ResolveRequest
			if err := readRequest(&req); err != nil {
				return outputError(err)
			}

			f, ok := preview.Export(context.Background(), deps, req.Context.ToContext(), &req.Question)
			if !ok {
				return outputJSON(map[string]any{"exists": false})
			}
			return outputJSON(map[string]any{"exists": true, "feature": f})
		},
	}
}

// cacheCmd creates the cache command.
func cacheCmd(deps *resolve.Deps) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Report boundary-cache usage",
		Action: func(c *cli.Context) error {
			return outputJSON(deps.Cache.Stats())
		},
	}
}

func boundaryState(b resolve.Boundary) string {
	switch {
	case b.IsNone():
		return "none"
	case b.IsEmpty():
		return "empty"
	}
	return "region"
}

// readRequest decodes a JSON request piped via stdin.
func readRequest(v any) error {
	if !stdinHasData() {
		return errors.NewInvalidRequest("request JSON must be piped via stdin")
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return errors.NewInternal(err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.NewInvalidRequest(fmt.Sprintf("invalid request JSON: %v", err))
	}
	return nil
}

// readMaskRequest decodes a mask-bearing request and converts its mask.
func readMaskRequest() (*mcp.MaskRequest, *geos.Geom, error) {
	var req mcp.MaskRequest
	if err := readRequest(&req); err != nil {
		return nil, nil, err
	}
	if req.Mask == nil {
		return nil, nil, errors.NewInvalidRequest("mask is required")
	}
	current, err := geo.FromOrb(req.Mask.Geometry)
	if err != nil {
		return nil, nil, err
	}
	return &req, current, nil
}

// outputJSON writes the result as indented JSON to stdout.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if qErr, ok := err.(*errors.QuarryError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", qErr.Code, qErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}
