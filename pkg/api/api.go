// Package api implements the calculator's REST API.
package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/lemonberrylabs/quickcalc/pkg/expr"
	"github.com/lemonberrylabs/quickcalc/pkg/format"
	"github.com/lemonberrylabs/quickcalc/pkg/stdlib"
	"github.com/lemonberrylabs/quickcalc/pkg/store"
	"github.com/lemonberrylabs/quickcalc/pkg/types"
)

// Server is the REST API server.
type Server struct {
	app   *fiber.App
	store store.Store
}

// New creates a new API server. Evaluations are recorded in s when it is
// non-nil.
func New(s store.Store) *Server {
	srv := &Server{store: s}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
	})
	app.Use(recover.New())

	app.Get("/healthz", srv.healthz)

	app.Get("/v1/evaluate", srv.evaluate)
	app.Post("/v1/evaluate", srv.evaluate)
	app.Get("/v1/explain", srv.explain)
	app.Get("/v1/functions", srv.listFunctions)

	app.Get("/v1/history", srv.listHistory)
	app.Get("/v1/history/:id", srv.getHistory)
	app.Delete("/v1/history", srv.clearHistory)

	srv.app = app
	return srv
}

// Listen starts the HTTP server on the given address.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Serve serves HTTP requests on an existing listener.
func (s *Server) Serve(ln net.Listener) error {
	return s.app.Listener(ln)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App returns the underlying Fiber app (useful for testing and for mounting
// the web page on the same listener).
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) healthz(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// --- Evaluation Handlers ---

type evaluateRequest struct {
	Expression string `json:"expression"`
}

// expression reads the input from ?q= or, for POST, from the JSON body.
func expression(c *fiber.Ctx) (string, error) {
	if c.Method() == fiber.MethodPost {
		var req evaluateRequest
		if err := c.BodyParser(&req); err != nil {
			return "", fmt.Errorf("invalid request body: %v", err)
		}
		return req.Expression, nil
	}
	return c.Query("q"), nil
}

func (s *Server) evaluate(c *fiber.Ctx) error {
	input, err := expression(c)
	if err != nil {
		return errorResponse(c, 400, "INVALID_ARGUMENT", err.Error(), "")
	}
	if expr.Normalize(input) == "" {
		return errorResponse(c, 400, "INVALID_ARGUMENT", "expression is required", "")
	}

	v, evalErr := expr.Evaluate(input)
	formatted := ""
	if evalErr == nil {
		formatted = format.Result(v)
	}
	res := types.NewResult(input, v, formatted, evalErr)
	// Live previews pass record=false so every keystroke is not kept.
	if c.QueryBool("record", true) {
		s.record(c.UserContext(), res)
	}

	if evalErr != nil {
		return evalErrorResponse(c, evalErr)
	}
	return c.JSON(fiber.Map{
		"expression": res.Expression,
		"value":      res.Value,
		"formatted":  res.Formatted,
	})
}

func (s *Server) explain(c *fiber.Ctx) error {
	input := c.Query("q")
	if expr.Normalize(input) == "" {
		return errorResponse(c, 400, "INVALID_ARGUMENT", "expression is required", "")
	}

	tokens, err := expr.Tokenize(input)
	if err != nil {
		return evalErrorResponse(c, err)
	}
	postfix, err := expr.ToPostfix(tokens)
	if err != nil {
		return evalErrorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"expression": input,
		"tokens":     tokensToJSON(tokens),
		"postfix":    expr.FormatPostfix(postfix),
	})
}

func (s *Server) listFunctions(c *fiber.Ctx) error {
	fns := make([]fiber.Map, 0, len(stdlib.FunctionNames()))
	for _, name := range stdlib.FunctionNames() {
		fns = append(fns, fiber.Map{"name": name, "description": stdlib.Describe(name)})
	}
	consts := make([]fiber.Map, 0, len(stdlib.ConstantNames()))
	for _, name := range stdlib.ConstantNames() {
		v, _ := stdlib.Constant(name)
		consts = append(consts, fiber.Map{"name": name, "value": v, "description": stdlib.Describe(name)})
	}
	return c.JSON(fiber.Map{"functions": fns, "constants": consts})
}

// --- History Handlers ---

func (s *Server) listHistory(c *fiber.Ctx) error {
	if s.store == nil {
		return historyDisabled(c)
	}
	limit := c.QueryInt("limit", 0)
	if limit < 0 {
		return errorResponse(c, 400, "INVALID_ARGUMENT", "limit must not be negative", "")
	}
	entries, err := s.store.List(c.UserContext(), limit)
	if err != nil {
		return errorResponse(c, 500, "INTERNAL", err.Error(), "")
	}
	if entries == nil {
		entries = []*store.Entry{}
	}
	return c.JSON(fiber.Map{"entries": entries})
}

func (s *Server) getHistory(c *fiber.Ctx) error {
	if s.store == nil {
		return historyDisabled(c)
	}
	e, err := s.store.Get(c.UserContext(), c.Params("id"))
	if errors.Is(err, store.ErrNotFound) {
		return errorResponse(c, 404, "NOT_FOUND", fmt.Sprintf("history entry '%s' not found", c.Params("id")), "")
	}
	if err != nil {
		return errorResponse(c, 500, "INTERNAL", err.Error(), "")
	}
	return c.JSON(e)
}

func (s *Server) clearHistory(c *fiber.Ctx) error {
	if s.store == nil {
		return historyDisabled(c)
	}
	if err := s.store.Clear(c.UserContext()); err != nil {
		return errorResponse(c, 500, "INTERNAL", err.Error(), "")
	}
	return c.JSON(fiber.Map{})
}

func (s *Server) record(ctx context.Context, r types.Result) {
	if s.store == nil {
		return
	}
	if _, err := s.store.Add(ctx, r); err != nil {
		log.Printf("Failed to record %q in history: %v", r.Expression, err)
	}
}

// --- Helpers ---

// HTTPStatus maps an evaluation error to an HTTP status code and a
// google.rpc status name. Domain errors are well-formed input with no real
// value; everything else is malformed input.
func HTTPStatus(err error) (int, string) {
	if types.KindOf(err) == types.KindDomain {
		return 422, "OUT_OF_RANGE"
	}
	return 400, "INVALID_ARGUMENT"
}

func evalErrorResponse(c *fiber.Ctx, err error) error {
	code, status := HTTPStatus(err)
	return errorResponse(c, code, status, err.Error(), types.KindOf(err))
}

func historyDisabled(c *fiber.Ctx) error {
	return errorResponse(c, 412, "FAILED_PRECONDITION", "history is disabled", "")
}

func errorResponse(c *fiber.Ctx, code int, status, message string, kind types.ErrorKind) error {
	body := fiber.Map{
		"code":    code,
		"message": message,
		"status":  status,
	}
	if kind != "" {
		body["kind"] = kind
	}
	return c.Status(code).JSON(fiber.Map{"error": body})
}

func tokensToJSON(tokens []expr.Token) []fiber.Map {
	out := make([]fiber.Map, len(tokens))
	for i, t := range tokens {
		out[i] = fiber.Map{
			"type": strings.ToLower(t.Type.String()),
			"text": t.String(),
			"pos":  t.Pos,
		}
	}
	return out
}
