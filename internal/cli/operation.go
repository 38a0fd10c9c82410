package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shaiso/Cloudlet/internal/catalog"
	"github.com/shaiso/Cloudlet/internal/config"
	"github.com/shaiso/Cloudlet/internal/invoke"
	"github.com/shaiso/Cloudlet/internal/mq"
)

// Env — зависимости команд. Замыкания вызываются уже после парсинга
// PersistentFlags, поэтому видят итоговые настройки.
type Env struct {
	Settings  func() *config.Settings
	Backend   func(ctx context.Context) (invoke.Backend, func(), error)
	Output    func() *Output
	Logger    func() *slog.Logger
	Confirmer func() invoke.Confirmer
}

// Command — операция, из которой строится cobra-команда.
type Command interface {
	// Path — путь команды: сервис, тип ресурса, действие.
	Path() []string

	// Build создаёт листовую команду.
	Build(env *Env) (*cobra.Command, error)
}

// Op оборачивает операцию в Command.
func Op[Req, Resp any](op *invoke.Operation[Req, Resp]) Command {
	return &opCommand[Req, Resp]{op: op}
}

type opCommand[Req, Resp any] struct {
	op *invoke.Operation[Req, Resp]
}

func (c *opCommand[Req, Resp]) Path() []string {
	return strings.Fields(c.op.Command)
}

func (c *opCommand[Req, Resp]) Build(env *Env) (*cobra.Command, error) {
	op := c.op
	if err := op.Validate(); err != nil {
		return nil, err
	}
	infos, err := op.Params()
	if err != nil {
		return nil, err
	}

	path := c.Path()
	cmd := &cobra.Command{
		Use:   path[len(path)-1],
		Short: fmt.Sprintf("Invoke %s", op.Action),
		Args:  cobra.MaximumNArgs(1),
	}

	params, err := bindParams(cmd.Flags(), infos)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op.Command, err)
	}
	if pf := params.positional(); pf != nil {
		cmd.Use += fmt.Sprintf(" [%s]", pf.flag)
	} else {
		cmd.Args = cobra.NoArgs
	}

	var (
		selectExpr string
		passThru   bool
		force      bool
		noAuto     bool
	)
	flags := cmd.Flags()
	flags.StringVar(&selectExpr, "select", "",
		"Output projection: '*' for the whole response, a field path, '^Param' to echo a parameter")
	if op.PassThru != "" {
		flags.BoolVar(&passThru, "pass-thru", false, "Return the value of "+op.PassThru)
		flags.MarkDeprecated("pass-thru", "use --select '^"+op.PassThru+"' instead")
	}
	if op.Mutating {
		flags.BoolVar(&force, "force", false, "Skip confirmation")
	}
	if op.Paginated() {
		flags.BoolVar(&noAuto, "no-auto-iteration", false, "Fetch a single page and print the next token")
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			if err := params.setPositional(cmd.Flags(), args[0]); err != nil {
				return err
			}
		}
		values, err := params.collect(cmd.Flags())
		if err != nil {
			return err
		}

		inv := &invoke.Invocation{
			Params:          values,
			Select:          selectExpr,
			SelectSet:       cmd.Flags().Changed("select"),
			PassThru:        passThru,
			Force:           force,
			NoAutoIteration: noAuto,
		}
		return c.run(cmd.Context(), env, inv)
	}
	return cmd, nil
}

// run выполняет операцию и печатает результат.
func (c *opCommand[Req, Resp]) run(ctx context.Context, env *Env, inv *invoke.Invocation) error {
	op := c.op
	logger := env.Logger()
	settings := env.Settings()

	title := op.Service
	if svc, err := catalog.Default().Lookup(op.Service); err == nil {
		title = svc.Title
	}
	logger.Debug("invoking operation",
		"service", title,
		"action", op.Action,
		"transport", settings.Transport,
		"endpoint", endpointOf(settings),
	)

	backend, closeFn, err := env.Backend(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	rt := invoke.Runtime{Backend: backend, Confirmer: env.Confirmer(), Logger: logger}
	out := env.Output()

	if op.Paginated() {
		return c.paginate(ctx, rt, out, inv)
	}

	result, err := invoke.Invoke(ctx, rt, op, inv)
	if err != nil {
		return err
	}
	warn(out, result.Warnings)
	if result.Empty() {
		return nil
	}
	if result.Err != nil {
		return result.Err
	}
	if result.Payload != nil {
		out.Value(result.Payload)
	}
	return nil
}

func (c *opCommand[Req, Resp]) paginate(ctx context.Context, rt invoke.Runtime, out *Output, inv *invoke.Invocation) error {
	summary, err := invoke.Paginate(ctx, rt, c.op, inv, func(page *invoke.Envelope) error {
		warn(out, page.Warnings)
		if page.Err == nil && page.Payload != nil {
			out.Value(page.Payload)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if summary.Manual && summary.NextToken != "" {
		out.Success(fmt.Sprintf("NextToken: %s (pass --%s to fetch the next page)",
			summary.NextToken, FlagName(c.op.TokenParam)))
	}
	if summary.Echo != nil {
		out.Value(summary.Echo)
	}
	return summary.Err
}

func warn(out *Output, warnings []string) {
	for _, w := range warnings {
		out.Warn(w)
	}
}

// endpointOf — адрес backend'а для логов. Пароль AMQP скрыт.
func endpointOf(s *config.Settings) string {
	if s.Transport == config.TransportAMQP {
		return mq.RedactURL(s.AMQPURL)
	}
	return s.Endpoint
}
