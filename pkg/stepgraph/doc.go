/*
Package stepgraph runs workflows built from named activities and choices.

# Overview

A workflow is a flat list of Tasks. An activity does some work and hands
its output to the task named by Then. A choice runs a step whose output,
formatted with fmt.Sprint, picks one of its keyed branches. An activity may
also carry catch rules: when its step fails, the first rule whose pattern
matches the error message decides where the run goes next.

Every hand-off is recorded as a Transition, so a Result shows exactly which
path a run took, including how it started and ended.

# Basic Usage

Build nodes and link them, then run:

	charge := stepgraph.NewActivity("charge", chargeCard)
	ship := stepgraph.NewActivity("ship", shipOrder)
	notify := stepgraph.NewActivity("notify", notifyCustomer)

	charge.Then(ship).Catch("*declined*", notify)

	result, err := stepgraph.Run(ctx, stepgraph.Flatten(charge), order)
	if err != nil {
	    log.Fatal(err)
	}
	fmt.Println(result.Path()) // [charge ship]

Or wire tasks by name, which allows forward references:

	tasks, err := stepgraph.NewGraph().
	    AddActivity("charge", chargeCard).
	    AddActivity("ship", shipOrder).
	    Then("charge", "ship").
	    Compile()

# Catch Patterns

Patterns use a single wildcard at either end:

	"Timeout"      exact match
	"Timeout*"     prefix
	"*Timeout"     suffix
	"*Timeout*"    substring
	"*"            anything

The caught step's successor receives a CatchInput carrying the pattern and
the error. Use Fail to return an error described by a plain string.

# Choices

A choice forwards its own input to the chosen branch, not its output:

	route := stepgraph.NewChoice("route", func(ctx stepgraph.Context, in any) (any, error) {
	    return in.(Order).Region, nil
	}).When("eu", euShipping).When("us", usShipping)

# Shared Vars

Every step of a run sees the same Vars map through ctx.Vars(). Seed it with
WithVars; the caller's map is copied first. Result.Vars holds the final
contents.

# Errors

Run returns a *WorkflowError for every failed run, together with a partial
Result. Use errors.Is with ErrNoCatchRoute, ErrNoMatchingCatch,
ErrTaskNotFound, ErrUnmappedChoice, ErrNoStartTask or ErrNoStepFunc to
classify it. Structural errors are never routed through catch rules.

# Observability

Logging, OpenTelemetry metrics and tracing are opt-in:

	result, err := stepgraph.Run(ctx, tasks, input,
	    stepgraph.WithLogger(logger),
	    stepgraph.WithMetrics(true),
	    stepgraph.WithTracing(true))

Runs can be archived for later rendering with WithArchive; see the archive
and diagram packages.
*/
package stepgraph
