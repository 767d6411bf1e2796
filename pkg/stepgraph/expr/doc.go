/*
Package expr provides a small condition language for choice tasks.

# Expression Syntax

	<expr> := <expr> 'or' <expr>
	        | <expr> 'and' <expr>
	        | 'not' <expr>
	        | '!' <expr>
	        | <value> <op> <value>
	        | <value>

	<op>    := '==' | '!=' | '<' | '>' | '<=' | '>=' | 'contains' | 'like'
	<value> := 'string' | "string" | number | true | false | null | path

"or" binds looser than "and". There are no parentheses.

# Operators

	==, !=     string comparison of both sides
	<, >, ...  numeric comparison
	contains   substring test
	like       catch-pattern match: err like '*timeout*'

# Values

Quoted strings, numbers, booleans and null are literals. Other words are
looked up in vars; dots walk into nested maps:

	vars := map[string]any{"order": map[string]any{"total": 120}}
	ok, _ := expr.Eval("order.total > 100", vars) // true

# Choice Steps

ChoiceStep turns an expression into a stepgraph.StepFunc whose output is
"true" or "false", for use as a choice:

	check := stepgraph.NewChoice("check", expr.ChoiceStep("status == 'paid'")).
	    When("true", ship).
	    When("false", remind)

# Truthiness

A lone value is true unless it is nil, false, "", or numeric zero.
*/
package expr
