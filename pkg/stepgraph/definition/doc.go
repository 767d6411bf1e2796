// Package definition reads workflow graphs from YAML or JSON documents.
//
// A document names its tasks and wires them by name:
//
//	name: order-fulfilment
//	start: validate
//	tasks:
//	  - name: validate
//	    type: activity
//	    fn: validate-order
//	    then: route
//	    catch:
//	      - pattern: "*invalid*"
//	        then: reject
//	  - name: route
//	    type: choice
//	    expr: "total > 100"
//	    choices:
//	      - key: "true"
//	        then: review
//	      - key: "false"
//	        then: ship
//
// An empty or omitted then means END. Step functions are bound by name from
// a registry.Steps when the document is built:
//
//	doc, err := definition.Load("order.yaml")
//	steps := registry.NewSteps()
//	steps.Register("validate-order", validateOrder)
//	tasks, err := doc.Build(steps)
//
// Build(nil) leaves every Fn nil, which is enough to render or lint a graph.
package definition
