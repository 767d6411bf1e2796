// Package registry provides a generic thread-safe registry for named values,
// and the step registry that binds definition documents to step functions.
//
// # Basic Usage
//
//	steps := registry.NewSteps()
//	steps.Register("charge", chargeCard)
//	steps.Register("ship", shipOrder)
//
//	fn, err := steps.Lookup("charge")
//	if errors.Is(err, registry.ErrNotRegistered) {
//	    // unknown step name
//	}
//
// # Thread Safety
//
// All Registry methods are safe for concurrent use. Range iterates over a
// snapshot in key order, so the callback may mutate the registry.
package registry
