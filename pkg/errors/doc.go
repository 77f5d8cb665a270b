// Package errors provides structured error types for the resolution engine
// and its HTTP and CLI surfaces.
//
// Every failure the engine reports carries an ErrorCode so callers can react
// programmatically (for example, the server maps codes to HTTP statuses):
//
//	err := errors.NewWithContext(
//	    errors.ErrCodeUnknownVariant,
//	    "variant is not declared by package",
//	    map[string]any{
//	        "package": "boutpp",
//	        "variant": "petssc",
//	    },
//	)
//
//	if errors.IsCode(err, errors.ErrCodeUnknownVariant) {
//	    // ...
//	}
package errors
