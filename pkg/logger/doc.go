// Package logger builds *slog.Logger values for the registration form service.
//
// New takes functional options for the level, output format, destination and
// static attributes. Attributes can also be pulled from context.Context on
// every record through ContextExtractor callbacks, which is how the form server
// stamps each line with the form session id.
//
//	log := logger.New(
//	    logger.WithEnvironment("production", "regform"),
//	    logger.WithContextValue("form_id", formIDKey{}),
//	)
//	log.InfoContext(ctx, "form submitted", logger.Field("email"))
//
// Attribute helpers in attr.go keep key names consistent. Error and Errors
// return an empty attribute for nil errors, so they can be passed without a
// nil check. Discard returns a logger that drops everything and is the default
// for library types that accept an optional logger.
package logger
