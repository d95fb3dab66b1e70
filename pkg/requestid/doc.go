// Package requestid attaches a correlation id to every HTTP request.
//
// Middleware keeps a client supplied X-Request-ID when it is short and made of
// [a-zA-Z0-9_-] only, and otherwise generates a UUID. The id is stored in the
// request context, echoed in the response header and can be added to log
// records through LoggerExtractor:
//
//	log := logger.New(logger.WithContextExtractors(requestid.LoggerExtractor()))
package requestid
