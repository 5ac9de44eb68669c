package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

const (
	// HeaderName is the response header echoing the request id.
	HeaderName = "X-Ray-ID"
	// LocalsKey is the fiber locals key read by logger.WithRayID.
	LocalsKey = "ray_id"
)

// New creates the middleware assigning a ray id to every request.
// An incoming X-Ray-ID header is reused so that callers can correlate retries.
func New() fiber.Handler {
	return requestid.New(requestid.Config{
		Header:     HeaderName,
		Generator:  uuid.NewString,
		ContextKey: LocalsKey,
	})
}

// FromContext returns the ray id of the request, if any.
func FromContext(c *fiber.Ctx) string {
	id, _ := c.Locals(LocalsKey).(string)
	return id
}
