package modifier

import "net/http"

// Modifier modifies a request before it is sent, e.g. to attach
// authorization headers.
type Modifier interface {
	Modify(req *http.Request) error
}
