package contracts

import "github.com/julienschmidt/httprouter"

// Handler is implemented by every domain handler so the application
// can assemble them onto one router.
type Handler interface {
	RegisterRoutes(router *httprouter.Router)
}
