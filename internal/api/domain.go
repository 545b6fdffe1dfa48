package api

import (
	"github.com/lumenlabs/lumen/internal/analyses"
	"github.com/lumenlabs/lumen/internal/products"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Analyses analyses.System
	Products products.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	analysesSystem := analyses.New(
		runtime.Database.Connection(),
		runtime.Storage,
		runtime.Pipeline,
		runtime.Logger,
		runtime.Pagination,
	)

	productsSystem := products.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	return &Domain{
		Analyses: analysesSystem,
		Products: productsSystem,
	}
}
