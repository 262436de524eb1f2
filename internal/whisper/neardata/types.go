package neardata

import (
	"net/http"
	"time"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// Metrics records upstream requests. outcome is one of the Outcome constants.
	Metrics interface {
		Observe(operation, outcome string, started time.Time)
	}
	// Doer sends HTTP requests. *http.Client satisfies it.
	Doer interface {
		Do(req *http.Request) (*http.Response, error)
	}
)
