package logging

import (
	"go.uber.org/zap"
)

// New returns a production logger for the "production" environment and a
// development logger otherwise.
func New(environment string) (*zap.Logger, error) {
	if environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
