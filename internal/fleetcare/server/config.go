package server

import "github.com/autopeer-io/fleetcare/pkg/options"

type Config struct {
	HttpOptions *options.HttpOptions
	GrpcOptions *options.GrpcOptions
}
